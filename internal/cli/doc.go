// Package cli wires up the tatame command tree.
//
// tatame is the Blog House command line client: it provisions WordPress
// servers over SSH or through the hosted setup service, manages sites, and
// surfaces the platform's social features from the terminal.
package cli
