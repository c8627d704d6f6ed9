package provision

import (
	"fmt"
	"strings"

	"github.com/bloghouse/tatame/internal/util"
)

// Step is one named unit of the WordOps install sequence. Progress is the
// percentage reported when the step starts; the step after it implies
// completion of everything before.
type Step struct {
	ID       string
	Name     string
	Progress int
	Command  string
}

// Target describes what to provision and where.
type Target struct {
	Host       string
	User       string
	Password   string
	KeyAuth    bool // authenticate with SSH keys; Password is ignored
	Domain     string
	AdminUser  string
	AdminEmail string
}

// Validate checks the fields the credentials form requires.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Host) == "" {
		return fmt.Errorf("host is required")
	}
	if strings.TrimSpace(t.User) == "" {
		return fmt.Errorf("username is required")
	}
	if !t.KeyAuth && strings.TrimSpace(t.Password) == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// sudoPrefix returns the privilege-escalation prefix for a target user.
// WordOps must run as root; root itself needs no sudo.
func sudoPrefix(user string) string {
	if user == "root" {
		return ""
	}
	return "sudo "
}

// Steps builds the WordOps install sequence for a target. Commands are
// idempotent where the underlying tool allows: re-running setup on a half
// provisioned server picks up where the packages left off.
func Steps(t Target) []Step {
	sudo := sudoPrefix(t.User)

	steps := []Step{
		{
			ID:       "detect",
			Name:     "Checking server OS",
			Progress: 10,
			Command:  "uname -s",
		},
		{
			ID:       "update",
			Name:     "Updating package lists",
			Progress: 15,
			Command:  sudo + "DEBIAN_FRONTEND=noninteractive apt-get update -y",
		},
		{
			ID:       "prereqs",
			Name:     "Installing prerequisites",
			Progress: 30,
			Command:  sudo + "DEBIAN_FRONTEND=noninteractive apt-get install -y wget curl git",
		},
		{
			ID:       "wordops",
			Name:     "Installing WordOps",
			Progress: 40,
			Command:  "command -v wo >/dev/null 2>&1 || { wget -qO wo wops.cc && " + sudo + "bash wo --force; }",
		},
		{
			ID:       "stack",
			Name:     "Configuring web stack",
			Progress: 65,
			Command:  sudo + "wo stack install --nginx --php --mysql --wpcli",
		},
	}

	if t.Domain != "" {
		site := sudo + "wo site create " + util.ShellQuote(t.Domain) + " --wp"
		if t.AdminUser != "" {
			site += " --user=" + util.ShellQuote(t.AdminUser)
		}
		if t.AdminEmail != "" {
			site += " --email=" + util.ShellQuote(t.AdminEmail)
		}
		steps = append(steps,
			Step{
				ID:       "site",
				Name:     "Creating WordPress site " + t.Domain,
				Progress: 85,
				Command:  site,
			},
			Step{
				ID:       "verify",
				Name:     "Verifying site",
				Progress: 95,
				Command:  sudo + "wo site info " + util.ShellQuote(t.Domain),
			},
		)
	}

	return steps
}
