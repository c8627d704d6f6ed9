package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event is the closed set of messages a provisioning session can receive.
// Every variant the backend emits has a concrete type here; decoding an
// unrecognized event name is an error rather than a silent no-op.
type Event interface {
	// EventName returns the wire name of the event (without flow prefix).
	EventName() string

	sealed()
}

// Connected signals the transport reached the target host.
type Connected struct {
	Host string `json:"host"`
}

// StepStart signals a provisioning step began.
type StepStart struct {
	Step     string `json:"step"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

// StepComplete signals a provisioning step finished successfully.
type StepComplete struct {
	Step     string `json:"step"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

// StepError signals a provisioning step failed. The session is over.
type StepError struct {
	Step  string `json:"step"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Output carries a raw line of command output from the step being run.
type Output struct {
	Output string `json:"output"`
}

// SetupComplete signals the whole provisioning run succeeded.
type SetupComplete struct {
	VPSID string `json:"vpsId"`
	Host  string `json:"host"`
}

// SetupError signals the whole provisioning run failed.
type SetupError struct {
	Error string `json:"error"`
	Host  string `json:"host"`
}

func (Connected) EventName() string     { return "connected" }
func (StepStart) EventName() string     { return "stepStart" }
func (StepComplete) EventName() string  { return "stepComplete" }
func (StepError) EventName() string     { return "stepError" }
func (Output) EventName() string        { return "output" }
func (SetupComplete) EventName() string { return "setupComplete" }
func (SetupError) EventName() string    { return "setupError" }

func (Connected) sealed()     {}
func (StepStart) sealed()     {}
func (StepComplete) sealed()  {}
func (StepError) sealed()     {}
func (Output) sealed()        {}
func (SetupComplete) sealed() {}
func (SetupError) sealed()    {}

// Flow prefixes used on the wire. The full flow emits "vps:"-prefixed events
// with the complete event set; the hosted flow emits "simpleVps:"-prefixed
// events with a reduced set (connected, progress, setupComplete, setupError).
const (
	FlowVPS    = "vps"
	FlowSimple = "simpleVps"
)

// UnknownEventError is returned when a wire frame names an event that is not
// part of the known set.
type UnknownEventError struct {
	Name string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown provisioning event %q", e.Name)
}

// simpleProgress is the reduced flow's single progress event. It maps onto
// StepStart since it carries the same step/progress semantics.
type simpleProgress struct {
	Step     string `json:"step"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// Decode parses a wire event into its typed variant. The name may carry a
// flow prefix ("vps:stepStart", "simpleVps:progress"); unprefixed names are
// accepted too. The payload is the event's JSON data object.
func Decode(name string, payload []byte) (Event, error) {
	base := name
	if idx := strings.Index(name, ":"); idx != -1 {
		base = name[idx+1:]
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	switch base {
	case "connected":
		var ev Connected
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case "stepStart":
		var ev StepStart
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case "stepComplete":
		var ev StepComplete
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case "stepError":
		var ev StepError
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case "output":
		var ev Output
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case "progress":
		// Reduced-flow progress carries a human message instead of a step name.
		var sp simpleProgress
		if err := json.Unmarshal(payload, &sp); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return StepStart{Step: sp.Step, Name: sp.Message, Progress: sp.Progress}, nil
	case "setupComplete":
		var ev SetupComplete
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case "setupError":
		var ev SetupError
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	default:
		return nil, &UnknownEventError{Name: name}
	}
}
