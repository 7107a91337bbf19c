package switcher

import (
	"errors"
	"fmt"
)

// Error kinds
const (
	ErrorConfigLoad = "config_load"
	ErrorDeviceList = "device_list"
	ErrorNoDefault  = "no_default"
	ErrorNoMatch    = "no_match"
	ErrorSetDefault = "set_default"
)

// SwitchError represents a fatal failure in one stage of a switcher invocation
type SwitchError struct {
	Kind    string
	Message string
	Err     error
}

func (e *SwitchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SwitchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is a SwitchError of the given kind
func IsKind(err error, kind string) bool {
	var se *SwitchError
	if !errors.As(err, &se) {
		return false
	}
	if se.Kind == kind {
		return true
	}
	return IsKind(se.Err, kind)
}

func newSwitchError(kind string, message string, err error) *SwitchError {
	return &SwitchError{Kind: kind, Message: message, Err: err}
}

// PatternError is returned when a configured pattern fails to compile.
// Key is the config key the pattern came from and Index its position in that list.
type PatternError struct {
	Key     string
	Index   int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q in %s[%d]: %v", e.Pattern, e.Key, e.Index, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
