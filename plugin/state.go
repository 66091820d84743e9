// Package plugin turns measured values into check states and formats the
// line a monitoring core reads back from a check.
package plugin

import "fmt"

// State is a plugin exit code.
type State int

const (
	StateOK State = iota
	StateWarn
	StateCrit
	StateUnknown
	StateDependent
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateWarn:
		return "WARN"
	case StateCrit:
		return "CRIT"
	case StateUnknown:
		return "UNKNOWN"
	case StateDependent:
		return "DEPENDENT"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateToString decorates the state name with prefix and suffix. OK renders
// as the empty string when emptyOK is set.
func StateToString(s State, emptyOK bool, prefix, suffix string) string {
	if s == StateOK && emptyOK {
		return ""
	}
	return prefix + s.String() + suffix
}

// 严重程度: CRIT > WARN > UNKNOWN > OK，与数值大小不一致
func severity(s State) int {
	switch s {
	case StateCrit:
		return 3
	case StateWarn:
		return 2
	case StateUnknown:
		return 1
	}
	return 0
}

// Worst returns the most severe of states, or StateOK for none.
func Worst(states ...State) State {
	worst := StateOK
	for _, s := range states {
		if severity(s) > severity(worst) {
			worst = s
		}
	}
	return worst
}
