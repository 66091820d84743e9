package plugin

import (
	"github.com/xuenqlve/checkkit/errors"
	"github.com/xuenqlve/checkkit/log"
	"github.com/xuenqlve/checkkit/threshold"
	"github.com/xuenqlve/checkkit/transform"
)

// Operator compares a value against a plain numeric threshold.
type Operator string

const (
	GE Operator = "ge"
	GT Operator = "gt"
	LE Operator = "le"
	LT Operator = "lt"
	EQ Operator = "eq"
	NE Operator = "ne"
)

func (op Operator) hit(value, limit float64) (bool, bool) {
	switch op {
	case GE:
		return value >= limit, true
	case GT:
		return value > limit, true
	case LE:
		return value <= limit, true
	case LT:
		return value < limit, true
	case EQ:
		return value == limit, true
	case NE:
		return value != limit, true
	}
	return false, false
}

// GetState compares value with plain warn/crit numbers using op. Crit wins
// over warn, nil thresholds are skipped, an unknown operator yields
// StateUnknown.
func GetState(value float64, warn, crit *float64, op Operator) State {
	if _, ok := op.hit(0, 0); !ok {
		log.Warnf("unknown threshold operator %q", op)
		return StateUnknown
	}
	if crit != nil {
		if hit, _ := op.hit(value, *crit); hit {
			return StateCrit
		}
	}
	if warn != nil {
		if hit, _ := op.hit(value, *warn); hit {
			return StateWarn
		}
	}
	return StateOK
}

// EvaluateRange applies Nagios range thresholds: a value outside crit is
// CRIT, otherwise a value outside warn is WARN. A nil or "none" threshold
// never alerts.
func EvaluateRange(value float64, warn, crit *string) (State, error) {
	ok, err := threshold.MatchOptional(crit, value)
	if err != nil {
		return StateUnknown, errors.Annotate(err, "critical threshold")
	}
	if !ok {
		return StateCrit, nil
	}
	ok, err = threshold.MatchOptional(warn, value)
	if err != nil {
		return StateUnknown, errors.Annotate(err, "warning threshold")
	}
	if !ok {
		return StateWarn, nil
	}
	return StateOK, nil
}

// EvaluateValue is EvaluateRange for a loosely typed measurement, such as a
// column read from a database or a number parsed out of command output.
func EvaluateValue(value any, warn, crit *string) (State, error) {
	f, err := transform.ToFloat64(value)
	if err != nil {
		return StateUnknown, errors.Trace(err)
	}
	return EvaluateRange(f, warn, crit)
}
