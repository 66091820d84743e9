// Package threshold implements the Nagios/Icinga plugin range syntax used to
// decide whether a measured value is inside or outside an alerting threshold.
//
//	10       0 <= v <= 10
//	10:      v >= 10
//	~:10     v <= 10
//	10:20    10 <= v <= 20
//	@10:20   v < 10 or v > 20
//
// A specification of "none" (any case) means no constraint: it matches every
// value.
package threshold

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuenqlve/checkkit/errors"
)

const (
	none      = "none"
	invertTag = "@"
	separator = ":"
	negInf    = "~"
)

var (
	ErrInvalidRangeSyntax = errors.NewErrorMessage(errors.ErrCodeInvalidRangeSyntax, "invalid range syntax")
	ErrInvalidRangeBounds = errors.NewErrorMessage(errors.ErrCodeInvalidRangeBounds, "invalid range bounds")
)

// Range is a parsed range specification. Both bounds are inclusive.
type Range struct {
	Lower    float64
	Upper    float64
	Inverted bool
}

// IsNone reports whether spec is the textual "no constraint" marker.
func IsNone(spec string) bool {
	return strings.EqualFold(spec, none)
}

// Parse parses spec. It returns a nil Range and a nil error when spec is
// "none", which means no constraint applies.
func Parse(spec string) (*Range, error) {
	if IsNone(spec) {
		return nil, nil
	}
	text := spec
	r := &Range{}
	if strings.HasPrefix(text, invertTag) {
		r.Inverted = true
		text = text[len(invertTag):]
	}

	var start, end string
	if strings.Contains(text, separator) {
		parts := strings.Split(text, separator)
		if len(parts) != 2 {
			return nil, errors.Annotatef(ErrInvalidRangeSyntax, "%q: not using range definition correctly", spec)
		}
		start, end = parts[0], parts[1]
	} else {
		end = text
	}

	var err error
	switch start {
	case "":
		r.Lower = 0
	case negInf:
		r.Lower = math.Inf(-1)
	default:
		if r.Lower, err = parseAtom(start); err != nil {
			return nil, errors.Annotatef(ErrInvalidRangeSyntax, "%q: %v", spec, err)
		}
	}
	if end == "" {
		r.Upper = math.Inf(1)
	} else if r.Upper, err = parseAtom(end); err != nil {
		return nil, errors.Annotatef(ErrInvalidRangeSyntax, "%q: %v", spec, err)
	}

	if r.Lower > r.Upper {
		return nil, errors.Annotatef(ErrInvalidRangeBounds, "start %s must not be greater than end %s",
			formatBound(r.Lower), formatBound(r.Upper))
	}
	return r, nil
}

// parseAtom reads a float when the atom contains a dot, an integer otherwise.
// parseAtom accepts plain decimal numbers only: no hex floats and no digit
// separators, which strconv would otherwise allow.
func parseAtom(atom string) (float64, error) {
	digits := strings.TrimLeft(atom, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") || strings.Contains(atom, "_") {
		return 0, strconv.ErrSyntax
	}
	if strings.Contains(atom, ".") {
		return strconv.ParseFloat(atom, 64)
	}
	i, err := strconv.ParseInt(atom, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}

// ParseOptional is Parse for a value that may be absent. A nil spec means no
// constraint.
func ParseOptional(spec *string) (*Range, error) {
	if spec == nil {
		return nil, nil
	}
	return Parse(*spec)
}

// MustParse is like Parse but panics if spec cannot be parsed.
func MustParse(spec string) *Range {
	r, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return r
}

// Match reports whether value satisfies spec: inside the bounds for a plain
// range, outside them for an inverted one. Parse errors are returned as is.
func Match(spec string, value float64) (bool, error) {
	if IsNone(spec) {
		return true, nil
	}
	r, err := Parse(spec)
	if err != nil {
		return false, err
	}
	return r.Contains(value), nil
}

// MatchOptional is Match for a spec that may be absent. A nil spec matches
// every value.
func MatchOptional(spec *string, value float64) (bool, error) {
	if spec == nil {
		return true, nil
	}
	return Match(*spec, value)
}

// Contains reports whether value satisfies r. A nil Range matches everything.
func (r *Range) Contains(value float64) bool {
	if r == nil {
		return true
	}
	inside := value >= r.Lower && value <= r.Upper
	return inside != r.Inverted
}

// String formats r in range notation. Parse(r.String()) yields r again.
func (r Range) String() string {
	var b strings.Builder
	if r.Inverted {
		b.WriteString(invertTag)
	}
	if r.Lower != 0 {
		b.WriteString(formatBound(r.Lower))
		b.WriteString(separator)
	} else if math.IsInf(r.Upper, 1) {
		// keep the unbounded range non-empty
		b.WriteString("0" + separator)
	}
	if !math.IsInf(r.Upper, 1) {
		b.WriteString(formatBound(r.Upper))
	}
	return b.String()
}

func formatBound(f float64) string {
	switch {
	case math.IsInf(f, -1):
		return negInf
	case math.IsInf(f, 1):
		return "inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
