// Package args converts raw command-line values into the types check
// programs work with. The literal "none" (any case) stands for an absent
// value, so textual configuration can switch a threshold off.
package args

import (
	"strconv"
	"strings"

	"github.com/xuenqlve/checkkit/errors"
)

var ErrInvalidArgument = errors.NewErrorMessage(errors.ErrCodeInvalidArgument, "invalid argument")

func IsNone(arg string) bool {
	return strings.EqualFold(arg, "none")
}

// CSV splits arg on commas and trims each item.
func CSV(arg string) []string {
	items := strings.Split(arg, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

func StrOrNone(arg string) *string {
	if IsNone(arg) {
		return nil
	}
	return &arg
}

// RangeOrNone returns a threshold specification, or nil for "none".
func RangeOrNone(arg string) *string {
	return StrOrNone(arg)
}

func IntOrNone(arg string) (*int64, error) {
	if IsNone(arg) {
		return nil, nil
	}
	i, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, errors.Annotatef(ErrInvalidArgument, "%q is not an integer: %v", arg, err)
	}
	return &i, nil
}

func FloatOrNone(arg string) (*float64, error) {
	if IsNone(arg) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return nil, errors.Annotatef(ErrInvalidArgument, "%q is not a number: %v", arg, err)
	}
	return &f, nil
}
