package command

import (
	"math"
	"strconv"
	"strings"
)

// ParseBool accepts TRUE or FALSE in any case.
func ParseBool(token string) (value bool, ok bool) {
	switch strings.ToUpper(token) {
	case "TRUE":
		return true, true
	case "FALSE":
		return false, true
	default:
		return false, false
	}
}

// Bool is ParseBool returning an invalid value error for other tokens.
func Bool(token string) (bool, error) {
	value, ok := ParseBool(token)
	if !ok {
		return false, InvalidValue(token, 0, "TRUE", "FALSE")
	}
	return value, nil
}

// Int parses a base 10 integer literal.
func Int(token string) (int, error) {
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, InvalidValue(token, 0, "an integer")
	}
	return value, nil
}

// Float parses a finite decimal literal. NaN and infinities are rejected
// because they have no JSON encoding.
func Float(token string) (float64, error) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, InvalidValue(token, 0, "a number")
	}
	return value, nil
}
