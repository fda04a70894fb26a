package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports that a payload does not describe a valid household.
//
// Reason names the rule that failed. It is meant for logs; callers at the
// HTTP boundary expose a single uniform message regardless of Reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil || e.Reason == "" {
		return "invalid household"
	}
	return "invalid household: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateHousehold decodes raw JSON and validates it as a household.
// Unknown keys are ignored and do not appear in the result.
func ValidateHousehold(raw []byte) (Household, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Household{}, invalid("empty payload")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Household{}, invalid("malformed json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Household{}, invalid("trailing data after json value")
	}
	return ParseHousehold(v)
}

// ParseHousehold validates an already-decoded payload (as produced by
// encoding/json into an `any`, with or without UseNumber).
//
// Rules are applied in order and the first failure wins:
// required keys, non-empty members, each member, then income.
func ParseHousehold(v any) (Household, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Household{}, invalid("payload must be an object")
	}
	rawIncome, hasIncome := obj["income"]
	rawMembers, hasMembers := obj["members"]
	if !hasIncome || !hasMembers {
		return Household{}, invalid("income and members are required")
	}

	list, ok := rawMembers.([]any)
	if !ok {
		return Household{}, invalid("members must be an array")
	}
	if len(list) == 0 {
		return Household{}, invalid("members must not be empty")
	}

	members := make([]Member, 0, len(list))
	for i, rm := range list {
		m, err := parseMember(rm)
		if err != nil {
			return Household{}, invalid("members[%d]: %s", i, reasonOf(err))
		}
		members = append(members, m)
	}

	income, err := coerceFloat(rawIncome)
	if err != nil {
		return Household{}, invalid("income: %s", reasonOf(err))
	}
	if income < 0 {
		return Household{}, invalid("income must be non-negative")
	}

	return Household{Income: income, Members: members}, nil
}

func parseMember(v any) (Member, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Member{}, invalid("must be an object")
	}
	rawAge, ok := obj["age"]
	if !ok {
		return Member{}, invalid("age is required")
	}
	age, err := coerceInt(rawAge)
	if err != nil {
		return Member{}, invalid("age: %s", reasonOf(err))
	}
	if age < 0 {
		return Member{}, invalid("age must be non-negative")
	}

	rawGender, ok := obj["gender"]
	if !ok {
		return Member{}, invalid("gender is required")
	}
	s, ok := rawGender.(string)
	if !ok {
		return Member{}, invalid("gender must be a string")
	}
	g := Gender(s)
	if !g.Valid() {
		return Member{}, invalid("gender %q is not one of male, female", s)
	}
	return Member{Age: age, Gender: g}, nil
}

func coerceInt(v any) (int, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return intFromInt64(n)
		}
		f, err := t.Float64()
		if err != nil {
			return 0, invalid("not a number")
		}
		return intFromFloat(f)
	case float64:
		return intFromFloat(t)
	case int:
		return t, nil
	case int64:
		return intFromInt64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, invalid("%q is not an integer", t)
		}
		return intFromInt64(n)
	default:
		return 0, invalid("must be an integer")
	}
}

func intFromInt64(n int64) (int, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, invalid("out of range")
	}
	return int(n), nil
}

func intFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalid("must be an integer")
	}
	return intFromInt64(int64(f))
}

func coerceFloat(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, invalid("not a number")
		}
		f = n
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, invalid("%q is not a number", t)
		}
		f = n
	default:
		return 0, invalid("must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid("must be finite")
	}
	return f, nil
}

func reasonOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return err.Error()
}
