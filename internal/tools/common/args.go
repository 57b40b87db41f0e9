package common

import (
	"fmt"
	"math"
)

// Argument extraction helpers shared by the tool packages. MCP tool
// arguments arrive as map[string]interface{} decoded from JSON, so numbers
// are float64 and optional values may be absent entirely.

// StringArg extracts an optional string argument. Returns "" when absent.
func StringArg(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}

// RequiredStringArg extracts a required, non-empty string argument.
func RequiredStringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	if s == "" {
		return "", fmt.Errorf("%s cannot be empty", name)
	}
	return s, nil
}

// IntArg extracts an optional integer argument with a default. JSON numbers
// decode as float64; fractional values are rejected.
func IntArg(args map[string]interface{}, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return int(f), nil
}

// BoolArg extracts an optional boolean argument with a default.
func BoolArg(args map[string]interface{}, name string, def bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}
