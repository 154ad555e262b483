// Package env reads process environment values with defaults, for the few
// spots that need a value before config is loaded.
package env

import "os"

// Get returns the named environment value, or fallback when it is unset or
// empty.
func Get(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
