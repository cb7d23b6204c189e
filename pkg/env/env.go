package env

import "os"

// Get returns the environment variable value, or fallback when unset or
// empty.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
