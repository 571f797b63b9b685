package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
// Hosting platforms inject a bare PORT, so this sits outside the MELODEX_
// prefixed config.
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
