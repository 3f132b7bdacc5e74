//go:build !prod

package database

// GetDefaultDBPath returns the database path for development mode: the
// working directory, so the file is easy to inspect.
func GetDefaultDBPath() string {
	return "rmgen.db"
}

func IsDevelopment() bool {
	return true
}
