//go:build prod

package database

import (
	"log"
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's cache directory since
// sessions are disposable.
func GetDefaultDBPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Printf("Warning: Failed to get user cache dir: %v. Using fallback.", err)
		return "rmgen.db"
	}

	appDir := filepath.Join(cacheDir, "rmgen")

	err = os.MkdirAll(appDir, 0755)
	if err != nil {
		log.Printf("Warning: Failed to create app cache dir: %v. Using fallback.", err)
		return "rmgen.db"
	}

	return filepath.Join(appDir, "rmgen.db")
}

func IsDevelopment() bool {
	return false
}
