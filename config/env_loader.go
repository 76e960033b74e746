package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// maxEnvSearchDepth is how many parent directories are searched for .env.
const maxEnvSearchDepth = 3

// LoadEnvFile loads environment variables from .env file
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("No .env file found at %s, using system environment", path)
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	log.Printf("Loaded environment variables from %s", path)
	return nil
}

// LoadDefaultEnvFile loads .env from current directory or parent directories.
// Variables already present in the environment are never overridden.
func LoadDefaultEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	path, ok := findEnvFile(dir, maxEnvSearchDepth)
	if !ok {
		log.Printf("No .env file found in current or parent directories, using system environment")
		return nil
	}
	return LoadEnvFile(path)
}

// findEnvFile walks from dir up to depth parents looking for a .env file.
func findEnvFile(dir string, depth int) (string, bool) {
	for i := 0; i <= depth; i++ {
		envPath := filepath.Join(dir, ".env")
		if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
			return envPath, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
