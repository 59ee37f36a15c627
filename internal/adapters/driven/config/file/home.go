package file

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the alignpro home directory.
const HomeEnv = "ALIGNPRO_HOME"

// HomeDir returns the alignpro base directory: $ALIGNPRO_HOME when set,
// otherwise ~/.alignpro.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".alignpro"), nil
}

// ModelsDir returns the default models directory inside the home directory.
func ModelsDir(home string) string {
	return filepath.Join(home, "models")
}

// DataDir returns the default data directory inside the home directory.
func DataDir(home string) string {
	return filepath.Join(home, "data")
}
