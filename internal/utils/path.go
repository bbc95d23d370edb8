package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appDirName = "ringserve"

// PathResolver locates word files relative to the working directory, the
// executable and the user's config directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		configDir:      getConfigDir(homeDir),
	}

	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", appDirName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appDirName)
		}
		return filepath.Join(homeDir, ".config", appDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	default:
		return filepath.Join(homeDir, "."+appDirName)
	}
}

// GetWordPath resolves a word file or chunk directory.
// Candidates, in order:
// 1. the path as given (absolute or relative to the working directory)
// 2. relative to the executable directory
// 3. inside <configDir>/data
func (pr *PathResolver) GetWordPath(userPath string) (string, error) {
	if userPath == "" {
		return "", fmt.Errorf("no word file given")
	}
	for _, path := range pr.wordPathCandidates(userPath) {
		if FileExists(path) {
			log.Debugf("Found word source: %s", path)
			return path, nil
		}
		log.Debugf("Word source candidate missing: %s", path)
	}
	return "", fmt.Errorf("word source %s: %w", userPath, os.ErrNotExist)
}

func (pr *PathResolver) wordPathCandidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}
	candidates := []string{userPath}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, userPath),
		filepath.Join(pr.configDir, "data", userPath),
	)
	return candidates
}
