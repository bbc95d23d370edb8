package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirStatus tells whether a directory exists and accepts new files.
type DirStatus struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists checks if a file or directory exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// GetAbsolutePath returns path made absolute, or "unknown" when empty.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// GetExecutableDir returns the directory of the running binary.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dir when missing and checks that a file can be
// written into it.
func CheckDirStatus(dir string) DirStatus {
	if err := EnsureDir(dir); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		return DirStatus{Error: err}
	}
	status := DirStatus{Exists: true}

	probe, err := os.CreateTemp(dir, ".write-*")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		status.Error = err
		return status
	}
	probe.Close()
	os.Remove(probe.Name())
	status.Writable = true
	return status
}
