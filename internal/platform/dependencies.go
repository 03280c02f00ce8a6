package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrBinaryNotFound is returned when a required executable is missing
var ErrBinaryNotFound = errors.New("binary not found")

// LookupBinary resolves name (a bare command or a path) to an executable path
func LookupBinary(name string) (string, error) {
	path, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH. %s", ErrBinaryNotFound, name, InstallHint())
	}
	return path, nil
}

// CheckDependencies verifies that every binary in names is available
func CheckDependencies(names ...string) error {
	var errs []error
	for _, name := range names {
		if _, err := LookupBinary(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InstallHint returns platform-specific ffmpeg installation instructions
func InstallHint() string {
	return installHintFor(runtime.GOOS)
}

func installHintFor(goos string) string {
	switch goos {
	case OSDarwin:
		return "Install with: brew install ffmpeg"
	case OSLinux:
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or dnf install ffmpeg (Fedora)"
	case OSWindows:
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}
