package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	AndroidCommand  = "am"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// runCommand executes an external command and waits for it.
// Tests replace it to observe which command would be launched.
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// lookPath is exec.LookPath, replaceable in tests
var lookPath = exec.LookPath

// OpenFolder opens a directory in the system file manager.
// A file path opens its containing directory.
func OpenFolder(path string) error {
	if path == "" {
		return fmt.Errorf("open folder: empty path")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	return openFolderFor(runtime.GOOS, absPath)
}

// openFolderFor dispatches by operating system
func openFolderFor(goos, dir string) error {
	switch goos {
	case OSDarwin:
		return runCommand(OpenCommand, dir)
	case OSWindows:
		return runCommand(ExplorerCommand, dir)
	case OSLinux:
		return openFolderLinux(dir)
	case OSAndroid:
		return runCommand(AndroidCommand, "start", "-a", "android.intent.action.VIEW", "-d", "file://"+dir)
	default:
		return fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// openFolderLinux tries xdg-open first and then the common file managers
func openFolderLinux(dir string) error {
	if err := runCommand(XDGOpenCommand, dir); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := lookPath(fm); err == nil {
			return runCommand(fm, dir)
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}
