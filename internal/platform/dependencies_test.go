package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestLookupBinary(t *testing.T) {
	origLook := lookPath
	defer func() { lookPath = origLook }()
	lookPath = func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", errors.New("executable file not found in $PATH")
	}

	path, err := LookupBinary("ffmpeg")
	if err != nil || path != "/usr/bin/ffmpeg" {
		t.Errorf("LookupBinary(ffmpeg) = %q, %v", path, err)
	}

	_, err = LookupBinary("ffprobe")
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("Expected ErrBinaryNotFound, got %v", err)
	}

	err = CheckDependencies("ffmpeg", "ffprobe", "mediainfo")
	if err == nil {
		t.Fatal("Expected missing dependencies")
	}
	if !strings.Contains(err.Error(), "ffprobe") || !strings.Contains(err.Error(), "mediainfo") {
		t.Errorf("Error should name every missing binary: %v", err)
	}
}

func TestInstallHint(t *testing.T) {
	for _, goos := range []string{OSDarwin, OSLinux, OSWindows, "freebsd"} {
		if hint := installHintFor(goos); hint == "" {
			t.Errorf("Empty install hint for %s", goos)
		}
	}
	if !strings.Contains(installHintFor(OSDarwin), "brew") {
		t.Error("macOS hint should mention brew")
	}
}
