// Package platform answers the few OS questions fzgrep cares about: which
// clipboard tool exists and whether the search root lives on a slow
// network filesystem.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Platform is the detected operating environment.
type Platform string

const (
	MacOS   Platform = "macos"
	Linux   Platform = "linux"
	WSL     Platform = "wsl"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

var (
	detectOnce sync.Once
	detected   Platform
)

// Detect returns the current platform. The result is computed once.
func Detect() Platform {
	detectOnce.Do(func() {
		detected = detect(runtime.GOOS, os.Getenv, os.ReadFile)
	})
	return detected
}

func detect(goos string, getenv func(string) string, readFile func(string) ([]byte, error)) Platform {
	switch goos {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	case "linux":
		if getenv("WSL_DISTRO_NAME") != "" {
			return WSL
		}
		if v, err := readFile("/proc/version"); err == nil && strings.Contains(strings.ToLower(string(v)), "microsoft") {
			return WSL
		}
		return Linux
	default:
		return Unknown
	}
}

func (p Platform) String() string {
	switch p {
	case MacOS:
		return "macOS"
	case Linux:
		return "Linux"
	case WSL:
		return "WSL"
	case Windows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// SlowFilesystem returns a short description when path sits on a network or
// FUSE mount where a full walk is expensive, or "" when it looks local.
// Only Linux is inspected.
func SlowFilesystem(path string) string {
	if runtime.GOOS != "linux" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	mounts, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return ""
	}
	return slowMount(abs, string(mounts))
}

// slowMount finds the longest mount point containing abs in a /proc/mounts
// listing and classifies its filesystem type.
func slowMount(abs, mounts string) string {
	var best, fsType string
	for _, line := range strings.Split(mounts, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mp := fields[1]
		inside := abs == mp || strings.HasPrefix(abs, strings.TrimSuffix(mp, "/")+"/")
		if inside && len(mp) > len(best) {
			best, fsType = mp, fields[2]
		}
	}

	switch {
	case fsType == "9p":
		return "9p mount (Windows drive under WSL)"
	case fsType == "nfs" || fsType == "nfs4":
		return "NFS mount"
	case fsType == "cifs" || fsType == "smbfs" || fsType == "smb3":
		return "SMB mount"
	case strings.HasPrefix(fsType, "fuse.sshfs"):
		return "SSHFS mount"
	default:
		return ""
	}
}
