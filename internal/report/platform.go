package report

import (
	"runtime"
	"strings"
)

// HostInfo describes the machine the report is produced on.
type HostInfo struct {
	GOOS    string // runtime.GOOS style name; "win32" is accepted too
	Type    string // e.g. "Linux", "Darwin", "Windows_NT"
	Release string // kernel release; may be empty
}

// DefaultHost returns the HostInfo of the running process.
func DefaultHost() HostInfo {
	return HostInfo{
		GOOS:    runtime.GOOS,
		Type:    osType(runtime.GOOS),
		Release: osRelease(),
	}
}

// PlatformLabel maps an operating system name to its report label.
func PlatformLabel(goos string) string {
	switch goos {
	case "darwin":
		return "osx"
	case "windows", "win32":
		return "windows"
	default:
		return "linux"
	}
}

// OSVersion returns "<os type> <os release>".
func (h HostInfo) OSVersion() string {
	return strings.TrimSpace(h.Type + " " + h.Release)
}

// osType mirrors the names reported by uname, with Windows reported as
// "Windows_NT".
func osType(goos string) string {
	switch goos {
	case "windows":
		return "Windows_NT"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	default:
		return goos
	}
}

// browserLabel upper-cases the first letter of name.
func browserLabel(name string) string {
	if name == "" {
		return ""
	}
	r := []rune(name)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
