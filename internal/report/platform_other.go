//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package report

func osRelease() string {
	return ""
}
