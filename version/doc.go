// Package version provides build version information embedding for
// streamkit.
//
// Version, git commit, and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/streamkit/version.Version=1.0.0"
//
// Unstamped builds fall back to the VCS metadata embedded by the Go
// toolchain.
package version
