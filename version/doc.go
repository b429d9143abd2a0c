// Package version reports the build of the jolt command.
//
// Version, commit, branch and build time are stamped at link time and
// fall back to the VCS data the Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/jolt/version.Version=1.0.0" ./cmd/jolt
package version
