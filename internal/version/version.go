// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/ndewijer/Broker-Document-Importer/internal/version.Version=...".
package version

var Version = "dev"
