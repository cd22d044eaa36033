// Package version is the single source of the application version tag.
// The tag participates in cache fingerprints, so bumping it
// invalidates every previously cached result.
package version

// Version is overridden at release time via
// -ldflags "-X github.com/droplab/droptower/internal/version.Version=...".
var Version = "1.4.0-dev"
