package version

// Version is the version of the teamsnap CLI. It is set at build time with
// -ldflags "-X github.com/teamsnap-tools/teamsnap/internal/version.Version=...".
var Version = "0.1.0-dev"
