package version

// Version is the release string reported by the version command. Release
// builds override it with -ldflags "-X wp-backup/src/version.Version=...".
var Version = "dev"

// Commit is the VCS revision the binary was built from, when known.
var Commit = "unknown"
