package content

// Options adjust the tail stages of a backup run.
type Options struct {
	// Download copies the artifact to the local home directory once it is
	// verified remotely.
	Download bool

	// KeepRemote leaves the remote artifact in place after a successful
	// download. With Download false the remote copy is the only copy, so
	// it is always kept.
	KeepRemote bool

	// DryRun prints the planned commands without contacting the host.
	DryRun bool
}

// Result reports where the run left the artifact.
type Result struct {
	// ArtifactName is the bare file name, for example
	// 2024-06-01.wp-content.zip.
	ArtifactName string

	// RemoteAbsolutePath is the artifact's resolved path on the host. It
	// is set once the destination has been resolved, whether or not the
	// remote copy still exists at the end of the run.
	RemoteAbsolutePath string

	// LocalPath is the downloaded copy, empty when Download was off or
	// the run failed before the transfer.
	LocalPath string
}
