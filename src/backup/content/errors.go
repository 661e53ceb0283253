package content

import "errors"

// One sentinel per fatal stage failure, so callers and tests can branch
// with errors.Is. The wrapped detail carries the remote stderr when there
// is any.
var (
	// ErrDestinationUnavailable means the destination directory could not
	// be created or entered.
	ErrDestinationUnavailable = errors.New("backup destination unavailable")

	// ErrDestinationUnverifiable means the probe write or read-back failed,
	// so nothing proves the destination is writable.
	ErrDestinationUnverifiable = errors.New("backup destination not verifiably writable")

	// ErrNoFoldersSelected means the include list filtered down to nothing.
	ErrNoFoldersSelected = errors.New("no content folders selected for backup")

	// ErrArchiveCreationFailed means the archiver could not be invoked at
	// all, as opposed to finishing with per-file complaints.
	ErrArchiveCreationFailed = errors.New("archive creation failed")

	// ErrArtifactMissing means the archive step finished but the artifact
	// is not on disk, whatever exit status the archiver reported.
	ErrArtifactMissing = errors.New("artifact missing after archive step")

	// ErrTransferFailed means the download did not complete. The remote
	// artifact is left in place when this happens.
	ErrTransferFailed = errors.New("artifact download failed")
)
