package sshexec

import (
	"fmt"
	"os"
	"strings"
)

// WriteKeyFile materializes private key material into a transient file only
// the owner can read and returns its path plus a remove function for the
// caller's cleanup guard. The material itself is never logged here or
// anywhere else.
func WriteKeyFile(material string) (string, func() error, error) {
	f, err := os.CreateTemp("", "wp-backup-key-*")
	if err != nil {
		return "", nil, fmt.Errorf("create key file: %w", err)
	}
	path := f.Name()

	remove := func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if _, err := f.WriteString(material); err != nil {
		f.Close()
		remove()
		return "", nil, fmt.Errorf("write key file: %w", err)
	}
	// OpenSSH rejects key files without a trailing newline.
	if !strings.HasSuffix(material, "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			f.Close()
			remove()
			return "", nil, fmt.Errorf("write key file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		remove()
		return "", nil, fmt.Errorf("close key file: %w", err)
	}
	return path, remove, nil
}
