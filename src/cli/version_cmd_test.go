package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"wp-backup/src/cli"
	"wp-backup/src/version"
)

func TestVersionCommand_PrintsVersion(t *testing.T) {
	var out, err bytes.Buffer
	cmd := cli.NewRootCmd(&out, &err)
	cmd.SetArgs([]string{"version"})

	if _, e := cmd.ExecuteC(); e != nil {
		t.Fatalf("unexpected error: %v", e)
	}
	if !strings.Contains(out.String(), version.Version) {
		t.Fatalf("expected version %q in output; got: %s", version.Version, out.String())
	}
}

func TestGlobalFlags_Present(t *testing.T) {
	cmd := cli.NewRootCmd(nil, nil)
	for _, name := range []string{"dry-run", "yes"} {
		if f := cmd.PersistentFlags().Lookup(name); f == nil {
			t.Fatalf("missing global flag --%s", name)
		}
	}
	for _, name := range []string{"no-download", "keep-remote"} {
		if f := cmd.Flags().Lookup(name); f == nil {
			t.Fatalf("missing backup flag --%s", name)
		}
	}
}
