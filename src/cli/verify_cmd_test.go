package cli_test

import (
	"strings"
	"testing"
	"time"

	"wp-backup/src/cli"
	"wp-backup/src/sshexec"
)

func TestVerifyCmd_Found(t *testing.T) {
	setBackupEnv(t)
	t.Setenv("BACKUP_TAG", "nightly")

	fake := sshexec.NewFake()
	stubRunner(t, fake)

	var out, errBuf strings.Builder
	cmd := cli.NewRootCmd(&out, &errBuf)
	cmd.SetArgs([]string{"verify", "--date", "2024-06-01"})
	if _, err := cmd.ExecuteC(); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	check := fake.LastCommand()
	if check.Program != "test" || check.Dir != "/srv/backups" {
		t.Fatalf("verify ran %q in %q", check.Program, check.Dir)
	}
	if got, want := check.Args[1], "2024-06-01.nightly.wp-content.zip"; got != want {
		t.Errorf("verified %q, want %q", got, want)
	}
	if !strings.Contains(out.String(), "found: 2024-06-01.nightly.wp-content.zip") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestVerifyCmd_Missing(t *testing.T) {
	setBackupEnv(t)

	fake := sshexec.NewFake()
	fake.Results = []sshexec.FakeResult{{Err: &sshexec.ExitError{Status: 1}}}
	stubRunner(t, fake)

	var out, errBuf strings.Builder
	cmd := cli.NewRootCmd(&out, &errBuf)
	cmd.SetArgs([]string{"verify", "--date", "2024-06-01"})
	_, err := cmd.ExecuteC()
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestVerifyCmd_DatabaseKind(t *testing.T) {
	setBackupEnv(t)

	fake := sshexec.NewFake()
	stubRunner(t, fake)

	var out, errBuf strings.Builder
	cmd := cli.NewRootCmd(&out, &errBuf)
	cmd.SetArgs([]string{"verify", "--date", "2024-06-01", "--kind", "database"})
	if _, err := cmd.ExecuteC(); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got, want := fake.LastCommand().Args[1], "2024-06-01.database.zip"; got != want {
		t.Errorf("verified %q, want %q", got, want)
	}
}

func TestVerifyCmd_DefaultsToToday(t *testing.T) {
	setBackupEnv(t)

	fake := sshexec.NewFake()
	stubRunner(t, fake)
	stubNow(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local))

	var out, errBuf strings.Builder
	cmd := cli.NewRootCmd(&out, &errBuf)
	cmd.SetArgs([]string{"verify"})
	if _, err := cmd.ExecuteC(); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got, want := fake.LastCommand().Args[1], "2024-01-15.wp-content.zip"; got != want {
		t.Errorf("verified %q, want %q", got, want)
	}
}

func TestVerifyCmd_RejectsBadDate(t *testing.T) {
	setBackupEnv(t)

	fake := sshexec.NewFake()
	stubRunner(t, fake)

	var out, errBuf strings.Builder
	cmd := cli.NewRootCmd(&out, &errBuf)
	cmd.SetArgs([]string{"verify", "--date", "01/15/2024"})
	if _, err := cmd.ExecuteC(); err == nil {
		t.Fatal("verify accepted a malformed date")
	}
	if len(fake.Commands) != 0 {
		t.Error("remote host was contacted with a malformed date")
	}
}
