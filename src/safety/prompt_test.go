package safety_test

import (
	"bytes"
	"strings"
	"testing"

	"wp-backup/src/safety"
)

func TestConfirmAutoYes(t *testing.T) {
	var out bytes.Buffer
	ok, err := safety.Confirm(safety.Options{Yes: true}, strings.NewReader(""), &out, "delete 2 artifacts?")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected auto-yes to confirm")
	}
	if out.Len() != 0 {
		t.Fatalf("auto-yes still prompted: %q", out.String())
	}
}

func TestConfirmDryRun(t *testing.T) {
	var out bytes.Buffer
	ok, err := safety.Confirm(safety.Options{DryRun: true}, strings.NewReader("y\n"), &out, "delete 2 artifacts?")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected dry-run to decline")
	}
}

func TestConfirmUserInput(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"No\n", false},
		{"\n", false},
		{"", false},
	}
	for _, c := range cases {
		var out bytes.Buffer
		got, err := safety.Confirm(safety.Options{}, strings.NewReader(c.in), &out, "delete old backups?")
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("input %q: got %v want %v", c.in, got, c.want)
		}
		if !strings.Contains(out.String(), "delete old backups?") {
			t.Fatalf("prompt missing question; got %q", out.String())
		}
	}
}
