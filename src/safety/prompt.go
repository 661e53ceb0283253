package safety

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Options carries the global flags that gate destructive actions.
type Options struct {
	// DryRun previews work without performing it.
	DryRun bool
	// Yes answers prompts affirmatively for unattended runs.
	Yes bool
}

// Confirm prompts before a destructive action such as pruning artifacts.
// Dry-run counts as declined with no error, so callers stop after the
// preview. Yes skips the prompt entirely. Anything but y/yes declines.
func Confirm(opts Options, in io.Reader, out io.Writer, question string) (bool, error) {
	if opts.DryRun {
		return false, nil
	}
	if opts.Yes {
		return true, nil
	}
	if out != nil {
		fmt.Fprintf(out, "%s [y/N]: ", strings.TrimSpace(question))
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	ans := strings.TrimSpace(strings.ToLower(line))
	return ans == "y" || ans == "yes", nil
}
