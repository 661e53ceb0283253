package sshexec

import "context"

// FakeResult scripts the outcome of one Run call.
type FakeResult struct {
	Stdout string
	Stderr string
	Err    error
}

// FakeDownload records one Download call.
type FakeDownload struct {
	Remote string
	Local  string
}

// FakeRunner is an in-memory Runner for unit tests. Every call is recorded.
// Outcomes come from RunFunc when set, otherwise from the Results queue in
// order, otherwise empty success.
type FakeRunner struct {
	Commands  []Command
	Downloads []FakeDownload

	Results []FakeResult
	RunFunc func(ctx context.Context, cmd Command) (string, string, error)

	DownloadErr  error
	DownloadFunc func(remote, local string) error
}

func NewFake() *FakeRunner {
	return &FakeRunner{}
}

func (f *FakeRunner) Run(ctx context.Context, cmd Command) (string, string, error) {
	f.Commands = append(f.Commands, cmd)
	if f.RunFunc != nil {
		return f.RunFunc(ctx, cmd)
	}
	if len(f.Results) > 0 {
		res := f.Results[0]
		f.Results = f.Results[1:]
		return res.Stdout, res.Stderr, res.Err
	}
	return "", "", nil
}

func (f *FakeRunner) Download(_ context.Context, remotePath, localPath string) error {
	f.Downloads = append(f.Downloads, FakeDownload{Remote: remotePath, Local: localPath})
	if f.DownloadFunc != nil {
		return f.DownloadFunc(remotePath, localPath)
	}
	return f.DownloadErr
}

// LastCommand returns the most recent Run call, or a zero Command when none
// happened.
func (f *FakeRunner) LastCommand() Command {
	if len(f.Commands) == 0 {
		return Command{}
	}
	return f.Commands[len(f.Commands)-1]
}
