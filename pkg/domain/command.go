package domain

// ExitUnknown is the exit code reported when the process never produced one
// (spawn failure, timeout, cancellation).
const ExitUnknown = -1

// CommandResult is the outcome of a single process execution.
type CommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// OK reports whether the process exited with code 0.
func (r CommandResult) OK() bool {
	return r.ExitCode == 0
}

// InvokeResult is the normalized outcome of one agent invocation.
type InvokeResult struct {
	Text         string `json:"text"`
	Succeeded    bool   `json:"succeeded"`
	ErrorMessage string `json:"error,omitempty"`
}
