package agent

import "fmt"

// ConfigurationError means the run could not start: no credential, no tools
// selected, or a tool selection referencing something not registered. It is
// raised before the loop runs and shown to the user directly.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ParsingError means the model's output matched neither a tool call nor a
// final answer. It is recovered inside the loop by corrective re-prompting
// and only becomes visible if the parse budget runs out.
type ParsingError struct {
	Output string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("could not parse model output: %.80q", e.Output)
}

// ToolInvocationError means a tool's network call failed. There is no retry;
// it aborts the loop and the caller substitutes a fallback answer.
type ToolInvocationError struct {
	Tool string
	Err  error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}
