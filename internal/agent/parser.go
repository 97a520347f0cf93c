package agent

import (
	"regexp"
	"strings"
)

// decision is one parsed model output: either a tool call or a final answer,
// always with the leading thought text.
type decision struct {
	thought     string
	action      string
	actionInput string
	finalAnswer string
	isFinal     bool
}

var actionPattern = regexp.MustCompile(`(?s)Action\s*\d*\s*:\s*(.*?)\s*Action\s*\d*\s*Input\s*\d*\s*:\s*(.*)`)

// parseOutput interprets raw model output against the step grammar. Output
// that fits neither shape is a ParsingError, which the loop recovers from.
func parseOutput(raw string) (decision, error) {
	out := raw

	// Models sometimes hallucinate an Observation for a tool they never
	// ran; everything from the first one onward is discarded.
	if idx := strings.Index(out, "Observation:"); idx >= 0 {
		out = out[:idx]
	}

	hasFinal := strings.Contains(out, "Final Answer:")
	actionMatch := actionPattern.FindStringSubmatch(out)

	switch {
	case hasFinal && actionMatch != nil:
		// Ambiguous output: both a tool call and a final answer.
		return decision{}, &ParsingError{Output: raw}
	case hasFinal:
		idx := strings.Index(out, "Final Answer:")
		return decision{
			thought:     cleanThought(out[:idx]),
			finalAnswer: strings.TrimSpace(out[idx+len("Final Answer:"):]),
			isFinal:     true,
		}, nil
	case actionMatch != nil:
		actionIdx := actionPattern.FindStringIndex(out)
		return decision{
			thought:     cleanThought(out[:actionIdx[0]]),
			action:      strings.TrimSpace(actionMatch[1]),
			actionInput: unquote(strings.TrimSpace(firstLine(actionMatch[2]))),
		}, nil
	default:
		return decision{}, &ParsingError{Output: raw}
	}
}

func cleanThought(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Thought:")
	return strings.TrimSpace(s)
}

// firstLine keeps an action input to its own line; trailing chatter after a
// newline is not part of the query.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
