// Package agent implements a bounded ReAct-style reasoning loop: the model
// alternates thoughts and tool calls until it produces a final answer or the
// iteration budget forces a best-effort synthesis.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/llm"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/tools"
)

// Step is one thought/tool-call/observation unit. Steps exist for live
// display only; nothing outside a run retains them.
type Step struct {
	Thought     string `json:"thought"`
	Tool        string `json:"tool"`
	ToolInput   string `json:"toolInput"`
	Observation string `json:"observation"`
}

// Options configures one Agent.
type Options struct {
	Completer     llm.Completer
	Registry      *tools.Registry
	MaxIterations int
	Temperature   float64
	MaxTokens     int

	// OnStep receives each step as it is produced, synchronously from
	// inside the loop. Display only; it must not influence the run.
	OnStep func(Step)
}

// Agent runs the reasoning loop. One Agent serves one run configuration;
// the tool registry and budgets are fixed at construction.
type Agent struct {
	completer     llm.Completer
	registry      *tools.Registry
	maxIterations int
	temperature   float64
	maxTokens     int
	onStep        func(Step)
}

// New validates the run configuration and builds an Agent. An empty tool
// selection or missing completer is a ConfigurationError: the loop never
// starts.
func New(opts Options) (*Agent, error) {
	if opts.Completer == nil {
		return nil, &ConfigurationError{Reason: "no model credential supplied"}
	}
	if opts.Registry == nil || opts.Registry.Len() == 0 {
		return nil, &ConfigurationError{Reason: "no search tool selected"}
	}
	if opts.MaxIterations <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("maxIterations must be positive, got %d", opts.MaxIterations)}
	}
	return &Agent{
		completer:     opts.Completer,
		registry:      opts.Registry,
		maxIterations: opts.MaxIterations,
		temperature:   opts.Temperature,
		maxTokens:     opts.MaxTokens,
		onStep:        opts.OnStep,
	}, nil
}

// Run answers one question. It returns the final answer and the steps taken.
// Tool calls happen strictly one at a time in model order, with no caching:
// a repeated identical search repeats the network cost.
func (a *Agent) Run(ctx context.Context, question string) (string, []Step, error) {
	sys := buildSystemPrompt(a.registry)

	var steps []Step
	var scratchpad strings.Builder
	iterations := 0
	parseFailures := 0

	for iterations < a.maxIterations {
		out, err := a.complete(ctx, sys, buildUserPrompt(question, scratchpad.String()))
		if err != nil {
			return "", steps, fmt.Errorf("model completion: %w", err)
		}

		dec, perr := parseOutput(out)
		if perr != nil {
			// Recoverable: re-prompt with a correction instead of
			// aborting. Parse failures have their own budget so a
			// stuck model cannot loop forever.
			parseFailures++
			log.Printf("[agent] unparsable model output (%d): %v", parseFailures, perr)
			if parseFailures >= a.maxIterations {
				break
			}
			scratchpad.WriteString(correctiveEntry(out, a.registry.Names()))
			continue
		}

		if dec.isFinal {
			return dec.finalAnswer, steps, nil
		}

		tool, lerr := a.registry.Lookup(dec.action)
		if lerr != nil {
			// The registry is closed for the run; an unknown name gets
			// a corrective observation, never a silent no-op.
			parseFailures++
			log.Printf("[agent] model chose unregistered tool %q", dec.action)
			if parseFailures >= a.maxIterations {
				break
			}
			scratchpad.WriteString(unknownToolEntry(dec.action, a.registry.Names()))
			continue
		}

		observation, ierr := tool.Invoke(ctx, dec.actionInput)
		if ierr != nil {
			return "", steps, &ToolInvocationError{Tool: tool.Name(), Err: ierr}
		}
		observation = tools.Truncate(observation, tool.ResultLimit())

		step := Step{
			Thought:     dec.thought,
			Tool:        tool.Name(),
			ToolInput:   dec.actionInput,
			Observation: observation,
		}
		steps = append(steps, step)
		if a.onStep != nil {
			a.onStep(step)
		}
		scratchpad.WriteString(scratchpadEntry(step))
		iterations++
	}

	// Budget exhausted without a clean final answer: force one last
	// synthesis from whatever was observed, with tool use disabled.
	log.Printf("[agent] budget exhausted after %d tool calls, forcing synthesis", iterations)
	return a.synthesize(ctx, question, scratchpad.String(), steps)
}

func (a *Agent) complete(ctx context.Context, system, prompt string) (string, error) {
	return a.completer.Complete(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
}

func (a *Agent) synthesize(ctx context.Context, question, scratchpad string, steps []Step) (string, []Step, error) {
	out, err := a.complete(ctx, systemPreamble, buildSynthesisPrompt(question, scratchpad))
	if err == nil {
		if idx := strings.Index(out, "Final Answer:"); idx >= 0 {
			out = out[idx+len("Final Answer:"):]
		}
		if answer := strings.TrimSpace(out); answer != "" {
			return answer, steps, nil
		}
	} else {
		log.Printf("[agent] synthesis completion failed: %v", err)
	}
	return budgetExhaustedAnswer(steps), steps, nil
}

// budgetExhaustedAnswer is the fallback when even the synthesis call fails:
// state the limit and cite what was learned.
func budgetExhaustedAnswer(steps []Step) string {
	var sb strings.Builder
	sb.WriteString("I couldn't determine a complete answer within the allowed number of searches.")
	if len(steps) == 0 {
		sb.WriteString(" No useful information was gathered.")
		return sb.String()
	}
	sb.WriteString(" Here is what I learned:\n")
	for _, s := range steps {
		fmt.Fprintf(&sb, "- %s(%s): %s\n", s.Tool, s.ToolInput, tools.Truncate(s.Observation, 200))
	}
	return strings.TrimRight(sb.String(), "\n")
}
