package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/agent"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/gateway"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/session"
)

func setupTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SEARCHAGENT_API_KEY", "test-key")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("SEARCHAGENT_BASE_URL", "")
	t.Setenv("SEARCHAGENT_MODEL", "")
	t.Setenv("SEARCHAGENT_TELEGRAM_TOKEN", "")
	t.Setenv("SEARCHAGENT_PORT", "")
}

// cliStubRunner answers every question with a fixed string and reports one
// step first.
type cliStubRunner struct {
	answer string
	step   *agent.Step
	err    error
	onStep func(agent.Step)
}

func (r *cliStubRunner) Run(ctx context.Context, question string) (string, []agent.Step, error) {
	if r.step != nil && r.onStep != nil {
		r.onStep(*r.step)
	}
	if r.err != nil {
		return "", nil, r.err
	}
	return r.answer, nil, nil
}

func stubFactory(r *cliStubRunner) gateway.RunnerFactory {
	return func(cfg *config.Config, onStep func(agent.Step)) (gateway.Runner, error) {
		r.onStep = onStep
		return r, nil
	}
}

func TestRunAsk_SingleMessage(t *testing.T) {
	setupTestEnv(t)

	messageFlag = "what is a transformer?"
	defer func() { messageFlag = "" }()

	runner := &cliStubRunner{
		answer: "A neural network architecture.",
		step:   &agent.Step{Thought: "search", Tool: "Wikipedia_Search", ToolInput: "transformer"},
	}

	var stdout bytes.Buffer
	err := runAskWithOptions(AskOptions{
		RunnerFactory: stubFactory(runner),
		Stdout:        &stdout,
	})
	if err != nil {
		t.Fatalf("runAskWithOptions: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "A neural network architecture.") {
		t.Errorf("output missing answer: %q", out)
	}
	if !strings.Contains(out, "[Wikipedia_Search] transformer") {
		t.Errorf("output missing step line: %q", out)
	}
	if !strings.Contains(out, "Search completed in") {
		t.Errorf("output missing elapsed caption: %q", out)
	}
}

func TestRunAsk_REPL(t *testing.T) {
	setupTestEnv(t)

	messageFlag = ""
	runner := &cliStubRunner{answer: "42."}

	stdin := strings.NewReader("what is the answer?\nexit\n")
	var stdout, stderr bytes.Buffer

	err := runAskWithOptions(AskOptions{
		RunnerFactory: stubFactory(runner),
		Stdin:         stdin,
		Stdout:        &stdout,
		Stderr:        &stderr,
	})
	if err != nil {
		t.Fatalf("runAskWithOptions: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, session.Greeting) {
		t.Errorf("REPL should open with the greeting: %q", out)
	}
	if !strings.Contains(out, "42.") {
		t.Errorf("output missing answer: %q", out)
	}
}

func TestRunAsk_REPL_ErrorGoesToStderr(t *testing.T) {
	setupTestEnv(t)

	messageFlag = ""
	runner := &cliStubRunner{err: fmt.Errorf("boom")}

	stdin := strings.NewReader("q\nexit\n")
	var stdout, stderr bytes.Buffer

	err := runAskWithOptions(AskOptions{
		RunnerFactory: stubFactory(runner),
		Stdin:         stdin,
		Stdout:        &stdout,
		Stderr:        &stderr,
	})
	if err != nil {
		t.Fatalf("runAskWithOptions: %v", err)
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("stderr = %q, want the runner error", stderr.String())
	}
}

func TestRunAsk_InvalidConfig(t *testing.T) {
	setupTestEnv(t)

	// An out-of-range temperature in the config file must fail validation.
	cfgDir := filepath.Join(os.Getenv("HOME"), ".searchagent")
	os.MkdirAll(cfgDir, 0755)
	os.WriteFile(filepath.Join(cfgDir, "config.json"),
		[]byte(`{"agent":{"temperature":3.5}}`), 0644)

	messageFlag = "q"
	defer func() { messageFlag = "" }()

	err := runAskWithOptions(AskOptions{
		RunnerFactory: stubFactory(&cliStubRunner{answer: "x"}),
		Stdout:        new(bytes.Buffer),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunOnboard_CreatesConfig(t *testing.T) {
	setupTestEnv(t)

	if err := runOnboard(nil, nil); err != nil {
		t.Fatalf("runOnboard: %v", err)
	}

	if _, err := os.Stat(config.ConfigPath()); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	// Second run leaves the file in place.
	if err := runOnboard(nil, nil); err != nil {
		t.Fatalf("second runOnboard: %v", err)
	}
}

func TestRunStatus(t *testing.T) {
	setupTestEnv(t)

	if err := runStatus(nil, nil); err != nil {
		t.Errorf("runStatus: %v", err)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "not set"},
		{"short", "set"},
		{"gsk_1234567890abcdef", "gsk_...cdef"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.key); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestProviderDisplay(t *testing.T) {
	if got := providerDisplay(""); got != "groq (default)" {
		t.Errorf("providerDisplay(\"\") = %q", got)
	}
	if got := providerDisplay("openai"); got != "openai" {
		t.Errorf("providerDisplay(openai) = %q", got)
	}
}
