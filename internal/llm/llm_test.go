package llm

import (
	"context"
	"errors"
	"testing"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
)

type stubCompletions struct {
	gotParams openai.ChatCompletionNewParams
	resp      *openai.ChatCompletion
	err       error
}

func (s *stubCompletions) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	s.gotParams = params
	return s.resp, s.err
}

func TestOpenAICompleter_Complete(t *testing.T) {
	stub := &stubCompletions{
		resp: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "Final Answer: 42"}},
			},
		},
	}
	c := &openaiCompleter{completions: stub, model: "llama3-8b-8192"}

	got, err := c.Complete(context.Background(), Request{
		System:      "be helpful",
		Prompt:      "what is 6*7?",
		Temperature: 0.5,
		MaxTokens:   1024,
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "Final Answer: 42" {
		t.Errorf("got %q", got)
	}
	if string(stub.gotParams.Model) != "llama3-8b-8192" {
		t.Errorf("model = %q", stub.gotParams.Model)
	}
	if len(stub.gotParams.Messages) != 2 {
		t.Errorf("messages = %d, want system + user", len(stub.gotParams.Messages))
	}
}

func TestOpenAICompleter_NoSystemMessage(t *testing.T) {
	stub := &stubCompletions{
		resp: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	c := &openaiCompleter{completions: stub, model: "llama3-8b-8192"}

	if _, err := c.Complete(context.Background(), Request{Prompt: "hi"}); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if len(stub.gotParams.Messages) != 1 {
		t.Errorf("messages = %d, want user only", len(stub.gotParams.Messages))
	}
}

func TestOpenAICompleter_EmptyChoices(t *testing.T) {
	c := &openaiCompleter{completions: &stubCompletions{resp: &openai.ChatCompletion{}}, model: "m"}
	if _, err := c.Complete(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestOpenAICompleter_PropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	c := &openaiCompleter{completions: &stubCompletions{err: wantErr}, model: "m"}
	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

type stubMessages struct {
	gotParams anthropicsdk.MessageNewParams
	resp      *anthropicsdk.Message
	err       error
}

func (s *stubMessages) New(ctx context.Context, params anthropicsdk.MessageNewParams, opts ...anthropicoption.RequestOption) (*anthropicsdk.Message, error) {
	s.gotParams = params
	return s.resp, s.err
}

func TestAnthropicCompleter_Complete(t *testing.T) {
	stub := &stubMessages{
		resp: &anthropicsdk.Message{
			Content: []anthropicsdk.ContentBlockUnion{
				{Type: "text", Text: "part one "},
				{Type: "text", Text: "part two"},
			},
		},
	}
	c := &anthropicCompleter{msgs: stub, model: "claude-sonnet-4-5"}

	got, err := c.Complete(context.Background(), Request{
		System:    "sys",
		Prompt:    "question",
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "part one part two" {
		t.Errorf("got %q", got)
	}
	if stub.gotParams.MaxTokens != 512 {
		t.Errorf("maxTokens = %d, want 512", stub.gotParams.MaxTokens)
	}
	if len(stub.gotParams.System) != 1 {
		t.Errorf("system blocks = %d, want 1", len(stub.gotParams.System))
	}
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  bool
	}{
		{"groq default", "", "gsk-key", false},
		{"groq explicit", "groq", "gsk-key", false},
		{"openai", "openai", "sk-key", false},
		{"anthropic", "anthropic", "sk-ant", false},
		{"missing key", "", "", true},
		{"unknown provider", "cohere", "key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Provider.Type = tt.provider
			cfg.Provider.APIKey = tt.apiKey

			_, err := NewFromConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFromConfig error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
