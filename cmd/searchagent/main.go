package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/agent"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/gateway"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/session"
)

// AskOptions for running the ask command with custom dependencies
type AskOptions struct {
	RunnerFactory gateway.RunnerFactory
	Stdin         io.Reader
	Stdout        io.Writer
	Stderr        io.Writer
}

var rootCmd = &cobra.Command{
	Use:   "searchagent",
	Short: "searchagent - tool-using search assistant",
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question in single message or REPL mode",
	RunE:  runAsk,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway (web UI and Telegram channels)",
	RunE:  runServe,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show searchagent status",
	RunE:  runStatus,
}

var messageFlag string

func init() {
	askCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Single question to ask")
	rootCmd.AddCommand(askCmd, serveCmd, onboardCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runAsk is the command handler that uses default options
func runAsk(cmd *cobra.Command, args []string) error {
	return runAskWithOptions(AskOptions{})
}

// runAskWithOptions runs a question loop with injectable dependencies for testing
func runAskWithOptions(opts AskOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	factory := opts.RunnerFactory
	if factory == nil {
		factory = gateway.DefaultRunnerFactory
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	ctx := context.Background()

	ask := func(question string) error {
		runner, err := factory(cfg, func(s agent.Step) {
			fmt.Fprintf(stdout, "  [%s] %s\n", s.Tool, s.ToolInput)
			if s.Thought != "" {
				fmt.Fprintf(stdout, "    thought: %s\n", s.Thought)
			}
		})
		if err != nil {
			return err
		}

		start := time.Now()
		answer, _, err := runner.Run(ctx, question)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, answer)
		fmt.Fprintf(stdout, "Search completed in %.2fs\n", time.Since(start).Seconds())
		return nil
	}

	// Single question mode
	if messageFlag != "" {
		return ask(messageFlag)
	}

	// REPL mode
	fmt.Fprintln(stdout, session.Greeting)
	fmt.Fprintln(stdout, "(type 'exit' to quit)")
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		if err := ask(input); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("API key not set. Run 'searchagent onboard' or set GROQ_API_KEY / SEARCHAGENT_API_KEY")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	return gw.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(cfgPath, data, 0644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set your API key\n", cfgPath)
	fmt.Println("  2. Or set GROQ_API_KEY environment variable")
	fmt.Println("  3. Run 'searchagent ask -m \"What is machine learning?\"' to test")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Model: %s\n", cfg.Agent.Model)
	fmt.Printf("Provider: %s\n", providerDisplay(cfg.Provider.Type))
	fmt.Printf("API Key: %s\n", maskKey(cfg.Provider.APIKey))
	fmt.Printf("Temperature: %.2f  MaxTokens: %d  MaxIterations: %d\n",
		cfg.Agent.Temperature, cfg.Agent.MaxTokens, cfg.Agent.MaxIterations)
	fmt.Printf("Tools: web=%v arxiv=%v wikipedia=%v\n",
		cfg.Tools.WebSearch, cfg.Tools.Arxiv, cfg.Tools.Wikipedia)
	fmt.Printf("WebUI: enabled=%v port=%d\n", cfg.Channels.WebUI.Enabled, cfg.Gateway.Port)
	fmt.Printf("Telegram: enabled=%v\n", cfg.Channels.Telegram.Enabled)

	return nil
}

func providerDisplay(t string) string {
	if t == "" {
		return "groq (default)"
	}
	return t
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "not set"
	case len(key) > 8:
		return key[:4] + "..." + key[len(key)-4:]
	default:
		return "set"
	}
}
