// gpucost - cloud GPU pricing agent CLI
//
// Usage:
//   gpucost ask "How much does a V100 cost on AWS?"
//   gpucost interactive
//   gpucost tools
//   gpucost stats
//   gpucost config
//   gpucost serve
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/agenthands/gpucost/internal/agent"
	"github.com/agenthands/gpucost/internal/config"
	"github.com/agenthands/gpucost/internal/llm"
	"github.com/agenthands/gpucost/internal/server"
)

var version = "dev"

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "gpucost",
		Usage:   "Ask natural-language questions about cloud GPU pricing",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config/config.toml",
				Usage:   "Path to TOML config file",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Override the configured model",
				EnvVars: []string{"LLM_MODEL"},
			},
		},
		Commands: []*cli.Command{
			askCommand(),
			interactiveCommand(),
			toolsCommand(),
			statsCommand(),
			configCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if m := c.String("model"); m != "" {
		cfg.LLM.Model = m
	}
	return cfg, nil
}

// requireAPIKey rejects a missing key before any client is built, so the
// failure is a configuration message instead of a request-time error. Ollama
// needs no key.
func requireAPIKey(cfg *config.Config) error {
	if cfg.LLM.Provider == "ollama" || cfg.LLM.APIKey != "" {
		return nil
	}
	return fmt.Errorf("no API key configured for provider %q: set LLM_API_KEY or OPENAI_API_KEY in the environment or .env", cfg.LLM.Provider)
}

func buildAgent(ctx context.Context, cfg *config.Config) (*agent.Agent, error) {
	if err := requireAPIKey(cfg); err != nil {
		return nil, err
	}
	chat, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	toolset, err := server.NewToolset(ctx, cfg, embedder)
	if err != nil {
		return nil, err
	}
	return agent.New(chat, toolset, cfg.Agent.MaxTurns), nil
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask the agent a single question and exit",
		ArgsUsage: "<question>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the answer to a file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			question := c.Args().First()
			if question == "" {
				return fmt.Errorf("a question is required")
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := buildAgent(ctx, cfg)
			if err != nil {
				return err
			}
			answer, err := a.AnalyzeQuery(ctx, question)
			if err != nil {
				return err
			}

			if out := c.String("output"); out != "" {
				content := fmt.Sprintf("Question: %s\n\nAnswer:\n%s\n", question, answer)
				if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
					return err
				}
				fmt.Printf("Answer saved to: %s\n", out)
				return nil
			}
			fmt.Println(answer)
			return nil
		},
	}
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "interactive",
		Usage: "Start an interactive question session with the agent",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := buildAgent(ctx, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Agent ready (model: %s)\n", cfg.LLM.Model)
			return runInteractive(ctx, a, os.Stdin, os.Stdout)
		},
	}
}

// runInteractive reads questions line by line and answers each one. The
// session ends on quit/exit/q or end of input. A failed question is reported
// and the loop keeps going.
func runInteractive(ctx context.Context, a *agent.Agent, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Type 'quit' or 'exit' to end the session.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		answer, err := a.AnalyzeQuery(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAgent: %s\n\n", answer)
	}
	return scanner.Err()
}

func toolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "Print the tool registry schema",
		Action: func(c *cli.Context) error {
			out, err := json.MarshalIndent(agent.Registry(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show data component statistics",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx := context.Background()
			var embedder llm.EmbedderClient
			if cfg.LLM.APIKey != "" {
				_, embedder, _ = llm.NewClient(ctx, cfg.LLM)
			}
			toolset, err := server.NewToolset(ctx, cfg, embedder)
			if err != nil {
				return err
			}

			stats, err := toolset.Knowledge.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Catalog records:  %d\n", toolset.Catalog.Len())
			fmt.Printf("Knowledge store:  %s\n", stats.StoreIdentifier)
			fmt.Printf("Documents:        %d\n", stats.DocumentCount)
			fmt.Printf("Tools registered: %d\n", len(agent.Registry()))
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective configuration",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			printConfig(cfg, os.Stdout)
			return nil
		},
	}
}

// printConfig reports the effective configuration without secrets: key
// presence only, never the key itself.
func printConfig(cfg *config.Config, out io.Writer) {
	fmt.Fprintf(out, "Provider:          %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "Model:             %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "Embedding model:   %s\n", cfg.LLM.EmbeddingModel)
	fmt.Fprintf(out, "API key set:       %s\n", yesNo(cfg.LLM.APIKey != ""))
	fmt.Fprintf(out, "Server port:       %s\n", cfg.Server.Port)
	fmt.Fprintf(out, "Knowledge backend: %s\n", cfg.Knowledge.Backend)
	fmt.Fprintf(out, "Collection:        %s\n", cfg.Knowledge.Collection)
	fmt.Fprintf(out, "Max agent turns:   %d\n", cfg.Agent.MaxTurns)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			srv := server.NewServer(cfg)
			log.Printf("Starting server on port %s", cfg.Server.Port)
			return srv.SetupRouter().Run(":" + cfg.Server.Port)
		},
	}
}
