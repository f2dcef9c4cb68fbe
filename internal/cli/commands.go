package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/spf13/cobra"

	"stock-research/internal/agents"
	"stock-research/internal/config"
	"stock-research/internal/history"
	"stock-research/internal/tools"
)

const version = "1.0.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "stock-research",
		Short: "Stock research tools and agent",
		Long: `stock-research exposes market data, fundamentals, sentiment, technical
analysis, macro indicators and brokerage tools, either individually or
through an interactive research agent.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newToolsCmd(cfg))
	rootCmd.AddCommand(newInvokeCmd(cfg))
	rootCmd.AddCommand(newChatCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// newToolsCmd lists the registered tools.
func newToolsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available research tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := newDeps(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			for _, t := range tools.All(deps) {
				info, err := t.Info(ctx)
				if err != nil {
					return fmt.Errorf("tool info: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", info.Name, info.Desc)
			}
			return nil
		},
	}
}

// newInvokeCmd runs a single tool with JSON arguments.
func newInvokeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke [TOOL]",
		Short: "Invoke a single tool directly",
		Long: `Invoke one tool by name with JSON arguments and print its JSON output.
Example: stock-research invoke get_quote --args '{"ticker":"AAPL"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawArgs, _ := cmd.Flags().GetString("args")
			if rawArgs == "" {
				rawArgs = "{}"
			}
			if !json.Valid([]byte(rawArgs)) {
				return fmt.Errorf("--args is not valid JSON")
			}

			deps, cleanup, err := newDeps(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return invokeTool(cmd.Context(), cmd, deps, args[0], rawArgs)
		},
	}

	cmd.Flags().String("args", "{}", "Tool arguments as a JSON object")
	return cmd
}

func invokeTool(ctx context.Context, cmd *cobra.Command, deps *tools.Deps, name, rawArgs string) error {
	var names []string
	for _, t := range tools.All(deps) {
		info, err := t.Info(ctx)
		if err != nil {
			return fmt.Errorf("tool info: %w", err)
		}
		if info.Name != name {
			names = append(names, info.Name)
			continue
		}

		invokable, ok := t.(tool.InvokableTool)
		if !ok {
			return fmt.Errorf("tool %s is not invokable", name)
		}
		out, err := invokable.InvokableRun(ctx, rawArgs)
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	}

	sort.Strings(names)
	return fmt.Errorf("unknown tool %q, available: %s", name, strings.Join(names, ", "))
}

func printJSON(cmd *cobra.Command, raw string) error {
	var pretty map[string]any
	if err := json.Unmarshal([]byte(raw), &pretty); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), raw)
		return nil
	}
	formatted, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(formatted))
	return nil
}

// newChatCmd starts the interactive research agent.
func newChatCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the research agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := newDeps(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			agent, err := agents.NewResearchAgent(ctx, cfg, deps)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			return runChat(ctx, cmd, agent, store)
		},
	}
}

func runChat(ctx context.Context, cmd *cobra.Command, agent *agents.ResearchAgent, store *history.Store) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Stock research agent. Type 'exit' to quit.")

	sessionID := history.NewSessionID()
	seq := 0
	record := func(role, content string) {
		seq++
		err := store.AppendMessage(ctx, history.Message{
			SessionID: sessionID,
			Role:      role,
			Content:   content,
			Seq:       seq,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "history: %v\n", err)
		}
	}

	var messages []*schema.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		if seq == 0 {
			if err := store.StartSession(ctx, sessionID, line); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "history: %v\n", err)
			}
		}

		messages = append(messages, schema.UserMessage(line))
		record("user", line)

		reply, err := agent.Generate(ctx, messages)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		messages = append(messages, reply)
		record("assistant", reply.Content)
		fmt.Fprintln(out, reply.Content)
	}
}

// newHistoryCmd lists and shows stored chat sessions.
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored chat sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.ListSessions(cmd.Context(), 50)
			if err != nil {
				return err
			}
			for _, sess := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sess.ID, sess.Title)
			}
			return nil
		},
	}

	historyCmd.AddCommand(&cobra.Command{
		Use:   "show [SESSION]",
		Short: "Show a stored session's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			messages, err := store.Messages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, msg := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", msg.Role, msg.Content)
			}
			return nil
		},
	})

	return historyCmd
}

// newConfigCmd shows the active configuration.
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd, cfg)
		},
	})

	return configCmd
}

func showConfig(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Alpha Vantage configured: %v\n", cfg.AlphaVantageAPIKey != "")
	fmt.Fprintf(out, "Finnhub configured:       %v\n", cfg.FinnhubAPIKey != "")
	fmt.Fprintf(out, "Alpaca configured:        %v\n", cfg.AlpacaConfigured())
	fmt.Fprintf(out, "Paper trading:            %v\n", cfg.AlpacaPaper)
	fmt.Fprintf(out, "Agent model:              %s\n", cfg.AgentModel)
	fmt.Fprintf(out, "Cache database:           %s\n", cfg.CacheDBPath)
	fmt.Fprintf(out, "Max order value:          %.2f\n", cfg.MaxOrderValue)
	fmt.Fprintf(out, "Max position size:        %.2f\n", cfg.MaxPositionSize)
	if len(cfg.AllowedSymbols) > 0 {
		fmt.Fprintf(out, "Allowed symbols:          %s\n", strings.Join(cfg.AllowedSymbols, ", "))
	} else {
		fmt.Fprintf(out, "Allowed symbols:          all\n")
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stock-research v%s\n", version)
		},
	}
}
