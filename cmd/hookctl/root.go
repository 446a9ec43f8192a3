package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	dispatch "github.com/arlenner/agent-hooks-go"
	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/config"
	"github.com/arlenner/agent-hooks-go/internal/schema"
)

var (
	flagProject  string
	flagSettings string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "hookctl",
	Short: "Inspect and exercise hook configurations",
	Long: "\nhookctl loads layered hook settings (user, project, project-local),\n" +
		"validates them, prints their JSON Schema, and fires events against the\n" +
		"configured handlers for testing. Logs go to stderr; command output goes\n" +
		"to stdout.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", ".", "project directory to load settings and scripts from")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "explicit settings file (overrides the default search paths)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "logging level (debug, info, warn, error)")

	rootCmd.AddCommand(listCmd, validateCmd, schemaCmd, fireCmd)

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("hookctl version {{.Version}}\n")
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfigs() ([]hook.Config, error) {
	paths := config.DefaultPaths(flagProject)
	if flagSettings != "" {
		paths = []string{flagSettings}
	}
	doc, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	configs := doc.HookConfigs()
	configs = append(configs, config.DiscoverScripts(flagProject)...)
	return configs, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured handlers",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := loadConfigs()
		if err != nil {
			return err
		}
		if len(configs) == 0 {
			fmt.Println("no handlers configured")
			return nil
		}
		for _, c := range configs {
			state := "enabled"
			if c.Disabled {
				state = "disabled"
			}
			events := make([]string, len(c.Matcher.Events))
			for i, e := range c.Matcher.Events {
				events[i] = string(e)
			}
			fmt.Printf("%-30s %-8s p=%-4d %-8s %s\n",
				c.Name, c.Kind, c.Priority, state, strings.Join(events, ","))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the merged settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := loadConfigs()
		if err != nil {
			return err
		}
		if err := hook.ValidateSet(configs); err != nil {
			return err
		}
		fmt.Printf("ok: %d handlers\n", len(configs))
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the settings file JSON Schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := schema.Settings()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var fireCmd = &cobra.Command{
	Use:   "fire <event>",
	Short: "Fire an event against the configured handlers",
	Long: "\nFire reads an event payload as JSON from stdin (or --data), dispatches\n" +
		"it to every matching handler, and prints the collected verdicts as JSON.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := loadConfigs()
		if err != nil {
			return err
		}

		data := json.RawMessage(`{}`)
		if flagFireData != "" {
			data = json.RawMessage(flagFireData)
		} else if stat, _ := os.Stdin.Stat(); stat != nil && stat.Mode()&os.ModeCharDevice == 0 {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if len(raw) > 0 {
				data = raw
			}
		}
		if !json.Valid(data) {
			return fmt.Errorf("payload is not valid JSON")
		}

		opts := []dispatch.Option{
			dispatch.WithLogger(newLogger()),
			dispatch.WithWorkDir(flagProject),
		}
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			opts = append(opts, dispatch.WithProvider(dispatch.NewAnthropicProvider()))
		}
		m, err := dispatch.New(configs, opts...)
		if err != nil {
			return err
		}

		verdicts := m.Emit(cmd.Context(), hook.Event(args[0]), data)
		out, err := json.MarshalIndent(verdicts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var flagFireData string

func init() {
	fireCmd.Flags().StringVar(&flagFireData, "data", "", "event payload as a JSON string (default: read stdin)")
}
