package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timely/internal/assistant"
	"timely/internal/config"
	"timely/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	baseURL     string
	energy      string
	personality string
	taskFlags   []string
	timeout     time.Duration
	jsonOutput  bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "timely",
	Short: "Timely - AI productivity coach in your terminal",
	Long: `Timely talks to the Timely backend to help you decide what to do next,
plan your day and stay motivated.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd, cmd == cmd.Root())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/timely/config.yaml)")
	pf.StringVar(&baseURL, "base-url", "", "Backend base URL (or set TIMELY_BASE_URL)")
	pf.StringVarP(&energy, "energy", "e", "", "Energy level: low, medium, high")
	pf.StringVarP(&personality, "personality", "p", "", "Personality mode: coach, friend, strict, zen")
	pf.StringArrayVarP(&taskFlags, "task", "t", nil, "Task as title[:priority[:minutes]] (repeatable)")
	pf.DurationVar(&timeout, "timeout", 0, "Backend request timeout (default from config, 30s)")

	for _, c := range []*cobra.Command{askCmd, checkinCmd, planCmd, healthCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
		rootCmd.AddCommand(c)
	}
}

// setup loads config, applies flag overrides and initializes logging.
// The interactive chat never logs to the terminal.
func setup(cmd *cobra.Command, interactive bool) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	configPath = path

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, loaded); err != nil {
		return err
	}
	cfg = loaded

	opts := cfg.Logging.Options(interactive)
	if verbose {
		opts.Level = "debug"
	}
	logger, err = logging.Initialize(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.Get(logging.CategoryBoot).Debug("config loaded",
		zap.String("path", path),
		zap.String("base_url", cfg.Server.BaseURL),
		zap.String("energy", cfg.Assistant.Energy),
		zap.String("personality", cfg.Assistant.Personality))
	return nil
}

// applyFlagOverrides layers explicitly set flags over file and env values.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.Server.BaseURL = baseURL
	}
	if flags.Changed("energy") {
		c.Assistant.Energy = energy
	}
	if flags.Changed("personality") {
		c.Assistant.Personality = personality
	}
	if flags.Changed("timeout") {
		c.Server.Timeout = timeout.String()
	}
	return c.Validate()
}

// newClient builds the HTTP transport and a client for a fresh session.
func newClient(observer assistant.Observer) (*assistant.ChatClient, error) {
	session := assistant.NewSession()
	client := assistant.NewChatClient(
		assistant.NewClient(cfg.ClientConfig(), logging.Get(logging.CategoryAPI)),
		session,
		assistant.WithObserver(observer),
		assistant.WithLogger(logging.Get(logging.CategorySession)),
	)

	if len(taskFlags) == 0 {
		if cfg.Tasks.SeedSamples {
			client.SeedSampleTasks()
		}
		return client, nil
	}
	for _, raw := range taskFlags {
		title, priority, minutes, err := parseTaskFlag(raw, cfg.Tasks.DefaultDuration)
		if err != nil {
			return nil, err
		}
		session.Tasks().Add(title, priority, minutes)
	}
	return client, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
