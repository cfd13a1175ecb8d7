package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"timely/cmd/timely/ui"
	"timely/internal/assistant"
	"timely/internal/tasks"

	"github.com/spf13/cobra"
)

// errBackendUnavailable makes one-shot commands exit non-zero after the
// offline message has been printed.
var errBackendUnavailable = errors.New("timely backend unavailable")

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Send one chat message and print the reply",
	Long: `Sends a message to the endpoint chosen by the route table: messages that
mention planning or scheduling go to the day planner, everything else to the
next-task coach.

Example:
  timely ask "What should I do next?" --energy low -t "Write report:high:45"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Run the morning check-in",
	Args:  cobra.NoArgs,
	RunE:  runCheckin,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Ask for a plan of the day",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the Timely backend",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := newClient(&cliObserver{out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	reply := client.SubmitChatMessage(cmd.Context(), text, cfg.Energy(), cfg.Personality(), client.Tasks())
	return printReply(cmd.OutOrStdout(), reply)
}

func runCheckin(cmd *cobra.Command, args []string) error {
	client, err := newClient(&cliObserver{out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	reply := client.RequestMorningCheckin(cmd.Context(), cfg.Energy(), cfg.Personality(), client.Tasks())
	return printReply(cmd.OutOrStdout(), reply)
}

func runPlan(cmd *cobra.Command, args []string) error {
	client, err := newClient(&cliObserver{out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	reply := client.RequestDayPlan(cmd.Context(), cfg.Energy(), cfg.Personality(), client.Tasks())
	return printReply(cmd.OutOrStdout(), reply)
}

func runHealth(cmd *cobra.Command, args []string) error {
	transport := assistant.NewClient(cfg.ClientConfig(), logger)
	status, err := transport.Health(cmd.Context())

	out := cmd.OutOrStdout()
	if jsonOutput {
		result := struct {
			Connected bool                    `json:"connected"`
			Error     string                  `json:"error,omitempty"`
			Status    *assistant.HealthStatus `json:"status,omitempty"`
		}{Connected: err == nil, Status: status}
		if err != nil {
			result.Error = err.Error()
		}
		if encErr := writeJSON(out, result); encErr != nil {
			return encErr
		}
	} else if err != nil {
		fmt.Fprintf(out, "✗ %s is unreachable: %v\n", cfg.Server.BaseURL, err)
	} else {
		fmt.Fprintf(out, "✓ connected to %s (HTTP %d)\n", cfg.Server.BaseURL, status.StatusCode)
		if status.App != "" {
			fmt.Fprintf(out, "  app:      %s %s\n", status.App, status.Version)
		}
		if status.Status != "" {
			fmt.Fprintf(out, "  status:   %s\n", status.Status)
		}
		if status.Database != "" {
			fmt.Fprintf(out, "  database: %s\n", status.Database)
		}
		fmt.Fprintf(out, "  ai:       %s\n", yesNo(status.OpenAIConfigured, "configured", "not configured"))
	}

	if err != nil {
		return errBackendUnavailable
	}
	return nil
}

func printReply(out io.Writer, reply assistant.Message) error {
	if jsonOutput {
		if err := writeJSON(out, reply); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, ui.NormalizeHTML(reply.Content))
		if reply.Metadata.Tokens > 0 {
			fmt.Fprintf(out, "\n(%d tokens)\n", reply.Metadata.Tokens)
		}
	}
	if reply.Metadata.Error {
		return errBackendUnavailable
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// parseTaskFlag parses title[:priority[:minutes]]. Segments are read from
// the right so titles may contain colons.
func parseTaskFlag(raw string, defaultDuration int) (string, tasks.Priority, int, error) {
	parts := strings.Split(raw, ":")
	priority := tasks.PriorityMedium
	minutes := defaultDuration

	if len(parts) > 1 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if n <= 0 {
				return "", "", 0, fmt.Errorf("invalid --task %q: minutes must be positive", raw)
			}
			minutes = n
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) > 1 {
		if p, ok := tasks.ParsePriority(parts[len(parts)-1]); ok {
			priority = p
			parts = parts[:len(parts)-1]
		}
	}

	title := strings.TrimSpace(strings.Join(parts, ":"))
	if title == "" {
		return "", "", 0, fmt.Errorf("invalid --task %q: title is required", raw)
	}
	return title, priority, minutes, nil
}

// cliObserver prints warnings and errors to stderr.
type cliObserver struct {
	assistant.NopObserver
	out io.Writer
}

func (o *cliObserver) Notify(n assistant.Notice) {
	switch n.Level {
	case assistant.LevelError:
		fmt.Fprintf(o.out, "✗ %s\n", n.Text)
	case assistant.LevelWarning:
		fmt.Fprintf(o.out, "! %s\n", n.Text)
	}
}
