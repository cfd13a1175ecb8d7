package main

import (
	"fmt"

	"timely/cmd/timely/chat"
	"timely/internal/config"
	"timely/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runInteractiveChat starts the full-screen chat and live-reloads settings
// from the config file while it runs.
func runInteractiveChat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	observer := chat.NewObserver()
	client, err := newClient(observer)
	if err != nil {
		return err
	}
	if cfg.UI.ShowWelcome {
		client.ShowWelcome()
	}

	model := chat.New(ctx, client, observer, chat.Config{
		Energy:          cfg.Energy(),
		Personality:     cfg.Personality(),
		Theme:           cfg.UI.Theme,
		DefaultDuration: cfg.Tasks.DefaultDuration,
		ToastDuration:   cfg.GetToastDuration(),
		ShowTasks:       true,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	log := logging.Get(logging.CategoryConfig)
	prev := cfg
	watcher, err := config.NewWatcher(configPath, func(c *config.Config) {
		if err := applyFlagOverrides(cmd, c); err != nil {
			log.Warn("reloaded config rejected", zap.Error(err))
			return
		}
		msg, changed := settingsChange(prev, c)
		prev = c
		if changed {
			p.Send(msg)
		}
	})
	if err != nil {
		log.Warn("config watcher unavailable", zap.Error(err))
	} else if err := watcher.Start(ctx); err != nil {
		log.Warn("config watcher unavailable", zap.Error(err))
	} else {
		defer watcher.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat exited: %w", err)
	}
	return nil
}

// settingsChange reports the chat settings that differ between two loads.
// Unchanged fields stay empty so runtime /energy and /mode choices survive
// edits to unrelated keys.
func settingsChange(prev, next *config.Config) (chat.SettingsMsg, bool) {
	var msg chat.SettingsMsg
	if next.Assistant.Energy != prev.Assistant.Energy {
		msg.Energy = next.Energy()
	}
	if next.Assistant.Personality != prev.Assistant.Personality {
		msg.Personality = next.Personality()
	}
	if next.UI.Theme != prev.UI.Theme {
		msg.Theme = next.UI.Theme
	}
	return msg, msg != chat.SettingsMsg{}
}
