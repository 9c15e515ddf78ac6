package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/sessionstream/pkg/config"
	"github.com/go-go-golems/sessionstream/pkg/health"
	"github.com/go-go-golems/sessionstream/pkg/logging"
	"github.com/go-go-golems/sessionstream/pkg/session"
	"github.com/go-go-golems/sessionstream/pkg/ui"
)

var (
	configPath string
	serverURL  string
	logLevel   string
	logFormat  string
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if serverURL != "" {
		cfg.Server.StreamURL = serverURL
		if err := config.Validate(cfg); err != nil {
			return config.Config{}, err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open a chat session with the booking agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}

			m, err := session.NewManager(cmd.Context(), cfg.Server.StreamURL,
				session.WithBackoff(cfg.Stream.BaseDelay.Std(), cfg.Stream.MaxDelay.Std(), cfg.Stream.MaxAttempts),
				session.WithDialTimeout(cfg.Stream.DialTimeout.Std()),
			)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()
			m.Open()

			log.Info().Str("url", m.URL()).Msg("starting chat session")
			prog := tea.NewProgram(ui.New(m), tea.WithAltScreen())
			if _, err := prog.Run(); err != nil {
				return errors.Wrap(err, "run chat UI")
			}
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the backend health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			st, err := health.NewClient(cfg.Server.HTTPURL).Check(ctx)
			if err != nil {
				return errors.Wrap(err, "health check")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend status: %s\n", st.Status)
			if !st.Healthy() {
				return errors.Errorf("backend is not healthy: %s", st.Status)
			}
			return nil
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sessionstream",
		Short: "Terminal client for a conversational websocket endpoint",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "websocket endpoint, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
	rootCmd.AddCommand(newChatCmd(), newHealthCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
