package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"relaychat/backend/internal/chatview"
	"relaychat/backend/internal/client"
	"relaychat/backend/internal/config"
	"relaychat/backend/internal/tui"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the relay from the terminal",
	Long: `Start an interactive chat session against a running relay server.

Keyboard shortcuts:
  Enter        - Send message
  Ctrl+J       - Insert newline
  Esc          - Stop the response
  Alt+1..4     - Use a suggestion (empty conversation only)
  Ctrl+Y       - Pick a code block to copy (type its number, Enter for the latest)
  Ctrl+R       - Copy the latest finished reply
  Ctrl+N       - New conversation
  Ctrl+C       - Quit`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	rootCmd.Flags().String("server", "", "Relay server URL (default http://localhost:8000)")
	rootCmd.Flags().String("conversation-id", "", "Conversation id to send with each request")
	rootCmd.Flags().String("log-file", "", "Write logs to this file")

	mustBind("CHAT_SERVER_URL", "server")
	mustBind("CHAT_CONVERSATION_ID", "conversation-id")
	mustBind("CHAT_LOG_FILE", "log-file")
}

func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadClientConfig(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	closeLog, err := setupLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.ServerURL, nil)
	session := chatview.NewSession(c, cfg.ConversationID)
	slog.Info("Starting chat", "server", cfg.ServerURL, "conversation_id", session.Snapshot().ConversationID)

	p := tea.NewProgram(
		tui.New(ctx, session, c.ModelInfo),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run chat: %w", err)
	}
	return nil
}

// setupLogger sends logs to path, or discards them. The terminal belongs to
// the UI.
func setupLogger(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { _ = f.Close() }, nil
}
