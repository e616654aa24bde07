// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals where the TUI is unwelcome
// (dumb terminals, screen readers, ssh through hostile multiplexers).
//
// Command: chat
//
// Interactive commands (during chat):
//
//	/new          Start a new conversation
//	/close        Close the current conversation
//	/history      List past conversations
//	/help         Show available commands
//	/quit, /q     Exit chat
//	Ctrl+D        Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	replyLabelStyle = lipgloss.NewStyle().
			Foreground(styles.TealDeep).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
)

// historyFileName stores the liner input history under ~/.medchat.
const historyFileName = "cli_history"

// HandleChat runs the line-mode chat REPL.
func HandleChat(args *Args) {
	env, err := Setup(args)
	if err != nil {
		Fail(err)
	}
	env.RequireAuth()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := loadInputHistory(line)
	defer saveInputHistory(line, histPath)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	if !args.Quiet {
		fmt.Println(infoStyle.Render("medchat line mode - /help for commands, Ctrl+D to exit"))
		fmt.Println(infoStyle.Render("Not a substitute for professional medical advice."))
	}

	for {
		input, err := line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue // Ctrl+C clears the line, Ctrl+D exits
			}
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := handleChatCommand(env, input); quit {
				return
			}
			continue
		}

		reply, err := env.Client.SendMessage(context.Background(), input)
		if err != nil {
			if api.IsUnauthorized(err) {
				fmt.Println(styles.RenderError("Session expired. Run 'medchat login' and try again."))
				return
			}
			fmt.Println(styles.RenderError(api.UserMessage(err)))
			continue
		}

		fmt.Println(replyLabelStyle.Render("assistant>"))
		fmt.Println(renderReply(renderer, reply))
	}
}

// handleChatCommand executes a slash command; returns true to exit.
func handleChatCommand(env *Env, input string) bool {
	cmd := strings.Fields(input)[0]
	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render("/new  /close  /history  /quit"))

	case "/new":
		id, err := env.Client.NewChat(context.Background())
		if err != nil {
			fmt.Println(styles.RenderError(api.UserMessage(err)))
			return false
		}
		fmt.Println(styles.RenderSuccess("Started conversation " + id))

	case "/close":
		// No id means the backend closes its most recent open conversation.
		if err := env.Client.CloseChat(context.Background(), ""); err != nil {
			fmt.Println(styles.RenderError(api.UserMessage(err)))
			return false
		}
		fmt.Println(styles.RenderSuccess("Conversation closed"))

	case "/history":
		sessions, err := env.Client.History(context.Background())
		if err != nil {
			fmt.Println(styles.RenderError(api.UserMessage(err)))
			return false
		}
		for _, s := range sessions {
			fmt.Printf("%-12s %s  %s\n", s.ID, s.Timestamp.Format("2006-01-02 15:04"), s.Title())
		}

	default:
		fmt.Println(styles.RenderWarning("Unknown command " + cmd + " (try /help)"))
	}
	return false
}

func renderReply(renderer *glamour.TermRenderer, reply string) string {
	if renderer == nil {
		return reply
	}
	out, err := renderer.Render(reply)
	if err != nil {
		return reply
	}
	return strings.TrimRight(out, "\n")
}

func loadInputHistory(line *liner.State) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".medchat", historyFileName)
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return path
}

func saveInputHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	os.MkdirAll(filepath.Dir(path), 0755)
	if f, err := os.Create(path); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}
