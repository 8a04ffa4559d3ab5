// Command-line chat with the physio coach, using the same relay semantics
// as the web panel: the history lives here and is sent whole on every turn.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"physiofit/physiofit/config"
	"physiofit/physiofit/controllers"
	"physiofit/physiofit/services/llm"
	"physiofit/physiofit/types"
	"physiofit/physiofit/utils/color"
	"physiofit/physiofit/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	args := os.Args[1:]
	if len(args) < 1 || args[0] != "chat" {
		fmt.Println("physiofit CLI usage:")
		fmt.Println("  physiofit chat [--no-color]   # talk to the coach in this terminal")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessionID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
	relay := controllers.NewChatController(
		llm.NewOllamaClient(cfg.InferenceURL, cfg.ModelID, cfg.InferenceTimeout()),
		cfg.ChatAllowedRoles, cfg.ChatMaxHistory,
	)
	logging.AppLogger.Info("cli chat started",
		zap.String("session", sessionID), zap.String("model", cfg.ModelID))

	if len(args) > 1 && args[1] == "--no-color" {
		color.Disable()
	}
	fmt.Println(color.ColorInfo(fmt.Sprintf("\nPhysio-Coach (%s) ist bereit. Session: %s", cfg.ModelID, sessionID)))
	fmt.Println(color.ColorInfo("Tippe deine Frage oder 'exit' zum Beenden."))
	fmt.Println()

	var history []types.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.ColorPrompt("du> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			fmt.Println("Bis bald!")
			break
		}
		if line == "" {
			continue
		}

		history = append(history, types.ChatMessage{Role: "user", Content: line})
		msgs := history
		resp, err := relay.Chat(logging.WithRequestID(ctx, sessionID), types.ChatRequest{Messages: &msgs})
		if err != nil {
			// keep the history consistent with what the coach has seen
			history = history[:len(history)-1]
			var re *controllers.RelayError
			if errors.As(err, &re) {
				fmt.Println(color.ColorError("Fehler: " + re.Msg))
			} else {
				fmt.Println(color.ColorError("Fehler: " + err.Error()))
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		history = append(history, types.ChatMessage{Role: "assistant", Content: resp.Reply})
		fmt.Printf("%s %s\n\n", color.ColorCoach("coach>"), resp.Reply)
	}
}
