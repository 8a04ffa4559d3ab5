package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physiofit/physiofit/config"
	"physiofit/physiofit/controllers"
	"physiofit/physiofit/middlewares"
	"physiofit/physiofit/routes"
	"physiofit/physiofit/services/identity"
	"physiofit/physiofit/services/llm"
	"physiofit/physiofit/utils/logging"
	"physiofit/physiofit/views"

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

	renderer, err := views.New()
	if err != nil {
		logging.ErrorLogger.Error("template error", zap.Error(err))
		os.Exit(1)
	}

	idp := identity.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, 10*time.Second)
	ollama := llm.NewOllamaClient(cfg.InferenceURL, cfg.ModelID, cfg.InferenceTimeout())

	handler := routes.NewRouter(routes.Deps{
		Pages: routes.PageDeps{
			Auth:         controllers.NewAuthController(idp),
			Pain:         controllers.NewPainController(cfg.BodyParts),
			Views:        renderer,
			CookieSecure: cfg.CookieSecure,
			LoginPath:    cfg.LoginPath,
		},
		Chat:    controllers.NewChatController(ollama, cfg.ChatAllowedRoles, cfg.ChatMaxHistory),
		Health:  controllers.NewHealthController(cfg.ModelID),
		Session: idp,
		Gate: middlewares.GateConfig{
			ProtectedPrefixes: cfg.ProtectedPrefixes,
			LoginPath:         cfg.LoginPath,
			CookieSecure:      cfg.CookieSecure,
		},
		Timeout:      cfg.ServerTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening",
			zap.String("addr", cfg.Addr),
			zap.String("model", cfg.ModelID),
			zap.Strings("protected", cfg.ProtectedPrefixes))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
		return
	}
	logging.AppLogger.Info("server shutdown complete")
}
