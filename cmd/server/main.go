package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"visually/internal/app"
	"visually/internal/config"
	"visually/internal/server"
	"visually/internal/util"
	"visually/pkg/ai"
	"visually/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init postgres store: %v", err)
	}

	var revoker store.TokenRevoker
	if cfg.RedisAddr != "" {
		revoker = store.NewRedisTokenRevoker(cfg.RedisAddr, cfg.RedisPassword)
	} else {
		slog.Warn("redisAddr not set, using in-memory token revocation (single instance only)")
		revoker = store.NewMemoryTokenRevoker()
	}
	sessions, err := store.NewJWTSessionStore(cfg.SessionSecret, sessionTTL, revoker, store.JWTOptions{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}

	accounts, err := app.NewAccounts(dataStore, sessions)
	if err != nil {
		log.Fatalf("failed to init accounts: %v", err)
	}

	client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("failed to init gemini client: %v", err)
	}
	appCore, err := app.New(app.Config{
		Client:      client,
		ImageModel:  cfg.ImageModel,
		SpeechModel: cfg.SpeechModel,
		SpeechVoice: cfg.SpeechVoice,
		StoryModel:  cfg.StoryModel,
		VideoModel:  cfg.VideoModel,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		Accounts:  accounts,
		Generator: appCore,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
