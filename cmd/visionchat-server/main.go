package main

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"visionchat-backend/internal/config"
	"visionchat-backend/internal/db"
	"visionchat-backend/internal/llm"
	"visionchat-backend/internal/server"
	"visionchat-backend/internal/staging"
	"visionchat-backend/internal/store"
)

func main() {
	cfg := config.Load()

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}

	stager, err := staging.New(cfg.TempUploadDir)
	if err != nil {
		log.Fatalf("failed to initialize image staging: %v", err)
	}

	spec, err := llm.LoadReplySpec(cfg.ReplyPromptFile)
	if err != nil {
		log.Fatalf("failed to load reply prompt spec: %v", err)
	}
	temperature := cfg.Temperature
	if spec.Style.Temperature > 0 {
		temperature = spec.Style.Temperature
	}
	maxTokens := cfg.MaxTokens
	if spec.Style.MaxTokens > 0 {
		maxTokens = spec.Style.MaxTokens
	}
	model := llm.NewClient(cfg.OpenAIAPIKey, cfg.Model, temperature, maxTokens)

	s := server.NewServer(cfg, st, model, stager, spec)
	addr := ":" + cfg.Port
	fmt.Printf("visionchat server listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}

func newStore(cfg config.Config) (store.Store, error) {
	switch cfg.SessionBackend {
	case "", "memory":
		return store.NewMemoryStore(cfg.SessionMaxTurns), nil
	case "file":
		return store.NewFileStore(cfg.SessionDir)
	case "redis":
		ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
		rs := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
		if err := rs.Ping(); err != nil {
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.RedisAddr, err)
		}
		log.Infof("redis session store connected (%s)", cfg.RedisAddr)
		return rs, nil
	case "postgres":
		database, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(); err != nil {
			database.Close()
			return nil, err
		}
		log.Info("postgres session store connected")
		return store.NewDatabaseStore(database), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
