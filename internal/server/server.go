package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"visionchat-backend/internal/chat"
	"visionchat-backend/internal/config"
	"visionchat-backend/internal/llm"
	"visionchat-backend/internal/staging"
	"visionchat-backend/internal/store"
	"visionchat-backend/internal/types"
)

const maxUploadBytes = 32 << 20

type Server struct {
	router *chi.Mux
	store  store.Store
	model  llm.Invoker
	stager *staging.Stager
	spec   *llm.ReplySpec
	cfg    config.Config
}

func NewServer(cfg config.Config, st store.Store, model llm.Invoker, stager *staging.Stager, spec *llm.ReplySpec) *Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true, // Enable credentials for cookies
		MaxAge:           300,
	}))

	s := &Server{
		router: r,
		store:  st,
		model:  model,
		stager: stager,
		spec:   spec,
		cfg:    cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/generate", s.handleGenerate)
	s.router.Get("/history", s.handleHistory)
	s.router.Post("/reset-session", s.handleReset)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleGenerate runs one full round: stage uploads, assemble the
// conversation, invoke the model, persist the new turn pair, extract the
// structured reply. Temp files are released no matter how the request ends.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	sid := getOrCreateSessionID(r, w)

	userPrompt := strings.TrimSpace(r.FormValue("user_prompt"))
	if userPrompt == "" {
		s.writeError(w, http.StatusBadRequest, "user_prompt is required")
		return
	}
	systemPrompt := r.FormValue("system_message")

	// Staged temp files are deleted whichever way the request ends.
	var tempPaths []string
	defer func() { staging.Cleanup(tempPaths) }()

	var parts []chat.ContentPart
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			if fh == nil || fh.Filename == "" {
				continue
			}
			file, err := fh.Open()
			if err != nil {
				log.Warnf("skipping upload %s: %v", fh.Filename, err)
				continue
			}
			part, path, err := s.stager.Stage(file)
			file.Close()
			if path != "" {
				tempPaths = append(tempPaths, path)
			}
			if err != nil {
				// A single bad image never fails the request.
				log.Warnf("image staging error for %s: %v", fh.Filename, err)
				continue
			}
			parts = append(parts, part)
		}
	}
	parts = append(parts, chat.TextPart(userPrompt+"\n\n"+s.spec.Instruction))
	userTurn := chat.UserTurn(parts...)

	prior, err := s.store.Load(sid)
	if err != nil {
		log.Errorf("session load failed for %s: %v", sid, err)
		s.writeError(w, http.StatusInternalServerError, "session load failed")
		return
	}
	if len(prior) == 0 && strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = s.spec.System
	}
	messages := chat.Assemble(prior, systemPrompt, userTurn)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.RequestTimeoutSeconds)*time.Second)
	defer cancel()
	reply, err := s.model.Invoke(ctx, messages)
	if err != nil {
		// No partial session update on model failure; cleanup still runs.
		log.Errorf("model invocation failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "model invocation failed")
		return
	}

	updated := messages
	updated = append(updated, chat.AssistantTurn(reply))
	if err := s.store.Save(sid, updated); err != nil {
		// The model already answered; losing the history beats losing the reply.
		log.Errorf("session save failed for %s: %v", sid, err)
	}

	extracted := llm.Extract(reply)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.GenerateResponse{
		Output:  extracted.Output,
		Summary: extracted.Summary,
	})
}

// handleHistory returns the lossy plain-text transcript of the session:
// user and assistant turns only, images rendered as placeholders.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	turns, err := s.store.Load(sid)
	if err != nil {
		log.Errorf("session load failed for %s: %v", sid, err)
		s.writeError(w, http.StatusInternalServerError, "session load failed")
		return
	}
	messages := make([]types.TranscriptMessage, 0, len(turns))
	for _, t := range turns {
		if t.Role == chat.RoleSystem {
			continue
		}
		messages = append(messages, types.TranscriptMessage{
			Role:    string(t.Role),
			Content: t.TranscriptText(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.HistoryResponse{Messages: messages})
}

// handleReset clears the caller's session. Idempotent: clearing a session
// that does not exist still reports success.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if sid := getSessionID(r); sid != "" {
		if err := s.store.Clear(sid); err != nil {
			log.Errorf("session clear failed for %s: %v", sid, err)
			s.writeError(w, http.StatusInternalServerError, "session clear failed")
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ResetResponse{Status: "session reset"})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

func newSessionID() string {
	return uuid.New().String()
}

// getSessionID retrieves the session ID from cookie or header
func getSessionID(r *http.Request) string {
	// Try cookie first
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	// Fall back to header
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	return ""
}

// getOrCreateSessionID gets existing session ID or creates a new one, setting the cookie
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = newSessionID()
		log.Debugf("creating new session %s for %s", sid, r.URL.Path)
		SetSessionCookie(w, sid)
	}
	return sid
}
