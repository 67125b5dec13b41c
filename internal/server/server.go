package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"visually/internal/app"
	"visually/internal/util"
	"visually/pkg/auth"
	"visually/pkg/domain"
)

const (
	minImagePromptLength   = 10
	minLogoPromptLength    = 3
	minFaviconPromptLength = 3
	maxGenerationCount     = 10
)

// Generator is the generation surface the handlers depend on. *app.App
// implements it; tests substitute fakes.
type Generator interface {
	GenerateImages(ctx context.Context, prompt string, count int) ([]string, error)
	GenerateLogos(ctx context.Context, prompt string, count int) ([]string, error)
	GenerateFavicons(ctx context.Context, prompt string, count int) ([]string, error)
	GenerateVideo(ctx context.Context, prompt string) (string, error)
	GenerateSpeech(ctx context.Context, prompt string) (string, error)
	GenerateStory(ctx context.Context, prompt string) (domain.Story, error)
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	Accounts  *app.Accounts
	Generator Generator
}

// Server exposes the HTTP endpoints for the backend.
type Server struct {
	accounts  *app.Accounts
	generator Generator
	mux       *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.Accounts == nil {
		return nil, fmt.Errorf("accounts service required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator required")
	}
	s := &Server{
		accounts:  cfg.Accounts,
		generator: cfg.Generator,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.Handle("/api/users/me", s.authenticated(s.handleMe))

	// generation (auth required)
	s.mux.Handle("/api/generate/image", s.authenticated(s.handleGenerateImage))
	s.mux.Handle("/api/generate/logo", s.authenticated(s.handleGenerateLogo))
	s.mux.Handle("/api/generate/favicon", s.authenticated(s.handleGenerateFavicon))
	s.mux.Handle("/api/generate/video", s.authenticated(s.handleGenerateVideo))
	s.mux.Handle("/api/generate/speech", s.authenticated(s.handleGenerateSpeech))
	s.mux.Handle("/api/generate/story", s.authenticated(s.handleGenerateStory))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrapper
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, ok, err := s.accounts.UserByToken(token)
		if err != nil {
			util.LoggerFromContext(r.Context()).Error("session lookup failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

// auth handlers
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req signupRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.accounts.SignUp(req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.accounts.Login(req.Email, req.Password)
	if err != nil {
		writeAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.accounts.Logout(token); err != nil {
		util.LoggerFromContext(r.Context()).Error("logout failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// generation handlers
//
// Each handler validates the raw prompt and count, invokes the matching
// generator, and maps any failure to a static user-facing message. The
// underlying cause is only logged.

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request, _ domain.User) {
	s.handleBatchGeneration(w, r, "image", minImagePromptLength, s.generator.GenerateImages)
}

func (s *Server) handleGenerateLogo(w http.ResponseWriter, r *http.Request, _ domain.User) {
	s.handleBatchGeneration(w, r, "logos", minLogoPromptLength, s.generator.GenerateLogos)
}

func (s *Server) handleGenerateFavicon(w http.ResponseWriter, r *http.Request, _ domain.User) {
	s.handleBatchGeneration(w, r, "favicons", minFaviconPromptLength, s.generator.GenerateFavicons)
}

func (s *Server) handleBatchGeneration(
	w http.ResponseWriter,
	r *http.Request,
	label string,
	minPromptLength int,
	generate func(ctx context.Context, prompt string, count int) ([]string, error),
) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeGenerationRequest(w, r)
	if !ok {
		return
	}
	prompt, count, ok := validateBatchRequest(w, req, minPromptLength)
	if !ok {
		return
	}
	urls, err := generate(r.Context(), prompt, count)
	if err != nil || len(urls) == 0 {
		s.failGeneration(w, r, label, err)
		return
	}
	writeJSON(w, http.StatusOK, imagesResponse{ImageURLs: urls})
}

func (s *Server) handleGenerateVideo(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeGenerationRequest(w, r)
	if !ok {
		return
	}
	prompt, ok := validatePrompt(w, req.Prompt, 0)
	if !ok {
		return
	}
	url, err := s.generator.GenerateVideo(r.Context(), prompt)
	if err != nil {
		s.failGeneration(w, r, "video", err)
		return
	}
	writeJSON(w, http.StatusOK, videoResponse{VideoURL: url})
}

func (s *Server) handleGenerateSpeech(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeGenerationRequest(w, r)
	if !ok {
		return
	}
	prompt, ok := validatePrompt(w, req.Prompt, 0)
	if !ok {
		return
	}
	url, err := s.generator.GenerateSpeech(r.Context(), prompt)
	if err != nil {
		s.failGeneration(w, r, "speech", err)
		return
	}
	writeJSON(w, http.StatusOK, audioResponse{AudioURL: url})
}

func (s *Server) handleGenerateStory(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeGenerationRequest(w, r)
	if !ok {
		return
	}
	prompt, ok := validatePrompt(w, req.Prompt, 0)
	if !ok {
		return
	}
	story, err := s.generator.GenerateStory(r.Context(), prompt)
	if err != nil {
		s.failGeneration(w, r, "story", err)
		return
	}
	writeJSON(w, http.StatusOK, storyResponse{Story: story})
}

// failGeneration logs the cause and answers with the static modality message.
func (s *Server) failGeneration(w http.ResponseWriter, r *http.Request, label string, err error) {
	logger := util.LoggerFromContext(r.Context())
	if err != nil {
		logger.Error("generation failed", "modality", label, "err", err)
	} else {
		logger.Warn("generation returned no media", "modality", label)
	}
	writeError(w, http.StatusBadGateway, fmt.Sprintf("Failed to generate %s. The model might be unavailable. Please try again later.", label))
}

func decodeGenerationRequest(w http.ResponseWriter, r *http.Request) (generationRequest, bool) {
	var req generationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return generationRequest{}, false
	}
	return req, true
}

// validatePrompt trims the prompt and enforces presence plus a per-modality
// minimum length. minLength 0 means presence only.
func validatePrompt(w http.ResponseWriter, prompt string, minLength int) (string, bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required.")
		return "", false
	}
	if minLength > 0 && utf8.RuneCountInString(prompt) < minLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Prompt must be at least %d characters long.", minLength))
		return "", false
	}
	return prompt, true
}

func validateBatchRequest(w http.ResponseWriter, req generationRequest, minPromptLength int) (string, int, bool) {
	prompt, ok := validatePrompt(w, req.Prompt, minPromptLength)
	if !ok {
		return "", 0, false
	}
	count := 1
	if req.Count != nil {
		count = *req.Count
	}
	if count < 1 || count > maxGenerationCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Count must be between 1 and %d.", maxGenerationCount))
		return "", 0, false
	}
	return prompt, count, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type generationRequest struct {
	Prompt string `json:"prompt"`
	Count  *int   `json:"count,omitempty"`
}

type imagesResponse struct {
	ImageURLs []string `json:"imageUrls"`
}

type videoResponse struct {
	VideoURL string `json:"videoUrl"`
}

type audioResponse struct {
	AudioURL string `json:"audioUrl"`
}

type storyResponse struct {
	Story domain.Story `json:"story"`
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrEmailAndPasswordRequired):
		writeError(w, http.StatusBadRequest, "email and password are required")
	case errors.Is(err, app.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, app.ErrUserDisabled):
		writeError(w, http.StatusForbidden, "account disabled")
	case errors.Is(err, auth.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, auth.ErrPasswordTooShort.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("account operation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
