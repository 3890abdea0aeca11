package mockcloud

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jtollefsen/emberon/internal/logging"
	"github.com/jtollefsen/emberon/pkg/brasa"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// maxWriteBody bounds a parameter write request. Real frames are tiny;
// anything near this limit is a broken client.
const maxWriteBody = 64 * 1024

// tokenLifetime is how long an issued mock token claims to be valid
const tokenLifetime = 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type firesResponse struct {
	Fires []cloud.Fire `json:"fires"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// routes builds the handler tree for the vendor API surface
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /fires", s.authenticated(s.handleListFires))
	mux.HandleFunc("GET /fires/{serial}/overview", s.authenticated(s.handleOverview))
	mux.HandleFunc("PUT /fires/{serial}/parameters", s.authenticated(s.handleWriteParameters))
	return logRequests(mux)
}

// statusRecorder captures the status code a handler wrote
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs every served request with its status and duration
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// authenticated requires a bearer token on the request. Any token value is
// accepted; the mock only checks that the client sends one.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == token || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		next(w, r)
	}
}

// handleLogin accepts any email/password pair and issues a fresh fake token
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed login request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := newToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	logging.Info("Issued token",
		zap.String("email", req.Email),
		zap.String("remote_addr", r.RemoteAddr),
	)

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(tokenLifetime).UTC(),
	})
}

// handleListFires returns the simulated fleet
func (s *Server) handleListFires(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, firesResponse{Fires: s.fleet.list()})
}

// handleOverview returns one fireplace's state as concatenated parameter frames
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")

	frames, err := s.fleet.overviewFrames(serial)
	if errors.Is(err, errUnknownSerial) {
		writeError(w, http.StatusNotFound, "no such fireplace")
		return
	}
	if err != nil {
		logging.Error("Failed to encode overview", zap.String("serial", serial), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to encode overview")
		return
	}

	logging.LogFrame(serial, "sent", frames)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frames)
}

// handleWriteParameters decodes the frames in the request body and folds
// them into the fireplace's state
func (s *Server) handleWriteParameters(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWriteBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty parameter body")
		return
	}

	var params []brasa.Parameter
	for offset := 0; offset < len(body); {
		_, payloadLen, err := brasa.ParseHeader(body[offset:])
		if err != nil {
			logging.Warn("Rejected malformed frame",
				zap.String("serial", serial),
				zap.Int("offset", offset),
				zap.Error(err),
			)
			writeError(w, http.StatusBadRequest, "malformed parameter frame")
			return
		}

		frameEnd := offset + brasa.HeaderSize + payloadLen
		param, err := brasa.DecodeParameter(body[offset:frameEnd])
		if err != nil {
			logging.Warn("Rejected malformed frame",
				zap.String("serial", serial),
				zap.Int("offset", offset),
				zap.Error(err),
			)
			writeError(w, http.StatusBadRequest, "malformed parameter frame")
			return
		}

		logging.LogFrame(serial, "received", body[offset:frameEnd])
		params = append(params, param)
		offset = frameEnd
	}

	if err := s.fleet.apply(serial, params); err != nil {
		writeError(w, http.StatusNotFound, "no such fireplace")
		return
	}

	for _, p := range params {
		logging.Info("Parameter applied",
			zap.String("serial", serial),
			zap.String("parameter", p.String()),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}

// newToken generates a random development token
func newToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return "mock-" + hex.EncodeToString(raw), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
