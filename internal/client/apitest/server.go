// Package apitest provides an in-process fake of the job-board API for tests.
//
// The fake implements the three endpoints the client consumes with the same
// wire contract as the real backend: POST /token (form-encoded credentials,
// HS256 JWT access token), GET /users/me (bearer token) and
// POST /users/register (JSON body, FastAPI-style detail errors).
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fruitpie/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// Request is what the fake saw for one call.
type Request struct {
	Method        string
	Path          string
	ContentType   string
	Authorization string
	RequestID     string
	Body          string
}

type account struct {
	user     models.User
	password string
}

// Server is a fake job-board backend listening on a local port.
type Server struct {
	*httptest.Server

	secret []byte
	ttl    time.Duration

	mu       sync.Mutex
	accounts map[string]*account
	nextID   int64
	meStatus int
	requests []Request
}

// NewServer starts a fake backend and stops it when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secret:   []byte("apitest-secret"),
		ttl:      time.Hour,
		accounts: make(map[string]*account),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(middleware.Recoverer)

	r.Post("/token", s.handleToken)
	r.Route("/users", func(users chi.Router) {
		users.Get("/me", s.handleMe)
		users.Post("/register", s.handleRegister)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account directly, bypassing the HTTP API.
func (s *Server) AddUser(u models.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if u.ID == 0 {
		u.ID = s.nextID
	}
	s.accounts[u.Username] = &account{user: u, password: password}
}

// User returns the stored account for username.
func (s *Server) User(username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		return models.User{}, false
	}
	return a.user, true
}

// IssueToken signs a token for username valid for ttl. A negative ttl yields
// an already expired token.
func (s *Server) IssueToken(username string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

// FailMe forces GET /users/me to answer with status until reset with 0.
func (s *Server) FailMe(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meStatus = status
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountPath returns how many requests hit path.
func (s *Server) CountPath(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          string(body),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		writeValidation(w, "body", "form data expected")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed form")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	s.mu.Lock()
	a, ok := s.accounts[username]
	s.mu.Unlock()

	if !ok || a.password != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": s.IssueToken(username, s.ttl),
		"token_type":   "bearer",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	forced := s.meStatus
	s.mu.Unlock()
	if forced != 0 {
		writeDetail(w, forced, http.StatusText(forced))
		return
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[claims.Subject]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if a.user.Disabled {
		writeDetail(w, http.StatusBadRequest, "Inactive user")
		return
	}

	writeJSON(w, http.StatusOK, a.user)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeValidation(w, "body", "JSON decode error")
		return
	}
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		writeValidation(w, "body", "Field required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[reg.Username]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	s.nextID++
	u := models.User{
		ID:       s.nextID,
		Username: reg.Username,
		Email:    reg.Email,
		IsSeeker: reg.IsSeeker,
		IsPoster: reg.IsPoster,
	}
	s.accounts[reg.Username] = &account{user: u, password: reg.Password}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, loc string, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{loc}, "msg": msg, "type": "value_error"}},
	})
}
