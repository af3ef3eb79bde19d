package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"example/sweetshop-client/internal/api"
	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
	"example/sweetshop-client/internal/store"
)

// Store holds the current session and keeps it in sync with the persisted
// credential pair. It reacts to the HTTP wrapper's unauthorized signal by
// dropping the in-memory session (the wrapper has already cleared storage).
type Store struct {
	mu      sync.RWMutex
	client  *api.Client
	creds   *store.Store
	session *models.Session
}

// NewStore creates the session store and registers it on the client's
// unauthorized hook.
func NewStore(client *api.Client, creds *store.Store) *Store {
	s := &Store{client: client, creds: creds}
	client.SetUnauthorizedHook(s.handleUnauthorized)
	return s
}

// Restore loads a persisted session at startup. A token without a parseable
// session (or vice versa) wipes both.
func (s *Store) Restore() {
	token, err := s.creds.Token()
	if err != nil {
		logger.Log.Warnw("Failed to read persisted token", "error", err)
		return
	}
	serialized, err := s.creds.Session()
	if err != nil {
		logger.Log.Warnw("Failed to read persisted session", "error", err)
		return
	}
	if token == "" || serialized == "" {
		return
	}

	var session models.Session
	if err := json.Unmarshal([]byte(serialized), &session); err != nil {
		logger.Log.Warnw("Failed to parse persisted session, clearing credentials", "error", err)
		s.creds.Clear()
		return
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	logger.Log.Infow("Session restored", "username", session.Username, "is_admin", session.IsAdmin)
}

// Login authenticates with the backend and persists the resulting session.
// Returns *AuthError when credentials are rejected or the token cannot be
// decoded.
func (s *Store) Login(ctx context.Context, username, password string) (*models.Session, error) {
	logger.Log.Debugw("Logging in", "username", username)

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token models.TokenResponse
	if err := s.client.PostForm(ctx, "/api/auth/login", form, &token); err != nil {
		logger.Log.Warnw("Login rejected", "username", username, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			return nil, &AuthError{Message: apiErr.Detail}
		}
		return nil, &AuthError{Message: "Login failed. Please try again."}
	}

	session, err := DecodeToken(token.AccessToken)
	if err != nil {
		logger.Log.Errorw("Token decode failed", "username", username, "error", err)
		return nil, &AuthError{Message: "Failed to decode token"}
	}

	serialized, err := json.Marshal(session)
	if err != nil {
		return nil, &AuthError{Message: "Failed to decode token"}
	}
	if err := s.creds.SaveCredentials(token.AccessToken, string(serialized)); err != nil {
		logger.Log.Errorw("Failed to persist credentials", "username", username, "error", err)
		return nil, &AuthError{Message: "Login failed. Please try again."}
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	logger.Log.Infow("Logged in", "username", session.Username, "is_admin", session.IsAdmin)
	return session, nil
}

// Register creates an account and logs in on success. Returns
// *ValidationError when the input is invalid or the username is taken.
func (s *Store) Register(ctx context.Context, username, password, fullName string) (*models.Session, error) {
	if len(username) < 3 {
		return nil, &ValidationError{Message: "Username must be at least 3 characters"}
	}
	if len(password) < 6 {
		return nil, &ValidationError{Message: "Password must be at least 6 characters"}
	}

	logger.Log.Debugw("Registering account", "username", username)

	req := models.RegisterRequest{Username: username, Password: password, FullName: fullName}
	if err := s.client.PostJSON(ctx, "/api/auth/register", req, nil); err != nil {
		logger.Log.Warnw("Registration rejected", "username", username, "error", err)
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.FirstMessage() != "" {
			return nil, &ValidationError{Message: apiErr.FirstMessage()}
		}
		return nil, &ValidationError{Message: "Registration failed. Please try again."}
	}

	// Auto-login after registration
	return s.Login(ctx, username, password)
}

// Logout clears the session and persisted credentials. It never fails;
// storage errors are logged and swallowed.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		logger.Log.Errorw("Failed to clear persisted credentials on logout", "error", err)
	}
	logger.Log.Infow("Logged out")
}

// Current returns the active session, or nil when logged out
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// IsAuthenticated reports whether a session is active
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// IsAdmin reports whether the active session has the admin flag
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.IsAdmin
}

// handleUnauthorized runs when any request comes back 401. Persisted
// credentials are already gone; only the in-memory session remains to drop.
func (s *Store) handleUnauthorized() {
	s.mu.Lock()
	wasLoggedIn := s.session != nil
	s.session = nil
	s.mu.Unlock()

	if wasLoggedIn {
		logger.Log.Warnw("Session invalidated by backend")
	}
}
