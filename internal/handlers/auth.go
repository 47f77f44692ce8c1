package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gardenlog/apiserver/internal/auth"
	"github.com/gardenlog/apiserver/internal/services"
	"github.com/gardenlog/apiserver/internal/store"
	"github.com/gardenlog/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

const (
	msgUsernameRequired = "Username field is required."
	msgPasswordRequired = "Password field is required."
	msgBadCredentials   = "Please enter a valid username/password combination."
	msgMissingToken     = "Missing JSON web token."
	msgInvalidToken     = "JSON web token is invalid."
)

// AuthHandler provides register and login endpoints.
type AuthHandler struct {
	userService *services.UserService
	hasher      auth.Hasher
	tokens      *auth.TokenIssuer
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, hasher auth.Hasher, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, hasher auth.Hasher, tokens *auth.TokenIssuer) {
	handler := NewAuthHandler(userService, hasher, tokens)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

// RequireAuth verifies the bearer token and injects its identity into context.
// The credential is the second whitespace-separated field of the header,
// whatever the scheme.
func RequireAuth(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			var tokenString string
			if fields := strings.Fields(header); len(fields) > 1 {
				tokenString = fields[1]
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("token rejected")
				writeError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, msgUsernameRequired)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, msgPasswordRequired)
		return
	}

	logger := hlog.FromRequest(r)

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("hash password")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	if _, err := h.userService.Create(r.Context(), types.User{
		Username:     req.Username,
		PasswordHash: hashed,
	}); err != nil {
		logger.Error().Err(err).Str("username", req.Username).Msg("create user")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Login verifies credentials and returns a signed token as the raw body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, msgUsernameRequired)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, msgPasswordRequired)
		return
	}

	logger := hlog.FromRequest(r)

	user, err := h.userService.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrAmbiguous) {
			writeError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		logger.Error().Err(err).Msg("look up user")
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		logger.Warn().Err(err).Int("user_id", user.ID).Msg("verify password")
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	token, err := h.tokens.Issue(auth.Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		logger.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
