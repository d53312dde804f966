package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/repository"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	Users       repository.UserRepositoryInterface
	JWTSecret   string
	TokenExpiry time.Duration
}

func NewAuthHandler(users repository.UserRepositoryInterface, secret string, expiry time.Duration) *AuthHandler {
	return &AuthHandler{Users: users, JWTSecret: secret, TokenExpiry: expiry}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a viewer account. New accounts never start with
// elevated access.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "email is required")
		return
	}
	if len(req.Password) < 6 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "password must be at least 6 characters")
		return
	}

	if existing, err := h.Users.GetByEmail(email); err == nil && existing != nil {
		WriteAPIError(w, http.StatusConflict, "conflict", "an account with this email already exists")
		return
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking existing user %s: %v", email, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to create account")
		return
	}

	user := &models.User{Email: email, Role: models.RoleViewer}
	if err := user.SetPassword(req.Password); err != nil {
		log.Printf("Error hashing password: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to create account")
		return
	}
	if err := h.Users.Create(user); err != nil {
		log.Printf("Error creating user %s: %v", email, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to create account")
		return
	}

	token, err := IssueToken(user, h.JWTSecret, h.TokenExpiry)
	if err != nil {
		log.Printf("Error issuing token for %s: %v", email, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to create account")
		return
	}
	writeMessage(w, http.StatusCreated, "account created", authResponse{Token: token, User: user})
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "email and password are required")
		return
	}

	user, err := h.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
			return
		}
		log.Printf("Error fetching user %s: %v", email, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}
	if !user.CheckPassword(req.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	token, err := IssueToken(user, h.JWTSecret, h.TokenExpiry)
	if err != nil {
		log.Printf("Error issuing token for %s: %v", email, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}
	writeData(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the account behind the current token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	user, err := h.Users.GetByID(identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "account no longer exists")
			return
		}
		log.Printf("Error fetching user %d: %v", identity.UserID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load account")
		return
	}
	writeData(w, http.StatusOK, user)
}
