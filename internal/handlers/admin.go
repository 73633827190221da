package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/coderved63/FleetFlow-Odoo/internal/auth"
	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// AdminHandler handles user administration. Every route behind it is
// ADMIN-only.
type AdminHandler struct {
	authService *auth.Service
	users       db.UserCollection
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service, users db.UserCollection) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		users:       users,
	}
}

// ListUsers returns all accounts, newest first
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindUsers(r.Context())
	if err != nil {
		serverError(w, "Failed to fetch users", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates an account with a specific role
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req models.CreateUserRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.authService.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !models.IsValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		serverError(w, "Failed to create user", err)
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	if err := h.users.InsertUser(r.Context(), user); err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		serverError(w, "Failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}
