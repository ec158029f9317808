package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rescuegrid/dispatch-admin/internal/middleware"
	"github.com/rescuegrid/dispatch-admin/internal/model"
	"github.com/rescuegrid/dispatch-admin/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is used when hashing admin passwords
const BcryptCost = 12

// AdminStore is the subset of repository.Queries used for authentication
type AdminStore interface {
	GetAdminByEmail(ctx context.Context, email string) (repository.Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (repository.Admin, error)
}

// TokenIssuer issues access tokens for authenticated admins
type TokenIssuer interface {
	GenerateAccessToken(adminID uuid.UUID, email, role string) (string, error)
	GetAccessTokenExpiry() time.Duration
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	store  AdminStore
	tokens TokenIssuer
	log    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(store AdminStore, tokens TokenIssuer, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		store:  store,
		tokens: tokens,
		log:    log,
	}
}

// Login handles admin login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	admin, err := h.store.GetAdminByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		h.log.Error("failed to fetch admin", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to process login", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(admin.ID, admin.Email, admin.Role.String)
	if err != nil {
		h.log.Error("failed to sign token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	h.log.Info("admin logged in", zap.String("email", admin.Email))
	respondSuccess(w, http.StatusOK, "Login successful", model.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokens.GetAccessTokenExpiry().Seconds()),
		Admin:       toAdminResponse(admin),
	})
}

// GetMe returns the currently authenticated admin
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	admin, err := h.store.GetAdminByID(r.Context(), claims.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "Admin not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch admin", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Admin retrieved successfully", toAdminResponse(admin))
}

func toAdminResponse(a repository.Admin) model.AdminResponse {
	return model.AdminResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role.String,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
