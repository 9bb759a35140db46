package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vaughan-dsouza/gamehub/internal/auth"
	"github.com/vaughan-dsouza/gamehub/internal/models"
	"github.com/vaughan-dsouza/gamehub/internal/utils"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

type AuthHandler struct {
	Creds  *auth.Credentials
	Issuer *auth.Issuer
	Log    *slog.Logger
}

func NewAuthHandler(creds *auth.Credentials, issuer *auth.Issuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Creds: creds, Issuer: issuer, Log: log}
}

// ----------- Request/Response DTOs -------------

type registerReq struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResp struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type meResp struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func validateCredentials(v any, password string) utils.FieldErrors {
	fields := utils.Validate(v)
	if len(password) > maxPasswordBytes {
		if fields == nil {
			fields = utils.FieldErrors{}
		}
		fields.Add("password", "must be at most 72 bytes")
	}
	return fields
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if fields := validateCredentials(req, req.Password); fields != nil {
		utils.ValidationError(w, fields)
		return
	}

	u, err := h.Creds.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrDuplicateEmail) {
		utils.JSONError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "register failed", "err", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.InfoContext(r.Context(), "user registered", "user_id", u.ID)
	h.respondWithToken(w, r, http.StatusCreated, u)
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if fields := validateCredentials(req, req.Password); fields != nil {
		utils.ValidationError(w, fields)
		return
	}

	u, err := h.Creds.Verify(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrInvalidCredentials):
		// same answer for both so the response does not reveal which emails exist
		utils.JSONError(w, http.StatusBadRequest, "invalid credentials")
		return
	case err != nil:
		h.Log.ErrorContext(r.Context(), "login failed", "err", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, u)
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	u, err := h.Creds.Lookup(r.Context(), id)
	if errors.Is(err, auth.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "me lookup failed", "err", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, meResp{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	token, err := h.Issuer.Issue(u)
	if err != nil {
		h.Log.ErrorContext(r.Context(), "issue token failed", "err", err)
		utils.JSONError(w, http.StatusInternalServerError, "token error")
		return
	}

	utils.JSON(w, status, authResp{ID: u.ID, Email: u.Email, Token: token})
}
