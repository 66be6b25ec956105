package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
	"github.com/Fenner314/chop-list-sub000/models"
)

type authRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil || req.Password == "" {
		log.Warn().Str("email", req.Email).Msg("invalid registration data")
		http.Error(w, "invalid data provided", http.StatusBadRequest)
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Msg("hashing password failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	record, err := h.storages.Users.CreateUser(ctx, store.UserRecord{
		ID:           h.idGen.Generate(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailAlreadyExists):
			log.Err(err).Msg("email already registered")
			http.Error(w, "email already registered", http.StatusConflict)
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeSession(w, r, record)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.storages.Users.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoUserWasFound):
			log.Err(err).Msg("no user was found")
			http.Error(w, "invalid email/password", http.StatusUnauthorized)
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	if !utils.CheckPassword(record.PasswordHash, req.Password) {
		log.Warn().Str("email", req.Email).Msg("wrong password")
		http.Error(w, "invalid email/password", http.StatusUnauthorized)
		return
	}

	log.Debug().Str("id", record.ID).Msg("user successfully logged in")
	h.writeSession(w, r, record)
}

// resetPassword issues a temporary password for the account and records it in
// the server log, standing in for mail delivery. The response does not reveal
// whether the email is registered.
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	if _, err := h.storages.Users.FindUserByEmail(ctx, email); err != nil {
		log.Warn().Str("email", email).Msg("password reset requested for unknown email")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	tempPassword := h.idGen.Generate()
	passwordHash, err := utils.HashPassword(tempPassword)
	if err != nil {
		log.Err(err).Msg("hashing temporary password failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err = h.storages.Users.UpdatePassword(ctx, email, passwordHash); err != nil {
		log.Err(err).Msg("storing temporary password failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Str("email", email).Str("temporary_password", tempPassword).
		Msg("temporary password issued")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, record store.UserRecord) {
	log := logger.FromRequest(r)

	token, err := utils.GenerateJWTToken(h.cfg.TokenIssuer, record.ID, h.cfg.TokenDuration, h.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, authResponse{
		User:  record.User(),
		Token: token.SignedString,
	}, http.StatusOK)
}
