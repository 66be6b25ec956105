package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
	"github.com/Fenner314/chop-list-sub000/models"
)

func (h *Handler) createInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	userID, _ := utils.GetUserIDFromContext(ctx)

	var invite models.Invite
	if err := json.NewDecoder(r.Body).Decode(&invite); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	invite.InviteeEmail = strings.TrimSpace(invite.InviteeEmail)
	if invite.ID == "" || invite.SpaceID == "" || invite.InviteeEmail == "" {
		http.Error(w, "invite id, space id and invitee email are required", http.StatusBadRequest)
		return
	}
	if invite.SpaceID != userID {
		http.Error(w, "only the space owner may send invites", http.StatusForbidden)
		return
	}

	invite.InviterID = userID
	invite.Status = models.InvitePending
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now()
	}

	if err := h.storages.Invites.Create(ctx, invite); err != nil {
		log.Err(err).Msg("unexpected error occurred during invite creation")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Str("invite_id", invite.ID).Str("space_id", invite.SpaceID).Msg("invite created")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	inviteID := chi.URLParam(r, "inviteID")

	invite, err := h.storages.Invites.Get(ctx, inviteID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInviteNotFound):
			http.Error(w, "invite not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during invite lookup")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	_, _ = utils.WriteJSON(w, invite, http.StatusOK)
}

// findInvites lists invites either by space (inviter side) or by invitee
// email (addressee side), always narrowed by status.
func (h *Handler) findInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	userID, _ := utils.GetUserIDFromContext(ctx)

	filter := store.InviteFilter{
		SpaceID: r.URL.Query().Get("spaceId"),
		Email:   strings.TrimSpace(r.URL.Query().Get("email")),
		Status:  models.InviteStatus(r.URL.Query().Get("status")),
	}

	switch {
	case filter.SpaceID != "":
		if filter.SpaceID != userID {
			http.Error(w, "only the space owner may list its invites", http.StatusForbidden)
			return
		}
	case filter.Email != "":
		if !h.emailBelongsTo(ctx, filter.Email, userID) {
			http.Error(w, "may only list invites addressed to yourself", http.StatusForbidden)
			return
		}
	default:
		http.Error(w, "spaceId or email query parameter is required", http.StatusBadRequest)
		return
	}

	invites, err := h.storages.Invites.Find(ctx, filter)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during invite listing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, invites, http.StatusOK)
}

// setInviteStatus resolves a pending invite. Only the addressee may accept or
// decline; a resolved invite stays resolved.
func (h *Handler) setInviteStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	inviteID := chi.URLParam(r, "inviteID")
	userID, _ := utils.GetUserIDFromContext(ctx)

	var req struct {
		Status models.InviteStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.Status != models.InviteAccepted && req.Status != models.InviteDeclined {
		http.Error(w, "status must be accepted or declined", http.StatusBadRequest)
		return
	}

	invite, err := h.storages.Invites.Get(ctx, inviteID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInviteNotFound):
			http.Error(w, "invite not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during invite lookup")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	if !h.emailBelongsTo(ctx, invite.InviteeEmail, userID) {
		http.Error(w, "only the addressee may resolve an invite", http.StatusForbidden)
		return
	}
	if invite.Status != models.InvitePending {
		http.Error(w, "invite already resolved", http.StatusConflict)
		return
	}

	if err = h.storages.Invites.SetStatus(ctx, inviteID, req.Status); err != nil {
		log.Err(err).Msg("unexpected error occurred during invite update")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Str("invite_id", inviteID).Str("status", string(req.Status)).Msg("invite resolved")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	inviteID := chi.URLParam(r, "inviteID")
	userID, _ := utils.GetUserIDFromContext(ctx)

	invite, err := h.storages.Invites.Get(ctx, inviteID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInviteNotFound):
			http.Error(w, "invite not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during invite lookup")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	if invite.InviterID != userID {
		http.Error(w, "only the inviter may cancel an invite", http.StatusForbidden)
		return
	}

	if err = h.storages.Invites.Delete(ctx, inviteID); err != nil {
		log.Err(err).Msg("unexpected error occurred during invite delete")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Str("invite_id", inviteID).Msg("invite cancelled")
	w.WriteHeader(http.StatusOK)
}

// emailBelongsTo reports whether email is the registered address of userID.
// Invite addressing is by email, tokens carry only the user id.
func (h *Handler) emailBelongsTo(ctx context.Context, email, userID string) bool {
	record, err := h.storages.Users.FindUserByEmail(ctx, email)
	return err == nil && record.ID == userID
}
