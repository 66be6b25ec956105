package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
	"github.com/Fenner314/chop-list-sub000/models"
)

func (h *Handler) getSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	spaceID := chi.URLParam(r, "spaceID")

	// any signed-in user may probe a space document: invite acceptance has
	// to check existence and the paused flag before membership exists
	space, err := h.storages.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSpaceNotFound):
			http.Error(w, "space not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during space lookup")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	_, _ = utils.WriteJSON(w, space, http.StatusOK)
}

// ensureSpace upserts the owner's space document. Member sets, collections,
// and the paused flag of an existing space are left untouched.
func (h *Handler) ensureSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	spaceID := chi.URLParam(r, "spaceID")

	userID, _ := utils.GetUserIDFromContext(ctx)
	if spaceID != userID {
		http.Error(w, "only the owner may create a space", http.StatusForbidden)
		return
	}

	var space models.Space
	if err := json.NewDecoder(r.Body).Decode(&space); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if space.ID != spaceID || space.OwnerID != userID {
		http.Error(w, "space id must equal the owner id", http.StatusBadRequest)
		return
	}

	if err := h.storages.Spaces.UpsertSpace(ctx, space); err != nil {
		log.Err(err).Msg("unexpected error occurred during space upsert")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.broadcastSpace(ctx, spaceID)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) userSpaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	userID := chi.URLParam(r, "userID")

	if authUserID, _ := utils.GetUserIDFromContext(ctx); authUserID != userID {
		http.Error(w, "may only list own spaces", http.StatusForbidden)
		return
	}

	spaces, err := h.storages.Spaces.SpacesForUser(ctx, userID)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during user spaces lookup")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, spaces, http.StatusOK)
}

func (h *Handler) pauseSharing(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

func (h *Handler) resumeSharing(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *Handler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	spaceID := chi.URLParam(r, "spaceID")

	// a space is keyed by its owner's id, so the owner check is an id match
	if userID, _ := utils.GetUserIDFromContext(ctx); userID != spaceID {
		http.Error(w, "only the owner may pause or resume sharing", http.StatusForbidden)
		return
	}

	if err := h.storages.Spaces.SetPaused(ctx, spaceID, paused); err != nil {
		switch {
		case errors.Is(err, store.ErrSpaceNotFound):
			http.Error(w, "space not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during pause toggle")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	log.Info().Str("space_id", spaceID).Bool("paused", paused).Msg("sharing pause toggled")
	h.broadcastSpace(ctx, spaceID)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	spaceID := chi.URLParam(r, "spaceID")
	userID, _ := utils.GetUserIDFromContext(ctx)

	var member models.Member
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	member.SpaceID = spaceID

	// the owner seeds their own membership; anyone else joins themselves on
	// the strength of an accepted invite addressed to their email
	if userID != spaceID {
		if member.UserID != userID || !h.hasAcceptedInvite(ctx, spaceID, member.Email) {
			http.Error(w, "joining requires an accepted invite", http.StatusForbidden)
			return
		}
	}

	if err := h.storages.Spaces.AddMember(ctx, member); err != nil {
		log.Err(err).Msg("unexpected error occurred during member insert")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Str("space_id", spaceID).Str("user_id", member.UserID).Msg("member joined space")
	h.broadcastSpace(ctx, spaceID)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) hasAcceptedInvite(ctx context.Context, spaceID, email string) bool {
	invites, err := h.storages.Invites.Find(ctx, store.InviteFilter{
		SpaceID: spaceID,
		Email:   email,
		Status:  models.InviteAccepted,
	})
	return err == nil && len(invites) > 0
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	spaceID := chi.URLParam(r, "spaceID")
	memberID := chi.URLParam(r, "userID")

	if userID, _ := utils.GetUserIDFromContext(ctx); userID != spaceID && userID != memberID {
		http.Error(w, "only the owner or the member may remove a membership", http.StatusForbidden)
		return
	}

	if err := h.storages.Spaces.RemoveMember(ctx, spaceID, memberID); err != nil {
		log.Err(err).Msg("unexpected error occurred during member removal")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Str("space_id", spaceID).Str("user_id", memberID).Msg("member left space")
	// the removed user no longer shows up in the member list, so name them
	// explicitly to refresh their spaces watch
	h.broadcastSpace(ctx, spaceID, memberID)
	w.WriteHeader(http.StatusOK)
}
