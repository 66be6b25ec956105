package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
	"github.com/Fenner314/chop-list-sub000/models"
)

const (
	collectionItems   = models.CollectionItems
	collectionRecipes = models.CollectionRecipes
)

// maxDocBytes bounds a single document or batch payload.
const maxDocBytes = 1 << 22

func (h *Handler) docRepo(collection string) store.DocRepository {
	if collection == collectionRecipes {
		return h.storages.Recipes
	}
	return h.storages.Items
}

// requireMember rejects the request when the authenticated user does not
// belong to the space. Returns the user id on success.
func (h *Handler) requireMember(ctx context.Context, w http.ResponseWriter, spaceID string) (string, bool) {
	log := logger.FromContext(ctx)
	userID, _ := utils.GetUserIDFromContext(ctx)

	space, err := h.storages.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSpaceNotFound):
			http.Error(w, "space not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during membership check")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return "", false
	}

	if !space.HasMember(userID) {
		log.Warn().Str("space_id", spaceID).Str("user_id", userID).Msg("rejected non-member write")
		http.Error(w, ErrNotASpaceMember.Error(), http.StatusForbidden)
		return "", false
	}

	return userID, true
}

func (h *Handler) setDoc(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)
		spaceID := chi.URLParam(r, "spaceID")
		docID := chi.URLParam(r, "docID")

		if _, ok := h.requireMember(ctx, w, spaceID); !ok {
			return
		}

		doc, err := io.ReadAll(io.LimitReader(r.Body, maxDocBytes))
		if err != nil || !json.Valid(doc) {
			log.Err(err).Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}

		var probe struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(doc, &probe); err != nil || probe.ID != docID {
			http.Error(w, "document id must match the request path", http.StatusBadRequest)
			return
		}

		if err = h.docRepo(collection).Upsert(ctx, spaceID, docID, doc); err != nil {
			log.Err(err).Msg("unexpected error occurred during document upsert")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		h.broadcastDocs(ctx, spaceID, collection)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) deleteDoc(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)
		spaceID := chi.URLParam(r, "spaceID")
		docID := chi.URLParam(r, "docID")

		if _, ok := h.requireMember(ctx, w, spaceID); !ok {
			return
		}

		if err := h.docRepo(collection).Delete(ctx, spaceID, docID); err != nil {
			log.Err(err).Msg("unexpected error occurred during document delete")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		h.broadcastDocs(ctx, spaceID, collection)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) batchSetDocs(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)
		spaceID := chi.URLParam(r, "spaceID")

		if _, ok := h.requireMember(ctx, w, spaceID); !ok {
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxDocBytes))
		if err != nil {
			log.Err(err).Msg("reading batch body failed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}

		var rawDocs []json.RawMessage
		if err = json.Unmarshal(body, &rawDocs); err != nil {
			log.Err(err).Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}

		docs := make(map[string]json.RawMessage, len(rawDocs))
		for _, raw := range rawDocs {
			var probe struct {
				ID string `json:"id"`
			}
			if err = json.Unmarshal(raw, &probe); err != nil || probe.ID == "" {
				http.Error(w, "every document needs an id", http.StatusBadRequest)
				return
			}
			docs[probe.ID] = raw
		}

		if err = h.docRepo(collection).UpsertBatch(ctx, spaceID, docs); err != nil {
			log.Err(err).Msg("unexpected error occurred during batch upsert")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		log.Debug().Str("space_id", spaceID).Str("collection", collection).
			Int("count", len(docs)).Msg("batch stored")
		h.broadcastDocs(ctx, spaceID, collection)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) clearDocs(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)
		spaceID := chi.URLParam(r, "spaceID")

		if _, ok := h.requireMember(ctx, w, spaceID); !ok {
			return
		}

		if err := h.docRepo(collection).DeleteAll(ctx, spaceID); err != nil {
			log.Err(err).Msg("unexpected error occurred during collection clear")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		h.broadcastDocs(ctx, spaceID, collection)
		w.WriteHeader(http.StatusOK)
	}
}
