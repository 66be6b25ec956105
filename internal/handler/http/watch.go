package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
	"github.com/Fenner314/chop-list-sub000/models"
)

// watchableCollections are the per-space collections a client may stream.
var watchableCollections = map[string]bool{
	models.CollectionSpace:   true,
	models.CollectionItems:   true,
	models.CollectionRecipes: true,
	models.CollectionMembers: true,
}

// watchSpaceCollection upgrades the request to a websocket and streams full
// snapshot frames of one collection: one initial frame immediately, then one
// frame per change until the client disconnects.
func (h *Handler) watchSpaceCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	spaceID := chi.URLParam(r, "spaceID")
	collection := chi.URLParam(r, "collection")
	userID, _ := utils.GetUserIDFromContext(ctx)

	if !watchableCollections[collection] {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	space, err := h.storages.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSpaceNotFound):
			http.Error(w, "space not found", http.StatusNotFound)
		default:
			log.Err(err).Msg("unexpected error occurred during membership check")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}
	if !space.HasMember(userID) {
		http.Error(w, ErrNotASpaceMember.Error(), http.StatusForbidden)
		return
	}

	initial, err := h.collectionFrame(ctx, spaceID, collection, "")
	if err != nil {
		log.Err(err).Msg("building initial snapshot failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	frames, cancel := h.hub.Subscribe(spaceID, collection)
	defer cancel()

	log.Info().Str("space_id", spaceID).Str("collection", collection).
		Str("user_id", userID).Msg("watch stream opened")
	h.stream(ctx, w, r, initial, frames)
}

// watchUserSpaces streams the caller's spaces list; a fresh frame follows
// every membership or pause change of any of their spaces.
func (h *Handler) watchUserSpaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	userID := chi.URLParam(r, "userID")

	if authUserID, _ := utils.GetUserIDFromContext(ctx); authUserID != userID {
		http.Error(w, "may only watch own spaces", http.StatusForbidden)
		return
	}

	initial, err := h.userSpacesFrame(ctx, userID)
	if err != nil {
		log.Err(err).Msg("building initial snapshot failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	frames, cancel := h.hub.SubscribeUserSpaces(userID)
	defer cancel()

	log.Info().Str("user_id", userID).Msg("spaces watch stream opened")
	h.stream(ctx, w, r, initial, frames)
}

// stream performs the websocket upgrade and forwards frames until the client
// goes away. The read side is drained only to detect disconnects; watchers
// never send data.
func (h *Handler) stream(ctx context.Context, w http.ResponseWriter, r *http.Request, initial models.SnapshotFrame, frames <-chan models.SnapshotFrame) {
	log := logger.FromRequest(r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx = conn.CloseRead(ctx)

	if err = wsjson.Write(ctx, conn, initial); err != nil {
		log.Err(err).Msg("writing initial snapshot failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case frame, ok := <-frames:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err = wsjson.Write(ctx, conn, frame); err != nil {
				log.Warn().Err(err).Msg("watch stream write failed")
				return
			}
		}
	}
}
