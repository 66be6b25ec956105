package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Fenner314/chop-list-sub000/models"
)

// maxSnapshotBytes bounds a single snapshot frame. Household collections are
// small; this is far above any realistic pantry.
const maxSnapshotBytes = 1 << 22

// subscribe dials the watch endpoint at path and delivers every foreign
// frame to deliver on a dedicated goroutine. Frames carrying this client's
// own id are reflections of unacknowledged local writes and are dropped
// before delivery. ctx bounds the dial only; once established, the stream
// runs until the returned Unsubscribe is called or the connection fails.
// There is no automatic redial.
func (h *httpSpaceRepository) subscribe(ctx context.Context, path string, deliver func(models.SnapshotFrame)) (Unsubscribe, error) {
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	hdr := http.Header{}
	hdr.Set(headerClientID, h.clientID)
	if tok := h.bearer(); tok != "" {
		hdr.Set("Authorization", "Bearer "+tok)
	}

	conn, _, err := websocket.Dial(ctx, h.baseURL+path, &websocket.DialOptions{HTTPHeader: hdr})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("dial watch %s: %w", path, err)
	}
	conn.SetReadLimit(maxSnapshotBytes)

	go func() {
		defer conn.Close(websocket.StatusNormalClosure, "")
		for {
			var frame models.SnapshotFrame
			if err := wsjson.Read(subCtx, conn, &frame); err != nil {
				if subCtx.Err() == nil {
					h.log.Warn().Err(err).Str("path", path).Msg("watch stream closed")
				}
				return
			}

			if frame.OriginClientID == h.clientID {
				h.log.Debug().Str("collection", frame.Collection).Msg("suppressed own-write snapshot")
				continue
			}

			deliver(frame)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// SubscribeToSpace implements [SpaceRepository].
func (h *httpSpaceRepository) SubscribeToSpace(ctx context.Context, spaceID string, cb func(models.Space)) (Unsubscribe, error) {
	path := "/api/spaces/" + url.PathEscape(spaceID) + "/watch/" + models.CollectionSpace
	return h.subscribe(ctx, path, func(frame models.SnapshotFrame) {
		if frame.Collection == models.CollectionSpace && frame.Space != nil {
			cb(*frame.Space)
		}
	})
}

// SubscribeToUserSpaces implements [SpaceRepository].
func (h *httpSpaceRepository) SubscribeToUserSpaces(ctx context.Context, userID string, cb func([]models.Space)) (Unsubscribe, error) {
	path := "/api/users/" + url.PathEscape(userID) + "/spaces/watch"
	return h.subscribe(ctx, path, func(frame models.SnapshotFrame) {
		if frame.Collection == models.CollectionUserSpaces {
			cb(frame.Spaces)
		}
	})
}

// SubscribeToItems implements [SpaceRepository].
func (h *httpSpaceRepository) SubscribeToItems(ctx context.Context, spaceID string, cb func([]models.Item)) (Unsubscribe, error) {
	path := "/api/spaces/" + url.PathEscape(spaceID) + "/watch/" + models.CollectionItems
	return h.subscribe(ctx, path, func(frame models.SnapshotFrame) {
		if frame.Collection == models.CollectionItems {
			cb(frame.Items)
		}
	})
}

// SubscribeToRecipes implements [SpaceRepository].
func (h *httpSpaceRepository) SubscribeToRecipes(ctx context.Context, spaceID string, cb func([]models.Recipe)) (Unsubscribe, error) {
	path := "/api/spaces/" + url.PathEscape(spaceID) + "/watch/" + models.CollectionRecipes
	return h.subscribe(ctx, path, func(frame models.SnapshotFrame) {
		if frame.Collection == models.CollectionRecipes {
			cb(frame.Recipes)
		}
	})
}

// SubscribeToMembers implements [SpaceRepository].
func (h *httpSpaceRepository) SubscribeToMembers(ctx context.Context, spaceID string, cb func([]models.Member)) (Unsubscribe, error) {
	path := "/api/spaces/" + url.PathEscape(spaceID) + "/watch/" + models.CollectionMembers
	return h.subscribe(ctx, path, func(frame models.SnapshotFrame) {
		if frame.Collection == models.CollectionMembers {
			cb(frame.Members)
		}
	})
}
