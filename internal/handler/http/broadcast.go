package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
	"github.com/Fenner314/chop-list-sub000/models"
)

// collectionFrame builds the authoritative snapshot frame for one collection
// of one space. origin tags the frame with the client id that caused it so
// subscribers can drop reflections of their own writes.
func (h *Handler) collectionFrame(ctx context.Context, spaceID, collection, origin string) (models.SnapshotFrame, error) {
	frame := models.SnapshotFrame{
		Collection:     collection,
		SpaceID:        spaceID,
		OriginClientID: origin,
	}

	switch collection {
	case models.CollectionItems:
		docs, err := h.storages.Items.List(ctx, spaceID)
		if err != nil {
			return models.SnapshotFrame{}, err
		}
		frame.Items = make([]models.Item, 0, len(docs))
		for _, doc := range docs {
			var item models.Item
			if err = json.Unmarshal(doc, &item); err != nil {
				return models.SnapshotFrame{}, fmt.Errorf("corrupt item document in space %s: %w", spaceID, err)
			}
			frame.Items = append(frame.Items, item)
		}

	case models.CollectionRecipes:
		docs, err := h.storages.Recipes.List(ctx, spaceID)
		if err != nil {
			return models.SnapshotFrame{}, err
		}
		frame.Recipes = make([]models.Recipe, 0, len(docs))
		for _, doc := range docs {
			var recipe models.Recipe
			if err = json.Unmarshal(doc, &recipe); err != nil {
				return models.SnapshotFrame{}, fmt.Errorf("corrupt recipe document in space %s: %w", spaceID, err)
			}
			frame.Recipes = append(frame.Recipes, recipe)
		}

	case models.CollectionSpace:
		space, err := h.storages.Spaces.GetSpace(ctx, spaceID)
		if err != nil {
			return models.SnapshotFrame{}, err
		}
		frame.Space = &space

	case models.CollectionMembers:
		members, err := h.storages.Spaces.Members(ctx, spaceID)
		if err != nil {
			return models.SnapshotFrame{}, err
		}
		frame.Members = members

	default:
		return models.SnapshotFrame{}, fmt.Errorf("unknown collection %q", collection)
	}

	return frame, nil
}

func (h *Handler) userSpacesFrame(ctx context.Context, userID string) (models.SnapshotFrame, error) {
	spaces, err := h.storages.Spaces.SpacesForUser(ctx, userID)
	if err != nil {
		return models.SnapshotFrame{}, err
	}
	return models.SnapshotFrame{
		Collection: models.CollectionUserSpaces,
		Spaces:     spaces,
	}, nil
}

// broadcastDocs pushes a fresh snapshot of one document collection to its
// watchers. A broadcast failure only costs realtime freshness, so it is
// logged and swallowed.
func (h *Handler) broadcastDocs(ctx context.Context, spaceID, collection string) {
	log := logger.FromContext(ctx)

	frame, err := h.collectionFrame(ctx, spaceID, collection, utils.GetClientIDFromContext(ctx))
	if err != nil {
		log.Err(err).Str("space_id", spaceID).Str("collection", collection).
			Msg("building snapshot frame failed")
		return
	}

	h.hub.Broadcast(frame)
}

// broadcastSpace pushes fresh space and members snapshots to the space's
// watchers and a fresh spaces list to every current member. Called after any
// change to the space document or its member set.
func (h *Handler) broadcastSpace(ctx context.Context, spaceID string, extraUserIDs ...string) {
	log := logger.FromContext(ctx)
	origin := utils.GetClientIDFromContext(ctx)

	for _, collection := range []string{models.CollectionSpace, models.CollectionMembers} {
		frame, err := h.collectionFrame(ctx, spaceID, collection, origin)
		if err != nil {
			log.Err(err).Str("space_id", spaceID).Str("collection", collection).
				Msg("building snapshot frame failed")
			continue
		}
		h.hub.Broadcast(frame)
	}

	notified := make(map[string]bool)
	members, err := h.storages.Spaces.Members(ctx, spaceID)
	if err != nil {
		log.Err(err).Str("space_id", spaceID).Msg("listing members for broadcast failed")
	}
	for _, member := range members {
		notified[member.UserID] = true
	}
	for _, userID := range extraUserIDs {
		notified[userID] = true
	}

	for userID := range notified {
		frame, err := h.userSpacesFrame(ctx, userID)
		if err != nil {
			log.Err(err).Str("user_id", userID).Msg("building user spaces frame failed")
			continue
		}
		h.hub.BroadcastToUser(userID, frame)
	}
}
