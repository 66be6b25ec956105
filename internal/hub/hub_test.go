package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

func TestHub_BroadcastReachesMatchingWatchersOnly(t *testing.T) {
	h := NewHub(logger.Nop())

	items, cancelItems := h.Subscribe("space-1", models.CollectionItems)
	defer cancelItems()
	recipes, cancelRecipes := h.Subscribe("space-1", models.CollectionRecipes)
	defer cancelRecipes()
	otherSpace, cancelOther := h.Subscribe("space-2", models.CollectionItems)
	defer cancelOther()

	h.Broadcast(models.SnapshotFrame{
		Collection: models.CollectionItems,
		SpaceID:    "space-1",
		Items:      []models.Item{{ID: "i1"}},
	})

	frame := <-items
	require.Len(t, frame.Items, 1)
	assert.Equal(t, "i1", frame.Items[0].ID)
	assert.Empty(t, recipes)
	assert.Empty(t, otherSpace)
}

func TestHub_BroadcastToUser(t *testing.T) {
	h := NewHub(logger.Nop())

	alice, cancelAlice := h.SubscribeUserSpaces("alice")
	defer cancelAlice()
	bob, cancelBob := h.SubscribeUserSpaces("bob")
	defer cancelBob()

	h.BroadcastToUser("alice", models.SnapshotFrame{
		Collection: models.CollectionUserSpaces,
		Spaces:     []models.Space{{ID: "alice"}},
	})

	frame := <-alice
	assert.Equal(t, models.CollectionUserSpaces, frame.Collection)
	assert.Empty(t, bob)
}

func TestHub_CancelClosesChannelAndStopsDelivery(t *testing.T) {
	h := NewHub(logger.Nop())

	ch, cancel := h.Subscribe("space-1", models.CollectionItems)
	cancel()
	cancel() // safe to call twice

	_, open := <-ch
	assert.False(t, open)

	// must not panic with no subscribers left
	h.Broadcast(models.SnapshotFrame{Collection: models.CollectionItems, SpaceID: "space-1"})
}

func TestHub_SlowWatcherDropsFramesInsteadOfBlocking(t *testing.T) {
	h := NewHub(logger.Nop())

	ch, cancel := h.Subscribe("space-1", models.CollectionItems)
	defer cancel()

	for i := 0; i < frameBuffer+5; i++ {
		h.Broadcast(models.SnapshotFrame{Collection: models.CollectionItems, SpaceID: "space-1"})
	}

	assert.Len(t, ch, frameBuffer)
}
