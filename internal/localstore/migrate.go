package localstore

import (
	"fmt"
	"sort"
	"strings"
)

// Schema history of the root blob:
//
//	v1 — items split across independent pantryItems/shoppingItems
//	     collections with independently-issued ids.
//	v2 — unified items collection with per-list membership metadata.
//	v3 — category always resolved, orphan items purged.
//
// Migrations operate on the raw decoded blob so an old shape never has to
// round-trip through current model types. Each step is idempotent: applying
// it to an already-migrated blob changes nothing.
type migration struct {
	to int
	fn func(root map[string]any) error
}

var migrationChain = []migration{
	{to: 2, fn: mergeSplitLists},
	{to: 3, fn: normalizeUnifiedItems},
}

func migrate(root map[string]any) (map[string]any, error) {
	version := 1
	if v, ok := root["version"].(float64); ok && v > 0 {
		version = int(v)
	}

	for _, m := range migrationChain {
		if version >= m.to {
			continue
		}
		if err := m.fn(root); err != nil {
			return nil, fmt.Errorf("migrate to v%d: %w", m.to, err)
		}
		version = m.to
		root["version"] = version
	}

	return root, nil
}

// mergeSplitLists (v1 → v2) merges the legacy per-list collections into the
// unified item model. Matching is by case-insensitive name; when a name
// occurs on both lists the pantry side wins the core fields and both
// memberships are attached. Runs as a no-op when the legacy keys are gone.
func mergeSplitLists(root map[string]any) error {
	pantry, _ := root["pantryItems"].(map[string]any)
	shopping, _ := root["shoppingItems"].(map[string]any)
	if pantry == nil && shopping == nil {
		return nil
	}

	items, _ := root["items"].(map[string]any)
	if items == nil {
		items = make(map[string]any)
	}

	for _, id := range sortedKeys(pantry) {
		legacy, ok := pantry[id].(map[string]any)
		if !ok {
			return fmt.Errorf("pantry item %q is not an object", id)
		}

		item := coreFieldsFrom(legacy, id)
		item["listMembership"] = map[string]any{
			"pantry": pickFields(legacy, "expiresAt", "addedAt", "order"),
		}
		items[itemID(item)] = item
	}

	for _, id := range sortedKeys(shopping) {
		legacy, ok := shopping[id].(map[string]any)
		if !ok {
			return fmt.Errorf("shopping item %q is not an object", id)
		}

		entry := pickFields(legacy, "completed", "createdAt", "order")

		if existing := findByName(items, stringField(legacy, "name")); existing != nil {
			membership, _ := existing["listMembership"].(map[string]any)
			if membership == nil {
				membership = make(map[string]any)
				existing["listMembership"] = membership
			}
			membership["shopping"] = entry
			continue
		}

		item := coreFieldsFrom(legacy, id)
		item["listMembership"] = map[string]any{"shopping": entry}
		items[itemID(item)] = item
	}

	root["items"] = items
	delete(root, "pantryItems")
	delete(root, "shoppingItems")

	return nil
}

// normalizeUnifiedItems (v2 → v3) resolves missing categories to "other" and
// purges items that carry no membership at all.
func normalizeUnifiedItems(root map[string]any) error {
	items, _ := root["items"].(map[string]any)
	if items == nil {
		return nil
	}

	for _, id := range sortedKeys(items) {
		item, ok := items[id].(map[string]any)
		if !ok {
			return fmt.Errorf("item %q is not an object", id)
		}

		if strings.TrimSpace(stringField(item, "category")) == "" {
			item["category"] = "other"
		}

		membership, _ := item["listMembership"].(map[string]any)
		if membership == nil || (membership["pantry"] == nil && membership["shopping"] == nil) {
			delete(items, id)
		}
	}

	return nil
}

func coreFieldsFrom(legacy map[string]any, fallbackID string) map[string]any {
	item := pickFields(legacy, "name", "quantity", "unit", "category")
	item["id"] = stringField(legacy, "id")
	if item["id"] == "" {
		item["id"] = fallbackID
	}
	return item
}

func findByName(items map[string]any, name string) map[string]any {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	for _, id := range sortedKeys(items) {
		item, ok := items[id].(map[string]any)
		if !ok {
			continue
		}
		if equalFoldTrim(stringField(item, "name"), name) {
			return item
		}
	}
	return nil
}

func pickFields(src map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := src[k]; ok && v != nil {
			out[k] = v
		}
	}
	return out
}

func stringField(src map[string]any, key string) string {
	v, _ := src[key].(string)
	return v
}

func itemID(item map[string]any) string {
	return stringField(item, "id")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
