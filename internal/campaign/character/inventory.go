package character

import (
	"encoding/json"
	"time"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// InventoryItem is one entry in a character's carried-items list,
// stored inside a version's embedded_data rather than its own table.
type InventoryItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"equipped"`
	Notes    string `json:"notes,omitempty"`
}

// mutateCurrentVersion loads the current version's embedded data,
// applies fn, and appends the result as a new version, advancing
// current_version in the same transaction — like LevelUp, it never
// rewrites an existing version.
func (s *Service) mutateCurrentVersion(characterID string, fn func(data map[string]any) error) error {
	c, err := s.Get(characterID)
	if err != nil {
		return err
	}
	v, err := s.GetVersion(characterID, c.CurrentVersion)
	if err != nil {
		return err
	}
	if v.EmbeddedData == nil {
		v.EmbeddedData = map[string]any{}
	}
	if err := fn(v.EmbeddedData); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	defer tx.Rollback()
	next := c.CurrentVersion + 1
	if err := insertVersion(tx, characterID, next, c.CurrentLevel, "inventory/currency update", v.EmbeddedData, now); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE characters SET current_version = ?, updated_at = ? WHERE id = ?`, next, now, characterID); err != nil {
		return apperr.NewDatabase(err, false)
	}
	if err := tx.Commit(); err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

func inventoryList(data map[string]any) []InventoryItem {
	raw, ok := data["inventory"]
	if !ok {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var items []InventoryItem
	_ = json.Unmarshal(encoded, &items)
	return items
}

// AddInventoryItem appends an item to the character's current
// snapshot, merging quantity into an existing entry of the same name
// rather than creating a duplicate line.
func (s *Service) AddInventoryItem(characterID string, item InventoryItem) error {
	if item.Name == "" {
		return apperr.NewValidation("inventory item name is required")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	return s.mutateCurrentVersion(characterID, func(data map[string]any) error {
		items := inventoryList(data)
		for i, existing := range items {
			if existing.Name == item.Name {
				items[i].Quantity += item.Quantity
				data["inventory"] = items
				return nil
			}
		}
		items = append(items, item)
		data["inventory"] = items
		return nil
	})
}

// RemoveInventoryItem removes quantity units of a named item, deleting
// the line entirely once its quantity reaches zero.
func (s *Service) RemoveInventoryItem(characterID, name string, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	return s.mutateCurrentVersion(characterID, func(data map[string]any) error {
		items := inventoryList(data)
		out := make([]InventoryItem, 0, len(items))
		found := false
		for _, existing := range items {
			if existing.Name == name {
				found = true
				existing.Quantity -= quantity
				if existing.Quantity > 0 {
					out = append(out, existing)
				}
				continue
			}
			out = append(out, existing)
		}
		if !found {
			return apperr.NewNotFound("inventory_item", name)
		}
		data["inventory"] = out
		return nil
	})
}

// SetEquipped marks a named inventory item equipped or unequipped.
func (s *Service) SetEquipped(characterID, name string, equipped bool) error {
	return s.mutateCurrentVersion(characterID, func(data map[string]any) error {
		items := inventoryList(data)
		for i, existing := range items {
			if existing.Name == name {
				items[i].Equipped = equipped
				data["inventory"] = items
				return nil
			}
		}
		return apperr.NewNotFound("inventory_item", name)
	})
}

// Currency is a character's carried coinage.
type Currency struct {
	CP int `json:"cp"`
	SP int `json:"sp"`
	EP int `json:"ep"`
	GP int `json:"gp"`
	PP int `json:"pp"`
}

// SetCurrency overwrites the character's currency snapshot.
func (s *Service) SetCurrency(characterID string, c Currency) error {
	if c.CP < 0 || c.SP < 0 || c.EP < 0 || c.GP < 0 || c.PP < 0 {
		return apperr.NewValidation("currency amounts must be non-negative")
	}
	return s.mutateCurrentVersion(characterID, func(data map[string]any) error {
		data["currency"] = c
		return nil
	})
}
