// Package store is the persistence adapter between the tracker domain
// model and the relational table behind GORM.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/psychiclamb/poster-tracker/internal/models"
	"github.com/psychiclamb/poster-tracker/internal/tracker"
)

// Store performs CRUD on the topic table. All methods open their own
// scoped query; no state is held between calls.
type Store struct {
	conn *gorm.DB
}

// New wraps an open GORM connection.
func New(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

// LoadAll fetches every row and rebuilds the domain topics. Stored
// step JSON is parsed defensively: null, non-object, or malformed
// payloads become empty maps, and step keys outside the current
// enumeration are dropped, so one corrupt row never breaks the list.
func (s *Store) LoadAll(ctx context.Context) (map[string]*tracker.Topic, error) {
	var rows []models.Topic
	if err := s.conn.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: load topics: %w", err)
	}

	topics := make(map[string]*tracker.Topic, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(row.ID)
		topics[id] = &tracker.Topic{
			ID:          id,
			Label:       strings.TrimSpace(row.Label),
			Order:       row.OrderNum,
			GlobalSteps: decodeBoolMap(row.GlobalSteps),
			Variants:    decodeVariants(row.Variants),
		}
	}
	return topics, nil
}

// SaveAll upserts every topic in one transaction so a reorder commits
// all affected rows together or not at all.
func (s *Store) SaveAll(ctx context.Context, topics map[string]*tracker.Topic) error {
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range topics {
			row, err := toRow(t)
			if err != nil {
				return err
			}
			result := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"label", "order_num", "global_steps", "variants", "updated_at",
				}),
			}).Create(&row)
			if result.Error != nil {
				return fmt.Errorf("store: upsert topic %s: %w", t.ID, result.Error)
			}
		}
		return nil
	})
}

// Delete removes one row by id. A missing row is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.conn.WithContext(ctx).Delete(&models.Topic{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("store: delete topic %s: %w", id, err)
	}
	return nil
}

// TruncateAll removes every row. Used by the reset-everything action.
func (s *Store) TruncateAll(ctx context.Context) error {
	if err := s.conn.WithContext(ctx).Where("1 = 1").Delete(&models.Topic{}).Error; err != nil {
		return fmt.Errorf("store: truncate topics: %w", err)
	}
	return nil
}

// toRow serializes a domain topic. The legacy global_steps column is
// always written as an empty object.
func toRow(t *tracker.Topic) (models.Topic, error) {
	variants, err := json.Marshal(t.Variants)
	if err != nil {
		return models.Topic{}, fmt.Errorf("store: marshal variants for %s: %w", t.ID, err)
	}
	return models.Topic{
		ID:          t.ID,
		Label:       t.Label,
		OrderNum:    t.Order,
		GlobalSteps: "{}",
		Variants:    string(variants),
	}, nil
}

// decodeVariants rebuilds the variant→step maps, restricted to the
// enumerated variant and step keys. Missing steps default to false.
func decodeVariants(raw string) map[string]map[string]bool {
	stored := make(map[string]json.RawMessage)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			stored = map[string]json.RawMessage{}
		}
	}

	variants := make(map[string]map[string]bool, len(tracker.Variants))
	for _, v := range tracker.Variants {
		in := decodeBoolMap(string(stored[v.Key]))
		steps := tracker.EmptySteps()
		for _, s := range tracker.Steps {
			if in[s.Key] {
				steps[s.Key] = true
			}
		}
		variants[v.Key] = steps
	}
	return variants
}

// decodeBoolMap parses a JSON object into a bool map, returning an
// empty map for null, malformed, or non-object input. Values that are
// not JSON true read as false, so a half-corrupt object still yields
// its valid flags.
func decodeBoolMap(raw string) map[string]bool {
	if raw == "" || raw == "null" {
		return map[string]bool{}
	}
	var in map[string]any
	if err := json.Unmarshal([]byte(raw), &in); err != nil || in == nil {
		return map[string]bool{}
	}
	m := make(map[string]bool, len(in))
	for k, v := range in {
		b, _ := v.(bool)
		m[k] = b
	}
	return m
}
