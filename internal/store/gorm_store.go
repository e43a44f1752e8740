package store

import (
	"context"
	"errors"
	"time"

	"circletrust/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// neighborChunk bounds the size of IN lists sent to the database.
const neighborChunk = 500

// GormStore persists edges through gorm. It runs against postgres in
// production and sqlite in tests and local development.
type GormStore struct {
	db   *gorm.DB
	opts options
}

// NewGormStore wraps an open gorm connection. The schema must already be
// migrated (see database.Migrate).
func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	return &GormStore{db: db, opts: buildOptions(opts)}
}

func (s *GormStore) now() time.Time { return s.opts.now().UTC() }

// GetEdges implements EdgeStore.
func (s *GormStore) GetEdges(ctx context.Context, ownerID string, tier models.Tier) ([]models.Edge, error) {
	if err := validateTierFilter(tier); err != nil {
		return nil, err
	}
	query := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if tier != "" {
		query = query.Where("tier = ?", tier)
	}

	var edges []models.Edge
	if err := query.Find(&edges).Error; err != nil {
		return nil, unavailable("get edges", err)
	}
	SortEdges(edges)
	return edges, nil
}

// UpsertEdge implements EdgeStore. The conflict clause only overwrites a
// row whose UpdatedAt is not newer than ours, so a slower writer carrying an
// older timestamp loses instead of clobbering the newer tier.
func (s *GormStore) UpsertEdge(ctx context.Context, ownerID, targetID string, tier models.Tier) (models.Edge, error) {
	if err := validateEdge(ownerID, targetID, tier); err != nil {
		return models.Edge{}, err
	}
	if tier == "" {
		tier = models.DefaultTier
	}

	var result models.Edge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, found, err := takeEdge(tx, ownerID, targetID)
		if err != nil {
			return err
		}
		if found && existing.Tier == tier {
			result = existing
			return nil
		}

		now := s.now()
		edge := models.Edge{OwnerID: ownerID, TargetID: targetID, Tier: tier, CreatedAt: now, UpdatedAt: now}
		if found {
			edge.CreatedAt = existing.CreatedAt
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tier", "updated_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "circle_edges.updated_at <= excluded.updated_at"},
			}},
		}).Create(&edge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A newer write won; report the surviving edge.
			winner, _, err := takeEdge(tx, ownerID, targetID)
			if err != nil {
				return err
			}
			result = winner
			return nil
		}

		var from models.Tier
		if found {
			from = existing.Tier
		}
		if err := recordChange(tx, ownerID, targetID, from, tier, now); err != nil {
			return err
		}
		result = edge
		return nil
	})
	if err != nil {
		return models.Edge{}, unavailable("upsert edge", err)
	}
	return result, nil
}

// EnsureEdge implements EdgeStore.
func (s *GormStore) EnsureEdge(ctx context.Context, ownerID, targetID string, tier models.Tier) (models.Edge, bool, error) {
	if err := validateEdge(ownerID, targetID, tier); err != nil {
		return models.Edge{}, false, err
	}
	if tier == "" {
		tier = models.DefaultTier
	}

	var (
		result  models.Edge
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, found, err := takeEdge(tx, ownerID, targetID)
		if err != nil {
			return err
		}
		if found {
			result = existing
			return nil
		}

		now := s.now()
		edge := models.Edge{OwnerID: ownerID, TargetID: targetID, Tier: tier, CreatedAt: now, UpdatedAt: now}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			winner, _, err := takeEdge(tx, ownerID, targetID)
			if err != nil {
				return err
			}
			result = winner
			return nil
		}
		if err := recordChange(tx, ownerID, targetID, "", tier, now); err != nil {
			return err
		}
		result, created = edge, true
		return nil
	})
	if err != nil {
		return models.Edge{}, false, unavailable("ensure edge", err)
	}
	return result, created, nil
}

// DeleteEdge implements EdgeStore.
func (s *GormStore) DeleteEdge(ctx context.Context, ownerID, targetID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, found, err := takeEdge(tx, ownerID, targetID)
		if err != nil || !found {
			return err
		}
		res := tx.Where("owner_id = ? AND target_id = ?", ownerID, targetID).Delete(&models.Edge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return recordChange(tx, ownerID, targetID, existing.Tier, "", s.now())
	})
	if err != nil {
		return unavailable("delete edge", err)
	}
	return nil
}

// PeoplesNeighbors implements EdgeStore.
func (s *GormStore) PeoplesNeighbors(ctx context.Context, ownerIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for start := 0; start < len(ownerIDs); start += neighborChunk {
		end := min(start+neighborChunk, len(ownerIDs))

		var rows []models.Edge
		err := s.db.WithContext(ctx).
			Select("owner_id", "target_id").
			Where("owner_id IN ? AND tier = ?", ownerIDs[start:end], models.TierPeoples).
			Order("owner_id, target_id").
			Find(&rows).Error
		if err != nil {
			return nil, unavailable("peoples neighbors", err)
		}
		for _, r := range rows {
			out[r.OwnerID] = append(out[r.OwnerID], r.TargetID)
		}
	}
	return out, nil
}

// ChurnEvents implements EdgeStore.
func (s *GormStore) ChurnEvents(ctx context.Context, ownerID string, since, until time.Time) ([]models.EdgeEvent, error) {
	var events []models.EdgeEvent
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND occurred_at > ? AND occurred_at <= ?", ownerID, since.UTC(), until.UTC()).
		Where("kind IN ?", []models.EdgeEventKind{models.EventDowngraded, models.EventRemoved}).
		Order("occurred_at, id").
		Find(&events).Error
	if err != nil {
		return nil, unavailable("churn events", err)
	}
	return events, nil
}

// ListOwners implements EdgeStore.
func (s *GormStore) ListOwners(ctx context.Context, after string, limit int) ([]string, error) {
	var owners []string
	err := s.db.WithContext(ctx).
		Model(&models.Edge{}).
		Distinct("owner_id").
		Where("owner_id > ?", after).
		Order("owner_id").
		Limit(limit).
		Pluck("owner_id", &owners).Error
	if err != nil {
		return nil, unavailable("list owners", err)
	}
	return owners, nil
}

// CountOwners implements EdgeStore.
func (s *GormStore) CountOwners(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Edge{}).
		Distinct("owner_id").
		Count(&n).Error
	if err != nil {
		return 0, unavailable("count owners", err)
	}
	return int(n), nil
}

// DeleteUser implements EdgeStore.
func (s *GormStore) DeleteUser(ctx context.Context, userID string) ([]string, error) {
	var affected []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Edge{}).
			Where("target_id = ? AND owner_id <> ?", userID, userID).
			Order("owner_id").
			Pluck("owner_id", &affected).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ? OR target_id = ?", userID, userID).Delete(&models.Edge{}).Error; err != nil {
			return err
		}
		return tx.Where("owner_id = ?", userID).Delete(&models.EdgeEvent{}).Error
	})
	if err != nil {
		return nil, unavailable("delete user", err)
	}
	return affected, nil
}

func takeEdge(tx *gorm.DB, ownerID, targetID string) (models.Edge, bool, error) {
	var edge models.Edge
	err := tx.Where("owner_id = ? AND target_id = ?", ownerID, targetID).Take(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Edge{}, false, nil
	}
	if err != nil {
		return models.Edge{}, false, err
	}
	return edge, true, nil
}

func recordChange(tx *gorm.DB, ownerID, targetID string, from, to models.Tier, at time.Time) error {
	kind, ok := models.ClassifyChange(from, to)
	if !ok {
		return nil
	}
	return tx.Create(&models.EdgeEvent{
		OwnerID:    ownerID,
		TargetID:   targetID,
		FromTier:   from,
		ToTier:     to,
		Kind:       kind,
		OccurredAt: at,
	}).Error
}
