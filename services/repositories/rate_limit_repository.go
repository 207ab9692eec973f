package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shawnadoherty9/travelogie-sub001/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateLimitRepository stores rate limit counters and per-endpoint policies.
type RateLimitRepository struct {
	BaseRepository
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetAndUpdate counts one request for (identifier, endpoint) inside a single
// transaction. On Postgres the counter row is locked with SELECT ... FOR UPDATE
// so concurrent callers for the same pair are serialized. The first request
// for a pair races through INSERT ... ON CONFLICT DO NOTHING and falls back to
// the row the winner created.
func (r *RateLimitRepository) GetAndUpdate(ctx context.Context, identifier, endpoint string, now time.Time, window time.Duration, maxRequests int) (*model.RateLimit, bool, error) {
	var (
		record  model.RateLimit
		allowed bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := r.lockRecord(tx, identifier, endpoint, &record)
		if err != nil {
			return err
		}

		if !found {
			record = model.RateLimit{
				ID:           newID(),
				Identifier:   identifier,
				Endpoint:     endpoint,
				RequestCount: 1,
				WindowStart:  now,
				CreatedAt:    now,
				UpdatedAt:    now,
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "identifier"}, {Name: "endpoint"}},
				DoNothing: true,
			}).Create(&record)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				allowed = true
				return nil
			}

			record = model.RateLimit{}
			found, err = r.lockRecord(tx, identifier, endpoint, &record)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("rate limit record %s/%s missing after conflict", identifier, endpoint)
			}
		}

		allowed = record.Hit(now, window, maxRequests)
		if !allowed {
			return nil
		}

		record.UpdatedAt = now
		return tx.Model(&model.RateLimit{}).Where("id = ?", record.ID).Updates(map[string]interface{}{
			"request_count": record.RequestCount,
			"window_start":  record.WindowStart,
			"updated_at":    record.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &record, allowed, nil
}

func (r *RateLimitRepository) lockRecord(tx *gorm.DB, identifier, endpoint string, dest *model.RateLimit) (bool, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := query.Where("identifier = ? AND endpoint = ?", identifier, endpoint).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RateLimitRepository) GetRateLimit(ctx context.Context, identifier, endpoint string) (*model.RateLimit, error) {
	var rateLimit model.RateLimit

	err := r.db.WithContext(ctx).Where("identifier = ? AND endpoint = ?", identifier, endpoint).First(&rateLimit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rateLimit, nil
}

func (r *RateLimitRepository) DeleteRateLimit(ctx context.Context, identifier, endpoint string) error {
	return r.db.WithContext(ctx).Where("identifier = ? AND endpoint = ?", identifier, endpoint).
		Delete(&model.RateLimit{}).Error
}

// CleanupOldRecords removes counters whose window started before cutoff.
func (r *RateLimitRepository) CleanupOldRecords(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("window_start < ?", cutoff).Delete(&model.RateLimit{})
	return res.RowsAffected, res.Error
}

func (r *RateLimitRepository) CountRecords(ctx context.Context, activeSince time.Time) (total int64, active int64, err error) {
	if err = r.db.WithContext(ctx).Model(&model.RateLimit{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&model.RateLimit{}).Where("window_start >= ?", activeSince).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

// ==================== CONFIG METHODS ====================

func (r *RateLimitRepository) ListConfigs(ctx context.Context) ([]model.RateLimitConfig, error) {
	var configs []model.RateLimitConfig
	if err := r.db.WithContext(ctx).Order("endpoint").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// SeedConfigs inserts the given policies for endpoints that have none yet.
func (r *RateLimitRepository) SeedConfigs(ctx context.Context, configs []model.RateLimitConfig) error {
	now := time.Now().UTC()
	for i := range configs {
		config := configs[i]
		if config.ID == "" {
			config.ID = newID()
		}
		config.CreatedAt = now
		config.UpdatedAt = now

		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoNothing: true,
		}).Create(&config).Error
		if err != nil {
			return fmt.Errorf("seed rate limit config %s: %w", config.Endpoint, err)
		}
	}
	return nil
}

func (r *RateLimitRepository) UpdateConfig(ctx context.Context, config *model.RateLimitConfig) error {
	config.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.RateLimitConfig{}).Where("endpoint = ?", config.Endpoint).Updates(map[string]interface{}{
		"max_requests":   config.MaxRequests,
		"window_minutes": config.WindowMinutes,
		"is_active":      config.IsActive,
		"updated_at":     config.UpdatedAt,
	}).Error
}
