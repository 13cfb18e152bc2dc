// internal/store/standards.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const standardsCacheKey = "scoring:standards:active"

// StandardsStore reads the admin-configured scoring rules. Active rules are
// cached in Redis because every analysis request re-reads the full set; admin
// edits invalidate the cache.
type StandardsStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStandardsStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *StandardsStore {
	return &StandardsStore{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "standards-store"}),
	}
}

// FetchActive returns the active scoring standards. Storage order is not
// meaningful; the compiler imposes its own priority ordering.
func (s *StandardsStore) FetchActive(ctx context.Context) ([]models.ScoringStandard, error) {
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, standardsCacheKey).Result(); err == nil {
			var cached []models.ScoringStandard
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, condition, rule_text, description, priority, is_active, updated_at
		FROM scoring_standards
		WHERE is_active = true`)
	if err != nil {
		return nil, fmt.Errorf("fetch active standards: %w", err)
	}
	defer rows.Close()

	var standards []models.ScoringStandard
	for rows.Next() {
		var std models.ScoringStandard
		var description sql.NullString
		if err := rows.Scan(&std.ID, &std.Category, &std.Condition, &std.RuleText,
			&description, &std.Priority, &std.IsActive, &std.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan standard: %w", err)
		}
		std.Description = description.String
		standards = append(standards, std)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standards: %w", err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(standards); err == nil {
			if err := s.redis.Set(ctx, standardsCacheKey, data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("standards cache write failed", map[string]interface{}{
					"error": err,
				})
			}
		}
	}

	return standards, nil
}

// Invalidate drops the cached rule set. Called after admin edits.
func (s *StandardsStore) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, standardsCacheKey).Err()
}
