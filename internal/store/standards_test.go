// internal/store/standards_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeStandardRows(standards ...models.ScoringStandard) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "category", "condition", "rule_text", "description", "priority", "is_active", "updated_at"})
	for _, s := range standards {
		rows.AddRow(s.ID, string(s.Category), s.Condition, s.RuleText, s.Description, s.Priority, s.IsActive, s.UpdatedAt)
	}
	return rows
}

func TestStandardsStore_FetchActive_CacheMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	standard := models.ScoringStandard{
		ID:        "std-1",
		Category:  models.CategoryDimensionWeight,
		Condition: "Skills",
		RuleText:  "40",
		Priority:  1,
		IsActive:  true,
		UpdatedAt: time.Now().UTC(),
	}

	redisMock.ExpectGet(standardsCacheKey).RedisNil()
	mock.ExpectQuery(`SELECT id, category, condition, rule_text`).
		WillReturnRows(activeStandardRows(standard))
	redisMock.Regexp().ExpectSet(standardsCacheKey, `.*`, 5*time.Minute).SetVal("OK")

	s := NewStandardsStore(db, rdb, 5*time.Minute, logger.NewNoOpLogger())
	standards, err := s.FetchActive(context.Background())

	require.NoError(t, err)
	require.Len(t, standards, 1)
	assert.Equal(t, "Skills", standards[0].Condition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStandardsStore_FetchActive_CacheHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	cached := []models.ScoringStandard{{
		ID:        "std-1",
		Category:  models.CategoryGeneralRule,
		RuleText:  "Ignore photos.",
		IsActive:  true,
		UpdatedAt: time.Now().UTC(),
	}}
	data, _ := json.Marshal(cached)
	redisMock.ExpectGet(standardsCacheKey).SetVal(string(data))

	s := NewStandardsStore(db, rdb, time.Minute, logger.NewNoOpLogger())
	standards, err := s.FetchActive(context.Background())

	require.NoError(t, err)
	require.Len(t, standards, 1)
	assert.Equal(t, "Ignore photos.", standards[0].RuleText)
	// No database round trip on a cache hit.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStandardsStore_CacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	standard := models.ScoringStandard{
		ID:        "std-1",
		Category:  models.CategoryGeneralRule,
		RuleText:  "Penalize unexplained gaps.",
		Priority:  2,
		IsActive:  true,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	// Exactly one database query serves both fetches.
	mock.ExpectQuery(`SELECT id, category, condition, rule_text`).
		WillReturnRows(activeStandardRows(standard))

	s := NewStandardsStore(db, rdb, time.Minute, logger.NewNoOpLogger())

	first, err := s.FetchActive(context.Background())
	require.NoError(t, err)

	second, err := s.FetchActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())

	// After invalidation the cache entry is gone.
	require.NoError(t, s.Invalidate(context.Background()))
	assert.False(t, mr.Exists(standardsCacheKey))
}

func TestStandardsStore_Invalidate(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectDel(standardsCacheKey).SetVal(1)

	s := NewStandardsStore(nil, rdb, time.Minute, logger.NewNoOpLogger())

	assert.NoError(t, s.Invalidate(context.Background()))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
