// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-workers/internal/common/config"
	"recruit-workers/internal/common/database"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"
	"recruit-workers/internal/store"

	archivecandidate "recruit-workers/internal/workers/candidate/archive-candidate"
	indexcandidate "recruit-workers/internal/workers/candidate/index-candidate"
	persistanalysis "recruit-workers/internal/workers/candidate/persist-analysis"
)

// These tests run against live Postgres, Redis, and Elasticsearch. They
// are skipped unless E2E=1 and expect the docker-compose stack with the
// schema applied.
func requireStack(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv("E2E") != "1" {
		t.Skip("set E2E=1 to run end-to-end tests")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestCandidateLifecycle(t *testing.T) {
	cfg := requireStack(t)
	log := logger.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx))

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, esClient.Ping())

	candidates := store.NewCandidateStore(pg.GetDB(), log)

	analysis := &models.AnalysisResult{
		MatchScore:        7.5,
		Skills:            []string{"Go", "Kubernetes"},
		DetectedSource:    "LinkedIn",
		YearsOfExperience: 6,
		Summary:           "e2e test candidate",
		Advice:            models.Advice{Verdict: models.VerdictRecommend},
	}

	// Persist a new candidate with its first analysis.
	ph := persistanalysis.NewHandler(persistanalysis.LoadConfig(), candidates, log)
	persisted, err := ph.Execute(ctx, &persistanalysis.Input{
		Actor:       "e2e",
		RoleApplied: "Platform Engineer",
		ResumeText:  "Six years of Go and Kubernetes.",
		Analysis:    analysis,
	})
	require.NoError(t, err)
	require.NotEmpty(t, persisted.CandidateID)

	// Index it for search.
	ih := indexcandidate.NewHandler(
		indexcandidate.LoadConfig(cfg.Database.Elasticsearch.CandidateIndex),
		candidates, esClient.Client, log,
	)
	indexed, err := ih.Execute(ctx, &indexcandidate.Input{CandidateID: persisted.CandidateID})
	require.NoError(t, err)
	assert.True(t, indexed.Indexed)

	// Archive and verify it disappears from reads.
	ah := archivecandidate.NewHandler(archivecandidate.LoadConfig(), candidates, nil, log)
	archived, err := ah.Execute(ctx, &archivecandidate.Input{
		CandidateID: persisted.CandidateID,
		RequestedBy: "e2e",
	})
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	_, err = candidates.GetByID(ctx, persisted.CandidateID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStandardsCache(t *testing.T) {
	cfg := requireStack(t)
	log := logger.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()

	standards := store.NewStandardsStore(pg.GetDB(), rdb.GetClient(),
		time.Duration(cfg.Scoring.StandardsCacheTTL)*time.Second, log)

	first, err := standards.FetchActive(ctx)
	require.NoError(t, err)

	// Second fetch should be served from the cache and match exactly.
	second, err := standards.FetchActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
