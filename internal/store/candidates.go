// internal/store/candidates.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"

	"github.com/google/uuid"
)

// CandidateStore persists candidates, their analysis snapshots, and the audit
// trail. Analysis results are immutable once written: a re-scoring pass
// snapshots the superseded result into candidate_versions and replaces the
// current one.
type CandidateStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCandidateStore(db *sql.DB, log logger.Logger) *CandidateStore {
	return &CandidateStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "candidate-store"}),
	}
}

// GetByID loads a candidate with its current analysis. Soft-deleted
// candidates are reported as not found.
func (s *CandidateStore) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, role_applied, resume_text, analysis, created_at, updated_at
		FROM candidates
		WHERE id = $1 AND is_deleted = false`, id)

	var c models.Candidate
	var email, phone, role, resumeText sql.NullString
	var analysisJSON []byte
	err := row.Scan(&c.ID, &c.Name, &email, &phone, &role, &resumeText, &analysisJSON, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	c.Email = email.String
	c.Phone = phone.String
	c.RoleApplied = role.String
	c.ResumeText = resumeText.String
	if len(analysisJSON) > 0 {
		var analysis models.AnalysisResult
		if err := json.Unmarshal(analysisJSON, &analysis); err == nil {
			c.CurrentAnalysis = &analysis
		}
	}
	return &c, nil
}

// SaveAnalysis attaches a fresh analysis to the candidate, creating the
// candidate row when candidateID is empty. The superseded analysis, if any,
// is archived into candidate_versions first. Returns the candidate ID.
func (s *CandidateStore) SaveAnalysis(ctx context.Context, candidateID, actor, roleApplied, resumeText string, analysis *models.AnalysisResult) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save analysis: %w", err)
	}
	defer tx.Rollback()

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}

	now := time.Now().UTC()
	eventType := models.AuditCandidateAnalyzed

	if candidateID == "" {
		candidateID = uuid.New().String()
		eventType = models.AuditCandidateCreated
		_, err = tx.ExecContext(ctx, `
			INSERT INTO candidates (
				id, name, email, phone, role_applied, resume_text, analysis,
				is_deleted, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $8)`,
			candidateID, analysis.Name, analysis.Email, analysis.Phone,
			roleApplied, resumeText, analysisJSON, now)
		if err != nil {
			return "", fmt.Errorf("insert candidate: %w", err)
		}
	} else {
		// Archive the superseded analysis before replacing it.
		var prevJSON []byte
		var prevRole sql.NullString
		err = tx.QueryRowContext(ctx, `
			SELECT analysis, role_applied FROM candidates
			WHERE id = $1 AND is_deleted = false`, candidateID).Scan(&prevJSON, &prevRole)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: candidate %s", ErrNotFound, candidateID)
		}
		if err != nil {
			return "", fmt.Errorf("load previous analysis: %w", err)
		}

		if len(prevJSON) > 0 {
			eventType = models.AuditCandidateRescored
			_, err = tx.ExecContext(ctx, `
				INSERT INTO candidate_versions (id, candidate_id, role_applied, analysis, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), candidateID, prevRole.String, prevJSON, now)
			if err != nil {
				return "", fmt.Errorf("archive analysis version: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE candidates
			SET analysis = $2, role_applied = $3, updated_at = $4
			WHERE id = $1`, candidateID, analysisJSON, roleApplied, now)
		if err != nil {
			return "", fmt.Errorf("update candidate analysis: %w", err)
		}
	}

	if err := s.writeAudit(ctx, tx, models.AuditEvent{
		EventType:    eventType,
		ResourceType: "candidate",
		ResourceID:   candidateID,
		Actor:        actor,
		Details: map[string]interface{}{
			"matchScore":   analysis.MatchScore,
			"modelVersion": analysis.ModelVersion,
			"roleApplied":  roleApplied,
		},
		CreatedAt: now,
	}); err != nil {
		// The audit trail is written in the same transaction; a failure here
		// aborts the save rather than leaving an unaudited mutation.
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save analysis: %w", err)
	}
	return candidateID, nil
}

// Archive soft-deletes a candidate. The record is flagged, never erased.
func (s *CandidateStore) Archive(ctx context.Context, candidateID, actor string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE candidates
		SET is_deleted = true, deleted_by = $2, deleted_at = $3, updated_at = $3
		WHERE id = $1 AND is_deleted = false`, candidateID, actor, now)
	if err != nil {
		return fmt.Errorf("archive candidate: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: candidate %s", ErrNotFound, candidateID)
	}

	if err := s.writeAudit(ctx, tx, models.AuditEvent{
		EventType:    models.AuditCandidateArchived,
		ResourceType: "candidate",
		ResourceID:   candidateID,
		Actor:        actor,
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *CandidateStore) writeAudit(ctx context.Context, tx *sql.Tx, event models.AuditEvent) error {
	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, event_type, resource_type, resource_id, actor, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), event.EventType, event.ResourceType, event.ResourceID,
		event.Actor, detailsJSON, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}
