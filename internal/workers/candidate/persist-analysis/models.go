// internal/workers/candidate/persist-analysis/models.go
package persistanalysis

import "recruit-workers/internal/models"

type Input struct {
	CandidateID string                 `json:"candidateId,omitempty"` // empty creates a new candidate
	Actor       string                 `json:"actor"`
	RoleApplied string                 `json:"roleApplied,omitempty"`
	ResumeText  string                 `json:"resumeText,omitempty"`
	Analysis    *models.AnalysisResult `json:"analysis"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	SavedAt     string `json:"savedAt"` // ISO 8601
}
