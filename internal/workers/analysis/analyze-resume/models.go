// internal/workers/analysis/analyze-resume/models.go
package analyzeresume

import "recruit-workers/internal/models"

type Input struct {
	CandidateID string `json:"candidateId,omitempty"`
	ResumeText  string `json:"resumeText"`
	JobID       string `json:"jobId,omitempty"`
	Language    string `json:"language,omitempty"`
}

type Output struct {
	CandidateID string                 `json:"candidateId,omitempty"`
	Analysis    *models.AnalysisResult `json:"analysis"`
	AnalyzedAt  string                 `json:"analyzedAt"` // ISO 8601
}
