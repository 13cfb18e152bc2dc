// internal/models/candidate.go
package models

import "time"

// Candidate is the persisted candidate record. Removal is a soft delete: the
// row is flagged, never erased, so the audit trail stays intact.
type Candidate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	RoleApplied  string `json:"roleApplied,omitempty"`
	ResumeText   string `json:"resumeText,omitempty"`
	ResumeBucket string `json:"resumeBucket,omitempty"`
	ResumeKey    string `json:"resumeKey,omitempty"`

	CurrentAnalysis *AnalysisResult    `json:"currentAnalysis,omitempty"`
	Versions        []CandidateVersion `json:"versions,omitempty"`

	IsDeleted bool       `json:"isDeleted"`
	DeletedBy string     `json:"deletedBy,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CandidateVersion is a historical snapshot taken whenever an analysis is
// superseded by a re-scoring pass.
type CandidateVersion struct {
	ID          string          `json:"id"`
	CandidateID string          `json:"candidateId"`
	RoleApplied string          `json:"roleApplied,omitempty"`
	Analysis    *AnalysisResult `json:"analysis"`
	CreatedAt   time.Time       `json:"createdAt"`
}
