// internal/workers/candidate/index-candidate/models.go
package indexcandidate

type Input struct {
	CandidateID string `json:"candidateId"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	Indexed     bool   `json:"indexed"`
	Index       string `json:"index"`
}

// document is the flattened shape recruiters search on. Raw resume text and
// the full analysis stay in Postgres; the index holds only what search needs.
type document struct {
	CandidateID    string   `json:"candidateId"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	RoleApplied    string   `json:"roleApplied,omitempty"`
	MatchScore     float64  `json:"matchScore"`
	Verdict        string   `json:"verdict,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	DetectedSource string   `json:"detectedSource,omitempty"`
	YearsOfExp     float64  `json:"yearsOfExperience"`
	UpdatedAt      string   `json:"updatedAt"`
}
