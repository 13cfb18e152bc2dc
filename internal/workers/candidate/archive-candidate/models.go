// internal/workers/candidate/archive-candidate/models.go
package archivecandidate

type Input struct {
	CandidateID   string `json:"candidateId"`
	RequestedBy   string `json:"requestedBy"`
	ATSExternalID string `json:"atsExternalId,omitempty"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	Archived    bool   `json:"archived"`
	ArchivedAt  string `json:"archivedAt"` // ISO 8601
}
