// internal/workers/analysis/rescore-batch/models.go
package rescorebatch

type Input struct {
	CandidateIDs []string `json:"candidateIds"`
	JobID        string   `json:"jobId,omitempty"`
	Language     string   `json:"language,omitempty"`
	RequestedBy  string   `json:"requestedBy"`
}

type ItemFailure struct {
	CandidateID string `json:"candidateId"`
	Reason      string `json:"reason"`
}

type Output struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []ItemFailure `json:"failures"`
}
