// internal/workers/notification/notify-analysis-complete/models.go
package notifyanalysiscomplete

type Input struct {
	CandidateID    string  `json:"candidateId"`
	CandidateName  string  `json:"candidateName"`
	RecipientEmail string  `json:"recipientEmail"`
	RecipientPhone string  `json:"recipientPhone,omitempty"`
	MatchScore     float64 `json:"matchScore"`
	Verdict        string  `json:"verdict"`
	Summary        string  `json:"summary,omitempty"`
	ATSExternalID  string  `json:"atsExternalId,omitempty"`
}

type Output struct {
	EmailSent  bool   `json:"emailSent"`
	SMSSent    bool   `json:"smsSent"`
	ATSUpdated bool   `json:"atsUpdated"`
	NotifiedAt string `json:"notifiedAt"` // ISO 8601
}
