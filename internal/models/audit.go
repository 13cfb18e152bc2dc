// internal/models/audit.go
package models

import "time"

// AuditEvent is one entry in the audit trail. Every mutating worker writes
// one; reads never do.
type AuditEvent struct {
	ID           string                 `json:"id,omitempty"`
	EventType    string                 `json:"eventType"`
	ResourceType string                 `json:"resourceType"`
	ResourceID   string                 `json:"resourceId"`
	Actor        string                 `json:"actor,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

const (
	AuditCandidateCreated   = "candidate_created"
	AuditCandidateAnalyzed  = "candidate_analyzed"
	AuditCandidateRescored  = "candidate_rescored"
	AuditCandidateArchived  = "candidate_archived"
	AuditIndustryPenaltyHit = "industry_penalty_applied"
)
