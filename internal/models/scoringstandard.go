// internal/models/scoringstandard.go
package models

import "time"

// StandardCategory identifies how a ScoringStandard's RuleText is interpreted.
type StandardCategory string

const (
	// CategoryDimensionWeight: RuleText is a numeric weight (percent) for the
	// dimension named by Condition. Active weights are expected to sum to 100;
	// an off total is surfaced as a warning, never rejected.
	CategoryDimensionWeight StandardCategory = "dimension_weight"
	// CategoryExperienceCeiling: RuleText is an instruction capping the score
	// band for the experience bracket named by Condition.
	CategoryExperienceCeiling StandardCategory = "experience_ceiling"
	// CategoryIndustryPenalty: RuleText is a JSON object of dimension key to
	// multiplier, applied when the candidate's industry matches Condition.
	CategoryIndustryPenalty StandardCategory = "industry_penalty"
	// CategorySkillWeight: RuleText is a numeric weight for the skill named by
	// Condition.
	CategorySkillWeight StandardCategory = "skill_weight"
	// CategoryGeneralRule: RuleText is a free-text instruction.
	CategoryGeneralRule StandardCategory = "general_rule"
)

// ScoringStandard is one admin-configured scoring rule. Priority is an
// ascending sort key used when the rule set is rendered into instructions.
type ScoringStandard struct {
	ID          string           `json:"id"`
	Category    StandardCategory `json:"category"`
	Condition   string           `json:"condition"`
	RuleText    string           `json:"ruleText"`
	Description string           `json:"description,omitempty"`
	Priority    int              `json:"priority"`
	IsActive    bool             `json:"isActive"`
	CreatedBy   string           `json:"createdBy,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
