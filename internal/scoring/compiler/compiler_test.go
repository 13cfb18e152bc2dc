// internal/scoring/compiler/compiler_test.go
package compiler

import (
	"strings"
	"testing"

	"recruit-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func dimensionWeight(condition, weight string, priority int) models.ScoringStandard {
	return models.ScoringStandard{
		Category:    models.CategoryDimensionWeight,
		Condition:   condition,
		RuleText:    weight,
		Description: condition + " rubric",
		Priority:    priority,
		IsActive:    true,
	}
}

func industryPenalty(condition, ruleText string, priority int) models.ScoringStandard {
	return models.ScoringStandard{
		Category:  models.CategoryIndustryPenalty,
		Condition: condition,
		RuleText:  ruleText,
		Priority:  priority,
		IsActive:  true,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCompile_ScenarioFromRuleSet(t *testing.T) {
	standards := []models.ScoringStandard{
		dimensionWeight("Skills", "40", 1),
		industryPenalty("Manufacturing", `{"competency":0.7}`, 10),
	}

	out := Compile(standards, "Senior Backend Engineer", "English")

	assert.Contains(t, out, "Skills (Weight: 40%)")
	assert.Contains(t, out, "Manufacturing")
	assert.Contains(t, out, "x0.7")
	assert.Contains(t, out, "Senior Backend Engineer")
}

func TestCompile_Deterministic(t *testing.T) {
	standards := []models.ScoringStandard{
		dimensionWeight("Skills", "40", 2),
		dimensionWeight("Experience", "35", 1),
		industryPenalty("Manufacturing", `{"competency":0.7,"culture":0.9}`, 10),
		{Category: models.CategoryGeneralRule, RuleText: "Ignore photos.", Priority: 5, IsActive: true},
	}

	first := Compile(standards, "Platform Engineer", "English")
	second := Compile(standards, "Platform Engineer", "English")

	assert.Equal(t, first, second, "identical input must yield byte-identical output")
}

func TestCompile_DimensionWeightsSortedByPriority(t *testing.T) {
	standards := []models.ScoringStandard{
		dimensionWeight("Culture", "20", 3),
		dimensionWeight("Skills", "40", 1),
		dimensionWeight("Experience", "40", 2),
	}

	out := Compile(standards, "any role", "")

	skillsIdx := strings.Index(out, "Skills (Weight: 40%)")
	expIdx := strings.Index(out, "Experience (Weight: 40%)")
	cultureIdx := strings.Index(out, "Culture (Weight: 20%)")

	assert.True(t, skillsIdx >= 0 && expIdx >= 0 && cultureIdx >= 0)
	assert.Less(t, skillsIdx, expIdx)
	assert.Less(t, expIdx, cultureIdx)
}

func TestCompile_InactiveRulesExcluded(t *testing.T) {
	standards := []models.ScoringStandard{
		dimensionWeight("Skills", "40", 1),
		{
			Category:  models.CategoryDimensionWeight,
			Condition: "Disabled",
			RuleText:  "60",
			Priority:  2,
			IsActive:  false,
		},
	}

	out := Compile(standards, "any role", "")

	assert.Contains(t, out, "Skills (Weight: 40%)")
	assert.NotContains(t, out, "Disabled")
}

func TestCompile_EmptyDimensionSetRendersFallback(t *testing.T) {
	out := Compile(nil, "any role", "")

	assert.Contains(t, out, "use general judgement")
}

func TestCompile_MalformedPenaltyPassesThroughVerbatim(t *testing.T) {
	standards := []models.ScoringStandard{
		industryPenalty("Retail", "not a json mapping", 1),
	}

	out := Compile(standards, "any role", "")

	assert.Contains(t, out, "Retail: not a json mapping")
	assert.NotContains(t, out, "IF candidate industry matches \"Retail\"")
}

func TestCompile_PenaltyRendersConditionalWithGapInstruction(t *testing.T) {
	standards := []models.ScoringStandard{
		industryPenalty("Manufacturing", `{"culture":0.9,"competency":0.7}`, 1),
	}

	out := Compile(standards, "any role", "")

	assert.Contains(t, out, `IF candidate industry matches "Manufacturing" THEN apply competency x0.7, culture x0.9.`)
	assert.Contains(t, out, "record that fact explicitly in the gap analysis")
}

func TestCompile_FixedDirectivesAlwaysPresent(t *testing.T) {
	out := Compile(nil, "Data Analyst", "Traditional Chinese")

	assert.Contains(t, out, "Active Applicant Detection")
	assert.Contains(t, out, "exactly one sentence")
	assert.Contains(t, out, "exactly three advice bullets")
	assert.Contains(t, out, `"RECOMMEND" or "DO NOT RECOMMEND"`)
	assert.Contains(t, out, "Write all free-text output in Traditional Chinese.")
}

func TestDimensionWeightTotal(t *testing.T) {
	tests := []struct {
		name      string
		standards []models.ScoringStandard
		expected  float64
	}{
		{
			name: "sums active dimension weights",
			standards: []models.ScoringStandard{
				dimensionWeight("Skills", "40", 1),
				dimensionWeight("Experience", "60", 2),
			},
			expected: 100,
		},
		{
			name: "skips inactive and unparseable weights",
			standards: []models.ScoringStandard{
				dimensionWeight("Skills", "40", 1),
				dimensionWeight("Junk", "forty", 2),
				{Category: models.CategoryDimensionWeight, RuleText: "50", IsActive: false},
			},
			expected: 40,
		},
		{
			name: "ignores other categories",
			standards: []models.ScoringStandard{
				dimensionWeight("Skills", "40", 1),
				{Category: models.CategorySkillWeight, RuleText: "30", IsActive: true},
			},
			expected: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DimensionWeightTotal(tt.standards))
		})
	}
}
