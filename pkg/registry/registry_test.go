// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistry = `{
  "version": "1.0.0",
  "lastUpdated": "2026-08-20T10:00:00Z",
  "activities": [
    {
      "id": "analyze-resume",
      "displayName": "Analyze Resume",
      "category": "analysis",
      "version": "1.0.0",
      "taskType": "analyze-resume",
      "inputSchema": {
        "type": "object",
        "required": ["candidateId", "resumeText"],
        "properties": {
          "candidateId": {"type": "string"},
          "resumeText": {"type": "string"},
          "jobId": {"type": "string"}
        }
      },
      "outputSchema": {
        "type": "object",
        "properties": {
          "candidateId": {"type": "string"}
        }
      },
      "errorCodes": ["ANALYSIS_PARSE_ERROR"],
      "timeout": "120s",
      "retries": 2
    }
  ]
}`

func writeTestRegistry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(testRegistry), 0644))
	return path
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(writeTestRegistry(t))

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", reg.Version)
	require.Len(t, reg.Activities, 1)
	assert.Equal(t, "analyze-resume", reg.Activities[0].ID)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFindByTaskType(t *testing.T) {
	reg, err := LoadRegistry(writeTestRegistry(t))
	require.NoError(t, err)

	activity, ok := reg.FindByTaskType("analyze-resume")
	require.True(t, ok)
	assert.Equal(t, "analysis", activity.Category)

	_, ok = reg.FindByTaskType("unknown-task")
	assert.False(t, ok)
}

func TestValidateInput(t *testing.T) {
	reg, err := LoadRegistry(writeTestRegistry(t))
	require.NoError(t, err)
	activity, ok := reg.FindByTaskType("analyze-resume")
	require.True(t, ok)

	err = activity.ValidateInput(map[string]interface{}{
		"candidateId": "cand-1",
		"resumeText":  "Six years of Go.",
	})
	assert.NoError(t, err)

	err = activity.ValidateInput(map[string]interface{}{
		"candidateId": "cand-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resumeText")

	err = activity.ValidateInput(map[string]interface{}{
		"candidateId": 7,
		"resumeText":  "Six years of Go.",
	})
	assert.Error(t, err)
}

func TestValidateOutput_EmptySchemaAccepted(t *testing.T) {
	a := Activity{TaskType: "no-schema"}
	assert.NoError(t, a.ValidateOutput(map[string]interface{}{"anything": true}))
}
