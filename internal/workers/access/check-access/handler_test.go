// internal/workers/access/check-access/handler_test.go
package checkaccess

import (
	"context"
	"errors"
	"testing"

	"recruit-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	roles map[string][]string
	err   error
}

func (f *fakeResolver) GetUserRealmRoles(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[userID], nil
}

func newHandler(resolver RoleResolver) *Handler {
	return NewHandler(LoadConfig(), resolver, logger.NewNoOpLogger())
}

func TestExecute_RecruiterCanAnalyze(t *testing.T) {
	h := newHandler(&fakeResolver{roles: map[string][]string{"u1": {"recruiter"}}})

	out, err := h.Execute(context.Background(), &Input{UserID: "u1", Operation: OpAnalyze})

	require.NoError(t, err)
	assert.True(t, out.Allowed)
	assert.Equal(t, []string{"recruiter"}, out.Roles)
}

func TestExecute_ViewerCannotRescore(t *testing.T) {
	h := newHandler(&fakeResolver{roles: map[string][]string{"u2": {"viewer"}}})

	_, err := h.Execute(context.Background(), &Input{UserID: "u2", Operation: OpRescore})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AdminCanArchive(t *testing.T) {
	h := newHandler(&fakeResolver{roles: map[string][]string{"u3": {"admin"}}})

	out, err := h.Execute(context.Background(), &Input{UserID: "u3", Operation: OpArchive})

	require.NoError(t, err)
	assert.True(t, out.Allowed)
}

func TestExecute_RecruiterCannotArchive(t *testing.T) {
	h := newHandler(&fakeResolver{roles: map[string][]string{"u4": {"recruiter"}}})

	_, err := h.Execute(context.Background(), &Input{UserID: "u4", Operation: OpArchive})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_UnknownOperationDenied(t *testing.T) {
	h := newHandler(&fakeResolver{roles: map[string][]string{"u1": {"admin"}}})

	_, err := h.Execute(context.Background(), &Input{UserID: "u1", Operation: "drop-tables"})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_MissingUserDenied(t *testing.T) {
	h := newHandler(&fakeResolver{})

	_, err := h.Execute(context.Background(), &Input{Operation: OpView})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_ResolverErrorIsRetryable(t *testing.T) {
	h := newHandler(&fakeResolver{err: errors.New("keycloak unavailable")})

	_, err := h.Execute(context.Background(), &Input{UserID: "u1", Operation: OpView})

	assert.ErrorIs(t, err, ErrRoleLookup)
	assert.NotErrorIs(t, err, ErrAccessDenied)
}
