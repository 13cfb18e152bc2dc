// internal/llm/client.go
package llm

import (
	"context"
	"errors"
)

// ErrMissingCredential marks an analysis attempted without completion-service
// credentials. It is a checked precondition, surfaced before any call is made.
var ErrMissingCredential = errors.New("MISSING_CREDENTIAL")

// CompletionClient is the completion-service contract: it takes an
// instruction document plus the candidate content (resume text, or prior
// structured data for a re-evaluation) and returns text purporting to match
// the requested schema. Callers attempt each call exactly once; the response
// is untrusted until the normalizer has run.
type CompletionClient interface {
	Complete(ctx context.Context, instructions, content string) (string, error)
	ModelVersion() string
}
