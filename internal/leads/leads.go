// This file defines the public API of the leads bounded context.
// Only types and interfaces defined here should be imported by other
// domains.
package leads

import (
	"context"

	"github.com/google/uuid"
)

// Lead is the minimal lead information shared with other domains.
type Lead struct {
	ID              uuid.UUID
	FullName        string
	FunnelStage     string
	Temperature     string
	AssignedAgentID *uuid.UUID
}

// Reader is the read-only view other domains should depend on instead of
// the concrete repository or service.
type Reader interface {
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
}
