package memory

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource produces unique pattern identifiers. Injectable so tests can
// assert deterministic IDs.
type IDSource interface {
	NewID() string
}

// UUIDSource generates random UUIDv4 identifiers. The default source.
type UUIDSource struct{}

// NewID implements IDSource.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// SequenceSource generates monotonic prefixed identifiers for tests.
type SequenceSource struct {
	Prefix string
	next   atomic.Uint64
}

// NewID implements IDSource.
func (s *SequenceSource) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.next.Add(1))
}
