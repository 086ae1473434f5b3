package listener

import (
	"context"

	"github.com/pellham/dnsresolver/internal/dns/domain"
)

// Resolver answers one client question. Implemented by *resolver.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, q domain.Question, recursionDesired bool) (*domain.Packet, error)
}
