package resolver

import "context"

// Transport sends a serialized query to an upstream server and returns its
// raw response bytes. Implementations own their own per-call socket
// lifecycle (spec §5: a fresh ephemeral socket per resolver iteration).
type Transport interface {
	Query(ctx context.Context, serverAddr string, data []byte) ([]byte, error)
}
