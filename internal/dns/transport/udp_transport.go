// Package transport sends a serialized DNS query to an upstream server and
// returns its raw response bytes. Each call opens a fresh ephemeral UDP
// socket and closes it before returning (spec §5: "no socket reuse across
// iterations").
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
	"github.com/pellham/dnsresolver/internal/dns/wire"
)

// UDPTransport performs one-shot request/response exchanges against
// upstream DNS servers over UDP.
type UDPTransport struct{}

// NewUDPTransport returns a ready-to-use UDPTransport. It holds no state;
// every call opens and closes its own socket.
func NewUDPTransport() *UDPTransport {
	return &UDPTransport{}
}

// Query sends data to serverAddr (host:port) and returns the first datagram
// received in reply, or ErrUpstreamIO / ErrUpstreamTimeout on failure. The
// deadline derived from ctx bounds both the send and the receive.
func (t *UDPTransport) Query(ctx context.Context, serverAddr string, data []byte) ([]byte, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "udp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", resolvererrors.ErrUpstreamIO, serverAddr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("%w: set deadline: %v", resolvererrors.ErrUpstreamIO, err)
		}
	}

	if _, err := conn.Write(data); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: write to %s: %v", resolvererrors.ErrUpstreamTimeout, serverAddr, err)
		}
		return nil, fmt.Errorf("%w: write to %s: %v", resolvererrors.ErrUpstreamIO, serverAddr, err)
	}

	buf := make([]byte, wire.Capacity)
	n, err := conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: read from %s: %v", resolvererrors.ErrUpstreamTimeout, serverAddr, err)
		}
		return nil, fmt.Errorf("%w: read from %s: %v", resolvererrors.ErrUpstreamIO, serverAddr, err)
	}

	return buf[:n], nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
