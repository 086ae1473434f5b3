// Package listener binds a UDP socket, reads one client datagram at a time,
// and hands each to an independent handler task that runs the resolver and
// serializes its response.
package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/pellham/dnsresolver/internal/dns/common/log"
	"github.com/pellham/dnsresolver/internal/dns/domain"
	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
	"github.com/pellham/dnsresolver/internal/dns/wire"
)

// Listener owns one UDP socket and dispatches inbound datagrams to handler
// goroutines. The socket is shared for reads (accept loop) and writes
// (handler replies); concurrent writes to the same *net.UDPConn are safe.
type Listener struct {
	addr               string
	resolver           Resolver
	logger             log.Logger
	recursionAvailable bool

	mu      sync.RWMutex
	conn    *net.UDPConn
	running bool
	stopCh  chan struct{}
}

// New constructs a Listener bound to addr once Start is called.
// recursionAvailable is stamped into every response header's RA bit and
// should reflect whether the wired resolver actually follows referrals.
func New(addr string, r Resolver, logger log.Logger, recursionAvailable bool) *Listener {
	return &Listener{
		addr:               addr,
		resolver:           r,
		logger:             logger,
		recursionAvailable: recursionAvailable,
		stopCh:             make(chan struct{}),
	}
}

// Start binds the UDP socket and begins the accept loop in the background.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return fmt.Errorf("listener: already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", l.addr)
	if err != nil {
		return fmt.Errorf("listener: resolve %s: %w", l.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listener: bind %s: %w", l.addr, err)
	}

	l.conn = conn
	l.running = true

	l.logger.Info(map[string]any{"address": l.addr}, "dns listener started")

	go l.acceptLoop(ctx)
	return nil
}

// Stop closes the socket and signals the accept loop to exit.
func (l *Listener) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return nil
	}

	close(l.stopCh)
	l.running = false

	var err error
	if l.conn != nil {
		err = l.conn.Close()
	}
	l.logger.Info(map[string]any{"address": l.addr}, "dns listener stopped")
	return err
}

func (l *Listener) acceptLoop(ctx context.Context) {
	buf := make([]byte, wire.Capacity)

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		default:
		}

		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			l.mu.RLock()
			running := l.running
			l.mu.RUnlock()
			if !running {
				return
			}
			l.logger.Warn(map[string]any{"error": err.Error()}, "failed to read udp datagram")
			continue
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		go l.handle(ctx, datagram, from)
	}
}

// handle decodes one inbound datagram, resolves its first question, and
// writes a response. Codec failures are logged and dropped; the client
// observes a timeout rather than an error reply.
func (l *Listener) handle(ctx context.Context, data []byte, from *net.UDPAddr) {
	req, err := wire.DecodePacket(wire.NewByteBufferFrom(data))
	if err != nil {
		l.logger.Warn(map[string]any{
			"client": from.String(),
			"error":  err.Error(),
		}, "failed to decode dns query, dropping")
		return
	}

	var resp *domain.Packet
	if len(req.Questions) == 0 {
		resp = &domain.Packet{Header: req.Header}
	} else {
		resp = l.resolve(ctx, req, from)
	}

	resp.Header.ID = req.Header.ID
	resp.Header.IsResponse = true
	resp.Header.RecursionDesired = req.Header.RecursionDesired
	resp.Header.RecursionAvailable = l.recursionAvailable
	resp.Questions = req.Questions

	respBuf := wire.NewByteBuffer()
	if err := wire.EncodePacket(respBuf, resp); err != nil {
		l.logger.Error(map[string]any{
			"client": from.String(),
			"error":  err.Error(),
		}, "failed to encode dns response")
		return
	}

	if _, err := l.conn.WriteToUDP(respBuf.IntoBytes(), from); err != nil {
		l.logger.Error(map[string]any{
			"client": from.String(),
			"error":  err.Error(),
		}, "failed to send dns response")
	}
}

// resolve invokes the resolver for the first question and materializes any
// resolution failure into a response packet carrying the appropriate RCODE:
// SERVFAIL for upstream/timeout/limit errors, NXDOMAIN for an authoritative
// negative answer.
func (l *Listener) resolve(ctx context.Context, req *domain.Packet, from *net.UDPAddr) *domain.Packet {
	q := req.Questions[0]
	resp, err := l.resolver.Resolve(ctx, q, req.Header.RecursionDesired)
	if err == nil {
		return resp
	}

	l.logger.Warn(map[string]any{
		"client": from.String(),
		"name":   q.Name,
		"error":  err.Error(),
	}, "resolution failed")

	rcode := domain.RCodeServFail
	if errors.Is(err, resolvererrors.ErrNXDomain) {
		rcode = domain.RCodeNXDomain
	}

	return &domain.Packet{
		Header:    domain.Header{RCode: rcode},
		Questions: []domain.Question{q},
	}
}
