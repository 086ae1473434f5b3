// Package resolvererrors defines the sentinel error kinds this resolver
// produces, so callers can classify a failure with errors.Is instead of
// string-matching. Call sites wrap a sentinel with %w and add the detail
// specific to that failure (the offending index, the server that timed
// out, the name that loops).
package resolvererrors

import "errors"

var (
	// ErrOutOfRange is returned when a wire-format read or write would
	// cross the 512-byte message buffer's capacity (spec §4.1).
	ErrOutOfRange = errors.New("dns: buffer access out of range")

	// ErrMalformedName is returned when a domain name cannot be decoded:
	// a label exceeds 63 bytes, the assembled name exceeds 255 bytes, or
	// qname compression-pointer chasing exceeds its jump budget (spec §4.2).
	ErrMalformedName = errors.New("dns: malformed domain name")

	// ErrMalformedPacket is returned when a message's header or record
	// sections cannot be decoded (spec §4.3–§4.5).
	ErrMalformedPacket = errors.New("dns: malformed packet")

	// ErrUpstreamIO is returned when a send or receive to an upstream
	// server fails at the transport layer (spec §7).
	ErrUpstreamIO = errors.New("dns: upstream i/o error")

	// ErrUpstreamTimeout is returned when an upstream server does not
	// respond within the configured per-query timeout (spec §5, §7).
	ErrUpstreamTimeout = errors.New("dns: upstream query timed out")

	// ErrNXDomain is returned when iterative resolution terminates with an
	// authoritative NXDOMAIN answer (spec §4.6, §7).
	ErrNXDomain = errors.New("dns: name does not exist")

	// ErrNoRecursionAvailable is returned when a referral cannot be
	// followed: its nameserver has no glue record and the sub-resolution of
	// that nameserver's address fails or yields no A record (spec §4.6, §7).
	ErrNoRecursionAvailable = errors.New("dns: recursion not available")

	// ErrResolutionLimitExceeded is returned when iterative resolution
	// exceeds its referral count or glue-recursion-depth guard without
	// reaching an answer (spec §4.6, §7).
	ErrResolutionLimitExceeded = errors.New("dns: resolution limit exceeded")
)
