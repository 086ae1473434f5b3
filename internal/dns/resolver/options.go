package resolver

import (
	"time"

	"github.com/pellham/dnsresolver/internal/dns/common/log"
	"github.com/pellham/dnsresolver/internal/dns/rootservers"
)

// Options configures a Resolver. Two fields matter semantically
// (Recursive, RootServers); the rest are operational guards with sane
// defaults (spec §9: "a small builder or an options struct is sufficient").
type Options struct {
	// Transport performs the UDP exchange with each upstream server.
	Transport Transport

	// Logger receives structured events for each resolution step.
	Logger log.Logger

	// RootServers seeds every top-level resolution. Defaults to the
	// compiled-in IANA root server table when nil.
	RootServers []rootservers.Server

	// Recursive, when false, forces single-shot lookups: the first
	// upstream response is returned as-is, referral or not (spec §4.6
	// step 4).
	Recursive bool

	// MaxReferrals bounds the number of NS referrals a single resolution
	// will follow before failing with ResolutionLimitExceeded.
	MaxReferrals int

	// MaxGlueRecursionDepth bounds how deep a missing-glue sub-resolution
	// may itself recurse before failing with ResolutionLimitExceeded.
	MaxGlueRecursionDepth int

	// UpstreamQueryTimeout bounds a single UDP round trip.
	UpstreamQueryTimeout time.Duration

	// TotalResolutionTimeout bounds an entire top-level Resolve call, across
	// every referral and glue sub-resolution it follows (spec §5: "10 s
	// total per top-level resolution").
	TotalResolutionTimeout time.Duration
}

const (
	defaultMaxReferrals           = 16
	defaultMaxGlueRecursionDepth  = 8
	defaultUpstreamQueryTimeout   = 2 * time.Second
	defaultTotalResolutionTimeout = 10 * time.Second
)

// withDefaults returns a copy of o with zero-valued operational fields
// filled in from the package defaults.
func (o Options) withDefaults() Options {
	if o.RootServers == nil {
		o.RootServers = rootservers.All
	}
	if o.MaxReferrals <= 0 {
		o.MaxReferrals = defaultMaxReferrals
	}
	if o.MaxGlueRecursionDepth <= 0 {
		o.MaxGlueRecursionDepth = defaultMaxGlueRecursionDepth
	}
	if o.UpstreamQueryTimeout <= 0 {
		o.UpstreamQueryTimeout = defaultUpstreamQueryTimeout
	}
	if o.TotalResolutionTimeout <= 0 {
		o.TotalResolutionTimeout = defaultTotalResolutionTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewNoopLogger()
	}
	return o
}
