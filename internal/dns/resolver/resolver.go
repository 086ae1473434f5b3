// Package resolver implements the iterative DNS resolution state machine:
// starting from a root server, follow referrals down the delegation
// hierarchy until an answer, a definitive negative, or a guard limit is
// reached (spec §4.6).
//
// CNAME chains are not followed: a NOERROR response whose answers hold only
// a CNAME for a non-CNAME query is returned to the caller as-is.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strings"

	"github.com/pellham/dnsresolver/internal/dns/common/log"
	"github.com/pellham/dnsresolver/internal/dns/domain"
	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
	"github.com/pellham/dnsresolver/internal/dns/rootservers"
	"github.com/pellham/dnsresolver/internal/dns/wire"
)

const dnsPort = "53"

// Resolver drives a query from the root servers down the delegation
// hierarchy, handling referrals, glue records, NXDOMAIN, and missing glue.
type Resolver struct {
	transport Transport
	logger    log.Logger
	opts      Options
}

// New constructs a Resolver. Zero-valued operational fields in opts take
// the package defaults (root server table, guard limits, timeout).
func New(opts Options) *Resolver {
	opts = opts.withDefaults()
	return &Resolver{transport: opts.Transport, logger: opts.Logger, opts: opts}
}

// Resolve performs iterative resolution for one client question and
// returns the response packet to hand back to the client, or an error
// classified via the resolvererrors sentinels.
func (r *Resolver) Resolve(ctx context.Context, q domain.Question, recursionDesired bool) (*domain.Packet, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.TotalResolutionTimeout)
	defer cancel()

	server := r.randomRootServer()
	resp, err := r.resolveFrom(ctx, q, recursionDesired, server, 0, 0)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", resolvererrors.ErrUpstreamTimeout, q.Name, err)
	}
	return resp, err
}

// resolveFrom runs the outer iteration loop (§4.6) starting at
// currentServer. referralDepth counts NS referrals followed so far in this
// call chain; glueDepth counts how many levels of missing-glue
// sub-resolution are currently active, both bounded by Options.
func (r *Resolver) resolveFrom(ctx context.Context, q domain.Question, recursionDesired bool, currentServer string, referralDepth, glueDepth int) (*domain.Packet, error) {
	for {
		if referralDepth >= r.opts.MaxReferrals {
			return nil, fmt.Errorf("%w: exceeded %d referrals resolving %s", resolvererrors.ErrResolutionLimitExceeded, r.opts.MaxReferrals, q.Name)
		}

		resp, err := r.queryServer(ctx, currentServer, q)
		if err != nil {
			return nil, err
		}

		if resp.Header.RCode == domain.RCodeNoError && len(resp.Answers) > 0 {
			return resp, nil
		}

		if resp.Header.RCode == domain.RCodeNXDomain {
			return nil, fmt.Errorf("%w: %s", resolvererrors.ErrNXDomain, q.Name)
		}

		if !r.opts.Recursive || !recursionDesired {
			return resp, nil
		}

		referral := firstMatchingNS(resp.Authorities, q.Name)
		if referral == nil {
			return resp, nil
		}
		nsTarget := referral.Data.(domain.NSRecordData).NSDName

		if glue := firstGlueAddress(resp.Additionals, nsTarget); glue != nil {
			currentServer = net.JoinHostPort(glue.String(), dnsPort)
			referralDepth++
			continue
		}

		r.logger.Debug(map[string]any{
			"name":      q.Name,
			"ns_target": nsTarget,
		}, "missing glue, sub-resolving nameserver address")

		if glueDepth >= r.opts.MaxGlueRecursionDepth {
			return nil, fmt.Errorf("%w: exceeded glue recursion depth %d resolving %s", resolvererrors.ErrResolutionLimitExceeded, r.opts.MaxGlueRecursionDepth, nsTarget)
		}

		glueQ := domain.NewQuestion(nsTarget, domain.RRTypeA, domain.RRClassIN)
		glueResp, err := r.resolveFrom(ctx, glueQ, true, r.randomRootServer(), 0, glueDepth+1)
		if err != nil {
			if errors.Is(err, resolvererrors.ErrResolutionLimitExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: resolving glue for %s: %v", resolvererrors.ErrNoRecursionAvailable, nsTarget, err)
		}

		addr := firstAAddress(glueResp.Answers)
		if addr == nil {
			return nil, fmt.Errorf("%w: no address found for %s", resolvererrors.ErrNoRecursionAvailable, nsTarget)
		}

		currentServer = net.JoinHostPort(addr.String(), dnsPort)
		referralDepth++
	}
}

func (r *Resolver) queryServer(ctx context.Context, serverAddr string, q domain.Question) (*domain.Packet, error) {
	query := wire.NewQuery(q.Name, q.Type)

	reqBuf := wire.NewByteBuffer()
	if err := wire.EncodePacket(reqBuf, query); err != nil {
		return nil, fmt.Errorf("%w: encoding query for %s: %v", resolvererrors.ErrMalformedPacket, q.Name, err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.opts.UpstreamQueryTimeout)
	defer cancel()

	respData, err := r.transport.Query(queryCtx, serverAddr, reqBuf.IntoBytes())
	if err != nil {
		return nil, err
	}

	respBuf := wire.NewByteBufferFrom(respData)
	resp, err := wire.DecodePacket(respBuf)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response from %s: %v", resolvererrors.ErrMalformedPacket, serverAddr, err)
	}

	r.logger.Debug(map[string]any{
		"server":  serverAddr,
		"name":    q.Name,
		"rcode":   resp.Header.RCode.String(),
		"answers": len(resp.Answers),
	}, "queried upstream server")

	return resp, nil
}

func (r *Resolver) randomRootServer() string {
	servers := r.opts.RootServers
	s := servers[rand.IntN(len(servers))]
	return net.JoinHostPort(s.IPv4, dnsPort)
}

// firstMatchingNS returns the first NS record in authorities whose owner
// name is a suffix of qname (§4.6 step 5), or nil if none match.
func firstMatchingNS(authorities []domain.Record, qname string) *domain.Record {
	for i := range authorities {
		rec := authorities[i]
		if rec.Type() != domain.RRTypeNS {
			continue
		}
		if isAuthorityFor(qname, rec.Name) {
			return &authorities[i]
		}
	}
	return nil
}

// firstGlueAddress returns the first A record in additionals owned by
// nsTarget (§4.6 step 6), or nil if none match.
func firstGlueAddress(additionals []domain.Record, nsTarget string) net.IP {
	for _, rec := range additionals {
		if rec.Type() != domain.RRTypeA {
			continue
		}
		if strings.EqualFold(rec.Name, nsTarget) {
			return rec.Data.(domain.ARecordData).Address
		}
	}
	return nil
}

// firstAAddress returns the first A record's address among answers, or nil.
func firstAAddress(answers []domain.Record) net.IP {
	for _, rec := range answers {
		if rec.Type() == domain.RRTypeA {
			return rec.Data.(domain.ARecordData).Address
		}
	}
	return nil
}

// isAuthorityFor reports whether nsOwner names a zone that qname belongs
// to: either qname equals nsOwner, or qname is a strict subdomain of it. An
// empty nsOwner (the root zone) is authoritative for every name.
func isAuthorityFor(qname, nsOwner string) bool {
	qname = strings.ToLower(strings.TrimSuffix(qname, "."))
	nsOwner = strings.ToLower(strings.TrimSuffix(nsOwner, "."))
	if nsOwner == "" {
		return true
	}
	if qname == nsOwner {
		return true
	}
	return strings.HasSuffix(qname, "."+nsOwner)
}
