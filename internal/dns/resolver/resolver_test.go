package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/pellham/dnsresolver/internal/dns/common/log"
	"github.com/pellham/dnsresolver/internal/dns/domain"
	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
	"github.com/pellham/dnsresolver/internal/dns/rootservers"
	"github.com/pellham/dnsresolver/internal/dns/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport answers a fixed set of (server, qname, qtype) -> response
// packet mappings, echoing the request's transaction id, so tests can
// exercise multi-hop referral chains deterministically.
type stubTransport struct {
	responses map[string]*domain.Packet
	calls     []string
}

func newStubTransport() *stubTransport {
	return &stubTransport{responses: map[string]*domain.Packet{}}
}

func stubKey(host, qname string, qtype domain.RRType) string {
	return host + "|" + strings.ToLower(qname) + "|" + qtype.String()
}

func (s *stubTransport) on(host, qname string, qtype domain.RRType, resp *domain.Packet) {
	s.responses[stubKey(host, qname, qtype)] = resp
}

func (s *stubTransport) Query(_ context.Context, serverAddr string, data []byte) ([]byte, error) {
	s.calls = append(s.calls, serverAddr)
	host, _, err := net.SplitHostPort(serverAddr)
	if err != nil {
		return nil, err
	}

	req, err := wire.DecodePacket(wire.NewByteBufferFrom(data))
	if err != nil {
		return nil, err
	}
	q := req.Questions[0]

	resp, ok := s.responses[stubKey(host, q.Name, q.Type)]
	if !ok {
		return nil, fmt.Errorf("stub: no response for %s %s %s", host, q.Name, q.Type)
	}

	out := *resp
	out.Header.ID = req.Header.ID
	buf := wire.NewByteBuffer()
	if err := wire.EncodePacket(buf, &out); err != nil {
		return nil, err
	}
	return buf.IntoBytes(), nil
}

func singleRoot(ip string) []rootservers.Server {
	return []rootservers.Server{{Label: "test-root", IPv4: ip}}
}

func TestResolver_Success(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header:  domain.Header{RCode: domain.RCodeNoError},
		Answers: []domain.Record{domain.NewARecord("www.example.com", domain.RRClassIN, 60, net.ParseIP("5.6.7.8"))},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	resp, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.NoError(t, err)
	require.Len(t, resp.Answers, 1)
	assert.Equal(t, "5.6.7.8", resp.Answers[0].Data.(domain.ARecordData).Address.String())
}

func TestResolver_NXDomain(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "nope.example.com", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNXDomain},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	_, err := r.Resolve(context.Background(), domain.NewQuestion("nope.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrNXDomain))
}

func TestResolver_ReferralWithGlue(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
		Authorities: []domain.Record{
			domain.NewNSRecord("com", domain.RRClassIN, 3600, "a.gtld-servers.net"),
		},
		Additionals: []domain.Record{
			domain.NewARecord("a.gtld-servers.net", domain.RRClassIN, 3600, net.ParseIP("1.2.3.4")),
		},
	})
	tr.on("1.2.3.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header:  domain.Header{RCode: domain.RCodeNoError},
		Answers: []domain.Record{domain.NewARecord("www.example.com", domain.RRClassIN, 60, net.ParseIP("5.6.7.8"))},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	resp, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.NoError(t, err)
	require.Len(t, resp.Answers, 1)
	assert.Equal(t, "5.6.7.8", resp.Answers[0].Data.(domain.ARecordData).Address.String())
}

func TestResolver_ReferralWithoutGlue_SubResolves(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
		Authorities: []domain.Record{
			domain.NewNSRecord("example.com", domain.RRClassIN, 3600, "ns1.example-tld.net"),
		},
	})
	tr.on("198.41.0.4", "ns1.example-tld.net", domain.RRTypeA, &domain.Packet{
		Header:  domain.Header{RCode: domain.RCodeNoError},
		Answers: []domain.Record{domain.NewARecord("ns1.example-tld.net", domain.RRClassIN, 60, net.ParseIP("9.9.9.9"))},
	})
	tr.on("9.9.9.9", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header:  domain.Header{RCode: domain.RCodeNoError},
		Answers: []domain.Record{domain.NewARecord("www.example.com", domain.RRClassIN, 60, net.ParseIP("5.6.7.8"))},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	resp, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.NoError(t, err)
	require.Len(t, resp.Answers, 1)
	assert.Equal(t, "5.6.7.8", resp.Answers[0].Data.(domain.ARecordData).Address.String())
}

func TestResolver_ReferralWithoutGlue_NoAddressFound(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
		Authorities: []domain.Record{
			domain.NewNSRecord("example.com", domain.RRClassIN, 3600, "ns1.example-tld.net"),
		},
	})
	tr.on("198.41.0.4", "ns1.example-tld.net", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNXDomain},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	_, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrNoRecursionAvailable))
}

func TestResolver_NonRecursiveMode_ReturnsReferralAsIs(t *testing.T) {
	tr := newStubTransport()
	referral := &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
		Authorities: []domain.Record{
			domain.NewNSRecord("com", domain.RRClassIN, 3600, "a.gtld-servers.net"),
		},
		Additionals: []domain.Record{
			domain.NewARecord("a.gtld-servers.net", domain.RRClassIN, 3600, net.ParseIP("1.2.3.4")),
		},
	}
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, referral)

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: false, Logger: log.NewNoopLogger()})
	resp, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.NoError(t, err)
	assert.Len(t, resp.Authorities, 1)
	assert.Len(t, resp.Answers, 0)
	assert.Len(t, tr.calls, 1, "non-recursive mode stops after the first upstream hop")
}

func TestResolver_RecursionNotDesired_ReturnsReferralAsIs(t *testing.T) {
	tr := newStubTransport()
	referral := &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
		Authorities: []domain.Record{
			domain.NewNSRecord("com", domain.RRClassIN, 3600, "a.gtld-servers.net"),
		},
	}
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, referral)

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	resp, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), false)
	require.NoError(t, err)
	assert.Len(t, tr.calls, 1)
	assert.Len(t, resp.Authorities, 1)
}

func TestResolver_IterationCapExceeded(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
		Authorities: []domain.Record{
			domain.NewNSRecord("com", domain.RRClassIN, 3600, "a.gtld-servers.net"),
		},
		Additionals: []domain.Record{
			domain.NewARecord("a.gtld-servers.net", domain.RRClassIN, 3600, net.ParseIP("1.2.3.4")),
		},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, MaxReferrals: 1, Logger: log.NewNoopLogger()})
	_, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrResolutionLimitExceeded))
}

func TestResolver_NoReferralReturnsResponseAsIs(t *testing.T) {
	tr := newStubTransport()
	tr.on("198.41.0.4", "www.example.com", domain.RRTypeA, &domain.Packet{
		Header: domain.Header{RCode: domain.RCodeNoError},
	})

	r := New(Options{Transport: tr, RootServers: singleRoot("198.41.0.4"), Recursive: true, Logger: log.NewNoopLogger()})
	resp, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.NoError(t, err)
	assert.Len(t, resp.Answers, 0)
}

// blockingTransport ignores its inputs and waits for the context to be
// cancelled, letting tests assert that Resolve's total timeout fires
// without depending on wall-clock sleeps elsewhere in the suite.
type blockingTransport struct{}

func (blockingTransport) Query(ctx context.Context, _ string, _ []byte) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResolver_TotalResolutionTimeoutEnforced(t *testing.T) {
	r := New(Options{
		Transport:              blockingTransport{},
		RootServers:            singleRoot("198.41.0.4"),
		Recursive:              true,
		Logger:                 log.NewNoopLogger(),
		TotalResolutionTimeout: 10 * time.Millisecond,
		UpstreamQueryTimeout:   time.Second,
	})

	_, err := r.Resolve(context.Background(), domain.NewQuestion("www.example.com", domain.RRTypeA, domain.RRClassIN), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrUpstreamTimeout))
}

func TestIsAuthorityFor(t *testing.T) {
	cases := []struct {
		qname, nsOwner string
		want           bool
	}{
		{"www.example.com", "example.com", true},
		{"example.com", "example.com", true},
		{"www.example.com", "com", true},
		{"www.example.com", "", true},
		{"www.evilexample.com", "example.com", false},
		{"www.example.com", "other.com", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isAuthorityFor(tc.qname, tc.nsOwner), "qname=%s nsOwner=%s", tc.qname, tc.nsOwner)
	}
}
