package wire

import (
	"math/rand/v2"

	"github.com/pellham/dnsresolver/internal/dns/domain"
)

// NewQuery builds a one-question outbound query packet with a fresh,
// uniformly random transaction id (§4.6: "chosen uniformly at random per
// outbound query").
func NewQuery(name string, qtype domain.RRType) *domain.Packet {
	p := &domain.Packet{
		Header: domain.Header{
			ID:               uint16(rand.UintN(1 << 16)),
			Opcode:           domain.OpcodeQuery,
			RecursionDesired: true,
		},
		Questions: []domain.Question{domain.NewQuestion(name, qtype, domain.RRClassIN)},
	}
	p.SyncCounts()
	return p
}
