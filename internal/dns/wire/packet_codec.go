package wire

import "github.com/pellham/dnsresolver/internal/dns/domain"

// EncodePacket writes p's header followed by its four record sections. It
// calls p.SyncCounts() first, so a Packet mutated after construction still
// serializes a header consistent with what follows it (§4.5).
func EncodePacket(b *ByteBuffer, p *domain.Packet) error {
	p.SyncCounts()

	if err := EncodeHeader(b, p.Header); err != nil {
		return err
	}
	for _, q := range p.Questions {
		if err := EncodeQuestion(b, q); err != nil {
			return err
		}
	}
	for _, r := range p.Answers {
		if err := EncodeRecord(b, r); err != nil {
			return err
		}
	}
	for _, r := range p.Authorities {
		if err := EncodeRecord(b, r); err != nil {
			return err
		}
	}
	for _, r := range p.Additionals {
		if err := EncodeRecord(b, r); err != nil {
			return err
		}
	}
	return nil
}

// DecodePacket reads a header, then exactly qdcount questions and
// ancount/nscount/arcount resource records into their respective sections
// (§4.5).
func DecodePacket(b *ByteBuffer) (*domain.Packet, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}

	p := &domain.Packet{Header: h}

	p.Questions = make([]domain.Question, 0, h.QDCount)
	for i := uint16(0); i < h.QDCount; i++ {
		q, err := DecodeQuestion(b)
		if err != nil {
			return nil, err
		}
		p.Questions = append(p.Questions, q)
	}

	p.Answers, err = decodeRecords(b, h.ANCount)
	if err != nil {
		return nil, err
	}
	p.Authorities, err = decodeRecords(b, h.NSCount)
	if err != nil {
		return nil, err
	}
	p.Additionals, err = decodeRecords(b, h.ARCount)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func decodeRecords(b *ByteBuffer, count uint16) ([]domain.Record, error) {
	records := make([]domain.Record, 0, count)
	for i := uint16(0); i < count; i++ {
		r, err := DecodeRecord(b)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
