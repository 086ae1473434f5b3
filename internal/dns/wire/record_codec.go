package wire

import (
	"fmt"
	"net"

	"github.com/pellham/dnsresolver/internal/dns/domain"
	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
)

func malformedPacket(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{resolvererrors.ErrMalformedPacket}, args...)...)
}

// EncodeQuestion writes qname, qtype, qclass (§4.4).
func EncodeQuestion(b *ByteBuffer, q domain.Question) error {
	if err := EncodeQName(b, q.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(q.Type)); err != nil {
		return err
	}
	return b.WriteU16(uint16(q.Class))
}

// DecodeQuestion reads a question entry.
func DecodeQuestion(b *ByteBuffer) (domain.Question, error) {
	name, err := DecodeQName(b)
	if err != nil {
		return domain.Question{}, err
	}
	qtype, err := b.ReadU16()
	if err != nil {
		return domain.Question{}, err
	}
	qclass, err := b.ReadU16()
	if err != nil {
		return domain.Question{}, err
	}
	return domain.Question{Name: name, Type: domain.RRType(qtype), Class: domain.RRClass(qclass)}, nil
}

// EncodeRecord writes a resource record's owner/type/class/ttl prefix, then
// its type-specific rdata, back-patching rdlength once the rdata's true
// encoded length is known (§4.4).
func EncodeRecord(b *ByteBuffer, r domain.Record) error {
	if err := EncodeQName(b, r.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(r.Type())); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(r.Class)); err != nil {
		return err
	}
	if err := b.WriteU32(r.TTL); err != nil {
		return err
	}

	rdlengthAt := b.Position()
	if err := b.WriteU16(0); err != nil {
		return err
	}
	rdataStart := b.Position()

	if err := encodeRData(b, r.Data); err != nil {
		return err
	}

	rdlength := b.Position() - rdataStart
	return b.SetU16(rdlengthAt, uint16(rdlength))
}

func encodeRData(b *ByteBuffer, data domain.RecordData) error {
	switch d := data.(type) {
	case domain.ARecordData:
		addr := d.Address.To4()
		if addr == nil {
			return malformedPacket("A record address %v is not IPv4", d.Address)
		}
		return b.WriteBytes(addr)
	case domain.NSRecordData:
		return EncodeQName(b, d.NSDName)
	case domain.CNAMERecordData:
		return EncodeQName(b, d.CName)
	case domain.MXRecordData:
		if err := b.WriteU16(d.Preference); err != nil {
			return err
		}
		return EncodeQName(b, d.Exchange)
	case domain.RawRecordData:
		return b.WriteBytes(d.Raw)
	default:
		return malformedPacket("unsupported rdata type %T", data)
	}
}

// DecodeRecord reads a resource record. Qname-valued rdata (NS, CNAME, MX)
// is decoded via the qname codec, never bounded by rdlength, since
// compression can make the encoded length shorter than the expanded name
// (§4.4). Unrecognized types are preserved verbatim as RawRecordData.
func DecodeRecord(b *ByteBuffer) (domain.Record, error) {
	name, err := DecodeQName(b)
	if err != nil {
		return domain.Record{}, err
	}
	rrtype, err := b.ReadU16()
	if err != nil {
		return domain.Record{}, err
	}
	class, err := b.ReadU16()
	if err != nil {
		return domain.Record{}, err
	}
	ttl, err := b.ReadU32()
	if err != nil {
		return domain.Record{}, err
	}
	rdlength, err := b.ReadU16()
	if err != nil {
		return domain.Record{}, err
	}

	t := domain.RRType(rrtype)
	c := domain.RRClass(class)

	switch t {
	case domain.RRTypeA:
		addr, err := b.ReadN(4)
		if err != nil {
			return domain.Record{}, err
		}
		return domain.NewARecord(name, c, ttl, net.IP(addr)), nil
	case domain.RRTypeNS:
		target, err := DecodeQName(b)
		if err != nil {
			return domain.Record{}, err
		}
		return domain.NewNSRecord(name, c, ttl, target), nil
	case domain.RRTypeCNAME:
		target, err := DecodeQName(b)
		if err != nil {
			return domain.Record{}, err
		}
		return domain.NewCNAMERecord(name, c, ttl, target), nil
	case domain.RRTypeMX:
		pref, err := b.ReadU16()
		if err != nil {
			return domain.Record{}, err
		}
		exchange, err := DecodeQName(b)
		if err != nil {
			return domain.Record{}, err
		}
		return domain.NewMXRecord(name, c, ttl, pref, exchange), nil
	default:
		raw, err := b.ReadN(int(rdlength))
		if err != nil {
			return domain.Record{}, err
		}
		return domain.NewUnknownRecord(name, t, c, ttl, raw), nil
	}
}
