package domain

import "net"

// RecordData is the rdata payload of a Record. Each supported RRType has a
// concrete implementation; unrecognized types fall back to RawRecordData,
// which preserves the original bytes verbatim so round-tripping stays
// lossless even for record types this codec doesn't specially understand.
type RecordData interface {
	// Type returns the RRType this payload was decoded as (or will encode
	// as), so Record.Type() doesn't need a second source of truth.
	Type() RRType
}

// ARecordData is the rdata of an A record: a 4-byte IPv4 address.
type ARecordData struct {
	Address net.IP
}

func (ARecordData) Type() RRType { return RRTypeA }

// NSRecordData is the rdata of an NS record: the authoritative server name.
type NSRecordData struct {
	NSDName string
}

func (NSRecordData) Type() RRType { return RRTypeNS }

// CNAMERecordData is the rdata of a CNAME record: the canonical alias name.
type CNAMERecordData struct {
	CName string
}

func (CNAMERecordData) Type() RRType { return RRTypeCNAME }

// MXRecordData is the rdata of an MX record: a preference and an exchange
// host name.
type MXRecordData struct {
	Preference uint16
	Exchange   string
}

func (MXRecordData) Type() RRType { return RRTypeMX }

// RawRecordData is the catch-all rdata representation for any record type
// this codec does not give a dedicated variant to. It preserves the wire
// type code and the raw rdata bytes exactly, so encode(decode(x)) == x even
// for types this resolver never interprets.
type RawRecordData struct {
	RRType RRType
	Raw    []byte
}

func (r RawRecordData) Type() RRType { return r.RRType }

// Record is a single DNS resource record: the common owner/class/ttl prefix
// plus a type-tagged rdata payload.
type Record struct {
	Name  string
	Class RRClass
	TTL   uint32
	Data  RecordData
}

// Type returns the record's RRType, taken from its rdata payload.
func (r Record) Type() RRType {
	if r.Data == nil {
		return 0
	}
	return r.Data.Type()
}

// NewARecord constructs an A record.
func NewARecord(name string, class RRClass, ttl uint32, addr net.IP) Record {
	return Record{Name: name, Class: class, TTL: ttl, Data: ARecordData{Address: addr}}
}

// NewNSRecord constructs an NS record.
func NewNSRecord(name string, class RRClass, ttl uint32, nsdname string) Record {
	return Record{Name: name, Class: class, TTL: ttl, Data: NSRecordData{NSDName: nsdname}}
}

// NewCNAMERecord constructs a CNAME record.
func NewCNAMERecord(name string, class RRClass, ttl uint32, cname string) Record {
	return Record{Name: name, Class: class, TTL: ttl, Data: CNAMERecordData{CName: cname}}
}

// NewMXRecord constructs an MX record.
func NewMXRecord(name string, class RRClass, ttl uint32, preference uint16, exchange string) Record {
	return Record{Name: name, Class: class, TTL: ttl, Data: MXRecordData{Preference: preference, Exchange: exchange}}
}

// NewUnknownRecord constructs a Record of a type this codec doesn't
// specially interpret, preserving its raw rdata.
func NewUnknownRecord(name string, rrtype RRType, class RRClass, ttl uint32, raw []byte) Record {
	return Record{Name: name, Class: class, TTL: ttl, Data: RawRecordData{RRType: rrtype, Raw: raw}}
}
