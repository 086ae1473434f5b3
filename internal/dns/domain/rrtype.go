package domain

import "fmt"

// RRType represents a DNS resource record (or question) type, as carried on
// the wire in the 16-bit TYPE/QTYPE field.
type RRType uint16

// Recognized DNS resource record types. Any other wire value still decodes
// successfully; it is just preserved as an unnamed type rather than given a
// mnemonic (see String).
const (
	RRTypeA     RRType = 1  // A - host address
	RRTypeNS    RRType = 2  // NS - authoritative name server
	RRTypeMD    RRType = 3  // MD - mail destination (obsolete)
	RRTypeMF    RRType = 4  // MF - mail forwarder (obsolete)
	RRTypeCNAME RRType = 5  // CNAME - canonical name for an alias
	RRTypeSOA   RRType = 6  // SOA - start of a zone of authority
	RRTypeMB    RRType = 7  // MB - mailbox domain name
	RRTypeMG    RRType = 8  // MG - mail group member
	RRTypeMR    RRType = 9  // MR - mail rename domain name
	RRTypeNULL  RRType = 10 // NULL - null RR
	RRTypeWKS   RRType = 11 // WKS - well known service description
	RRTypePTR   RRType = 12 // PTR - domain name pointer
	RRTypeHINFO RRType = 13 // HINFO - host information
	RRTypeMINFO RRType = 14 // MINFO - mailbox or mail list information
	RRTypeMX    RRType = 15 // MX - mail exchange
	RRTypeTXT   RRType = 16 // TXT - text strings
)

var recognizedRRTypes = map[RRType]string{
	RRTypeA:     "A",
	RRTypeNS:    "NS",
	RRTypeMD:    "MD",
	RRTypeMF:    "MF",
	RRTypeCNAME: "CNAME",
	RRTypeSOA:   "SOA",
	RRTypeMB:    "MB",
	RRTypeMG:    "MG",
	RRTypeMR:    "MR",
	RRTypeNULL:  "NULL",
	RRTypeWKS:   "WKS",
	RRTypePTR:   "PTR",
	RRTypeHINFO: "HINFO",
	RRTypeMINFO: "MINFO",
	RRTypeMX:    "MX",
	RRTypeTXT:   "TXT",
}

// IsRecognized reports whether t is one of the types named in the data model
// as having a mnemonic. Unrecognized values are not errors.
func (t RRType) IsRecognized() bool {
	_, ok := recognizedRRTypes[t]
	return ok
}

// String returns the textual name of a recognized type, or "Unknown(<n>)".
func (t RRType) String() string {
	if name, ok := recognizedRRTypes[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// RRTypeFromString converts a record type mnemonic to its RRType value.
// Unknown mnemonics return 0.
func RRTypeFromString(s string) RRType {
	for t, name := range recognizedRRTypes {
		if name == s {
			return t
		}
	}
	return 0
}
