package domain

import "fmt"

// RCode represents a DNS response code indicating the result of a query.
// Only the values below are produced by this resolver; the header codec
// normalizes any other 4-bit wire value to RCodeNoError on decode.
type RCode uint8

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImpl  RCode = 4
	RCodeRefused  RCode = 5
)

// IsKnown reports whether r is one of the response codes this resolver
// recognizes.
func (r RCode) IsKnown() bool {
	return r <= RCodeRefused
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImpl:
		return "NOTIMPL"
	case RCodeRefused:
		return "REFUSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
	}
}

// RCodeFromWire maps any wire value this resolver doesn't recognize to
// RCodeNoError, per the header codec's decode rule.
func RCodeFromWire(v uint8) RCode {
	r := RCode(v)
	if !r.IsKnown() {
		return RCodeNoError
	}
	return r
}
