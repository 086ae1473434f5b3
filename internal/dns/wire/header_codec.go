package wire

import "github.com/pellham/dnsresolver/internal/dns/domain"

const (
	flagQR = 0x80
	flagAA = 0x04
	flagTC = 0x02
	flagRD = 0x01
	flagRA = 0x80
	flagZ  = 0x40
	flagAD = 0x20
	flagCD = 0x10

	opcodeMask = 0x0F
	rcodeMask  = 0x0F
	opcodeByte1Shift = 3
)

// EncodeHeader writes h's 12 bytes in the layout byte0 = QR|OPCODE(4)|AA|TC|RD,
// byte1 = RA|Z|AD|CD|RCODE(4) (§4.3).
func EncodeHeader(b *ByteBuffer, h domain.Header) error {
	if err := b.WriteU16(h.ID); err != nil {
		return err
	}

	var byte0 uint8
	if h.IsResponse {
		byte0 |= flagQR
	}
	byte0 |= (uint8(h.Opcode) & opcodeMask) << opcodeByte1Shift
	if h.AuthoritativeAnswer {
		byte0 |= flagAA
	}
	if h.Truncated {
		byte0 |= flagTC
	}
	if h.RecursionDesired {
		byte0 |= flagRD
	}
	if err := b.WriteU8(byte0); err != nil {
		return err
	}

	var byte1 uint8
	if h.RecursionAvailable {
		byte1 |= flagRA
	}
	if h.Z {
		byte1 |= flagZ
	}
	if h.AuthenticatedData {
		byte1 |= flagAD
	}
	if h.CheckingDisabled {
		byte1 |= flagCD
	}
	byte1 |= uint8(h.RCode) & rcodeMask
	if err := b.WriteU8(byte1); err != nil {
		return err
	}

	if err := b.WriteU16(h.QDCount); err != nil {
		return err
	}
	if err := b.WriteU16(h.ANCount); err != nil {
		return err
	}
	if err := b.WriteU16(h.NSCount); err != nil {
		return err
	}
	return b.WriteU16(h.ARCount)
}

// DecodeHeader reads a Header from b. Counts are read in order
// qd/an/ns/ar, each exactly once (§9: the source's double-assignment of
// the authority count is a defect this codec does not reproduce).
func DecodeHeader(b *ByteBuffer) (domain.Header, error) {
	var h domain.Header

	id, err := b.ReadU16()
	if err != nil {
		return domain.Header{}, err
	}
	h.ID = id

	byte0, err := b.ReadU8()
	if err != nil {
		return domain.Header{}, err
	}
	byte1, err := b.ReadU8()
	if err != nil {
		return domain.Header{}, err
	}

	h.IsResponse = byte0&flagQR != 0
	h.Opcode = domain.OpcodeFromWire((byte0 >> opcodeByte1Shift) & opcodeMask)
	h.AuthoritativeAnswer = byte0&flagAA != 0
	h.Truncated = byte0&flagTC != 0
	h.RecursionDesired = byte0&flagRD != 0

	h.RecursionAvailable = byte1&flagRA != 0
	h.Z = byte1&flagZ != 0
	h.AuthenticatedData = byte1&flagAD != 0
	h.CheckingDisabled = byte1&flagCD != 0
	h.RCode = domain.RCodeFromWire(byte1 & rcodeMask)

	qd, err := b.ReadU16()
	if err != nil {
		return domain.Header{}, err
	}
	h.QDCount = qd

	an, err := b.ReadU16()
	if err != nil {
		return domain.Header{}, err
	}
	h.ANCount = an

	ns, err := b.ReadU16()
	if err != nil {
		return domain.Header{}, err
	}
	h.NSCount = ns

	ar, err := b.ReadU16()
	if err != nil {
		return domain.Header{}, err
	}
	h.ARCount = ar

	return h, nil
}
