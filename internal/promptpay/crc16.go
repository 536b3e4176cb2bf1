package promptpay

// Checksum computes CRC-16/CCITT-FALSE over data: register initialized to
// 0xFFFF, polynomial 0x1021, bytes processed most-significant-bit first, no
// final XOR. This is the variant EMVCo mandates for the QR payload trailer.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
