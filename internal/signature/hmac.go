package signature

// HMAC-SHA-256 per RFC 2104.

// blockSize is the SHA-256 block size in bytes.
const blockSize = 64

const (
	innerPadByte = 0x36
	outerPadByte = 0x5c
)

// HMAC computes HMAC-SHA-256 of message under key.
func HMAC(key, message []byte) [32]byte {
	// A key longer than the block size is replaced by its own digest.
	if len(key) > blockSize {
		sum := Digest(key)
		key = sum[:]
	}

	var innerPad, outerPad [blockSize]byte
	copy(innerPad[:], key)
	copy(outerPad[:], key)
	for i := 0; i < blockSize; i++ {
		innerPad[i] ^= innerPadByte
		outerPad[i] ^= outerPadByte
	}

	inner := Digest(append(innerPad[:], message...))
	return Digest(append(outerPad[:], inner[:]...))
}
