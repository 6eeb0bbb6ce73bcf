package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Run IDs are ULIDs: 26 Crockford Base32 characters, a 48-bit millisecond
// timestamp followed by 80 random bits, so they sort by start time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func newRunID(now time.Time) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(now.UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	for i := range 6 {
		b[i] = byte(ts >> (40 - 8*i))
	}
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps IDs from the same millisecond distinct.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

// encodeULID writes the 128 bits as 26 base32 digits, most significant
// first; the leading digit carries only the top 3 bits.
func encodeULID(b [16]byte) string {
	var out [26]byte
	// Bit position of the low end of digit i, counting from the right.
	for i := range out {
		shift := uint(125 - 5*i)
		out[i] = crockford[bitsAt(b, shift)]
	}
	return string(out[:])
}

// bitsAt returns the 5 bits of b (big-endian) starting at bit shift from
// the least significant end. Bits above 127 read as zero.
func bitsAt(b [16]byte, shift uint) byte {
	var v byte
	for k := uint(0); k < 5; k++ {
		bit := shift + k
		if bit > 127 {
			continue
		}
		byteIdx := 15 - bit/8
		if b[byteIdx]>>(bit%8)&1 == 1 {
			v |= 1 << k
		}
	}
	return v
}
