// Package uuid provides UUID v7 generation.
// UUID v7 is sortable by timestamp, which keeps run-history indexes append-friendly.
package uuid

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// UUID represents a UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a new UUID v7 per draft-ietf-uuidrev-rfc4122bis:
// 48 bits of UNIX milliseconds, 4 version bits, 2 variant bits, 74 random bits.
func NewV7() UUID {
	now := time.Now().UnixMilli()

	var u UUID

	// Timestamp (48 bits, ms precision), bytes 0-5.
	u[0] = byte(now >> 40)
	u[1] = byte(now >> 32)
	u[2] = byte(now >> 24)
	u[3] = byte(now >> 16)
	u[4] = byte(now >> 8)
	u[5] = byte(now)

	// Version nibble 0111 followed by random bits.
	hi := rand.Uint64()
	u[6] = 0x70 | byte((hi>>56)&0x0f)
	u[7] = byte(hi >> 48)

	// Variant 10xxxxxx, then random fill.
	u[8] = 0x80 | byte((hi>>40)&0x3f)
	u[9] = byte(hi >> 32)
	u[10] = byte(hi >> 24)
	u[11] = byte(hi >> 16)
	u[12] = byte(hi >> 8)
	u[13] = byte(hi)

	lo := rand.Uint64()
	u[14] = byte(lo >> 8)
	u[15] = byte(lo)

	return u
}

// String returns the UUID in standard form: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}
