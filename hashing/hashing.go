package hashing

import (
	"hash/fnv"
)

// Hash returns a stable 16 character hex digest of data.
func Hash(data []byte) string {
	hasher := fnv.New64a()
	_, _ = hasher.Write(data)
	return formatHash(hasher.Sum64())
}

// HashString is Hash for strings.
func HashString(s string) string {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(s))
	return formatHash(hasher.Sum64())
}

// formatHash converts a uint64 hash to a zero-padded 16-character hex string
// without the allocation overhead of fmt.Sprintf.
func formatHash(h uint64) string {
	const hexDigits = "0123456789abcdef"
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf[:])
}
