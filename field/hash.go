package field

import (
	"encoding/binary"
	"hash/fnv"
)

// Hash fingerprints a descriptor list. Equal lists hash equally; the count
// is mixed in so a prefix never collides with the full list.
func Hash(descs []Descriptor) uint64 {
	h := fnv.New64a()
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(descs)))
	_, _ = h.Write(n[:])
	buf := make([]byte, 0, DescriptorSize)
	for _, d := range descs {
		buf = d.AppendBinary(buf[:0])
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}
