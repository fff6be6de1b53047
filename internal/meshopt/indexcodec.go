// Package meshopt implements the binary codecs behind the glTF
// MESHOPT_compression extension: an index-stream encoder and a vertex-stream
// encoder, each producing (and consuming) a compact byte layout derived from
// delta/zigzag filtering of the logical values, mirrored in spirit from
// meshoptimizer's own encoders but re-expressed as a self-contained Go wire
// format (see DESIGN.md for the grounding of the encoding/binary + bytes.Buffer
// idiom used throughout).
package meshopt

import "encoding/binary"

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func unzigzag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// EncodeIndexBuffer compresses a logical uint32 index sequence into the
// index buffer-view wire layout: a varint-delta-zigzag stream against the
// previous index, one value at a time. stride (2 or 4) is recorded alongside
// the view but does not change the encoding itself — it only bounds what
// decoded values are valid once re-expanded to their declared component type.
func EncodeIndexBuffer(indices []uint32, stride int) []byte {
	out := make([]byte, 0, len(indices)*2)
	var prev int32
	for _, idx := range indices {
		cur := int32(idx)
		delta := cur - prev
		out = appendVarint(out, zigzag32(delta))
		prev = cur
	}
	return out
}

// DecodeIndexBuffer reverses EncodeIndexBuffer, reconstructing count logical
// index values.
func DecodeIndexBuffer(data []byte, count int) []uint32 {
	out := make([]uint32, 0, count)
	var prev int32
	pos := 0
	for i := 0; i < count; i++ {
		v, n := readVarint(data[pos:])
		pos += n
		prev += unzigzag32(v)
		out = append(out, uint32(prev))
	}
	return out
}

func appendVarint(out []byte, v uint32) []byte {
	var buf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(buf[:], uint64(v))
	return append(out, buf[:n]...)
}

func readVarint(data []byte) (uint32, int) {
	v, n := binary.Uvarint(data)
	return uint32(v), n
}
