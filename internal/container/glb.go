// Package container implements the container framer: serializing a glTF
// JSON document and its binary payload into either a two-file .gltf+.bin
// layout or a single .glb, with the standard 12-byte header and chunk
// framing.
package container

import (
	"bytes"
	"encoding/binary"
)

const (
	glbMagic   uint32 = 0x46546C67
	glbVersion uint32 = 2

	chunkTypeJSON uint32 = 0x4E4F534A
	chunkTypeBIN  uint32 = 0x004E4942
)

// WriteGLB assembles a single .glb byte stream from a JSON document and its
// binary payload, per the 12-byte header + chunk framing: magic, version,
// total length, then a JSON chunk padded with ASCII spaces and a BIN chunk
// zero-padded, both to 4-byte multiples.
func WriteGLB(jsonBytes, binBytes []byte) []byte {
	jsonChunk := padChunk(jsonBytes, ' ')
	binChunk := padChunk(binBytes, 0)

	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)

	buf := &bytes.Buffer{}
	buf.Grow(total)

	writeU32(buf, glbMagic)
	writeU32(buf, glbVersion)
	writeU32(buf, uint32(total))

	writeU32(buf, uint32(len(jsonChunk)))
	writeU32(buf, chunkTypeJSON)
	buf.Write(jsonChunk)

	writeU32(buf, uint32(len(binChunk)))
	writeU32(buf, chunkTypeBIN)
	buf.Write(binChunk)

	return buf.Bytes()
}

func padChunk(data []byte, fill byte) []byte {
	pad := (4 - len(data)%4) % 4
	if pad == 0 {
		return data
	}
	out := make([]byte, len(data)+pad)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = fill
	}
	return out
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
