package writer

import "github.com/qmuntal/gltf"

// WriteImage appends data as an Image-kind buffer view and emits the
// corresponding gltf.Image entry. basisu marks the bytes as KTX2 output
// from the external transcoder; textureFor consults this flag to decide
// whether a referencing texture points at the image directly or through
// the KHR_texture_basisu extension.
func (d *Document) WriteImage(data []byte, mimeType string, basisu bool) uint32 {
	viewIdx := uint32(d.Alloc.Append(KindImage, 1, "image", false, data))

	img := &gltf.Image{MimeType: mimeType, BufferView: gltf.Index(viewIdx)}
	d.Doc.Images = append(d.Doc.Images, img)
	idx := uint32(len(d.Doc.Images) - 1)

	if basisu {
		if d.basisuImages == nil {
			d.basisuImages = map[uint32]bool{}
		}
		d.basisuImages[idx] = true
	}
	return idx
}
