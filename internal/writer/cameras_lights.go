package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/scene"
)

// WriteCamera emits c's JSON fragment.
func (d *Document) WriteCamera(c *scene.Camera) uint32 {
	out := &gltf.Camera{Name: c.Name}
	if c.Orthographic {
		out.Type = gltf.CameraOrthographic
		out.Orthographic = &gltf.Orthographic{
			Xmag: float32(c.Xmag), Ymag: float32(c.Ymag),
			Zfar: float32(c.Zfar), Znear: float32(c.Znear),
		}
	} else {
		out.Type = gltf.CameraPerspective
		out.Perspective = &gltf.Perspective{
			AspectRatio: gltf.Float(float32(c.Aspect)),
			Yfov:        float32(c.Yfov),
			Zfar:        gltf.Float(float32(c.Zfar)),
			Znear:       float32(c.Znear),
		}
	}
	d.Doc.Cameras = append(d.Doc.Cameras, out)
	return uint32(len(d.Doc.Cameras) - 1)
}

// lightTypeName maps scene.LightType to KHR_lights_punctual's type string.
func lightTypeName(t scene.LightType) string {
	switch t {
	case scene.LightPoint:
		return "point"
	case scene.LightSpot:
		return "spot"
	default:
		return "directional"
	}
}

// WriteLight appends l to the document-level KHR_lights_punctual light list
// (created lazily) and returns its index within that list, for use in a
// node's extension reference.
func (d *Document) WriteLight(l *scene.Light) uint32 {
	if d.Doc.Extensions == nil {
		d.Doc.Extensions = gltf.Extensions{}
	}
	ext, _ := d.Doc.Extensions["KHR_lights_punctual"].(map[string]interface{})
	if ext == nil {
		ext = map[string]interface{}{"lights": []interface{}{}}
		d.Doc.Extensions["KHR_lights_punctual"] = ext
		d.useExtension("KHR_lights_punctual")
	}
	lights := ext["lights"].([]interface{})

	entry := map[string]interface{}{
		"type":      lightTypeName(l.Type),
		"color":     l.Color,
		"intensity": l.Intensity,
	}
	if l.Type != scene.LightDirectional && l.Range > 0 {
		entry["range"] = l.Range
	}
	if l.Type == scene.LightSpot {
		entry["spot"] = map[string]interface{}{
			"innerConeAngle": l.InnerCone,
			"outerConeAngle": l.OuterCone,
		}
	}
	if l.Name != "" {
		entry["name"] = l.Name
	}

	idx := uint32(len(lights))
	lights = append(lights, entry)
	ext["lights"] = lights
	return idx
}

// AttachLight records node's KHR_lights_punctual extension pointing at
// lightIdx within the document's light list.
func AttachLight(n *gltf.Node, lightIdx uint32) {
	if n.Extensions == nil {
		n.Extensions = gltf.Extensions{}
	}
	n.Extensions["KHR_lights_punctual"] = map[string]interface{}{"light": lightIdx}
}
