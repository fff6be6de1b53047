// Package texture decodes local image files for embedding and for
// normalizing formats the basisu transcoder can't read directly.
package texture

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/tiff"
	"golang.org/x/image/bmp"

	"github.com/flywave/gltfpack/internal/errs"
	"github.com/flywave/gltfpack/internal/scene"
)

// Load reads path from disk and returns it as a scene.Image with its raw
// file bytes embedded and MIME type inferred from the extension.
func Load(path string) (*scene.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileNotFound, err, "read texture")
	}
	return &scene.Image{MimeType: mimeTypeOf(path), Data: data}, nil
}

func mimeTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// Decode decodes img's embedded bytes into an image.Image, dispatching on
// its MIME type. Used to normalize formats the basisu transcoder can't read
// directly (GIF, BMP, TIFF) to PNG before handing them off.
func Decode(img *scene.Image) (image.Image, error) {
	rd := bytes.NewReader(img.Data)
	switch img.MimeType {
	case "image/jpeg", "image/jpg":
		return jpeg.Decode(rd)
	case "image/png":
		return png.Decode(rd)
	case "image/gif":
		return gif.Decode(rd)
	case "image/bmp":
		return bmp.Decode(rd)
	case "image/tiff":
		return tiff.Decode(rd)
	default:
		return nil, errs.New(errs.UnknownFormat, "unknown image format "+img.MimeType)
	}
}
