// Package settings holds the run-wide options derived from CLI flags (or an
// optional YAML defaults file) and threaded by the driver through every
// pipeline stage, mirroring the teacher's single shared options struct
// passed into each converter rather than scattering option lookups.
package settings

import "github.com/flywave/gltfpack/internal/config"

// Settings is immutable once the driver finishes parsing flags; no stage
// mutates it.
type Settings struct {
	Input  []string
	Output string

	Verbose     bool
	VeryVerbose bool
	TestMode    bool

	KeepNodes     bool // -kn: keep named nodes regardless of reachability
	KeepExtras    bool // -ke: preserve extras JSON through the pipeline
	KeepMaterials bool // -km: keep unreferenced materials

	SimplifyRatio      float64 // -si, default 1 (no simplification)
	SimplifyAggressive bool    // -sa

	AnimationRate  float64 // -af, default 30
	AnimationConst bool    // -ac: keep constant tracks

	TexturePositionBits int // -vp, default 14
	TextureUVBits       int // -vt, default 12
	NormalBits          int // -vn, default 8

	AnimTranslationBits int // -at, default 16
	AnimRotationBits    int // -ar, default 12
	AnimScaleBits       int // -as, default 16

	EmbedTextures        bool // -te: embed all textures rather than reference external files
	TextureEncode        bool // -tb: encode textures via the external basisu transcoder
	TextureSupercompress bool // -tc: emit KTX2 with Zstandard supercompression
	TextureQuality       int  // -tq, default 50
	TextureUASTC         bool // -tu

	CompressBuffers  bool // -c
	CompressMore     bool // -cc: strip-friendly vertex cache optimize profile
	CompressFallback bool // -cf: emit uncompressed fallback blob

	NoQuantize bool // -noq
}

// Default returns the settings a bare `gltfpack -i in -o out` invocation
// produces.
func Default() Settings {
	return Settings{
		SimplifyRatio:       1,
		AnimationRate:       30,
		TexturePositionBits: 14,
		TextureUVBits:       12,
		NormalBits:          8,
		AnimTranslationBits: 16,
		AnimRotationBits:    12,
		AnimScaleBits:       16,
		TextureQuality:      50,
	}
}

// ApplyFile overlays f's set fields onto s, per the load order: defaults <
// config file < CLI flags. Callers apply f before parsing flags so any
// flag the user actually passed still wins.
func (s *Settings) ApplyFile(f *config.File) {
	if f == nil {
		return
	}
	if f.SimplifyRatio != nil {
		s.SimplifyRatio = *f.SimplifyRatio
	}
	if f.SimplifyAggressive != nil {
		s.SimplifyAggressive = *f.SimplifyAggressive
	}
	if f.AnimationRate != nil {
		s.AnimationRate = *f.AnimationRate
	}
	if f.TexturePositionBits != nil {
		s.TexturePositionBits = *f.TexturePositionBits
	}
	if f.TextureUVBits != nil {
		s.TextureUVBits = *f.TextureUVBits
	}
	if f.NormalBits != nil {
		s.NormalBits = *f.NormalBits
	}
	if f.TextureEncode != nil {
		s.TextureEncode = *f.TextureEncode
	}
	if f.TextureQuality != nil {
		s.TextureQuality = *f.TextureQuality
	}
	if f.CompressBuffers != nil {
		s.CompressBuffers = *f.CompressBuffers
	}
	if f.KeepNodes != nil {
		s.KeepNodes = *f.KeepNodes
	}
	if f.KeepExtras != nil {
		s.KeepExtras = *f.KeepExtras
	}
	if f.KeepMaterials != nil {
		s.KeepMaterials = *f.KeepMaterials
	}
}
