// Package config loads the optional YAML defaults file that seeds a
// settings.Settings before CLI flags are applied over it.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flywave/gltfpack/internal/errs"
)

// File mirrors the subset of settings.Settings a defaults file may set.
// Fields are pointers so an absent key leaves the caller's default alone.
type File struct {
	SimplifyRatio       *float64 `yaml:"simplify_ratio"`
	SimplifyAggressive  *bool    `yaml:"simplify_aggressive"`
	AnimationRate       *float64 `yaml:"animation_rate"`
	TexturePositionBits *int     `yaml:"texture_position_bits"`
	TextureUVBits       *int     `yaml:"texture_uv_bits"`
	NormalBits          *int     `yaml:"normal_bits"`
	TextureEncode       *bool    `yaml:"texture_encode"`
	TextureQuality      *int     `yaml:"texture_quality"`
	CompressBuffers     *bool    `yaml:"compress_buffers"`
	KeepNodes           *bool    `yaml:"keep_nodes"`
	KeepExtras          *bool    `yaml:"keep_extras"`
	KeepMaterials       *bool    `yaml:"keep_materials"`
}

// Path resolves the defaults file's location: the GLTFPACK_CONFIG
// environment variable, falling back to ./.gltfpack.yaml.
func Path() string {
	if p := os.Getenv("GLTFPACK_CONFIG"); p != "" {
		return p
	}
	return ".gltfpack.yaml"
}

// Load reads the defaults file at path. A missing file is not an error —
// callers treat it as "no overrides" rather than failing the run.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errs.Wrap(errs.IOError, err, "read config file")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.InvalidJSON, err, "parse config file")
	}
	return &f, nil
}
