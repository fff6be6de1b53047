package container

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths bundles the on-disk filenames a two-file .gltf output uses.
type Paths struct {
	JSON     string
	Bin      string
	Fallback string
}

// PathsFor derives a .gltf output's sidecar file names from its path,
// stripping the extension for the .bin and .fallback.bin stems.
func PathsFor(outputPath string) Paths {
	stem := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return Paths{
		JSON:     outputPath,
		Bin:      stem + ".bin",
		Fallback: stem + ".fallback.bin",
	}
}

// WriteGLTF writes the two (or three, with a fallback) file .gltf layout:
// the JSON document at paths.JSON, the main binary blob at paths.Bin, and,
// when fallback is non-empty, the fallback blob at paths.Fallback.
func WriteGLTF(paths Paths, jsonBytes, binBytes, fallbackBytes []byte) error {
	if err := os.WriteFile(paths.JSON, jsonBytes, 0o644); err != nil {
		return fmt.Errorf("write gltf json: %w", err)
	}
	if err := os.WriteFile(paths.Bin, binBytes, 0o644); err != nil {
		return fmt.Errorf("write gltf bin: %w", err)
	}
	if len(fallbackBytes) > 0 {
		if err := os.WriteFile(paths.Fallback, fallbackBytes, 0o644); err != nil {
			return fmt.Errorf("write gltf fallback bin: %w", err)
		}
	}
	return nil
}

// WriteGLBFile assembles and writes a single .glb file to outputPath.
func WriteGLBFile(outputPath string, jsonBytes, binBytes []byte) error {
	return os.WriteFile(outputPath, WriteGLB(jsonBytes, binBytes), 0o644)
}
