// Package texcodec transcodes raw images to KTX2/Basis Universal through
// the external basisu CLI, the same collaborator-process pattern gltfpack's
// own texture pipeline uses upstream.
package texcodec

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/flywave/gltfpack/internal/errs"
)

// Encoder transcodes a raw image into a KTX2 container.
type Encoder interface {
	Encode(opts Options) ([]byte, error)
}

// Options carries the one texture's transcode parameters.
type Options struct {
	InputPath        string // on-disk source file; basisu reads files, not stdin
	Quality          int    // 1-255, ETC1S quality level
	UASTC            bool
	SRGB             bool
	NormalMap        bool
	Supercompression bool // apply Zstandard supercompression to the KTX2 output
}

// Basisu drives the external basisu executable named by Path, which is run
// as given. NewBasisu fills Path from the BASISU_PATH environment variable,
// falling back to "basisu" on PATH; a Basisu with an empty Path is not
// resolved and fails to run.
type Basisu struct {
	Path string
}

// NewBasisu resolves the executable path from BASISU_PATH, or "basisu".
func NewBasisu() *Basisu {
	path := os.Getenv("BASISU_PATH")
	if path == "" {
		path = "basisu"
	}
	return &Basisu{Path: path}
}

// Available runs a banner precheck: basisu with no arguments prints its
// "Basis Universal" usage banner to stdout and exits non-zero, so a missing
// or broken binary is distinguished from one that merely rejected our flags.
func (b *Basisu) Available() bool {
	cmd := exec.Command(b.Path)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	_ = cmd.Run()
	return bytes.Contains(out.Bytes(), []byte("Basis Universal"))
}

// Encode invokes basisu on opts.InputPath and returns the resulting KTX2
// bytes, via a temp output file since basisu writes to disk, not stdout.
func (b *Basisu) Encode(opts Options) ([]byte, error) {
	out, err := os.CreateTemp("", "gltfpack-basisu-*.ktx2")
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err, "create basisu temp output")
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	args := []string{"-ktx2", "-file", opts.InputPath, "-output_file", outPath}
	if opts.UASTC {
		args = append(args, "-uastc")
	} else {
		args = append(args, "-q", strconv.Itoa(clampQuality(opts.Quality)))
	}
	if opts.SRGB {
		args = append(args, "-srgb")
	} else {
		args = append(args, "-linear")
	}
	if opts.NormalMap {
		args = append(args, "-normal_map")
	}
	if opts.Supercompression {
		args = append(args, "-ktx2_zstandard", "18")
	}

	cmd := exec.Command(b.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ExternalToolFailed, fmt.Errorf("%w: %s", err, stderr.String()), "basisu encode")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errs.Wrap(errs.ExternalToolFailed, err, "read basisu output")
	}
	return data, nil
}

func clampQuality(q int) int {
	if q <= 0 {
		return 128
	}
	if q > 255 {
		return 255
	}
	return q
}
