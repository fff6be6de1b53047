// Command gltfpack ingests a glTF 2.0 family file or a Wavefront .obj and
// emits an optimized glTF/GLB artifact: attribute filtering, simplification,
// quantization, and optional MESHOPT_compression, driven by a manual flag
// loop matching the upstream tool's own single-dash, multi-letter grammar.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flywave/gltfpack/internal/anim"
	"github.com/flywave/gltfpack/internal/config"
	"github.com/flywave/gltfpack/internal/container"
	"github.com/flywave/gltfpack/internal/diag"
	"github.com/flywave/gltfpack/internal/errs"
	"github.com/flywave/gltfpack/internal/mark"
	"github.com/flywave/gltfpack/internal/parse"
	"github.com/flywave/gltfpack/internal/scene"
	"github.com/flywave/gltfpack/internal/settings"
	"github.com/flywave/gltfpack/internal/stats"
	"github.com/flywave/gltfpack/internal/texcodec"
	"github.com/flywave/gltfpack/internal/texture"
	"github.com/flywave/gltfpack/internal/transform"
	"github.com/flywave/gltfpack/internal/writer"
)

const usage = `Usage: gltfpack -i input -o output [options]

  -i <path>     input file (.gltf, .glb, .obj)
  -o <path>     output file (.gltf or .glb, by extension)
  -h            print this help and exit
  -v            verbose
  -vv           very verbose, also writes a trace file alongside output
  -test <f...>  round-trip each file without writing output

  -vp N         position quantization bits (default 14, 1-16)
  -vt N         texcoord quantization bits (default 12)
  -vn N         normal/tangent quantization bits (default 8)

  -at N         animation translation bits (default 16, 1-24)
  -ar N         animation rotation bits (default 12, 4-16)
  -as N         animation scale bits (default 16)
  -af N         animation resample rate in Hz (default 30)
  -ac           keep constant animation tracks

  -si R         simplification ratio (default 1, 0-1)
  -sa           aggressive simplification

  -te           embed all textures
  -tb           encode textures via the external basisu transcoder
  -tc           emit KTX2 with supercompression
  -tu           use the higher-quality UASTC intermediate
  -tq N         texture quality (default 50, 1-100)

  -kn           keep named nodes
  -ke           keep source extras
  -km           keep unreferenced materials

  -c            compress buffers
  -cc           compress more (strip-friendly vertex cache profile)
  -cf           compress with uncompressed fallback
  -noq          disable quantization

Environment:
  BASISU_PATH   overrides the basisu executable path used by -tb
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	st := settings.Default()

	if cfgFile, err := config.Load(config.Path()); err == nil {
		st.ApplyFile(cfgFile)
	}

	var testFiles []string
	i := 0
	for i < len(args) {
		a := args[i]
		next := func() string {
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: missing argument for", a)
				os.Exit(1)
			}
			return args[i]
		}
		nextInt := func() int {
			v, err := strconv.Atoi(next())
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error: expected integer for", a)
				os.Exit(1)
			}
			return v
		}
		nextFloat := func() float64 {
			v, err := strconv.ParseFloat(next(), 64)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error: expected number for", a)
				os.Exit(1)
			}
			return v
		}

		switch a {
		case "-h", "--help":
			fmt.Print(usage)
			return 0
		case "-i":
			st.Input = append(st.Input, next())
		case "-o":
			st.Output = next()
		case "-v":
			st.Verbose = true
		case "-vv":
			st.Verbose = true
			st.VeryVerbose = true
		case "-test":
			st.TestMode = true
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				testFiles = append(testFiles, args[i])
			}
		case "-vp":
			st.TexturePositionBits = nextInt()
		case "-vt":
			st.TextureUVBits = nextInt()
		case "-vn":
			st.NormalBits = nextInt()
		case "-at":
			st.AnimTranslationBits = nextInt()
		case "-ar":
			st.AnimRotationBits = nextInt()
		case "-as":
			st.AnimScaleBits = nextInt()
		case "-af":
			st.AnimationRate = nextFloat()
		case "-ac":
			st.AnimationConst = true
		case "-si":
			st.SimplifyRatio = nextFloat()
		case "-sa":
			st.SimplifyAggressive = true
		case "-te":
			st.EmbedTextures = true
		case "-tb":
			st.TextureEncode = true
		case "-tc":
			st.TextureSupercompress = true
		case "-tu":
			st.TextureUASTC = true
		case "-tq":
			st.TextureQuality = nextInt()
		case "-kn":
			st.KeepNodes = true
		case "-ke":
			st.KeepExtras = true
		case "-km":
			st.KeepMaterials = true
		case "-c":
			st.CompressBuffers = true
		case "-cc":
			st.CompressBuffers = true
			st.CompressMore = true
		case "-cf":
			st.CompressBuffers = true
			st.CompressFallback = true
		case "-noq":
			st.NoQuantize = true
		default:
			fmt.Fprintln(os.Stderr, "Error: unknown flag", a)
			fmt.Print(usage)
			return 1
		}
		i++
	}

	if st.TestMode {
		d := diag.New(st.Verbose, "")
		code := 0
		for _, f := range testFiles {
			if err := roundTrip(f, &st, d); err != nil {
				d.Error(err.Error())
				code = errs.ExitCode(err)
			}
		}
		return code
	}

	if len(st.Input) == 0 || st.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: -i and -o are required")
		fmt.Print(usage)
		return 1
	}

	switch strings.ToLower(filepath.Ext(st.Output)) {
	case ".glb", ".gltf":
	default:
		fmt.Fprintln(os.Stderr, "Error: -o must end in .glb or .gltf, got", st.Output)
		fmt.Print(usage)
		return 1
	}

	var tracePath string
	if st.VeryVerbose {
		tracePath = strings.TrimSuffix(st.Output, filepath.Ext(st.Output)) + ".trace.log"
	}
	d := diag.New(st.Verbose, tracePath)
	defer d.Sync()

	err := pack(st.Input[0], &st, d)
	if err != nil {
		d.Error(err.Error())
	}
	return errs.ExitCode(err)
}

// roundTrip parses f and runs it through the pipeline without writing
// output, per -test's contract (still transcoding textures, since the
// source leaves that collaborator running even in test mode).
func roundTrip(f string, st *settings.Settings, d *diag.Diag) error {
	sc, err := parseInput(f)
	if err != nil {
		return err
	}
	prims := transform.Run(sc, st)
	for i := range sc.Animations {
		start, end := anim.TimeRange(&sc.Animations[i])
		anim.Resample(&sc.Animations[i], start, end, float32(st.AnimationRate))
		anim.EliminateConstants(&sc.Animations[i], sc, st.AnimationConst)
	}
	info := scene.NewInfo(sc)
	mark.MarkMaterialsAndImages(sc, prims, info)
	if st.KeepMaterials {
		for i := range info.Materials {
			info.Materials[i].Keep = true
		}
	}
	mark.MarkNodes(sc, prims, sc.Animations, info, st.KeepNodes)
	mark.PruneAndReparent(sc, prims, sc.Animations, info)
	mark.AssignOutputIndices(sc, info)
	if st.EmbedTextures {
		embedTextures(sc, info, filepath.Dir(f))
	}
	if st.TextureEncode {
		transcodeImages(sc, info, st, d)
	}
	_, _ = writer.Assemble(sc, info, prims, sc.Animations, st)
	d.Verbose(fmt.Sprintf("test: %s ok (%d primitives survived)", f, len(prims)))
	return nil
}

func parseInput(path string) (*scene.Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return parse.GLTF(path)
	case ".obj":
		return parse.OBJ(path)
	default:
		return nil, errs.New(errs.UnknownFormat, "unrecognized input extension: "+path)
	}
}

func pack(input string, st *settings.Settings, d *diag.Diag) error {
	sc, err := parseInput(input)
	if err != nil {
		return err
	}
	in := stats.CountInput(sc)
	if fi, err := os.Stat(input); err == nil {
		in.InputBytes = fi.Size()
	}

	prims := transform.Run(sc, st)

	for i := range sc.Animations {
		start, end := anim.TimeRange(&sc.Animations[i])
		anim.Resample(&sc.Animations[i], start, end, float32(st.AnimationRate))
		anim.EliminateConstants(&sc.Animations[i], sc, st.AnimationConst)
	}

	info := scene.NewInfo(sc)
	mark.MarkMaterialsAndImages(sc, prims, info)
	if st.KeepMaterials {
		for i := range info.Materials {
			info.Materials[i].Keep = true
		}
	}
	mark.MarkNodes(sc, prims, sc.Animations, info, st.KeepNodes)
	mark.PruneAndReparent(sc, prims, sc.Animations, info)
	mark.AssignOutputIndices(sc, info)

	if st.EmbedTextures {
		embedTextures(sc, info, filepath.Dir(input))
	}
	if st.TextureEncode {
		transcodeImages(sc, info, st, d)
	}

	in.CountOutput(prims)

	doc, fallback := writer.Assemble(sc, info, prims, sc.Animations, st)

	jsonBytes, err := json.Marshal(doc.Doc)
	if err != nil {
		return errs.Wrap(errs.OutputWriteFailed, err, "marshal gltf json")
	}

	ext := strings.ToLower(filepath.Ext(st.Output))
	if ext == ".glb" {
		doc.SetBufferURIs("", filepath.Base(st.Output)+".fallback.bin")
		if err := container.WriteGLBFile(st.Output, jsonBytes, doc.Alloc.MainBlob()); err != nil {
			return errs.Wrap(errs.OutputWriteFailed, err, "write glb")
		}
		if st.CompressFallback && len(fallback) > 0 {
			if err := os.WriteFile(st.Output+".fallback.bin", fallback, 0o644); err != nil {
				return errs.Wrap(errs.OutputWriteFailed, err, "write fallback blob")
			}
		}
	} else {
		paths := container.PathsFor(st.Output)
		doc.SetBufferURIs(filepath.Base(paths.Bin), filepath.Base(paths.Fallback))
		if err := container.WriteGLTF(paths, jsonBytes, doc.Alloc.MainBlob(), fallback); err != nil {
			return errs.Wrap(errs.OutputWriteFailed, err, "write gltf")
		}
	}

	d.Verbose(fmt.Sprintf("%s -> %s: %d -> %d triangles, %d -> %d vertices",
		input, st.Output, in.InputTriangles, in.OutputTriangles, in.InputVertices, in.OutputVertices))
	return nil
}

// embedTextures resolves every kept image that still carries an external
// file URI (rather than embedded bytes, as glTF permits) into inline data
// loaded relative to dir, per -te's "embed all textures" contract. Images
// already embedded (bufferView-backed or data: URIs) are left untouched.
func embedTextures(sc *scene.Scene, info *scene.Info, dir string) {
	for i := range sc.Images {
		if !info.Images[i].Keep {
			continue
		}
		img := &sc.Images[i]
		if len(img.Data) > 0 || img.URI == "" || strings.HasPrefix(img.URI, "data:") {
			continue
		}
		loaded, err := texture.Load(filepath.Join(dir, img.URI))
		if err != nil {
			continue
		}
		img.Data = loaded.Data
		img.MimeType = loaded.MimeType
		img.URI = ""
	}
}

// transcodeImages runs every kept image through the basisu transcoder,
// logging a warning and falling back to the raw embed on failure rather
// than aborting the whole run.
func transcodeImages(sc *scene.Scene, info *scene.Info, st *settings.Settings, d *diag.Diag) {
	b := texcodec.NewBasisu()
	if !b.Available() {
		d.Warning("basisu not found, falling back to raw texture embedding")
		return
	}
	for i := range sc.Images {
		if !info.Images[i].Keep {
			continue
		}
		img := &sc.Images[i]
		srcData, srcExt := img.Data, extFor(img.MimeType)
		if srcExt == ".bin" {
			// basisu only natively reads PNG/JPEG/TGA; normalize anything
			// else (GIF, BMP, TIFF) to PNG before handing it off.
			decoded, err := texture.Decode(img)
			if err != nil {
				d.Warning("transcode " + img.URI + ": " + err.Error())
				continue
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, decoded); err != nil {
				d.Warning("transcode " + img.URI + ": " + err.Error())
				continue
			}
			srcData, srcExt = buf.Bytes(), ".png"
		}
		f, err := os.CreateTemp("", "gltfpack-src-*"+srcExt)
		if err != nil {
			d.Warning("transcode " + img.URI + ": " + err.Error())
			continue
		}
		path := f.Name()
		_, werr := f.Write(srcData)
		f.Close()
		if werr != nil {
			os.Remove(path)
			d.Warning("transcode: " + werr.Error())
			continue
		}
		out, err := b.Encode(texcodec.Options{
			InputPath: path, Quality: st.TextureQuality, UASTC: st.TextureUASTC,
			SRGB: !img.NormalMap, NormalMap: img.NormalMap,
			Supercompression: st.TextureSupercompress,
		})
		os.Remove(path)
		if err != nil {
			d.Warning("basisu transcode failed: " + err.Error())
			continue
		}
		img.Data = out
		img.MimeType = "image/ktx2"
	}
}

func extFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}
