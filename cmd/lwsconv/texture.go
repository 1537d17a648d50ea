package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyuri/lwsconv/pkg/lwsconv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// texture command
var textureCmd = &cobra.Command{
	Use:   "texture <input> <output>",
	Short: "Export a texture as PNG, WebP or XPM",
	Long: `Convert a texture file to PNG, WebP or XPM.

8-bit bitmaps named A###_*.bmp have palette entry ### exported as
transparent. Other BMP depths, TGA, PNG and JPEG inputs are accepted for
PNG and WebP output; XPM needs an 8-bit bitmap.

With --frames, the input names the first image of a numbered sequence
(water001.bmp, water002.bmp, ...) and <output> is a directory receiving
one file per frame.`,
	Args: cobra.ExactArgs(2),
	RunE: runTexture,
}

func init() {
	textureCmd.Flags().String("export-format", "", "Output format: png, webp, xpm (default from config, else png)")
	textureCmd.Flags().Float64("scale", 0, "Scale factor (default from config, else 1)")
	textureCmd.Flags().Bool("smooth", false, "Interpolate when scaling")
	textureCmd.Flags().Bool("frames", false, "Export every frame of a numbered sequence")
}

func runTexture(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]
	smooth, _ := cmd.Flags().GetBool("smooth")
	frames, _ := cmd.Flags().GetBool("frames")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !frames {
		return a.exportTexture(inputPath, outputPath, smooth)
	}

	seq, ok := lwsconv.ParseSequence(baseName(inputPath))
	if !ok {
		return fmt.Errorf("%s is not a numbered sequence", inputPath)
	}
	dir := filepath.Dir(inputPath)
	count := seq.Count(func(name string) bool {
		return a.src.Exists(filepath.ToSlash(filepath.Join(dir, name)))
	})
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for i := 0; i < count; i++ {
		name := seq.Frame(seq.Start + i)
		in := filepath.ToSlash(filepath.Join(dir, name))
		out := filepath.Join(outputPath, strings.TrimSuffix(name, filepath.Ext(name))+"."+a.cfg.ExportFormat)
		if err := a.exportTexture(in, out, smooth); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "Exported %d frame(s) to %s\n", count, outputPath)
	return nil
}

func (a *app) exportTexture(inputPath, outputPath string, smooth bool) error {
	data, err := a.read(inputPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if a.cfg.ExportFormat == lwsconv.FormatXPM {
		bm, err := lwsconv.DecodeBitmap(data)
		if err != nil {
			return fmt.Errorf("parse bitmap %s: %w", inputPath, err)
		}
		return lwsconv.WriteXPM(out, baseName(inputPath), bm, lwsconv.AlphaIndex(inputPath))
	}

	img, err := lwsconv.DecodeImage(bytes.NewReader(data), inputPath)
	if err != nil {
		return err
	}
	img = lwsconv.ScaleImage(img, a.cfg.TextureScale, smooth)

	if err := lwsconv.EncodeImage(out, img, a.cfg.ExportFormat); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	a.log.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"size":   fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
	}).Info("exported texture")
	return nil
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Display asset file information",
	Long: `Display a summary of an asset file. The kind is taken from the
extension: .lws scenes, .lwo meshes, .uv files and .bmp bitmaps.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "Output as JSON")
	infoCmd.Flags().Bool("brief", false, "Show only summary")
}

func runInfo(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")
	brief, _ := cmd.Flags().GetBool("brief")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.read(inputPath)
	if err != nil {
		return err
	}

	info, err := a.describe(inputPath, data)
	if err != nil {
		return err
	}
	info.FileSize = int64(len(data))

	if jsonOutput {
		return writeJSON(os.Stdout, info)
	}
	if brief {
		fmt.Printf("%s: %s %s\n", inputPath, info.Kind, strings.Join(info.Counts.brief(), " "))
		return nil
	}

	fmt.Printf("File: %s\n", inputPath)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Kind:               %s\n", info.Kind)
	fmt.Printf("File Size:          %s (%d bytes)\n", formatBytes(info.FileSize), info.FileSize)
	for _, line := range info.Counts.lines() {
		fmt.Println(line)
	}
	return nil
}

// fileInfo is the summary printed by info.
type fileInfo struct {
	File     string     `json:"file"`
	Kind     string     `json:"kind"`
	FileSize int64      `json:"fileSize"`
	Counts   infoCounts `json:"counts"`
}

type infoCounts struct {
	Objects   int    `json:"objects,omitempty"`
	Frames    string `json:"frames,omitempty"`
	Vertices  int    `json:"vertices,omitempty"`
	Polygons  int    `json:"polygons,omitempty"`
	Surfaces  int    `json:"surfaces,omitempty"`
	Materials int    `json:"materials,omitempty"`
	UVs       int    `json:"uvs,omitempty"`
	Size      string `json:"size,omitempty"`
	Colors    int    `json:"colors,omitempty"`
}

func (c infoCounts) brief() []string {
	var out []string
	add := func(name string, v interface{}) {
		if v != 0 && v != "" {
			out = append(out, fmt.Sprintf("%s=%v", name, v))
		}
	}
	add("Objects", c.Objects)
	add("Frames", c.Frames)
	add("Vertices", c.Vertices)
	add("Polygons", c.Polygons)
	add("Surfaces", c.Surfaces)
	add("Materials", c.Materials)
	add("UVs", c.UVs)
	add("Size", c.Size)
	add("Colors", c.Colors)
	return out
}

func (c infoCounts) lines() []string {
	var out []string
	for _, kv := range c.brief() {
		name, value, _ := strings.Cut(kv, "=")
		out = append(out, fmt.Sprintf("%-20s%s", name+":", value))
	}
	return out
}

func (a *app) describe(path string, data []byte) (*fileInfo, error) {
	info := &fileInfo{File: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lws":
		anim, err := lwsconv.ParseScene(bytes.NewReader(data), lwsconv.WithLogger(a.log))
		if err != nil {
			return nil, fmt.Errorf("parse scene: %w", err)
		}
		info.Kind = "scene"
		info.Counts.Objects = len(anim.Objects)
		info.Counts.Frames = fmt.Sprintf("%d-%d @ %g fps", anim.FirstFrame, anim.LastFrame, anim.FramesPerSecond)

	case ".lwo":
		mesh, err := lwsconv.DecodeMesh(data, lwsconv.WithLogger(a.log))
		if err != nil {
			return nil, fmt.Errorf("parse mesh: %w", err)
		}
		info.Kind = "mesh"
		info.Counts.Vertices = len(mesh.Vertices)
		info.Counts.Polygons = len(mesh.Polygons)
		info.Counts.Surfaces = len(mesh.SurfaceNames)

	case ".uv":
		uv, err := lwsconv.ParseUV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse uv file: %w", err)
		}
		info.Kind = "uv"
		info.Counts.Materials = len(uv.MaterialNames)
		info.Counts.UVs = len(uv.UVs)

	case ".bmp":
		bm, err := lwsconv.DecodeBitmap(data)
		if err != nil {
			return nil, fmt.Errorf("parse bitmap: %w", err)
		}
		info.Kind = "bitmap"
		info.Counts.Size = fmt.Sprintf("%dx%d", bm.Width, bm.Height)
		info.Counts.Colors = len(bm.Palette)

	default:
		return nil, fmt.Errorf("unknown file kind: %s", path)
	}
	return info, nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// baseName returns the file name of an asset path using either separator.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
