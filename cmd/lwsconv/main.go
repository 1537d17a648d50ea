package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dyuri/lwsconv/internal/config"
	"github.com/dyuri/lwsconv/internal/logging"
	"github.com/dyuri/lwsconv/pkg/lwsconv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lwsconv",
	Short: "Inspect and convert LightWave 5 game assets",
	Long: `lwsconv decodes the assets of LightWave 5 era game content: LWOB
meshes, LWSC scenes, UV files and 8-bit indexed bitmaps.

It can dump any of them as text or JSON, export textures to PNG, WebP or
XPM, and validate a whole scene with every file it references. Assets
can be read from a directory tree or straight from an ISO9660 disc image.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Log skipped chunks and ignored scene lines")
	flags.BoolP("quiet", "q", false, "Log errors only")
	flags.String("config", "", "JSON config file")
	flags.String("shared-dir", "", "Fallback directory for referenced files")
	flags.String("disc", "", "Read assets from an ISO9660 disc image")
	flags.Bool("no-uv", false, "Ignore <mesh>.uv files")

	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(meshCmd)
	rootCmd.AddCommand(uvCmd)
	rootCmd.AddCommand(bitmapCmd)
	rootCmd.AddCommand(textureCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// app is the state shared by all commands: resolved config, logger and
// the asset source.
type app struct {
	cfg    config.Config
	log    *logrus.Logger
	src    lwsconv.Source
	loader *lwsconv.Loader
	disc   *lwsconv.DiscSource
}

func newApp(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	configPath, _ := cmd.Flags().GetString("config")
	sharedDir, _ := cmd.Flags().GetString("shared-dir")
	disc, _ := cmd.Flags().GetString("disc")
	noUV, _ := cmd.Flags().GetBool("no-uv")

	a := &app{log: logging.New(verbose, quiet)}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
	}
	flags := config.Flags{SharedDir: sharedDir, DiscImage: disc, NoUV: noUV}
	if cmd.Flags().Lookup("scale") != nil {
		flags.Scale, _ = cmd.Flags().GetFloat64("scale")
	}
	if cmd.Flags().Lookup("export-format") != nil {
		flags.Format, _ = cmd.Flags().GetString("export-format")
	}
	a.cfg.Resolve(flags)

	a.src = lwsconv.DirSource{}
	if a.cfg.DiscImage != "" {
		d, err := lwsconv.OpenDisc(a.cfg.DiscImage)
		if err != nil {
			return nil, err
		}
		a.disc = d
		a.src = d
		a.log.WithField("image", a.cfg.DiscImage).Debug("reading assets from disc image")
	}

	opts := []lwsconv.LoaderOption{
		lwsconv.WithSharedDir(a.cfg.SharedDir),
		lwsconv.WithLoaderLogger(a.log),
	}
	if !a.cfg.UVFiles() {
		opts = append(opts, lwsconv.WithoutUVFiles())
	}
	a.loader = lwsconv.NewLoader(a.src, opts...)
	return a, nil
}

func (a *app) Close() error {
	if a.disc != nil {
		return a.disc.Close()
	}
	return nil
}

// read returns the contents of path from the asset source.
func (a *app) read(path string) ([]byte, error) {
	rc, err := a.src.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// output opens the -o target, or stdout when none is given.
func output(cmd *cobra.Command) (io.WriteCloser, error) {
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().String("format", "text", "Output format: text, json")
}

// scene command
var sceneCmd = &cobra.Command{
	Use:   "scene <input.lws>",
	Short: "Dump an LWSC scene",
	Long: `Decode an LWSC scene and print its objects, hierarchy and
keyframes. Rotations are printed in radians.`,
	Args: cobra.ExactArgs(1),
	RunE: runScene,
}

func init() {
	addOutputFlags(sceneCmd)
}

func runScene(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	anim, err := a.loader.LoadScene(args[0])
	if err != nil {
		return err
	}

	out, err := output(cmd)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "text":
		return lwsconv.WriteAnimation(out, anim)
	case "json":
		return writeJSON(out, sceneToJSON(anim))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// mesh command
var meshCmd = &cobra.Command{
	Use:   "mesh <input.lwo>",
	Short: "Dump an LWOB mesh",
	Long: `Decode an LWOB mesh and print its geometry summary and surfaces.

The mesh's UV file (<name>.uv next to the mesh or in the shared directory)
is applied unless --no-uv is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runMesh,
}

func init() {
	addOutputFlags(meshCmd)
}

func runMesh(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	obj, err := a.loader.LoadMesh(args[0])
	if err != nil {
		return err
	}

	out, err := output(cmd)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "text":
		if err := lwsconv.WriteMesh(out, obj.Mesh); err != nil {
			return err
		}
		if obj.UV != nil {
			fmt.Fprintf(out, "  UV file: %s\n", obj.UVPath)
		}
		for i, tex := range obj.Textures {
			if tex != "" {
				fmt.Fprintf(out, "  Material %d texture: %s\n", i, tex)
			}
		}
		return nil
	case "json":
		return writeJSON(out, meshToJSON(obj))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// uv command
var uvCmd = &cobra.Command{
	Use:   "uv <input.uv>",
	Short: "Dump a UV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runUV,
}

func init() {
	addOutputFlags(uvCmd)
}

func runUV(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rc, err := a.src.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer rc.Close()

	uv, err := lwsconv.ParseUV(rc)
	if err != nil {
		return fmt.Errorf("parse uv file: %w", err)
	}

	out, err := output(cmd)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "text":
		return lwsconv.WriteUV(out, uv)
	case "json":
		return writeJSON(out, uvToJSON(uv))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// bitmap command
var bitmapCmd = &cobra.Command{
	Use:   "bitmap <input.bmp>",
	Short: "Dump an 8-bit indexed bitmap",
	Long: `Decode an 8-bit indexed bitmap and print its size and palette.

With --format xpm the bitmap is written as XPM; a file name starting with
A###_ marks palette entry ### as transparent.`,
	Args: cobra.ExactArgs(1),
	RunE: runBitmap,
}

func init() {
	bitmapCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	bitmapCmd.Flags().String("format", "text", "Output format: text, json, xpm")
}

func runBitmap(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	bm, err := a.loader.LoadBitmap(args[0])
	if err != nil {
		return err
	}

	out, err := output(cmd)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "text":
		return lwsconv.WriteBitmap(out, bm)
	case "json":
		return writeJSON(out, bitmapToJSON(bm))
	case "xpm":
		return lwsconv.WriteXPM(out, baseName(args[0]), bm, lwsconv.AlphaIndex(args[0]))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lwsconv version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
	},
}
