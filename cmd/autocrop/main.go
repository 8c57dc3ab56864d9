package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/ironsheep/image-autocrop/internal/autocrop"
	"github.com/ironsheep/image-autocrop/internal/config"
	"github.com/ironsheep/image-autocrop/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("autocrop %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol in serve mode)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var err error
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		err = serve(os.Args[2:])
	} else {
		err = crop(os.Args[1:])
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "autocrop - cut the separate items out of scanned pages")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  autocrop -dir <directory> [options]   Crop every image in a directory")
	fmt.Fprintln(w, "  autocrop serve [-config file]         Run the MCP server on stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	defaults := config.Default()
	fs := newCropFlags(&defaults)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  --version        Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  AUTOCROP_LOG_LEVEL=debug    Log every box found")
}

// newCropFlags binds the batch flags to cfg.
func newCropFlags(cfg *config.Config) *flag.FlagSet {
	fs := flag.NewFlagSet("autocrop", flag.ContinueOnError)
	fs.String("config", "", "YAML config file; flags override its values")
	fs.StringVar(&cfg.InputDir, "dir", cfg.InputDir, "directory to crop")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for crops (default: next to each image)")
	fs.BoolVar(&cfg.Invert, "inv", cfg.Invert, "inverse color for dark backgrounds")
	fs.IntVar(&cfg.MinHeight, "min-height", cfg.MinHeight, "min height of box to pull from the image")
	fs.IntVar(&cfg.MinWidth, "min-width", cfg.MinWidth, "min width of box to pull from the image")
	fs.IntVar(&cfg.Level, "level", cfg.Level, "gray level at or above which a pixel is background")
	fs.IntVar(&cfg.SmoothRadius, "smooth-radius", cfg.SmoothRadius, "width of the blur applied before labeling")
	fs.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "blurred value a pixel must exceed to be foreground")
	fs.Float64Var(&cfg.RadiusScale, "radius-scale", cfg.RadiusScale, "multiplier on the overlap search radius")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "images processed at once")
	fs.BoolVar(&cfg.Overlay, "overlay", cfg.Overlay, "write <name>_boxes.png with the saved boxes outlined")
	fs.StringVar(&cfg.OverlayColor, "overlay-color", cfg.OverlayColor, "outline color as #RRGGBB")
	fs.StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "write a YAML manifest of all crops to this file")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log every box found")
	return fs
}

// loadConfig parses args over the defaults, or over the file named by
// -config when one is given. Only flags present in args override file values.
func loadConfig(args []string) (config.Config, error) {
	flagged := config.Default()
	fs := newCropFlags(&flagged)
	if err := fs.Parse(args); err != nil {
		return flagged, err
	}
	if fs.NArg() > 0 {
		return flagged, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	path := fs.Lookup("config").Value.String()
	if path == "" {
		return withEnv(flagged), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	// Re-apply explicitly set flags on top of the file.
	overlay := newCropFlags(&cfg)
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			overlay.Set(f.Name, f.Value.String())
		}
	})
	return withEnv(cfg), nil
}

func withEnv(cfg config.Config) config.Config {
	if os.Getenv("AUTOCROP_LOG_LEVEL") == "debug" {
		cfg.Verbose = true
	}
	return cfg
}

func crop(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("autocrop v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m, err := autocrop.Run(ctx, cfg)
	if err != nil {
		return err
	}

	log.Printf("Cropped %d images into %d crops, skipped %d files", len(m.Images), m.CropCount(), len(m.Skipped))
	return nil
}

func serve(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("autocrop MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	return server.New(cfg).Run()
}
