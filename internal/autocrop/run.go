package autocrop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-autocrop/internal/config"
	"github.com/ironsheep/image-autocrop/internal/imaging"
)

// ErrNotImage marks an input that could not be opened or decoded. Run skips
// such files instead of failing.
var ErrNotImage = errors.New("not an image")

// Run crops every image in cfg.InputDir.
//
// Images are processed by up to cfg.Workers goroutines. Files that do not
// decode are logged and listed under Skipped; any other failure, such as an
// unwritable output directory, cancels the remaining work and is returned.
// Manifest entries follow directory order regardless of completion order.
// When cfg.Manifest is set the manifest is also written there.
func Run(ctx context.Context, cfg config.Config) (*Manifest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(cfg.InputDir, e.Name()))
	}

	cache := imaging.NewImageCache()
	results := make([]*ImageEntry, len(paths))
	skipped := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entry, err := ProcessFile(cache, path, cfg)
			if errors.Is(err, ErrNotImage) {
				log.Printf("Skipping %s: %v", path, err)
				skipped[i] = err
				return nil
			}
			if err != nil {
				return err
			}

			results[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Manifest{InputDir: cfg.InputDir}
	for i, path := range paths {
		if results[i] != nil {
			m.Images = append(m.Images, *results[i])
		}
		if skipped[i] != nil {
			m.Skipped = append(m.Skipped, Skipped{Path: path, Reason: skipped[i].Error()})
		}
	}

	if cfg.Manifest != "" {
		if err := WriteManifest(m, cfg.Manifest); err != nil {
			return m, err
		}
	}

	return m, nil
}

// ProcessFile detects, selects and saves the crops of a single image.
//
// Crops are written as <name>_crop_<i>.png in cfg.OutputDir, or next to the
// input when OutputDir is empty. The decoded image is evicted from cache
// before returning.
func ProcessFile(cache *imaging.ImageCache, path string, cfg config.Config) (*ImageEntry, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	defer cache.Evict(path)

	det := Detect(img, OptionsFromConfig(cfg))
	picked := SelectCrops(det.Merged, cfg.MinWidth, cfg.MinHeight)

	log.Printf("%s: %d regions, %d boxes, %d crops", path, len(det.Regions), len(det.Merged), len(picked))
	if cfg.Verbose {
		for i, b := range det.Merged {
			log.Printf("  box %d %v %dx%d", i, b, b.Width(), b.Height())
		}
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	base := outputBase(path, cfg.OutputDir)
	written, err := imaging.SaveCrops(img, picked, base)
	if err != nil {
		return nil, fmt.Errorf("failed to crop %s: %w", path, err)
	}

	entry := &ImageEntry{
		Path:    path,
		Width:   det.Width,
		Height:  det.Height,
		Regions: len(det.Regions),
		Boxes:   det.Merged,
		Crops:   make([]Crop, len(written)),
	}
	for i, p := range written {
		entry.Crops[i] = Crop{Path: p, Box: picked[i]}
	}

	if cfg.Overlay {
		entry.Overlay, err = imaging.SaveOverlay(img, picked, cfg.OverlayColor, base)
		if err != nil {
			return nil, fmt.Errorf("failed to draw overlay for %s: %w", path, err)
		}
	}

	return entry, nil
}

// outputBase strips the extension from path and moves it into dir when dir
// is set.
func outputBase(path, dir string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}
