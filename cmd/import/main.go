package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"scene-importer/internal/batch"
	"scene-importer/internal/config"
	"scene-importer/internal/importer"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	testN := flag.Int("test", 0, "Import only first N files for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	inputDir := flag.String("input", "", "Directory scanned for scene files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/imported)")
	scale := flag.Float64("scale", 0, "Uniform scale applied to mesh parts (default: 1)")
	handedness := flag.String("handedness", "", "Node transform mode: euler-y or conjugate")
	keepScale := flag.Bool("keep-node-scale", false, "Carry node matrix scale onto containers")
	export := flag.Bool("textures", false, "Export bound albedo textures as WebP")
	maxSize := flag.Int("max-texture", 0, "Downscale exported textures to fit this size")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:       *inputDir,
		OutputDir:      *outputDir,
		Scale:          *scale,
		Handedness:     *handedness,
		KeepNodeScale:  *keepScale,
		ExportTextures: *export,
		MaxTextureSize: *maxSize,
		Workers:        *workers,
	})

	opts, err := cfg.ImportOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opener := importer.DefaultOpener(logger)
	imp := importer.New(opener, logger, opts)

	// Files named on the command line replace the directory scan
	files, err := batch.AbsPaths(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		files, err = batch.Discover(cfg.InputDir, opener.Supports)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Limit for testing
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 {
		fmt.Println("No scene files to import.")
		os.Exit(0)
	}

	fmt.Println("Scene importer → engine scene tree")
	fmt.Printf("Files: %d, Workers: %d, Handedness: %s\n", len(files), cfg.Workers, opts.Handedness)
	fmt.Printf("Input: %s\n", cfg.InputDir)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		InputDir:       cfg.InputDir,
		OutputDir:      cfg.OutputDir,
		Importer:       imp,
		Scale:          [3]float32{cfg.Scale.X, cfg.Scale.Y, cfg.Scale.Z},
		ExportTextures: cfg.ExportTextures,
		MaxTextureSize: cfg.MaxTextureSize,
		Workers:        cfg.Workers,
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		batchCfg.Progress = os.Stdout
	}

	results := batch.Run(batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	manifest := batch.NewManifest(batchCfg, results)
	fmt.Printf("Imported: %d/%d (nothing imported: %d)\n", manifest.Imported, len(files), manifest.Empty)

	var failures []batch.Result
	for _, r := range results {
		if !r.Success && !r.Empty {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(20, len(failures))
		for _, e := range failures[:limit] {
			fmt.Printf("  %s: %s\n", e.Path, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if manifest.Failed > 0 {
		os.Exit(1)
	}
}
