package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scene-importer/internal/batch"
	"scene-importer/internal/importer"
)

func main() {
	outDir := flag.String("out", "", "Output directory (default: <scene name>_textures next to the scene)")
	maxSize := flag.Int("max", 0, "Downscale textures to fit this size")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: texdump [flags] <scene.gltf|scene.glb>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	dir := *outDir
	if dir == "" {
		dir = strings.TrimSuffix(path, filepath.Ext(path)) + "_textures"
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	root, err := importer.New(nil, logger, importer.Options{}).Import(path, 1, 1, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if root == nil {
		fmt.Println("Nothing imported.")
		return
	}

	written, err := batch.ExportTextures(root, dir, *maxSize)
	for _, p := range written {
		fmt.Printf("OK  %s\n", p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(written) == 0 {
		fmt.Println("No textures bound.")
	}
}
