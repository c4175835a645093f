package batch

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"scene-importer/internal/scene"
)

// SceneImporter loads one scene file. A nil object with a nil error means the
// file held nothing importable.
type SceneImporter interface {
	Import(path string, scaleX, scaleY, scaleZ float32) (*scene.Object, error)
}

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Importer  SceneImporter
	Scale     [3]float32

	ExportTextures bool
	MaxTextureSize int

	Workers int

	// Progress receives a progress bar; nil runs silently.
	Progress io.Writer
}

// Result holds the outcome of importing one file.
type Result struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Empty   bool   `json:"empty,omitempty"`
	Error   string `json:"error,omitempty"`

	Containers int      `json:"containers,omitempty"`
	Parts      int      `json:"parts,omitempty"`
	Materials  int      `json:"materials,omitempty"`
	Vertices   int      `json:"vertices,omitempty"`
	Triangles  int      `json:"triangles,omitempty"`
	Textures   []string `json:"textures,omitempty"`
}

// Discover lists the files below dir accepted by supports, sorted, as paths
// relative to dir.
func Discover(dir string, supports func(path string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supports(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// AbsPaths makes paths named on the command line absolute so that Run does
// not take them relative to the input directory.
func AbsPaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("batch: resolve %s: %w", p, err)
		}
		out[i] = abs
	}
	return out, nil
}

// Run imports all files using a worker pool. Relative paths are taken from
// cfg.InputDir; results keep the order of files.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)

	bar := newProgressBar(cfg.Progress, total)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Worker pool
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				_ = bar.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	_ = bar.Finish()

	return results
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("scenes"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

func processFile(cfg Config, rel string) Result {
	res := Result{Path: filepath.ToSlash(rel)}

	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.InputDir, rel)
	}
	root, err := cfg.Importer.Import(path, cfg.Scale[0], cfg.Scale[1], cfg.Scale[2])
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if root == nil {
		res.Empty = true
		res.Error = "nothing imported"
		return res
	}

	st := root.Stats()
	res.Containers = st.Containers
	res.Parts = st.Parts
	res.Materials = st.Materials
	res.Vertices = st.Vertices
	res.Triangles = st.Triangles

	if cfg.ExportTextures {
		dir := filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel)))
		written, err := ExportTextures(root, dir, cfg.MaxTextureSize)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		for _, p := range written {
			if r, err := filepath.Rel(cfg.OutputDir, p); err == nil {
				p = r
			}
			res.Textures = append(res.Textures, filepath.ToSlash(p))
		}
	}

	res.Success = true
	return res
}
