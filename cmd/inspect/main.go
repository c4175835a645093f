package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"scene-importer/internal/importer"
	"scene-importer/internal/scene"
)

type nodeDump struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position,flow"`
	Euler    [3]float32 `yaml:"euler,flow"`
	Scale    [3]float32 `yaml:"scale,flow"`
	Parts    []partDump `yaml:"parts,omitempty"`
	Children []nodeDump `yaml:"children,omitempty"`
}

type partDump struct {
	Name      string      `yaml:"name"`
	Scale     [3]float32  `yaml:"scale,flow"`
	Vertices  int         `yaml:"vertices"`
	Triangles int         `yaml:"triangles"`
	Material  string      `yaml:"material"`
	Color     [4]float32  `yaml:"color,flow"`
	Emission  *[4]float32 `yaml:"emission,flow,omitempty"`
	Albedo    string      `yaml:"albedo,omitempty"`
}

type report struct {
	File   string      `yaml:"file"`
	Stats  scene.Stats `yaml:"stats"`
	Bounds struct {
		Min [3]float32 `yaml:"min,flow"`
		Max [3]float32 `yaml:"max,flow"`
	} `yaml:"bounds"`
	Root nodeDump `yaml:"root"`
}

func main() {
	scale := flag.Float64("scale", 1, "Uniform scale applied to mesh parts")
	conjugate := flag.Bool("conjugate", false, "Mirror whole node matrices instead of negating Euler Y")
	keepScale := flag.Bool("keep-node-scale", false, "Carry node matrix scale onto containers")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [flags] <scene.gltf|scene.glb>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := importer.Options{KeepNodeScale: *keepScale}
	if *conjugate {
		opts.Handedness = importer.MirrorConjugate
	}

	s := float32(*scale)
	root, err := importer.New(nil, logger, opts).Import(path, s, s, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if root == nil {
		fmt.Println("Nothing imported.")
		return
	}

	rep := report{File: path, Stats: root.Stats(), Root: dumpNode(root)}
	if b := root.Bounds(); !b.IsEmpty() {
		rep.Bounds.Min = b.Min
		rep.Bounds.Max = b.Max
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	enc.Close()
}

func dumpNode(o *scene.Object) nodeDump {
	d := nodeDump{
		Name:     o.Name,
		Position: o.Transform.Position,
		Euler:    round(o.Transform.Euler()),
		Scale:    o.Transform.Scale,
	}
	for _, p := range o.Parts() {
		pd := partDump{
			Name:      p.Name,
			Scale:     p.Transform.Scale,
			Vertices:  len(p.Mesh.Vertices),
			Triangles: p.Mesh.TriangleCount(),
		}
		if m := p.Material; m != nil {
			pd.Material = m.Name
			pd.Color = m.Color
			if m.Emissive() {
				e := [4]float32(m.EmissionColor)
				pd.Emission = &e
			}
			pd.Albedo = m.AlbedoPath
			if pd.Albedo == "" && m.Albedo != nil {
				pd.Albedo = "(embedded)"
			}
		}
		d.Parts = append(d.Parts, pd)
	}
	for _, c := range o.Containers() {
		d.Children = append(d.Children, dumpNode(c))
	}
	return d
}

// round trims float noise from extracted Euler angles.
func round(v mgl32.Vec3) [3]float32 {
	for i := range v {
		v[i] = float32(math.Round(float64(v[i])*1000) / 1000)
	}
	return v
}
