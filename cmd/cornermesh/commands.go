package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/cornermesh/pkg/engine"
	"github.com/chazu/cornermesh/pkg/faces"
	"github.com/chazu/cornermesh/pkg/kernel/sdfx"
	"github.com/chazu/cornermesh/pkg/meshlog"
	"github.com/chazu/cornermesh/pkg/preview"
	"github.com/chazu/cornermesh/pkg/scene"
	"github.com/chazu/cornermesh/pkg/stl"
	"github.com/chazu/cornermesh/pkg/tessellate"
)

// infoReport is the JSON document printed by the info command.
type infoReport struct {
	Path   string        `json:"path"`
	Shapes []shapeReport `json:"shapes"`
	Issues []string      `json:"issues,omitempty"`
}

type shapeReport struct {
	Name          string       `json:"name"`
	Coords        int          `json:"coords"`
	Normals       int          `json:"normals"`
	NormalBinding string       `json:"normal_binding"`
	TriangleMesh  bool         `json:"triangle_mesh"`
	Topology      *faces.Stats `json:"topology,omitempty"`
}

func runInfo(env *cliEnv, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	path := args[0]

	g := scene.New()
	if err := stl.Load(path, g); err != nil {
		return err
	}

	report := infoReport{Path: path}
	for _, shape := range g.Shapes() {
		ifs, ok := shape.Geometry.(*scene.IndexedFaceSet)
		if !ok {
			continue
		}
		sr := shapeReport{
			Name:          shape.Name,
			Coords:        ifs.NumberOfCoords(),
			Normals:       ifs.NumberOfNormals(),
			NormalBinding: ifs.NormalBinding().String(),
			TriangleMesh:  ifs.IsTriangleMesh(),
		}
		if f, err := ifs.Faces(); err == nil {
			st := f.Stats()
			sr.Topology = &st
		}
		report.Shapes = append(report.Shapes, sr)
	}
	for _, v := range scene.Validate(g) {
		report.Issues = append(report.Issues, v.Error())
	}

	enc := json.NewEncoder(env.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func runResave(env *cliEnv, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	g := scene.New()
	if err := stl.Load(args[0], g); err != nil {
		return err
	}
	return env.saver().Save(args[1], g)
}

func runTriangulate(env *cliEnv, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	g := scene.New()
	if err := stl.Load(args[0], g); err != nil {
		return err
	}
	for _, shape := range g.Shapes() {
		ifs, ok := shape.Geometry.(*scene.IndexedFaceSet)
		if !ok {
			continue
		}
		if err := ifs.Triangulate(); err != nil {
			return fmt.Errorf("triangulate %s: %w", args[0], err)
		}
	}
	return env.saver().Save(args[1], g)
}

func runGen(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	outDir := fs.String("o", "", "Output directory (default: config output_dir)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	scriptPath := fs.Arg(0)
	dir := env.cfg.OutputDir
	if *outDir != "" {
		dir = *outDir
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	k := sdfx.New(env.cfg.MeshCells)
	eng := engine.NewEngine(k, engine.WithTimeout(env.cfg.Timeout()))
	design, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(env.stderr, "%s:%s\n", scriptPath, locate(e))
		}
		return fmt.Errorf("%s: evaluation failed with %d error(s)", scriptPath, len(evalErrs))
	}
	if len(design.Solids) == 0 {
		meshlog.Logger().Warn("script defines no solids", "script", scriptPath)
		return nil
	}

	graphs, err := tessellate.Tessellate(design, k)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	saver := env.saver()
	stems := outputStems(design.Names())
	var errs []error
	for i, g := range graphs {
		out := filepath.Join(dir, stems[i]+"."+stl.Ext)
		if err := saver.Save(out, g); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(env.stdout, out)
	}
	return errors.Join(errs...)
}

func runPreview(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	opts := preview.DefaultOptions()
	fs.IntVar(&opts.Size, "size", opts.Size, "Image width and height in pixels")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 2 {
		return errUsage
	}

	g := scene.New()
	if err := stl.Load(fs.Arg(0), g); err != nil {
		return err
	}
	return preview.Save(fs.Arg(1), g, opts)
}

func (env *cliEnv) saver() stl.Saver {
	return stl.Saver{Precision: env.cfg.PrecisionOrDefault()}
}

// locate formats an eval error as "line: message" for editor jump lists.
func locate(e engine.EvalError) string {
	if e.Line > 0 {
		return fmt.Sprintf("%d: %s", e.Line, e.Message)
	}
	return " " + e.Message
}

// outputStems maps solid names to file name stems that are distinct even on
// case-insensitive file systems. A stem already taken gets a -2, -3, ...
// suffix.
func outputStems(names []string) []string {
	stems := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for i, name := range names {
		base := fileStem(name)
		stem := base
		for n := 2; taken[strings.ToLower(stem)]; n++ {
			stem = fmt.Sprintf("%s-%d", base, n)
		}
		if stem != base {
			meshlog.Logger().Warn("output file name already used", "solid", name, "stem", stem)
		}
		taken[strings.ToLower(stem)] = true
		stems[i] = stem
	}
	return stems
}

// fileStem maps a solid name to a safe file name stem.
func fileStem(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	if strings.Trim(stem, ".") == "" {
		return "solid"
	}
	return stem
}
