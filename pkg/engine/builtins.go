package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/cornermesh/pkg/kernel"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so it can flow between builtins.
type sexpSolid struct {
	solid kernel.Solid
	name  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(solid %q)", s.name)
	}
	min, max := s.solid.BoundingBox()
	return fmt.Sprintf("(solid [%.1f %.1f %.1f]..[%.1f %.1f %.1f])",
		min[0], min[1], min[2], max[0], max[1], max[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 is the value of (vec3 x y z).
type sexpVec3 struct {
	x, y, z float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.x, v.y, v.z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

func toVec3(s zygo.Sexp) (*sexpVec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected vec3, got %s", describe(s))
}

// numbers extracts exactly len(names) positional numbers for builtin fn.
func numbers(fn string, args []zygo.Sexp, names ...string) ([]float64, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", fn, len(names), len(args))
	}
	out := make([]float64, len(names))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, names[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// solids extracts at least min solid arguments for builtin fn.
func solids(fn string, args []zygo.Sexp, min int) ([]kernel.Solid, error) {
	if len(args) < min {
		return nil, fmt.Errorf("%s requires at least %d solids, got %d", fn, min, len(args))
	}
	out := make([]kernel.Solid, len(args))
	for i, a := range args {
		s, err := toSolid(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = s
	}
	return out, nil
}

// positive rejects non-positive dimensions before they reach the kernel.
func positive(fn string, names []string, vals []float64) error {
	for i, v := range vals {
		if v <= 0 {
			return fmt.Errorf("%s: %s must be positive, got %g", fn, names[i], v)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the DSL builtins into env. Solids are built
// with k and defsolid registers them in d.
//
// Source must be preprocessed with preprocessSource so that :keyword
// tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, d *Design) {
	wrap := func(s kernel.Solid) zygo.Sexp { return &sexpSolid{solid: s} }

	// (box x y z) with its minimum corner at the origin.
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		names := []string{"x", "y", "z"}
		v, err := numbers("box", args, names...)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := positive("box", names, v); err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Box(v[0], v[1], v[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(s), nil
	})

	// (cylinder :height h :radius r)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder takes only :height and :radius")
		}
		names := []string{"height", "radius"}
		v := make([]float64, len(names))
		for i, n := range names {
			arg, ok := pa.kw[n]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cylinder: missing :%s", n)
			}
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: %s: %w", n, err)
			}
			v[i] = f
		}
		if err := positive("cylinder", names, v); err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Cylinder(v[0], v[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(s), nil
	})

	// (sphere r)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		names := []string{"radius"}
		v, err := numbers("sphere", args, names...)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := positive("sphere", names, v); err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Sphere(v[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(s), nil
	})

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("vec3", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{x: v[0], y: v[1], z: v[2]}, nil
	})

	// (union a b ...)
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := solids("union", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(k.Union(s[0], s[1:]...)), nil
	})

	// (difference a b)
	env.AddFunction("difference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("difference requires exactly 2 solids, got %d", len(args))
		}
		s, err := solids("difference", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(k.Difference(s[0], s[1])), nil
	})

	// (intersection a b)
	env.AddFunction("intersection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("intersection requires exactly 2 solids, got %d", len(args))
		}
		s, err := solids("intersection", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(k.Intersection(s[0], s[1])), nil
	})

	// (translate s (vec3 x y z)) and (rotate s (vec3 ax ay az)), angles in degrees.
	transform := func(fn string, apply func(kernel.Solid, float64, float64, float64) kernel.Solid) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vec3", fn)
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			v, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			return wrap(apply(s, v.x, v.y, v.z)), nil
		}
	}
	env.AddFunction("translate", transform("translate", k.Translate))
	env.AddFunction("rotate", transform("rotate", k.Rotate))

	// (defsolid "name" s)
	env.AddFunction("defsolid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defsolid requires a name and a solid expression")
		}
		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: name: %w", err)
		}
		if solidName == "" {
			return zygo.SexpNull, fmt.Errorf("defsolid: name must not be empty")
		}
		s, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: %w", err)
		}
		if !d.add(solidName, s) {
			return zygo.SexpNull, fmt.Errorf("defsolid: duplicate solid name %q", solidName)
		}
		return &sexpSolid{solid: s, name: solidName}, nil
	})

	// (solid "name")
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name argument")
		}
		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}
		s, ok := d.Lookup(solidName)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("solid: no solid named %q", solidName)
		}
		return &sexpSolid{solid: s, name: solidName}, nil
	})
}
