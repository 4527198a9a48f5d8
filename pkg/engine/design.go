package engine

import "github.com/chazu/cornermesh/pkg/kernel"

// NamedSolid is a solid registered with defsolid.
type NamedSolid struct {
	Name  string
	Solid kernel.Solid
}

// Design holds the named solids of one evaluation in definition order.
type Design struct {
	Solids []NamedSolid
}

// Lookup returns the solid registered under name.
func (d *Design) Lookup(name string) (kernel.Solid, bool) {
	for _, ns := range d.Solids {
		if ns.Name == name {
			return ns.Solid, true
		}
	}
	return nil, false
}

// Names returns the solid names in definition order.
func (d *Design) Names() []string {
	names := make([]string, len(d.Solids))
	for i, ns := range d.Solids {
		names[i] = ns.Name
	}
	return names
}

func (d *Design) add(name string, s kernel.Solid) bool {
	if _, dup := d.Lookup(name); dup {
		return false
	}
	d.Solids = append(d.Solids, NamedSolid{Name: name, Solid: s})
	return true
}
