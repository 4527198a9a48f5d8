package scene

// SceneGraph is the root of a loaded or generated scene.
type SceneGraph struct {
	URL      string
	Children []Node
}

// New returns an empty scene graph.
func New() *SceneGraph {
	return &SceneGraph{}
}

// Clear removes every child and resets the URL.
func (g *SceneGraph) Clear() {
	g.Children = nil
	g.URL = ""
}

// SetURL records where the scene was loaded from.
func (g *SceneGraph) SetURL(url string) {
	g.URL = url
}

// AddChild appends n to the root's children.
func (g *SceneGraph) AddChild(n Node) {
	g.Children = append(g.Children, n)
}

// Shapes returns every Shape in the tree in depth-first order.
func (g *SceneGraph) Shapes() []*Shape {
	var out []*Shape
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case *Shape:
				out = append(out, n)
			case *Group:
				walk(n.Children)
			}
		}
	}
	walk(g.Children)
	return out
}
