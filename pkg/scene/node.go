package scene

// Node is a child of a SceneGraph or Group: either *Shape or *Group.
type Node interface {
	sceneNode() // marker method restricting implementations to this package
}

// Shape pairs a geometry with its appearance.
type Shape struct {
	Name       string
	Appearance *Appearance
	Geometry   Geometry // nil when the shape has no geometry yet
}

func (*Shape) sceneNode() {}

// Group collects child nodes without adding geometry of its own.
type Group struct {
	Name     string
	Children []Node
}

func (*Group) sceneNode() {}

// Appearance holds the surface properties of a Shape.
type Appearance struct {
	Material *Material
}

// Material describes a simple Phong-style surface.
type Material struct {
	DiffuseColor     [3]float32
	EmissiveColor    [3]float32
	SpecularColor    [3]float32
	AmbientIntensity float32
	Shininess        float32
	Transparency     float32
}

// NewMaterial returns a material with the conventional VRML defaults.
func NewMaterial() *Material {
	return &Material{
		DiffuseColor:     [3]float32{0.8, 0.8, 0.8},
		AmbientIntensity: 0.2,
		Shininess:        0.2,
	}
}
