package graph

const (
	// Polygon side bounds
	MinPolySides     = 3
	MaxPolySides     = 12
	DefaultPolySides = 3 // used when a poly node carries no usable side count

	// Field defaults for nodes that omit them
	DefaultRole      = RoleNormal
	DefaultShape     = ShapeCircle
	DefaultLinkStyle = LinkCurve

	// generatedIDPrefix prefixes ids minted for nodes added without one
	generatedIDPrefix = "node-"
)
