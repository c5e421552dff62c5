// JSON record structures for the catalog JSONL files.
package sqlite

// shapeJSON represents a shape in shapes.jsonl.
type shapeJSON struct {
	ShapeID   string `json:"shape_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// poseJSON represents one canonical catalog pose in poses.jsonl. Ordinal is
// the pose's index within its shape's catalog group.
type poseJSON struct {
	PoseID       string  `json:"pose_id"`
	ShapeID      string  `json:"shape_id"`
	CatalogGroup string  `json:"catalog_group"`
	Ordinal      int     `json:"ordinal"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Rotation     float64 `json:"rotation"`
	Flipped      bool    `json:"flipped"`
}

// solutionJSON represents one solution in solutions.jsonl. Indexes holds
// one catalog index per slot, in slot order.
type solutionJSON struct {
	SolutionID string `json:"solution_id"`
	ShapeID    string `json:"shape_id"`
	Ordinal    int    `json:"ordinal"`
	Indexes    []int  `json:"indexes"`
}
