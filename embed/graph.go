package embed

import (
	"sort"

	core "github.com/katalvlaran/lvlath/graph/core"
)

// FixedPointScale is the fixed-point convention this adapter expects for
// graph edge weights: lvlath's core.Edge.Weight is an int64, while the
// embedder's W is a dense float64 matrix with entries in [0, 1]. Callers
// building a Graph for Graph() are expected to encode a target weight w
// as int64(round(w * FixedPointScale)); FromGraph divides back down.
// This is the concrete shape of the "graph container ... assumed to
// provide matrix <-> graph adapters" collaborator named out-of-scope in
// spec.md §1 (SPEC_FULL.md §3).
const FixedPointScale = 1 << 20

// FromGraph reads a lvlath graph's vertex set and edge weights into a
// dense target interaction matrix W, along with the vertex-id ordering
// used for W's rows/columns.
func FromGraph(g *core.Graph) (W [][]float64, ids []string, err error) {
	for _, v := range g.Vertices() {
		ids = append(ids, v.ID)
	}
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	n := len(ids)
	W = make([][]float64, n)
	for i := range W {
		W[i] = make([]float64, n)
	}
	for _, e := range g.Edges() {
		i, okI := index[e.From.ID]
		j, okJ := index[e.To.ID]
		if !okI || !okJ {
			continue
		}
		w := float64(e.Weight) / FixedPointScale
		W[i][j] = w
		W[j][i] = w
	}
	return W, ids, nil
}

// Graph embeds a lvlath graph container, writing the resulting 2-D
// coordinates back onto each vertex's Metadata under the "x"/"y" keys,
// and returns the same Result as Matrix.
func Graph(g *core.Graph, cfg Config) (Result, error) {
	W, ids, err := FromGraph(g)
	if err != nil {
		return Result{}, err
	}
	result, err := Matrix(W, cfg)
	if err != nil {
		return result, err
	}

	vertices := g.VerticesMap()
	for i, id := range ids {
		v, ok := vertices[id]
		if !ok {
			continue
		}
		if v.Metadata == nil {
			v.Metadata = make(map[string]interface{})
		}
		v.Metadata["x"] = result.Positions[i][0]
		v.Metadata["y"] = result.Positions[i][1]
	}
	return result, nil
}
