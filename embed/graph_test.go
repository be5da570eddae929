package embed

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	core "github.com/katalvlaran/lvlath/graph/core"
)

func TestGraphRoundTripsThroughLvlath(tst *testing.T) {
	chk.PrintTitle("embed.Graph writes coordinates back onto lvlath vertices")

	g := core.NewGraph(false, true)
	for _, id := range []string{"a", "b", "c"} {
		g.AddVertex(&core.Vertex{ID: id})
	}
	w := int64(math.Round(0.3 * FixedPointScale))
	g.AddEdge("a", "b", w)
	g.AddEdge("b", "c", w)
	g.AddEdge("a", "c", w)

	n1 := int64(1)
	_, err := Graph(g, Config{Seed: &n1, StepsPerRound: 50})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		v := g.VerticesMap()[id]
		if _, ok := v.Metadata["x"]; !ok {
			tst.Fatalf("expected vertex %q to have an x coordinate", id)
		}
		if _, ok := v.Metadata["y"]; !ok {
			tst.Fatalf("expected vertex %q to have a y coordinate", id)
		}
	}
}
