package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/evdash/pkg/hierarchy"
)

func leaf(model string) *hierarchy.Node {
	return hierarchy.NewLeaf(hierarchy.Vehicle{Model: model})
}

func mustTree(t *testing.T, root *hierarchy.Node) *hierarchy.Tree {
	t.Helper()
	tr, err := hierarchy.New(root)
	if err != nil {
		t.Fatalf("hierarchy.New() error: %v", err)
	}
	return tr
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuildSingleNode(t *testing.T) {
	tr := mustTree(t, hierarchy.NewCategory("root", leaf("a")))
	tr.CollapseAll()

	l := Build(tr, 740, 500)
	if len(l.Nodes) != 1 {
		t.Fatalf("Nodes = %d, want 1", len(l.Nodes))
	}
	p := l.Nodes[0].Pos
	if !approx(p.X, 0) || !approx(p.Y, 250) {
		t.Errorf("root at %+v, want {0 250}", p)
	}
	if len(l.Links) != 0 {
		t.Errorf("Links = %d, want 0", len(l.Links))
	}
}

func TestBuildTwoChildren(t *testing.T) {
	tr := mustTree(t, hierarchy.NewCategory("root", leaf("a"), leaf("b")))

	l := Build(tr, 740, 500)
	want := []Position{{0, 250}, {180, 125}, {180, 375}}
	if len(l.Nodes) != len(want) {
		t.Fatalf("Nodes = %d, want %d", len(l.Nodes), len(want))
	}
	for i, w := range want {
		got := l.Nodes[i].Pos
		if !approx(got.X, w.X) || !approx(got.Y, w.Y) {
			t.Errorf("node %d at %+v, want %+v", i, got, w)
		}
	}
	if len(l.Links) != 2 {
		t.Errorf("Links = %d, want 2", len(l.Links))
	}
}

func TestBuildCousinsSeparatedWider(t *testing.T) {
	// root → {A → {a1, a2}, B → {b1}}: a2 and b1 are cousins (separation 2),
	// a1 and a2 are siblings (separation 1).
	tr := mustTree(t, hierarchy.NewCategory("root",
		hierarchy.NewCategory("A", leaf("a1"), leaf("a2")),
		hierarchy.NewCategory("B", leaf("b1")),
	))

	l := Build(tr, 740, 500)
	pos := func(model string) Position {
		n, err := tr.FindModel(model)
		if err != nil {
			t.Fatalf("FindModel(%s): %v", model, err)
		}
		p, ok := l.Position(n.ID)
		if !ok {
			t.Fatalf("%s not placed", model)
		}
		return p
	}
	sib := pos("a2").Y - pos("a1").Y
	cousin := pos("b1").Y - pos("a2").Y
	if !approx(cousin, 2*sib) {
		t.Errorf("cousin gap %.3f, want twice sibling gap %.3f", cousin, sib)
	}
	if pos("a1").Y < 0 || pos("b1").Y > 500 {
		t.Errorf("nodes outside canvas: a1=%v b1=%v", pos("a1"), pos("b1"))
	}
	if !approx(pos("a1").X, 2*DefaultDepthStep) {
		t.Errorf("depth 2 at X=%.1f, want %.1f", pos("a1").X, 2*DefaultDepthStep)
	}
}

func TestBuildParentCentredOverChildren(t *testing.T) {
	tr := mustTree(t, hierarchy.NewCategory("root",
		hierarchy.NewCategory("A", leaf("a1"), leaf("a2"), leaf("a3")),
	))
	l := Build(tr, 740, 500)
	a := tr.Root.Child("A")
	pa, _ := l.Position(a.ID)
	kids := a.Children()
	first, _ := l.Position(kids[0].ID)
	last, _ := l.Position(kids[2].ID)
	if !approx(pa.Y, (first.Y+last.Y)/2) {
		t.Errorf("A at %.2f, want midpoint %.2f", pa.Y, (first.Y+last.Y)/2)
	}
}

func TestBuildOptions(t *testing.T) {
	tr := mustTree(t, hierarchy.NewCategory("root",
		hierarchy.NewCategory("A", leaf("a1")),
	))

	l := Build(tr, 740, 500, WithDepthStep(100))
	if p, _ := l.Position(2); !approx(p.X, 200) {
		t.Errorf("WithDepthStep: X = %.1f, want 200", p.X)
	}
}

func TestBuildIgnoresCollapsedSubtrees(t *testing.T) {
	tr := mustTree(t, hierarchy.NewCategory("root",
		hierarchy.NewCategory("A", leaf("a1"), leaf("a2")),
		hierarchy.NewCategory("B", leaf("b1")),
	))
	tr.CollapseAll()
	tr.Toggle(tr.Root)

	l := Build(tr, 740, 500)
	if len(l.Nodes) != 3 {
		t.Fatalf("Nodes = %d, want 3", len(l.Nodes))
	}
	if _, ok := l.Position(2); ok {
		t.Error("collapsed leaf a1 should not be placed")
	}
}
