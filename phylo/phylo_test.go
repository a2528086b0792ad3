// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/densitree/phylo"
)

// NewTree returns the tree "((a:1,b:1):1.5,c:2.5)".
func newTree(t testing.TB) *phylo.Tree {
	t.Helper()

	tr := phylo.New("tree 1")
	in, err := tr.Add(tr.Root(), "", 1.5)
	if err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	for _, tax := range []string{"a", "b"} {
		if _, err := tr.Add(in, tax, 1); err != nil {
			t.Fatalf("unable to add node: %v", err)
		}
	}
	if _, err := tr.Add(tr.Root(), "c", 2.5); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	return tr
}

func TestTree(t *testing.T) {
	tr := newTree(t)

	if tr.Name() != "tree 1" {
		t.Errorf("name: got %q, want %q", tr.Name(), "tree 1")
	}
	if tr.Len() != 5 {
		t.Errorf("nodes: got %d, want %d", tr.Len(), 5)
	}
	if tr.NumTerms() != 3 {
		t.Errorf("terminals: got %d, want %d", tr.NumTerms(), 3)
	}
	if !tr.HasLengths() {
		t.Errorf("lengths: got %v, want %v", false, true)
	}

	terms := []string{"a", "b", "c"}
	if ls := tr.Terms(); !reflect.DeepEqual(ls, terms) {
		t.Errorf("terminals: got %v, want %v", ls, terms)
	}

	for _, tax := range terms {
		id := tr.TaxNode(tax)
		if id < 0 {
			t.Errorf("taxon %q: not in tree", tax)
			continue
		}
		if !tr.IsTerm(id) {
			t.Errorf("taxon %q: node %d is not a terminal", tax, id)
		}
		if x := tr.Taxon(id); x != tax {
			t.Errorf("taxon: got %q, want %q", x, tax)
		}
	}
	if id := tr.TaxNode("not in tree"); id != -1 {
		t.Errorf("unknown taxon: got node %d, want %d", id, -1)
	}

	if !tr.IsRoot(tr.Root()) {
		t.Errorf("root: node %d is not the root", tr.Root())
	}
	if p := tr.Parent(tr.Root()); p != -1 {
		t.Errorf("root parent: got %d, want %d", p, -1)
	}
	if !math.IsNaN(tr.BrLen(tr.Root())) {
		t.Errorf("root length: got %.6f, want NaN", tr.BrLen(tr.Root()))
	}

	a := tr.TaxNode("a")
	if v := tr.BrLen(a); v != 1 {
		t.Errorf("taxon %q: length: got %.6f, want %.6f", "a", v, 1.0)
	}
	in := tr.Parent(a)
	if p := tr.Parent(in); p != tr.Root() {
		t.Errorf("node %d: parent: got %d, want %d", in, p, tr.Root())
	}
	children := []int{tr.TaxNode("a"), tr.TaxNode("b")}
	if ls := tr.Children(in); !reflect.DeepEqual(ls, children) {
		t.Errorf("node %d: children: got %v, want %v", in, ls, children)
	}

	depths := []float64{0, 1.5, 2.5, 2.5, 2.5}
	if d := tr.Depths(); !reflect.DeepEqual(d, depths) {
		t.Errorf("depths: got %v, want %v", d, depths)
	}
}

func TestTreeErrors(t *testing.T) {
	tr := newTree(t)

	if _, err := tr.Add(100, "x", 1); err == nil {
		t.Errorf("unknown parent: expecting error")
	}
	if _, err := tr.Add(tr.Root(), "a", 1); err == nil {
		t.Errorf("repeated taxon: expecting error")
	}
	if _, err := tr.Add(tr.Root(), "x", math.Inf(1)); err == nil {
		t.Errorf("infinite length: expecting error")
	}
}

func TestUnitLengths(t *testing.T) {
	tr := newTree(t)
	in := tr.Parent(tr.TaxNode("a"))
	if _, err := tr.Add(in, "d", math.NaN()); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}

	if tr.HasLengths() {
		t.Errorf("lengths: got %v, want %v", true, false)
	}

	// a single undefined length makes the whole tree
	// unit-weighted
	depths := []float64{0, 1, 2, 2, 1, 2}
	if d := tr.Depths(); !reflect.DeepEqual(d, depths) {
		t.Errorf("depths: got %v, want %v", d, depths)
	}
}

func TestCollection(t *testing.T) {
	c := phylo.NewCollection()
	t1 := newTree(t)
	if err := c.Add(t1); err != nil {
		t.Fatalf("unable to add tree: %v", err)
	}

	t2 := phylo.New("tree 2")
	for _, tax := range []string{"a", "b", "c"} {
		if _, err := t2.Add(t2.Root(), tax, 1); err != nil {
			t.Fatalf("unable to add node: %v", err)
		}
	}
	if err := c.Add(t2); err != nil {
		t.Fatalf("unable to add tree: %v", err)
	}

	if c.Len() != 2 {
		t.Errorf("trees: got %d, want %d", c.Len(), 2)
	}

	// names keep the addition order
	names := []string{"tree 1", "tree 2"}
	if ls := c.Names(); !reflect.DeepEqual(ls, names) {
		t.Errorf("names: got %v, want %v", ls, names)
	}
	if x := c.Tree("tree 2"); x != t2 {
		t.Errorf("tree %q: got %v", "tree 2", x)
	}
	if x := c.Tree("not in collection"); x != nil {
		t.Errorf("unknown tree: got %v", x)
	}
	if ts := c.Trees(); len(ts) != 2 || ts[0] != t1 || ts[1] != t2 {
		t.Errorf("trees: got %v, want [%v %v]", ts, t1, t2)
	}

	if err := c.Add(newTree(t)); err == nil {
		t.Errorf("repeated tree: expecting error")
	}
	if err := c.Add(phylo.New("")); err == nil {
		t.Errorf("unnamed tree: expecting error")
	}
}
