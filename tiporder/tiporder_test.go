// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tiporder_test

import (
	"bytes"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/js-arias/densitree/layout"
	"github.com/js-arias/densitree/phylo"
	"github.com/js-arias/densitree/tiporder"
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

// NewSecondTree returns the tree "((a:1,c:1):1,b:2)".
func newSecondTree(t testing.TB) *phylo.Tree {
	t.Helper()

	tr := phylo.New("tree 2")
	in, err := tr.Add(tr.Root(), "", 1)
	if err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	for _, tax := range []string{"a", "c"} {
		if _, err := tr.Add(in, tax, 1); err != nil {
			t.Fatalf("unable to add node: %v", err)
		}
	}
	if _, err := tr.Add(tr.Root(), "b", 2); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	return tr
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		sel tiporder.Selection
		str string
	}{
		"":        {sel: tiporder.MDS(), str: "mds"},
		"mds":     {sel: tiporder.MDS(), str: "mds"},
		"MDS":     {sel: tiporder.MDS(), str: "mds"},
		"2":       {sel: tiporder.FromTree(1), str: "2"},
		"a,b,c":   {sel: tiporder.Explicit("a", "b", "c"), str: "a,b,c"},
		"a , b,c": {sel: tiporder.Explicit("a", "b", "c"), str: "a,b,c"},
	}
	for in, want := range tests {
		sel, err := tiporder.Parse(in)
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", in, err)
			continue
		}
		if !reflect.DeepEqual(sel, want.sel) {
			t.Errorf("input %q: got %v, want %v", in, sel, want.sel)
		}
		if s := sel.String(); s != want.str {
			t.Errorf("input %q: string: got %q, want %q", in, s, want.str)
		}
	}

	for _, in := range []string{"0", "-1", ",,"} {
		if _, err := tiporder.Parse(in); err == nil {
			t.Errorf("input %q: expecting error", in)
		}
	}
}

func TestOrderExplicit(t *testing.T) {
	ts := []*phylo.Tree{newTree(t)}

	sel := tiporder.Explicit("c", "a", "b")
	order, err := sel.Order(ts, nil)
	if err != nil {
		t.Fatalf("unable to set order: %v", err)
	}
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}

	sel = tiporder.Explicit("c", "a", "c")
	if _, err := sel.Order(ts, nil); err == nil {
		t.Errorf("repeated taxon: expecting error")
	}

	if _, err := tiporder.MDS().Order(nil, nil); err == nil {
		t.Errorf("empty tree collection: expecting error")
	}
}

func TestOrderFromTree(t *testing.T) {
	ts := []*phylo.Tree{newTree(t), newSecondTree(t)}
	tabs := []*layout.Tree{
		layout.Fortify(ts[0]),
		layout.Fortify(ts[1]),
	}

	order, err := tiporder.FromTree(1).Order(ts, tabs)
	if err != nil {
		t.Fatalf("unable to set order: %v", err)
	}
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}

	if _, err := tiporder.FromTree(2).Order(ts, tabs); err == nil {
		t.Errorf("tree out of range: expecting error")
	}
}

func TestOrderMDS(t *testing.T) {
	ts := []*phylo.Tree{newTree(t), newSecondTree(t)}

	order, err := tiporder.MDS().Order(ts, nil)
	if err != nil {
		t.Fatalf("unable to set order: %v", err)
	}
	testPermutation(t, order, []string{"a", "b", "c"})

	// taxa "a" and "b" are together
	// on most of the trees,
	// so they must be adjacent
	// and "c" must be at an extreme
	testAdjacent(t, order, "a", "b")
	if p := slices.Index(order, "c"); p != 0 && p != len(order)-1 {
		t.Errorf("order %v: taxon %q: got position %d, want an extreme", order, "c", p)
	}

	// the ordering is about the whole set,
	// not about the input sequence
	swap, err := tiporder.MDS().Order([]*phylo.Tree{ts[1], ts[0]}, nil)
	if err != nil {
		t.Fatalf("unable to set order: %v", err)
	}
	testPermutation(t, swap, []string{"a", "b", "c"})
	testAdjacent(t, swap, "a", "b")

	// the embedding is unique up to its sign,
	// so the order is the same,
	// or exactly reversed
	rev := slices.Clone(order)
	slices.Reverse(rev)
	if !reflect.DeepEqual(swap, order) && !reflect.DeepEqual(swap, rev) {
		t.Errorf("order %v: swapped input: got %v, want %v or its reverse", order, swap, order)
	}
}

func testPermutation(t testing.TB, order, taxa []string) {
	t.Helper()

	if len(order) != len(taxa) {
		t.Fatalf("order %v: taxa: got %d, want %d", order, len(order), len(taxa))
	}
	got := slices.Clone(order)
	slices.Sort(got)
	want := slices.Clone(taxa)
	slices.Sort(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order %v: want a permutation of %v", order, taxa)
	}
}

func testAdjacent(t testing.TB, order []string, a, b string) {
	t.Helper()

	pa := slices.Index(order, a)
	pb := slices.Index(order, b)
	if d := pa - pb; d != 1 && d != -1 {
		t.Errorf("order %v: taxa %q and %q are not adjacent", order, a, b)
	}
}

func TestOrderMDSCherries(t *testing.T) {
	// tree "((a:1,b:1):1,(c:1,d:1):1)"
	newCherry := func(name string) *phylo.Tree {
		tr := phylo.New(name)
		for _, pair := range [][]string{{"a", "b"}, {"c", "d"}} {
			in, err := tr.Add(tr.Root(), "", 1)
			if err != nil {
				t.Fatalf("unable to add node: %v", err)
			}
			for _, tax := range pair {
				if _, err := tr.Add(in, tax, 1); err != nil {
					t.Fatalf("unable to add node: %v", err)
				}
			}
		}
		return tr
	}
	ts := []*phylo.Tree{newCherry("t1"), newCherry("t2")}

	order, err := tiporder.MDS().Order(ts, nil)
	if err != nil {
		t.Fatalf("unable to set order: %v", err)
	}
	testPermutation(t, order, []string{"a", "b", "c", "d"})
	testAdjacent(t, order, "a", "b")
	testAdjacent(t, order, "c", "d")
}

func TestOrderMDSDegenerate(t *testing.T) {
	// a single taxon has a trivial embedding
	newSingle := func(name string) *phylo.Tree {
		tr := phylo.New(name)
		if _, err := tr.Add(tr.Root(), "a", 1); err != nil {
			t.Fatalf("unable to add node: %v", err)
		}
		return tr
	}
	ts := []*phylo.Tree{newSingle("t1"), newSingle("t2")}

	order, err := tiporder.MDS().Order(ts, nil)
	if err != nil {
		t.Fatalf("unable to set order: %v", err)
	}
	want := []string{"a"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}
}

func TestOrderMDSBadTips(t *testing.T) {
	other := phylo.New("tree 3")
	for _, tax := range []string{"a", "b", "d"} {
		if _, err := other.Add(other.Root(), tax, 1); err != nil {
			t.Fatalf("unable to add node: %v", err)
		}
	}
	ts := []*phylo.Tree{newTree(t), other}

	if _, err := tiporder.MDS().Order(ts, nil); err == nil {
		t.Errorf("trees with different taxa: expecting error")
	}
}

func TestProfileDistances(t *testing.T) {
	ts := []*phylo.Tree{newTree(t), newTree(t)}

	m, err := tiporder.ProfileDistances(ts)
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}

	taxa := []string{"a", "b", "c"}
	if ls := m.Taxa(); !reflect.DeepEqual(ls, taxa) {
		t.Errorf("taxa: got %v, want %v", ls, taxa)
	}

	// with two identical trees
	// each squared difference appears twice
	want := [][]float64{
		{0, 4, math.Sqrt(118)},
		{4, 0, math.Sqrt(118)},
		{math.Sqrt(118), math.Sqrt(118), 0},
	}
	for i := range taxa {
		for j := range taxa {
			if d := m.At(i, j); math.Abs(d-want[i][j]) > 1e-6 {
				t.Errorf("distance %q-%q: got %.6f, want %.6f", taxa[i], taxa[j], d, want[i][j])
			}
		}
	}

	if _, err := tiporder.ProfileDistances(nil); err == nil {
		t.Errorf("empty tree collection: expecting error")
	}
}

func TestReadTSV(t *testing.T) {
	in := `# an ordering
taxon	comment
c	first
a	second

b	third
`
	order, err := tiporder.ReadTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}

	tests := map[string]string{
		"no taxon field": "name\nc\n",
		"repeated taxon": "taxon\nc\na\nc\n",
		"no taxa":        "taxon\n",
		"empty":          "",
	}
	for name, in := range tests {
		if _, err := tiporder.ReadTSV(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestTSV(t *testing.T) {
	order := []string{"c", "a", "b"}

	var buf bytes.Buffer
	if err := tiporder.TSV(&buf, order); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	got, err := tiporder.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if !reflect.DeepEqual(got, order) {
		t.Errorf("order: got %v, want %v", got, order)
	}
}
