// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo_test

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/densitree/phylo"
	"github.com/js-arias/timetree"
)

func TestTSV(t *testing.T) {
	c := phylo.NewCollection()
	if err := c.Add(newTree(t)); err != nil {
		t.Fatalf("unable to add tree: %v", err)
	}

	t2 := phylo.New("tree 2")
	in, err := t2.Add(t2.Root(), "", math.NaN())
	if err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	for _, tax := range []string{"a", "c"} {
		if _, err := t2.Add(in, tax, 1); err != nil {
			t.Fatalf("unable to add node: %v", err)
		}
	}
	if _, err := t2.Add(t2.Root(), "b", 2); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	if err := c.Add(t2); err != nil {
		t.Fatalf("unable to add tree: %v", err)
	}

	var buf bytes.Buffer
	if err := c.TSV(&buf); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	nc, err := phylo.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if !reflect.DeepEqual(nc.Names(), c.Names()) {
		t.Fatalf("names: got %v, want %v", nc.Names(), c.Names())
	}
	for _, tn := range c.Names() {
		want := c.Tree(tn)
		got := nc.Tree(tn)
		testEqualTrees(t, got, want)
	}
}

func testEqualTrees(t testing.TB, got, want *phylo.Tree) {
	t.Helper()

	if got.Len() != want.Len() {
		t.Fatalf("tree %q: nodes: got %d, want %d", want.Name(), got.Len(), want.Len())
	}
	if !reflect.DeepEqual(got.Terms(), want.Terms()) {
		t.Errorf("tree %q: terminals: got %v, want %v", want.Name(), got.Terms(), want.Terms())
	}
	for _, id := range want.Nodes() {
		if got.Parent(id) != want.Parent(id) {
			t.Errorf("tree %q: node %d: parent: got %d, want %d", want.Name(), id, got.Parent(id), want.Parent(id))
		}
		if got.Taxon(id) != want.Taxon(id) {
			t.Errorf("tree %q: node %d: taxon: got %q, want %q", want.Name(), id, got.Taxon(id), want.Taxon(id))
		}
		g, w := got.BrLen(id), want.BrLen(id)
		if math.IsNaN(w) {
			if !math.IsNaN(g) {
				t.Errorf("tree %q: node %d: length: got %.6f, want NaN", want.Name(), id, g)
			}
			continue
		}
		if g != w {
			t.Errorf("tree %q: node %d: length: got %.6f, want %.6f", want.Name(), id, g, w)
		}
	}
}

func TestReadTSVErrors(t *testing.T) {
	tests := map[string]string{
		"no root": "tree\tnode\tparent\tlength\ttaxon\nt1\t1\t0\t1\ta\n",
		"multiple roots": `tree	node	parent	length	taxon
t1	0	-1
t1	1	-1	1	a
`,
		"undefined parent": `tree	node	parent	length	taxon
t1	0	-1
t1	1	5	1	a
`,
		"bad node sequence": `tree	node	parent	length	taxon
t1	0	-1
t1	5	0	1	a
`,
		"repeated taxon": `tree	node	parent	length	taxon
t1	0	-1
t1	1	0	1	a
t1	2	0	1	a
`,
		"no trees": "tree\tnode\tparent\tlength\ttaxon\n",
		"no header": "a\tb\n",
	}
	for name, in := range tests {
		if _, err := phylo.ReadTSV(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestFromTimetree(t *testing.T) {
	c, err := timetree.Newick(strings.NewReader("((a:1,b:1):1.5,c:2.5);"), "tt", 0)
	if err != nil {
		t.Fatalf("unable to read newick tree: %v", err)
	}
	src := c.Tree(c.Names()[0])

	tr, err := phylo.FromTimetree(src)
	if err != nil {
		t.Fatalf("unable to import tree: %v", err)
	}

	terms := []string{"a", "b", "c"}
	if ls := tr.Terms(); !reflect.DeepEqual(ls, terms) {
		t.Errorf("terminals: got %v, want %v", ls, terms)
	}
	if !tr.HasLengths() {
		t.Errorf("lengths: got %v, want %v", false, true)
	}

	lens := map[string]float64{"a": 1, "b": 1, "c": 2.5}
	for tax, want := range lens {
		id := tr.TaxNode(tax)
		if id < 0 {
			t.Errorf("taxon %q: not in tree", tax)
			continue
		}
		if v := tr.BrLen(id); math.Abs(v-want) > 1e-6 {
			t.Errorf("taxon %q: length: got %.6f, want %.6f", tax, v, want)
		}
	}
}
