// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Newick reads one or more trees
// in parenthetical (newick) format.
//
// Terminal names can be quoted with single quotes;
// in unquoted names,
// underscores are read as spaces.
// Comments between square brackets are ignored,
// as well as any internal node label.
// Branch lengths are optional,
// but if a length is undefined for any branch,
// the whole tree is treated as having no lengths.
//
// If the input has a single tree,
// the tree will be named with the indicated name;
// with multiple trees,
// the name of each tree will be the indicated name,
// a dot,
// and the number of the tree in the input order.
func Newick(r io.Reader, name string) (*Collection, error) {
	name = canon(name)
	if name == "" {
		return nil, errors.New("newick: expecting a tree name")
	}

	nr := &newickReader{r: bufio.NewReader(r)}
	var ts []*Tree
	for {
		if err := nr.skipSpaces(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("newick: on tree %d: %v", len(ts)+1, err)
		}
		t, err := nr.readTree(fmt.Sprintf("%s.%d", name, len(ts)+1))
		if err != nil {
			return nil, fmt.Errorf("newick: on tree %d: %v", len(ts)+1, err)
		}
		ts = append(ts, t)
	}
	if len(ts) == 0 {
		return nil, errors.New("newick: no trees in input")
	}
	if len(ts) == 1 {
		ts[0].name = name
	}

	c := NewCollection()
	for _, t := range ts {
		if err := c.Add(t); err != nil {
			return nil, fmt.Errorf("newick: %v", err)
		}
	}
	return c, nil
}

type newickReader struct {
	r *bufio.Reader
}

func (nr *newickReader) readTree(name string) (*Tree, error) {
	r1, err := nr.peek()
	if err != nil {
		return nil, err
	}
	if r1 != '(' {
		return nil, fmt.Errorf("expecting %q, got %q", '(', r1)
	}

	t := New(name)
	if err := nr.readClade(t, t.Root()); err != nil {
		return nil, err
	}

	// root label and branch length are ignored
	if _, err := nr.readLabel(); err != nil {
		return nil, err
	}
	if _, err := nr.readBrLen(); err != nil {
		return nil, err
	}

	r1, err = nr.next()
	if err != nil {
		return nil, err
	}
	if r1 != ';' {
		return nil, fmt.Errorf("expecting %q, got %q", ';', r1)
	}
	return t, nil
}

func (nr *newickReader) readClade(t *Tree, id int) error {
	// consume the opening parenthesis
	if _, err := nr.next(); err != nil {
		return err
	}

	for {
		r1, err := nr.peek()
		if err != nil {
			return err
		}
		if r1 == '(' {
			// an internal node
			cID, err := t.Add(id, "", math.NaN())
			if err != nil {
				return err
			}
			if err := nr.readClade(t, cID); err != nil {
				return err
			}
			// ignore any internal node label
			if _, err := nr.readLabel(); err != nil {
				return err
			}
			brLen, err := nr.readBrLen()
			if err != nil {
				return err
			}
			t.nodes[cID].brLen = brLen
		} else {
			taxon, err := nr.readLabel()
			if err != nil {
				return err
			}
			if taxon == "" {
				return fmt.Errorf("expecting a terminal name, got %q", r1)
			}
			brLen, err := nr.readBrLen()
			if err != nil {
				return err
			}
			if _, err := t.Add(id, taxon, brLen); err != nil {
				return err
			}
		}

		r1, err = nr.next()
		if err != nil {
			return err
		}
		if r1 == ',' {
			continue
		}
		if r1 == ')' {
			return nil
		}
		return fmt.Errorf("expecting %q or %q, got %q", ',', ')', r1)
	}
}

func (nr *newickReader) readLabel() (string, error) {
	r1, err := nr.peek()
	if err != nil {
		return "", err
	}
	if r1 == '\'' {
		return nr.readQuoted()
	}

	var b strings.Builder
	for {
		r1, _, err := nr.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if unicode.IsSpace(r1) || strings.ContainsRune("(),:;[]'", r1) {
			nr.r.UnreadRune()
			break
		}
		if r1 == '_' {
			r1 = ' '
		}
		b.WriteRune(r1)
	}
	return canon(b.String()), nil
}

func (nr *newickReader) readQuoted() (string, error) {
	// consume the opening quote
	if _, _, err := nr.r.ReadRune(); err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		r1, _, err := nr.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errors.New("unclosed quotation")
			}
			return "", err
		}
		if r1 == '\'' {
			// a doubled quote is an escaped quote
			nx, _, err := nr.r.ReadRune()
			if err == nil && nx == '\'' {
				b.WriteRune('\'')
				continue
			}
			if err == nil {
				nr.r.UnreadRune()
			}
			break
		}
		b.WriteRune(r1)
	}
	return canon(b.String()), nil
}

func (nr *newickReader) readBrLen() (float64, error) {
	r1, err := nr.peek()
	if err != nil {
		return math.NaN(), err
	}
	if r1 != ':' {
		return math.NaN(), nil
	}
	// consume the colon
	if _, err := nr.next(); err != nil {
		return math.NaN(), err
	}

	var b strings.Builder
	for {
		r1, _, err := nr.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return math.NaN(), err
		}
		if unicode.IsSpace(r1) || strings.ContainsRune("(),:;[]", r1) {
			nr.r.UnreadRune()
			break
		}
		b.WriteRune(r1)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("invalid branch length %q", b.String())
	}
	return v, nil
}

// Next returns the next rune of the input,
// ignoring spaces and comments.
func (nr *newickReader) next() (rune, error) {
	if err := nr.skipSpaces(); err != nil {
		return 0, err
	}
	r1, _, err := nr.r.ReadRune()
	return r1, err
}

// Peek returns the next rune of the input
// without consuming it,
// ignoring spaces and comments.
func (nr *newickReader) peek() (rune, error) {
	if err := nr.skipSpaces(); err != nil {
		return 0, err
	}
	r1, _, err := nr.r.ReadRune()
	if err != nil {
		return 0, err
	}
	nr.r.UnreadRune()
	return r1, nil
}

func (nr *newickReader) skipSpaces() error {
	for {
		r1, _, err := nr.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return err
		}
		if unicode.IsSpace(r1) {
			continue
		}
		if r1 == '[' {
			for {
				r1, _, err := nr.r.ReadRune()
				if err != nil {
					if errors.Is(err, io.EOF) {
						return errors.New("unclosed comment")
					}
					return err
				}
				if r1 == ']' {
					break
				}
			}
			continue
		}
		nr.r.UnreadRune()
		return nil
	}
}
