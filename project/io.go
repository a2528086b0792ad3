// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/densitree/drawparam"
	"github.com/js-arias/densitree/phylo"
)

// Params reads the drawing parameters file
// as defined in a project.
func (p *Project) Params() (*drawparam.DP, error) {
	name := p.Path(Params)
	if name == "" {
		return nil, fmt.Errorf("drawing parameters not defined in project %q", p.name)
	}

	dp, err := drawparam.Read(name)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return dp, nil
}

// Trees reads the tree collection file
// as defined in a project.
func (p *Project) Trees() (*phylo.Collection, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := phylo.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return c, nil
}
