package expr

import (
	"fmt"

	"fnplot.com/master/plot"
)

// Compiler binds this package to the plot engine.
type Compiler struct{}

var _ plot.Compiler = Compiler{}

func (Compiler) Parse(text string) (plot.Expression, error) {
	node, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (Compiler) Differentiate(e plot.Expression, variable string) (plot.Expression, error) {
	node, ok := e.(Node)
	if !ok {
		return nil, fmt.Errorf("cannot differentiate %T", e)
	}
	return node.Diff(variable), nil
}
