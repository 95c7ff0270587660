package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/antchfx/xpath"
)

var (
	ErrNoContext  = errors.New("no context node")
	ErrNotNodeSet = errors.New("expression does not select nodes")
	ErrEvaluation = errors.New("xpath evaluation failed")
)

// Shape is the result form a caller asks for.
type Shape int

const (
	ShapeString Shape = iota
	ShapeNode
	ShapeNodeSet
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeNode:
		return "node"
	case ShapeNodeSet:
		return "nodeset"
	default:
		return "shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseShape is the inverse of Shape.String.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "string":
		return ShapeString, nil
	case "node":
		return ShapeNode, nil
	case "nodeset":
		return ShapeNodeSet, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", s)
	}
}

// Result holds the outcome of one evaluation; which fields are set depends on Shape.
type Result struct {
	Shape  Shape
	String string
	Node   Node
	Found  bool // a node was selected, ShapeNode only
	Nodes  []Node
}

// Evaluator evaluates expressions relative to a context node.
type Evaluator interface {
	Evaluate(expr string, ctx Node, shape Shape) (Result, error)
}

// XPath is the default Evaluator, backed by github.com/antchfx/xpath.
type XPath struct{}

var _ Evaluator = XPath{}

// Evaluate implements Evaluator.
func (XPath) Evaluate(expr string, ctx Node, shape Shape) (res Result, err error) {
	if ctx.IsZero() {
		return Result{}, ErrNoContext
	}

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compile %q: %w", expr, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			res = Result{}
			err = fmt.Errorf("%w: %q: %v", ErrEvaluation, expr, rec)
		}
	}()

	res.Shape = shape
	value := compiled.Evaluate(ctx.Navigator())

	switch shape {
	case ShapeString:
		res.String = stringValue(value)
		return res, nil

	case ShapeNode:
		iter, ok := value.(*xpath.NodeIterator)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q yields %T", ErrNotNodeSet, expr, value)
		}
		if iter.MoveNext() {
			res.Node = NewNode(iter.Current())
			res.Found = true
		}
		return res, nil

	case ShapeNodeSet:
		iter, ok := value.(*xpath.NodeIterator)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q yields %T", ErrNotNodeSet, expr, value)
		}
		res.Nodes = []Node{}
		for iter.MoveNext() {
			res.Nodes = append(res.Nodes, NewNode(iter.Current()))
		}
		return res, nil

	default:
		return Result{}, fmt.Errorf("unknown shape %s", shape)
	}
}

// stringValue converts an evaluation result the way XPath string() does.
func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case *xpath.NodeIterator:
		if v.MoveNext() {
			return v.Current().Value()
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
