package query_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpathbind/query"
)

const doc = `<root name="test">
	<sub name="sub" index="10">
	sub string
	</sub>
	<int>
	10
	</int>
	<int>20</int>
</root>`

func parse(t *testing.T) query.Node {
	t.Helper()

	root, err := query.ParseXML(strings.NewReader(doc))
	require.NoError(t, err)
	require.False(t, root.IsZero())

	return root
}

func TestEvaluateString(t *testing.T) {
	t.Parallel()

	root := parse(t)
	eval := query.XPath{}

	tests := []struct {
		expr string
		want string
	}{
		{"./root/@name", "test"},
		{"./root/sub/@index", "10"},
		{"./root/int[2]/text()", "20"},
		{"./root/missing", ""},
		{"count(./root/int)", "2"},
		{"count(./root/int) div 4", "0.5"},
		{"./root/sub/@index = 10", "true"},
		{"concat(./root/@name, '-', ./root/sub/@name)", "test-sub"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := eval.Evaluate(tt.expr, root, query.ShapeString)
			require.NoError(t, err)
			assert.Equal(t, query.ShapeString, res.Shape)
			assert.Equal(t, tt.want, res.String)
		})
	}

	res, err := eval.Evaluate("./root/sub/text()", root, query.ShapeString)
	require.NoError(t, err)
	assert.Equal(t, "sub string", strings.TrimSpace(res.String))
	assert.NotEqual(t, "sub string", res.String)
}

func TestEvaluateNode(t *testing.T) {
	t.Parallel()

	root := parse(t)
	eval := query.XPath{}

	res, err := eval.Evaluate("./root/sub", root, query.ShapeNode)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "sub", res.Node.Name())

	// relative to the narrowed context
	attr, err := eval.Evaluate("./@name", res.Node, query.ShapeString)
	require.NoError(t, err)
	assert.Equal(t, "sub", attr.String)

	xn, ok := res.Node.XML()
	require.True(t, ok)
	assert.Equal(t, "sub", xn.Data)

	_, ok = res.Node.HTML()
	assert.False(t, ok)

	res, err = eval.Evaluate("./root/nothing", root, query.ShapeNode)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.True(t, res.Node.IsZero())

	_, err = eval.Evaluate("count(./root/int)", root, query.ShapeNode)
	assert.ErrorIs(t, err, query.ErrNotNodeSet)
}

func TestEvaluateNodeSet(t *testing.T) {
	t.Parallel()

	root := parse(t)
	eval := query.XPath{}

	res, err := eval.Evaluate("./root/int", root, query.ShapeNodeSet)
	require.NoError(t, err)
	require.Len(t, res.Nodes, 2)
	assert.Equal(t, "10", strings.TrimSpace(res.Nodes[0].Text()))
	assert.Equal(t, "20", res.Nodes[1].Text())

	res, err = eval.Evaluate("./root/none", root, query.ShapeNodeSet)
	require.NoError(t, err)
	assert.NotNil(t, res.Nodes)
	assert.Empty(t, res.Nodes)

	_, err = eval.Evaluate("'text'", root, query.ShapeNodeSet)
	assert.ErrorIs(t, err, query.ErrNotNodeSet)
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	eval := query.XPath{}

	_, err := eval.Evaluate("./a", query.Node{}, query.ShapeString)
	assert.ErrorIs(t, err, query.ErrNoContext)

	_, err = eval.Evaluate("./a[", parse(t), query.ShapeString)
	assert.Error(t, err)

	_, err = eval.Evaluate("./a", parse(t), query.Shape(9))
	assert.Error(t, err)
}

func TestParseXMLMalformed(t *testing.T) {
	t.Parallel()

	_, err := query.ParseXML(strings.NewReader("<root><open></root>"))
	assert.Error(t, err)
}

func TestParseHTML(t *testing.T) {
	t.Parallel()

	root, err := query.ParseHTML(strings.NewReader(`<html><body><ul><li class="a">one</li><li>two</ul></body></html>`))
	require.NoError(t, err)

	res, err := query.XPath{}.Evaluate("//li", root, query.ShapeNodeSet)
	require.NoError(t, err)
	require.Len(t, res.Nodes, 2)
	assert.Equal(t, "two", res.Nodes[1].Text())

	hn, ok := res.Nodes[0].HTML()
	require.True(t, ok)
	assert.Equal(t, "li", hn.Data)
}

func TestShape(t *testing.T) {
	t.Parallel()

	for _, s := range []query.Shape{query.ShapeString, query.ShapeNode, query.ShapeNodeSet} {
		back, err := query.ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}

	_, err := query.ParseShape("tree")
	assert.Error(t, err)
}
