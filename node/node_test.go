package node_test

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpathbind/node"
)

type Sub struct {
	Name  string `xpath:"./@name"`
	Index int    `xpath:"./@index"`
}

type Marked struct {
	node.Target
	Plain string
}

type Plain struct {
	Name string
}

type Base struct {
	ID string `xpath:"./@id"`
}

type Derived struct {
	Title string `xpath:"./title"`
	Base
	Extra int `xpath:"./extra"`
}

type WithSetters struct {
	Name  string `xpath:"./@name"`
	calls []string
}

func (w *WithSetters) XPathSetters() []node.SetterTag {
	return []node.SetterTag{
		{Method: "SetTitle", Tag: "./title,notrim"},
		{Method: "Reset", Tag: "."},
		{Method: "Pair", Tag: "./pair"},
	}
}

func (w *WithSetters) SetTitle(title string) error { w.calls = append(w.calls, title); return nil }
func (w *WithSetters) Reset()                      { w.calls = nil }
func (w *WithSetters) Pair(a, b string)            {}

type Titled struct {
	ID    string `xpath:"./@id"`
	title string
}

func (t *Titled) XPathSetters() []node.SetterTag {
	return []node.SetterTag{{Method: "SetTitle", Tag: "./t"}}
}

func (t *Titled) SetTitle(title string) { t.title = title }

type Headline struct {
	Name string `xpath:"./n"`
	*Titled
}

type Retitled struct {
	Titled
}

func (r *Retitled) XPathSetters() []node.SetterTag {
	return []node.SetterTag{{Method: "Rename", Tag: "./r"}}
}

func (r *Retitled) Rename(string) {}

type Label string

type Mood string

func (m Mood) IsValid() bool { return m == "calm" }

type Misused struct {
	hidden string `xpath:"./hidden"`
	Empty  string `xpath:",append"`
	Skip   string `xpath:"-"`
}

type Cyclic struct {
	Name  string  `xpath:"./@name"`
	Child *Cyclic `xpath:"./child"`
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag     string
		want    node.Directive
		wantErr error
	}{
		{"./root/@name", node.Directive{Path: "./root/@name", Trim: true}, nil},
		{"./text(),notrim", node.Directive{Path: "./text()"}, nil},
		{"./sub,append", node.Directive{Path: "./sub", Trim: true, Append: true}, nil},
		{"./c, char", node.Directive{Path: "./c", Trim: true, Char: true}, nil},
		{"concat(./a, ./b)", node.Directive{Path: "concat(./a, ./b)", Trim: true}, nil},
		{"./i[@k='a,b'],notrim", node.Directive{Path: "./i[@k='a,b']"}, nil},
		{"", node.Directive{}, node.ErrEmptyPath},
		{",append", node.Directive{}, node.ErrEmptyPath},
		{"./a,sideways", node.Directive{}, node.ErrUnknownFlag},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := node.ParseTag(tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectiveString(t *testing.T) {
	t.Parallel()

	dir := node.Directive{Path: "./a", Append: true}
	assert.Equal(t, "./a,notrim,append", dir.String())

	back, err := node.ParseTag(dir.String())
	require.NoError(t, err)
	assert.Equal(t, dir, back)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  reflect.Type
		want node.DispatcherEnum
	}{
		{"int", reflect.TypeFor[int](), node.DispatcherPrimitive},
		{"pointer to float", reflect.TypeFor[*float64](), node.DispatcherPrimitive},
		{"duration", reflect.TypeFor[time.Duration](), node.DispatcherPrimitive},
		{"time", reflect.TypeFor[time.Time](), node.DispatcherPrimitive},
		{"text unmarshaler", reflect.TypeFor[netip.Addr](), node.DispatcherPrimitive},
		{"string", reflect.TypeFor[string](), node.DispatcherString},
		{"pointer to string", reflect.TypeFor[*string](), node.DispatcherString},
		{"named string", reflect.TypeFor[Label](), node.DispatcherString},
		{"validated string enum", reflect.TypeFor[Mood](), node.DispatcherPrimitive},
		{"slice", reflect.TypeFor[[]int](), node.DispatcherArray},
		{"fixed array", reflect.TypeFor[[2]Sub](), node.DispatcherArray},
		{"tagged struct", reflect.TypeFor[Sub](), node.DispatcherTarget},
		{"pointer to tagged struct", reflect.TypeFor[*Sub](), node.DispatcherTarget},
		{"marked struct", reflect.TypeFor[Marked](), node.DispatcherTarget},
		{"inherited directives", reflect.TypeFor[struct{ Base }](), node.DispatcherTarget},
		{"plain struct", reflect.TypeFor[Plain](), node.DispatcherUnsupported},
		{"double pointer", reflect.TypeFor[**Sub](), node.DispatcherUnsupported},
		{"map", reflect.TypeFor[map[string]string](), node.DispatcherUnsupported},
		{"interface", reflect.TypeFor[any](), node.DispatcherUnsupported},
		{"complex", reflect.TypeFor[complex128](), node.DispatcherUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, node.Classify(tt.typ))
		})
	}
}

func TestDispatcherString(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, node.DispatcherTotal)
	for d := range node.DispatcherEnum(node.DispatcherTotal) {
		names = append(names, d.String())
	}

	assert.Equal(t, []string{"unsupported", "primitive", "string", "array", "target"}, names)
	assert.Equal(t, "unsupported", node.DispatcherEnum(node.DispatcherTotal).String())
	assert.Equal(t, "unsupported", node.DispatcherEnum(-1).String())
}

func TestClassifyOverlay(t *testing.T) {
	t.Parallel()

	d := node.NewDiscoverer(node.Overlay{
		reflect.TypeFor[Plain](): {Fields: map[string]node.Directive{"Name": {Path: "./@name", Trim: true}}},
	})

	assert.Equal(t, node.DispatcherTarget, d.Classify(reflect.TypeFor[Plain]()))
	assert.Equal(t, node.DispatcherUnsupported, node.Classify(reflect.TypeFor[Plain]()))

	ms := d.Members(reflect.TypeFor[Plain]())
	require.Len(t, ms, 1)
	assert.Equal(t, "Plain.Name", ms[0].Name)
	assert.Equal(t, "./@name", ms[0].Directive.Path)
}

func TestMembersOrder(t *testing.T) {
	t.Parallel()

	ms := node.Members(reflect.TypeFor[Derived]())

	var names []string
	for _, m := range ms {
		names = append(names, m.Name)
	}

	assert.Equal(t, []string{"Derived.Title", "Derived.Extra", "Base.ID"}, names)
	assert.Equal(t, []int{1, 0}, ms[2].Index)
}

func TestMembersSetters(t *testing.T) {
	t.Parallel()

	ms := node.Members(reflect.TypeFor[WithSetters]())
	require.Len(t, ms, 4)

	assert.Equal(t, "WithSetters.Name", ms[0].Name)
	assert.False(t, ms[0].IsSetter())

	assert.Equal(t, "WithSetters.SetTitle()", ms[1].Name)
	assert.True(t, ms[1].IsSetter())
	assert.Equal(t, reflect.TypeFor[string](), ms[1].Type)
	assert.False(t, ms[1].Directive.Trim)
	assert.True(t, ms[1].Setter.HasErr)
	assert.NoError(t, ms[1].Err)

	assert.Equal(t, "WithSetters.Reset()", ms[2].Name)
	assert.Nil(t, ms[2].Type)
	assert.NoError(t, ms[2].Err)

	assert.ErrorIs(t, ms[3].Err, node.ErrTooManyParams)
}

func TestMembersInheritedSetters(t *testing.T) {
	t.Parallel()

	names := func(ms []node.Member) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return out
	}

	ms := node.Members(reflect.TypeFor[Headline]())
	assert.Equal(t, []string{"Headline.Name", "Titled.ID", "Titled.SetTitle()"}, names(ms))
	require.Len(t, ms, 3)
	assert.Equal(t, []int{1}, ms[2].Index)
	assert.NoError(t, ms[2].Err)

	ms = node.Members(reflect.TypeFor[Retitled]())
	assert.Equal(t, []string{"Retitled.Rename()", "Titled.ID", "Titled.SetTitle()"}, names(ms))
	require.Len(t, ms, 3)
	assert.Empty(t, ms[0].Index)
	assert.Equal(t, []int{0}, ms[2].Index)
}

func TestMembersMisuse(t *testing.T) {
	t.Parallel()

	ms := node.Members(reflect.TypeFor[Misused]())
	require.Len(t, ms, 2)
	assert.ErrorIs(t, ms[0].Err, node.ErrUnexported)
	assert.ErrorIs(t, ms[1].Err, node.ErrEmptyPath)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	type AppendPrimitive struct {
		N int `xpath:"./n,append"`
	}
	type Unsupported struct {
		M map[string]string `xpath:"./m"`
	}
	type Nested struct {
		Grid [][]int `xpath:"./row"`
	}
	type Outer struct {
		Inner []*Nested `xpath:"./inner"`
		Sub   Sub       `xpath:"./sub,append"`
	}

	assert.NoError(t, node.Check(reflect.TypeFor[Sub]()))
	assert.NoError(t, node.Check(reflect.TypeFor[Cyclic]()))
	assert.NoError(t, node.Check(reflect.TypeFor[Derived]()))

	assert.ErrorIs(t, node.Check(reflect.TypeFor[AppendPrimitive]()), node.ErrAppendImmutable)
	assert.ErrorIs(t, node.Check(reflect.TypeFor[Unsupported]()), node.ErrUnsupportedType)
	assert.ErrorIs(t, node.Check(reflect.TypeFor[*Outer]()), node.ErrArrayOfArray)

	err := node.Check(reflect.TypeFor[WithSetters]())
	require.Error(t, err)
	assert.True(t, errors.Is(err, node.ErrTooManyParams))
	assert.Contains(t, err.Error(), "WithSetters.Pair()")
}

func TestParseSetter(t *testing.T) {
	t.Parallel()

	s, err := node.ParseSetter(reflect.TypeFor[WithSetters](), "SetTitle")
	require.NoError(t, err)
	assert.Equal(t, node.Setter{Name: "SetTitle", Arg: reflect.TypeFor[string](), HasErr: true}, s)

	s, err = node.ParseSetter(reflect.TypeFor[WithSetters](), "Reset")
	require.NoError(t, err)
	assert.Nil(t, s.Arg)
	assert.False(t, s.HasErr)

	_, err = node.ParseSetter(reflect.TypeFor[WithSetters](), "Pair")
	assert.ErrorIs(t, err, node.ErrTooManyParams)

	_, err = node.ParseSetter(reflect.TypeFor[WithSetters](), "Missing")
	assert.ErrorIs(t, err, node.ErrNoSuchMethod)

	_, err = node.ParseSetter(reflect.TypeFor[WithSetters](), "XPathSetters")
	assert.ErrorIs(t, err, node.ErrNotASetter)
}

func TestSetterCall(t *testing.T) {
	t.Parallel()

	var w WithSetters
	recv := reflect.ValueOf(&w).Elem()

	s, err := node.ParseSetter(reflect.TypeFor[WithSetters](), "SetTitle")
	require.NoError(t, err)
	require.NoError(t, s.Call(recv, reflect.ValueOf("hello")))
	assert.Equal(t, []string{"hello"}, w.calls)

	s, err = node.ParseSetter(reflect.TypeFor[WithSetters](), "Reset")
	require.NoError(t, err)
	require.NoError(t, s.Call(recv, reflect.Value{}))
	assert.Nil(t, w.calls)
}
