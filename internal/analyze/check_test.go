package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkFeed(t *testing.T) map[string]string {
	t.Helper()

	pkgs, err := LoadPackages("", "./testdata/feed")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	diags := Check(pkgs)

	codes := map[string]string{}
	for _, d := range diags.All() {
		if d.Code == "checked" {
			continue
		}
		codes[d.Type+"."+d.Member] = d.Code
	}

	return codes
}

func TestCheck_Broken(t *testing.T) {
	codes := checkFeed(t)

	expected := map[string]string{
		"feed.Broken.Count":   "append_immutable",
		"feed.Broken.Name":    "append_immutable",
		"feed.Broken.List":    "append_immutable",
		"feed.Broken.Empty":   "bad_tag",
		"feed.Broken.Flag":    "bad_tag",
		"feed.Broken.Bad":     "invalid_xpath",
		"feed.Broken.hidden":  "field_unexported",
		"feed.Broken.Meta":    "unsupported_type",
		"feed.Broken.Grid[]":  "array_of_array",
		"feed.Broken.Deep":    "double_pointer",
		"feed.Broken.Plain":   "not_a_target",
		"feed.Broken.Fn":      "unsupported_type",
		"feed.Broken.Initial": "char_ignored",
		"feed.Broken.Cells[]": "unsupported_type",
	}

	assert.Equal(t, expected, codes, "only Broken has findings")
}

func TestCheck_Positions(t *testing.T) {
	pkgs, err := LoadPackages("", "./testdata/feed")
	require.NoError(t, err)

	diags := Check(pkgs)
	require.True(t, diags.HasErrors())

	for _, d := range diags.Errors {
		assert.Contains(t, d.Pos, "feed.go:", d.String())
	}
}

func TestCheck_VisitsEachTypeOnce(t *testing.T) {
	pkgs, err := LoadPackages("", "./testdata/feed")
	require.NoError(t, err)

	diags := Check(pkgs)

	var checked []string
	for _, d := range diags.Infos {
		checked = append(checked, d.Type)
	}

	assert.Equal(t, []string{"feed.Base", "feed.Broken", "feed.Derived", "feed.Feed", "feed.Item", "feed.Person"}, checked)
}

func TestLoadPackages_Errors(t *testing.T) {
	_, err := LoadPackages("", "./testdata/missing")
	assert.Error(t, err)
}

func TestTypePath(t *testing.T) {
	p := NewTypePath("Feed").Field("Items").Slice().Field("Title")
	assert.Equal(t, "Feed.Items[].Title", p.String())
	assert.Equal(t, "[]", (&TypePath{}).Slice().String())
}

func TestTypeID(t *testing.T) {
	id := TypeID{PkgPath: "example.com/app/feed", Name: "Item"}
	assert.Equal(t, "example.com/app/feed.Item", id.String())
	assert.Equal(t, "feed.Item", id.Short())
	assert.Equal(t, "Item", TypeID{Name: "Item"}.String())
}
