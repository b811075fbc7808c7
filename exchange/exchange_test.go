package exchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/history"
)

func sampleDocument() Document {
	return NewDocument("warrior", graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "root", Label: "Basics", Role: graph.RoleBase, Shape: graph.ShapeCircle,
				LinkStyle: graph.LinkCurve, IsActive: true, X: 10, Y: 20.5},
			{ID: "slash", Label: "Slash", Description: "A wide cut", Role: graph.RoleNormal,
				Shape: graph.ShapePoly, PolySides: 6, LinkStyle: graph.LinkElbow,
				IconPath: "icons/slash.png", Extras: map[string]string{"cost": "3"}},
		},
		Edges: []graph.Edge{{From: "root", To: "slash", Style: graph.LinkElbow}},
	})
}

func TestRoundTrip(t *testing.T) {
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			doc := sampleDocument()
			var buf bytes.Buffer

			require.NoError(t, Export(&buf, doc, format))
			got, err := Import(&buf, format)

			require.NoError(t, err)
			assert.Equal(t, "warrior", got.Name)
			assert.Equal(t, DocumentVersion, got.Version)
			assert.True(t, history.Equal(doc.Snapshot(), got.Snapshot()),
				"round trip changed the tree:\n%s", buf.String())
		})
	}
}

func TestExportUsesRecordFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleDocument(), FormatJSON))

	out := buf.String()
	for _, field := range []string{`"isActive"`, `"polySides"`, `"linkStyle"`, `"iconPath"`, `"from"`, `"to"`} {
		assert.Contains(t, out, field)
	}
}

func TestImportRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, `{"nodes":[{"id":"a","colour":"red"}],"edges":[]}`},
		{FormatYAML, "nodes:\n  - id: a\n    colour: red\n"},
		{FormatTOML, "[[nodes]]\nid = \"a\"\ncolour = \"red\"\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestImportValidatesInvariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{
			name:  "dangling edge",
			input: `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"ghost"}]}`,
			check: func(err error) bool { return errors.Is(err, errors.ErrReferentialViolation) },
		},
		{
			name:  "duplicate id",
			input: `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`,
			check: func(err error) bool { return errors.Is(err, errors.ErrDuplicateID) },
		},
		{
			name:  "unknown role",
			input: `{"nodes":[{"id":"a","role":"boss"}],"edges":[]}`,
			check: errors.IsInvalidRequestError,
		},
		{
			name:  "unknown edge style",
			input: `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b","style":"zigzag"}]}`,
			check: errors.IsInvalidRequestError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.input), FormatJSON)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestImportAllowsMissingEnums(t *testing.T) {
	doc, err := Import(strings.NewReader("nodes:\n  - id: a\n  - id: b\nedges:\n  - from: a\n    to: b\n"), FormatYAML)
	require.NoError(t, err)

	store, err := graph.FromSnapshot(doc.Snapshot())
	require.NoError(t, err)
	n, _ := store.FindNode("b")
	assert.Equal(t, graph.RoleNormal, n.Role)
	assert.Equal(t, graph.ShapeCircle, n.Shape)
	e, ok := store.FindEdge("a", "b")
	require.True(t, ok)
	assert.Equal(t, graph.LinkCurve, e.Style)
}

func TestFormats(t *testing.T) {
	f, err := FormatFromPath("tree.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("/tmp/tree.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = FormatFromPath("tree")
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = ParseFormat("xml")
	assert.True(t, errors.IsInvalidRequestError(err))

	assert.Error(t, Export(&bytes.Buffer{}, sampleDocument(), Format("xml")))
}

func TestImportChecksDocumentVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"", true},
		{"1.0.0", true},
		{"1.4.2", true},
		{"v1.1", true},
		{"2.0.0", false},
		{"0.9.0", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			input := `{"version":"` + tt.version + `","nodes":[{"id":"a"}],"edges":[]}`
			_, err := Import(strings.NewReader(input), FormatJSON)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsInvalidRequestError(err), "unexpected error: %v", err)
			}
		})
	}
}
