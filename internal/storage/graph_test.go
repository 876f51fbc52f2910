package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/physics"
)

func TestGraphRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloth.csv")
	src := physics.NewCloth(6, 4, 10)
	src.RunSubsteps()

	require.NoError(t, SaveGraph(path, src))

	dst := dynamo.New()
	require.NoError(t, LoadGraph(path, dst))

	require.Equal(t, src.NumVertices(), dst.NumVertices())
	require.Equal(t, src.NumEdges(), dst.NumEdges())
	for i, v := range src.Vertices() {
		got := dst.Vertices()[i]
		assert.Equal(t, v.X, got.X, "vertex %d x", i)
		assert.Equal(t, v.Y, got.Y, "vertex %d y", i)
		assert.Equal(t, v.Pinned, got.Pinned, "vertex %d pinned", i)
		assert.Zero(t, got.VX, "loaded vertices start at rest")
	}
	assert.Equal(t, src.Edges(), dst.Edges())
}

func TestReadGraph_TwoFieldRows(t *testing.T) {
	in := "3,2\n100,100\n200,100\n100,200\n0,1,42.5\n0,2\n"
	g := dynamo.New()

	require.NoError(t, ReadGraph(strings.NewReader(in), g))

	require.Equal(t, 3, g.NumVertices())
	for _, v := range g.Vertices() {
		assert.False(t, v.Pinned)
		assert.Equal(t, dynamo.DefaultMass, v.Mass)
	}
	edges := g.Edges()
	assert.Equal(t, 42.5, edges[0].RestLength)
	assert.InDelta(t, 100, edges[1].RestLength, 1e-9, "missing rest length uses current distance")
}

func TestReadGraph_PinnedColumn(t *testing.T) {
	in := "2,1\n0,0,1\n50,0,0\n0,1,50\n"
	g := dynamo.New()

	require.NoError(t, ReadGraph(strings.NewReader(in), g))
	assert.True(t, g.Vertices()[0].Pinned)
	assert.False(t, g.Vertices()[1].Pinned)
}

func TestLoadGraph_NoChange(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing", filepath.Join(dir, "missing.csv"), ""},
		{"empty", empty, ""},
		{"bad header", "", "x,y\n"},
		{"short", "", "3,0\n1,1\n"},
		{"bad vertex", "", "1,0\n1,abc\n"},
		{"edge out of range", "", "2,1\n0,0\n1,1\n0,5\n"},
		{"self loop", "", "2,1\n0,0\n1,1\n1,1\n"},
		{"too many fields", "", "1,0\n1,2,0,9\n"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = filepath.Join(dir, "case"+string(rune('a'+i))+".csv")
				require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			}

			g := physics.NewWheel(4, 100)
			before := g.Clone()

			err := LoadGraph(path, g)
			require.ErrorIs(t, err, ErrNoChange)
			assert.Equal(t, before.Vertices(), g.Vertices())
			assert.Equal(t, before.Edges(), g.Edges())
		})
	}
}

func TestLoadGraph_KeepsParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.csv")
	require.NoError(t, os.WriteFile(path, []byte("2,1\n0,0\n50,0\n0,1\n"), 0644))

	p := dynamo.Params{SpringConstant: 0.3, Friction: 0.1, Gravity: 0}
	g := dynamo.New(dynamo.WithParams(p))
	require.NoError(t, LoadGraph(path, g))
	assert.Equal(t, p, g.Params)
	assert.Equal(t, 2, g.NumVertices())
}

func TestWriteGraph_Format(t *testing.T) {
	g := dynamo.New()
	a := g.Place(10, 20)
	b := g.Place(40.5, 20)
	v, _ := g.Vertex(a)
	v.Pinned = true
	require.NoError(t, g.ConnectRest(a, b, 30))

	var sb strings.Builder
	require.NoError(t, WriteGraph(&sb, g))
	assert.Equal(t, "2,1\n10,20,1\n40.5,20,0\n0,1,30\n", sb.String())
}
