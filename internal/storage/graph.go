package storage

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/san-kum/springnet/internal/dynamo"
)

// ErrNoChange reports that a graph file was missing, empty or malformed and
// the target graph was left untouched.
var ErrNoChange = errors.New("storage: graph unchanged")

type vertexRow struct {
	x, y   float64
	pinned bool
}

type edgeRow struct {
	start, end dynamo.VertexID
	rest       float64
	hasRest    bool
}

// SaveGraph writes g as a flat table: a "n,k" header, n rows of x,y,pinned
// and k rows of start,end,rest where indices follow vertex insertion order.
func SaveGraph(path string, g *dynamo.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if err := WriteGraph(f, g); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

func WriteGraph(w io.Writer, g *dynamo.Graph) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{strconv.Itoa(g.NumVertices()), strconv.Itoa(g.NumEdges())}); err != nil {
		return err
	}
	for _, v := range g.Vertices() {
		pinned := "0"
		if v.Pinned {
			pinned = "1"
		}
		if err := cw.Write([]string{formatFloat(v.X), formatFloat(v.Y), pinned}); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		row := []string{
			strconv.Itoa(int(e.Start)),
			strconv.Itoa(int(e.End)),
			formatFloat(e.RestLength),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// LoadGraph replaces the contents of g with the graph stored at path. A
// missing, empty or malformed file returns an error wrapping ErrNoChange and
// leaves g as it was. Parameters and bounds of g are kept.
func LoadGraph(path string, g *dynamo.Graph) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNoChange, "%s does not exist", path)
		}
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return errors.WithMessage(ReadGraph(f, g), path)
}

func ReadGraph(r io.Reader, g *dynamo.Graph) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return errors.Wrapf(ErrNoChange, "read csv: %v", err)
	}
	if len(records) == 0 {
		return errors.Wrap(ErrNoChange, "empty file")
	}

	vertices, edges, err := parseGraph(records)
	if err != nil {
		return err
	}

	g.Reset()
	for _, v := range vertices {
		vert := dynamo.NewVertex(v.x, v.y, dynamo.DefaultMass)
		vert.Pinned = v.pinned
		g.Append(vert)
	}
	for _, e := range edges {
		if e.hasRest {
			err = g.ConnectRest(e.start, e.end, e.rest)
		} else {
			err = g.Connect(e.start, e.end)
		}
		if err != nil {
			return errors.Wrap(err, "connect")
		}
	}
	return nil
}

func parseGraph(records [][]string) ([]vertexRow, []edgeRow, error) {
	header := records[0]
	if len(header) < 2 {
		return nil, nil, errors.Wrap(ErrNoChange, "header needs n,k")
	}
	n, errN := strconv.Atoi(header[0])
	k, errK := strconv.Atoi(header[1])
	if errN != nil || errK != nil || n < 0 || k < 0 {
		return nil, nil, errors.Wrapf(ErrNoChange, "bad header %v", header)
	}
	if len(records) < 1+n+k {
		return nil, nil, errors.Wrapf(ErrNoChange, "want %d rows, have %d", 1+n+k, len(records))
	}

	vertices := make([]vertexRow, 0, n)
	for i, rec := range records[1 : 1+n] {
		v, err := parseVertex(rec)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrNoChange, "vertex %d: %v", i, err)
		}
		vertices = append(vertices, v)
	}

	edges := make([]edgeRow, 0, k)
	for i, rec := range records[1+n : 1+n+k] {
		e, err := parseEdge(rec, n)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrNoChange, "edge %d: %v", i, err)
		}
		edges = append(edges, e)
	}

	return vertices, edges, nil
}

func parseVertex(rec []string) (vertexRow, error) {
	if len(rec) < 2 || len(rec) > 3 {
		return vertexRow{}, errors.Errorf("want 2 or 3 fields, got %d", len(rec))
	}
	x, err := strconv.ParseFloat(rec[0], 64)
	if err != nil {
		return vertexRow{}, err
	}
	y, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return vertexRow{}, err
	}
	v := vertexRow{x: x, y: y}
	if len(rec) == 3 {
		if v.pinned, err = strconv.ParseBool(rec[2]); err != nil {
			return vertexRow{}, err
		}
	}
	return v, nil
}

func parseEdge(rec []string, n int) (edgeRow, error) {
	if len(rec) < 2 || len(rec) > 3 {
		return edgeRow{}, errors.Errorf("want 2 or 3 fields, got %d", len(rec))
	}
	i, err := strconv.Atoi(rec[0])
	if err != nil {
		return edgeRow{}, err
	}
	j, err := strconv.Atoi(rec[1])
	if err != nil {
		return edgeRow{}, err
	}
	if i < 0 || i >= n || j < 0 || j >= n {
		return edgeRow{}, errors.Errorf("index out of range: %d,%d with %d vertices", i, j, n)
	}
	if i == j {
		return edgeRow{}, errors.Errorf("self loop on %d", i)
	}
	e := edgeRow{start: dynamo.VertexID(i), end: dynamo.VertexID(j)}
	if len(rec) == 3 {
		if e.rest, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return edgeRow{}, err
		}
		e.hasRest = true
	}
	return e, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
