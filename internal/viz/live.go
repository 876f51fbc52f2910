package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/plan-systems/klog"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/storage"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	historyCapacity = 300
	cursorStep      = 10.0

	// canvas offset inside canvasStyle padding
	canvasLeft = 2
	canvasTop  = 1
)

// Snapshot stores one rendered frame for replay.
type Snapshot struct {
	Vertices  []dynamo.Vertex
	Edges     []dynamo.Edge
	Potential float64
	Kinetic   float64
	Step      int
}

type Options struct {
	Title string
	// FilePath is the graph file written by save and read by load.
	FilePath    string
	GIFPath     string
	FrameMillis int
	Cols, Rows  int
	// Rebuild returns a fresh copy of the starting graph for reset.
	Rebuild func() *dynamo.Graph
}

type TickMsg time.Time

// Model is the live viewer: it steps the graph once per frame and lets the
// user edit it with the mouse or a keyboard cursor.
type Model struct {
	graph         *dynamo.Graph
	editor        *Editor
	opts          Options
	canvas        *Canvas
	cursorX       float64
	cursorY       float64
	running       bool
	initialParams dynamo.Params
	selected      int
	potential     []float64
	kinetic       []float64
	history       []Snapshot
	playHead      int
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	status        string
}

func NewModel(g *dynamo.Graph, opts Options) Model {
	if opts.Cols <= 0 {
		opts.Cols = defaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultRows
	}
	if opts.FrameMillis <= 0 {
		opts.FrameMillis = dynamo.TickMillis
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "springnet.gif"
	}
	if opts.Title == "" {
		opts.Title = "springnet"
	}

	return Model{
		graph:         g,
		editor:        NewEditor(g),
		opts:          opts,
		canvas:        NewCanvas(opts.Cols, opts.Rows),
		cursorX:       g.Width / 2,
		cursorY:       g.Height / 2,
		running:       true,
		initialParams: g.Params,
		potential:     make([]float64, 0, historyCapacity),
		kinetic:       make([]float64, 0, historyCapacity),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.opts.FrameMillis)*time.Millisecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "c":
		m.graph.Reset()
		m.editor.SetGraph(m.graph)
		m.status = "cleared"
	case "u":
		m.editor.Undo()
	case "left":
		m.moveCursor(-cursorStep, 0)
	case "right":
		m.moveCursor(cursorStep, 0)
	case "up":
		m.moveCursor(0, -cursorStep)
	case "down":
		m.moveCursor(0, cursorStep)
	case "a", "enter":
		m.editor.Press(m.cursorX, m.cursorY)
		if _, added := m.editor.Release(m.cursorX, m.cursorY); !added {
			m.status = "vertex under cursor"
		}
	case "d":
		if m.editor.Pressed() {
			m.editor.Release(m.cursorX, m.cursorY)
		} else if m.editor.NearVertex(m.cursorX, m.cursorY) {
			m.editor.Press(m.cursorX, m.cursorY)
		}
	case "p":
		m.editor.TogglePin(m.cursorX, m.cursorY)
	case "tab":
		m.selected = (m.selected + 1) % len(dynamo.ParamNames)
	case "+", "=":
		m.adjustParam(1.05)
	case "-", "_":
		m.adjustParam(0.95)
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	case "s":
		m.save()
	case "o":
		m.load()
	case "g":
		if m.recording {
			m.saveGIF()
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y, ok := m.screenToWorld(msg.X, msg.Y)
	if !ok {
		return
	}
	m.cursorX, m.cursorY = x, y

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.editor.Press(x, y)
	case msg.Action == tea.MouseActionMotion:
		m.editor.Move(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.editor.Release(x, y)
	}
}

func (m *Model) moveCursor(dx, dy float64) {
	x := math.Max(0, math.Min(m.cursorX+dx, m.graph.Width))
	y := math.Max(0, math.Min(m.cursorY+dy, m.graph.Height))
	m.editor.Move(x, y)
	m.cursorX, m.cursorY = x, y
}

func (m *Model) adjustParam(factor float64) {
	name := dynamo.ParamNames[m.selected]
	val, _ := m.graph.Params.Get(name)
	if val == 0 {
		val = 1e-3
	}
	_ = m.graph.Params.Set(name, val*factor)
}

// step advances the network by one frame of sub-steps.
func (m *Model) step() {
	m.graph.RunSubsteps()

	pe, ke := m.graph.PotentialEnergy(), m.graph.KineticEnergy()
	m.potential = appendCapped(m.potential, pe)
	m.kinetic = appendCapped(m.kinetic, ke)

	snap := Snapshot{
		Vertices:  append([]dynamo.Vertex(nil), m.graph.Vertices()...),
		Edges:     append([]dynamo.Edge(nil), m.graph.Edges()...),
		Potential: pe,
		Kinetic:   ke,
		Step:      m.graph.Steps(),
	}
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the starting graph and parameters.
func (m *Model) reset() {
	if m.opts.Rebuild != nil {
		fresh := m.opts.Rebuild()
		*m.graph = *fresh
	} else {
		m.graph.Reset()
	}
	m.graph.Params = m.initialParams
	m.editor.SetGraph(m.graph)
	m.potential = m.potential[:0]
	m.kinetic = m.kinetic[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.status = "reset"
}

func (m *Model) save() {
	if m.opts.FilePath == "" {
		m.status = "no file to save to"
		return
	}
	if err := storage.SaveGraph(m.opts.FilePath, m.graph); err != nil {
		klog.Warningf("viz: save: %v", err)
		m.status = "save failed"
		return
	}
	m.status = "saved " + m.opts.FilePath
}

func (m *Model) load() {
	if m.opts.FilePath == "" {
		m.status = "no file to load from"
		return
	}
	err := storage.LoadGraph(m.opts.FilePath, m.graph)
	switch {
	case errors.Is(err, storage.ErrNoChange):
		m.status = "nothing loaded"
	case err != nil:
		klog.Warningf("viz: load: %v", err)
		m.status = "load failed"
	default:
		m.editor.SetGraph(m.graph)
		m.history = m.history[:0]
		m.playHead = -1
		m.status = "loaded " + m.opts.FilePath
	}
}

// worldToScreen maps graph coordinates to canvas dots.
func (m *Model) worldToScreen(x, y float64) (int, int) {
	sx := float64(m.canvas.SubWidth()) / m.graph.Width
	sy := float64(m.canvas.SubHeight()) / m.graph.Height
	return int(x * sx), int(y * sy)
}

// screenToWorld maps a terminal cell to the graph coordinates at its centre.
func (m *Model) screenToWorld(col, row int) (float64, float64, bool) {
	col -= canvasLeft
	row -= canvasTop
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return 0, 0, false
	}
	x := (float64(col)*2 + 1) / float64(m.canvas.SubWidth()) * m.graph.Width
	y := (float64(row)*4 + 2) / float64(m.canvas.SubHeight()) * m.graph.Height
	return x, y, true
}

// draw renders the current or replayed frame onto the canvas.
func (m *Model) draw() {
	vertices, edges := m.graph.Vertices(), m.graph.Edges()
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		vertices, edges = snap.Vertices, snap.Edges
	}

	m.canvas.Clear()
	for _, e := range edges {
		if int(e.Start) >= len(vertices) || int(e.End) >= len(vertices) {
			continue
		}
		a, b := &vertices[e.Start], &vertices[e.End]
		x0, y0 := m.worldToScreen(a.X, a.Y)
		x1, y1 := m.worldToScreen(b.X, b.Y)
		m.canvas.DrawTensionLine(x0, y0, x1, y1, e.Tension(a, b))
	}
	for _, v := range vertices {
		x, y := m.worldToScreen(v.X, v.Y)
		if v.Pinned {
			m.canvas.FillCircle(x, y, 1)
		} else {
			m.canvas.Set(x, y)
		}
	}

	// hover ring: drag radius over a vertex, edge creation radius elsewhere
	r := m.graph.EdgeRadius
	if m.editor.NearVertex(m.cursorX, m.cursorY) {
		r = dynamo.DragRadius
	}
	cx, cy := m.worldToScreen(m.cursorX, m.cursorY)
	rx := r * float64(m.canvas.SubWidth()) / m.graph.Width
	m.drawRing(cx, cy, math.Max(rx, 1))
}

func (m *Model) drawRing(cx, cy int, r float64) {
	n := max(12, int(2*math.Pi*r))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		m.canvas.Set(cx+int(math.Round(r*math.Cos(a))), cy+int(math.Round(r*math.Sin(a))))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Styled(CurrentTheme))

	pe, ke, stepN := m.graph.PotentialEnergy(), m.graph.KineticEnergy(), m.graph.Steps()
	status := StatusRunning.Render("RUNNING")
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		pe, ke, stepN = snap.Potential, snap.Kinetic, snap.Step
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (%d frames back)", len(m.history)-1-m.playHead))
	} else if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Title)) + "\n")
	s.WriteString(status + "\n")
	if m.status != "" {
		s.WriteString(labelStyle.Render(m.status) + "\n")
	}
	s.WriteString("\n")

	if len(m.potential) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.potential, m.kinetic},
			asciigraph.Height(5),
			asciigraph.Width(28),
			asciigraph.Caption("potential / kinetic"),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(SparklineChart(m.kinetic, 28) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Vertices") + valueStyle.Render(fmt.Sprintf("%d", m.graph.NumVertices())) + "\n")
	s.WriteString(labelStyle.Render("Edges") + valueStyle.Render(fmt.Sprintf("%d", m.graph.NumEdges())) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", stepN)) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.2f", pe)) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.2f", ke)) + "\n")
	s.WriteString(labelStyle.Render("Cursor") + valueStyle.Render(fmt.Sprintf("%.0f,%.0f", m.cursorX, m.cursorY)) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, name := range dynamo.ParamNames {
		val, _ := m.graph.Params.Get(name)
		initial, _ := m.initialParams.Get(name)
		ratio := 0.5
		if initial > 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-15s %s %.3f", name, ProgressBar(ratio, 8), val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause R:Reset C:Clear Q:Quit\nA:Add D:Drag P:Pin U:Undo\nS:Save O:Load ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset to starting graph  ║
║  C        - Clear all vertices       ║
║  Arrows   - Move cursor              ║
║  A/Enter  - Add vertex at cursor     ║
║  D        - Grab/drop under cursor   ║
║  P        - Toggle pin under cursor  ║
║  U        - Undo last vertex         ║
║  Tab      - Cycle parameters         ║
║  +/-      - Tune parameter (±5%)     ║
║  [ ]      - Rewind/forward replay    ║
║  S/O      - Save/load graph file     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < m.canvas.SubHeight(); y++ {
		for x := 0; x < m.canvas.SubWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		klog.Warningf("viz: gif: %v", err)
		m.status = "gif failed"
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		klog.Warningf("viz: gif: %v", err)
		m.status = "gif failed"
		return
	}
	m.status = "wrote " + m.opts.GIFPath
}

// Run starts the live viewer on g and blocks until it quits.
func Run(g *dynamo.Graph, opts Options) error {
	_, err := tea.NewProgram(NewModel(g, opts), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
