package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/springnet/internal/config"
	"github.com/san-kum/springnet/internal/dynamo"
)

var (
	pickTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickArrow   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickIdleVal = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	pickKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var topologyInfo = map[string]string{
	"wheel":    "ring of springs with hub",
	"complete": "every pair connected",
	"cloth":    "grid hung from top row",
	"pyramid":  "triangular lattice",
	"blank":    "empty canvas, click to add",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// BuildFunc turns a run configuration into a graph.
type BuildFunc func(cfg *config.Config) (*dynamo.Graph, error)

// pickEntry is one row of the start menu: a topology with a named preset,
// or a topology at its defaults when preset is empty.
type pickEntry struct {
	topology string
	preset   string
}

func (e pickEntry) label() string {
	if e.preset == "" {
		return e.topology
	}
	return e.topology + "/" + e.preset
}

// field is an editable numeric setting on the config screen.
type field struct {
	name string
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
}

type picker struct {
	state       int
	cursor      int
	entries     []pickEntry
	base        *config.Config
	build       BuildFunc
	cfg         *config.Config
	fields      []field
	fieldCursor int
	editing     bool
	editBuf     string
	err         string
	liveOpts    Options
	liveModel   Model
}

// NewPicker returns the start menu over the given topologies and their
// presets. base supplies every setting a preset leaves unset.
func NewPicker(topologies []string, base *config.Config, build BuildFunc, opts Options) *picker {
	entries := []pickEntry{{topology: "blank"}}
	for _, t := range topologies {
		entries = append(entries, pickEntry{topology: t})
		for _, p := range config.ListPresets(t) {
			entries = append(entries, pickEntry{topology: t, preset: p})
		}
	}
	if base == nil {
		base = config.DefaultConfig()
	}
	return &picker{
		state:    stateMenu,
		entries:  entries,
		base:     base,
		build:    build,
		liveOpts: opts,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m picker) handleKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selectEntry(m.entries[m.cursor])
		if m.cfg.Topology == "blank" {
			return m, m.start()
		}
		m.state, m.fieldCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%g", &val); err == nil {
				m.fields[m.fieldCursor].set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(m.fields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		f := m.fields[m.fieldCursor]
		m.editing, m.editBuf = true, fmt.Sprintf("%g", f.get(m.cfg))
	case "left", "h":
		m.nudge(0.9)
	case "right", "l":
		m.nudge(1.1)
	case "s":
		return m, m.start()
	}
	return m, nil
}

// nudge scales the selected field, stepping integer fields by at least one.
func (m *picker) nudge(factor float64) {
	f := m.fields[m.fieldCursor]
	v := f.get(m.cfg)
	next := v * factor
	if v == float64(int(v)) && v >= 1 {
		if factor > 1 {
			next = max(next, v+1)
		} else {
			next = min(next, v-1)
		}
	}
	f.set(m.cfg, next)
}

func (m *picker) selectEntry(e pickEntry) {
	cfg := m.base.Clone()
	if e.preset != "" {
		if p := config.GetPreset(e.topology, e.preset); p != nil {
			cfg.Shape = p.Shape
			cfg.Physics = p.Physics
		}
	}
	cfg.Topology = e.topology
	m.cfg = cfg
	m.fields = fieldsFor(e.topology)
}

func fieldsFor(topology string) []field {
	intField := func(name string, ptr func(c *config.Config) *int) field {
		return field{
			name: name,
			get:  func(c *config.Config) float64 { return float64(*ptr(c)) },
			set:  func(c *config.Config, v float64) { *ptr(c) = max(1, int(v)) },
		}
	}
	floatField := func(name string, ptr func(c *config.Config) *float64) field {
		return field{
			name: name,
			get:  func(c *config.Config) float64 { return *ptr(c) },
			set:  func(c *config.Config, v float64) { *ptr(c) = max(0, v) },
		}
	}

	var fields []field
	switch topology {
	case "wheel", "complete":
		fields = append(fields,
			intField("n", func(c *config.Config) *int { return &c.Shape.N }),
			floatField("radius", func(c *config.Config) *float64 { return &c.Shape.Radius }),
		)
	case "cloth":
		fields = append(fields,
			intField("cols", func(c *config.Config) *int { return &c.Shape.Cols }),
			intField("rows", func(c *config.Config) *int { return &c.Shape.Rows }),
			floatField("spacing", func(c *config.Config) *float64 { return &c.Shape.Spacing }),
		)
	case "pyramid":
		fields = append(fields,
			intField("levels", func(c *config.Config) *int { return &c.Shape.Levels }),
			floatField("spacing", func(c *config.Config) *float64 { return &c.Shape.Spacing }),
		)
	}

	for _, name := range dynamo.ParamNames {
		name := name
		fields = append(fields, field{
			name: name,
			get: func(c *config.Config) float64 {
				p := dynamo.DefaultParams()
				if c.Physics != nil {
					p = *c.Physics
				}
				v, _ := p.Get(name)
				return v
			},
			set: func(c *config.Config, v float64) {
				c.SetPhysics(dynamo.DefaultParams(), func(p *dynamo.Params) { _ = p.Set(name, max(0, v)) })
			},
		})
	}
	return fields
}

func (m *picker) start() tea.Cmd {
	var g *dynamo.Graph
	if m.cfg.Topology == "blank" {
		g = dynamo.New(m.cfg.GraphOptions()...)
	} else {
		var err error
		if g, err = m.build(m.cfg); err != nil {
			m.err = err.Error()
			return nil
		}
	}

	cfg, build := m.cfg.Clone(), m.build
	opts := m.liveOpts
	opts.Title = m.entries[m.cursor].label()
	opts.FrameMillis = cfg.FrameMillis
	opts.Rebuild = func() *dynamo.Graph {
		if cfg.Topology == "blank" {
			return dynamo.New(cfg.GraphOptions()...)
		}
		fresh, err := build(cfg)
		if err != nil {
			return dynamo.New(cfg.GraphOptions()...)
		}
		return fresh
	}
	m.liveModel = NewModel(g, opts)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHint(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pickKey.Render(pairs[i]) + pickIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("SPRINGNET") + "\n    " + pickSub.Render("mass-spring network simulator") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		desc := ""
		if e.preset == "" {
			desc = topologyInfo[e.topology]
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickArrow.Render("▸"), pickActive.Render(fmt.Sprintf("%-18s", e.label())), pickValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickIdle.Render(fmt.Sprintf("  %-18s", e.label())), pickIdleVal.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHint("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	e := m.entries[m.cursor]
	b.WriteString("\n\n    " + pickTitle.Render(strings.ToUpper(e.label())) + "\n    " + pickSub.Render(topologyInfo[e.topology]) + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, f := range m.fields {
		valStr := fmt.Sprintf("%8.3f", f.get(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", pickArrow.Render("▸"), pickActive.Render(fmt.Sprintf("%-16s", f.name)), pickValue.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", pickIdle.Render(fmt.Sprintf("  %-16s", f.name)), pickIdleVal.Render(valStr)))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + StatusRecording.Render(m.err) + "\n")
	}
	b.WriteString("\n    " + keyHint("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunPicker shows the start menu and then the live view of the chosen graph.
func RunPicker(topologies []string, base *config.Config, build BuildFunc, opts Options) error {
	_, err := tea.NewProgram(NewPicker(topologies, base, build, opts), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
