package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sceneload/internal/adapters/driving/report"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// refreshInterval is how often load states are sampled.
const refreshInterval = 200 * time.Millisecond

// headerLines is the number of lines above the field list.
const headerLines = 3

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	status *status.Bar

	// urls are the world's candidate URLs.
	urls []string

	// generation increases with every world load; stale results are dropped.
	generation int

	doc      driven.WorldDocument
	rows     []report.Row
	selected int
	showHelp bool

	// err holds the last world load error.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its dimensions.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI that loads the first loadable of urls.
func NewApp(ports *Ports, urls []string) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if len(domain.CleanURLs(urls)) == 0 {
		return nil, ErrNoURLs
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		status: status.NewBar(s, km),
		urls:   urls,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init implements tea.Model.
// It starts the world load and the refresh ticker.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sceneload - "+a.urls[0]),
		a.loadWorld(),
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return messages.Tick{Time: t}
	})
}

// loadWorld starts a new world load and returns the command that waits
// for its result.
func (a *App) loadWorld() tea.Cmd {
	a.generation++
	gen := a.generation
	ports, urls, ctx := a.ports, a.urls, a.ctx
	ports.Host.SetWorldLoading(true)

	return func() tea.Msg {
		done := make(chan messages.WorldLoaded, 1)
		ports.World.LoadURL(urls, ports.Host, ports.rendererType(), func(doc driven.WorldDocument, err error) {
			done <- messages.WorldLoaded{Generation: gen, Doc: doc, Err: err}
		})
		select {
		case msg := <-done:
			return msg
		case <-ctx.Done():
			return messages.WorldLoaded{Generation: gen, Err: ctx.Err()}
		}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.WorldLoaded:
		if msg.Generation != a.generation {
			return a, nil
		}
		if msg.Err != nil {
			a.err = msg.Err
			a.ports.Host.SetWorldLoading(false)
		} else {
			a.doc = msg.Doc
			a.err = nil
		}
		a.refresh()
		return a, nil

	case messages.Tick:
		a.refresh()
		return a, tick()

	case messages.FieldRetried:
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg.String())
	}

	return a, nil
}

func (a *App) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp
	case keymap.Matches(k, a.keymap.Up):
		a.moveTo(a.selected - 1)
	case keymap.Matches(k, a.keymap.Down):
		a.moveTo(a.selected + 1)
	case keymap.Matches(k, a.keymap.Top):
		a.moveTo(0)
	case keymap.Matches(k, a.keymap.Bottom):
		a.moveTo(len(a.rows) - 1)
	case keymap.Matches(k, a.keymap.Retry):
		return a.retrySelected()
	case keymap.Matches(k, a.keymap.Reload):
		return a.reload()
	}
	return nil
}

func (a *App) moveTo(i int) {
	if i >= len(a.rows) {
		i = len(a.rows) - 1
	}
	if i < 0 {
		i = 0
	}
	a.selected = i
}

// refresh samples rows and outstanding work.
func (a *App) refresh() {
	a.rows = report.Collect(a.doc)
	a.moveTo(a.selected)

	pending := a.ports.Content.NumberInProgress() + a.ports.Scripts.NumberInProgress()
	a.status.SetProgress(report.Summarise(a.rows), pending)

	switch {
	case a.err != nil:
		a.status.SetState(status.StateError)
		a.status.SetMessage(a.err.Error())
	case a.doc == nil:
		a.status.SetState(status.StateWorld)
	case pending == 0 && report.Settled(a.doc):
		a.status.SetState(status.StateSettled)
	default:
		a.status.SetState(status.StateResources)
	}
}

// retrySelected queues the selected field again if its load failed.
func (a *App) retrySelected() tea.Cmd {
	if a.selected >= len(a.rows) {
		return nil
	}
	row := a.rows[a.selected]
	if row.State != domain.LoadFailed {
		return nil
	}
	a.ports.manager(row.Node).URLChanged(row.Node, row.Field)
	return func() tea.Msg {
		return messages.FieldRetried{Node: row.NodeName, Field: row.FieldName}
	}
}

// reload withdraws the current world's loads and loads the world again.
func (a *App) reload() tea.Cmd {
	if a.doc != nil {
		a.ports.Content.StopSceneLoad(a.doc)
		a.ports.Scripts.StopSceneLoad(a.doc)
	}
	a.doc = nil
	a.err = nil
	a.rows = nil
	a.selected = 0
	a.status.SetMessage("")
	a.status.SetState(status.StateWorld)
	return a.loadWorld()
}

// View implements tea.Model.
// It renders the field list and status bar.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("sceneload"))
	b.WriteString(" ")
	b.WriteString(a.styles.Subtitle.Render(a.urls[0]))
	b.WriteString("\n\n")

	help := ""
	if a.showHelp {
		help = a.viewHelp()
	}
	body := a.height - headerLines - 1 - lipgloss.Height(help)

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("Load failed: " + a.err.Error()))
		b.WriteString("\n")
	case a.doc == nil:
		b.WriteString(a.styles.Muted.Render("Loading world..."))
		b.WriteString("\n")
	case len(a.rows) == 0:
		b.WriteString(a.styles.Muted.Render("Scene has no external resources."))
		b.WriteString("\n")
	default:
		b.WriteString(a.viewRows(body))
	}

	if help != "" {
		b.WriteString(help)
		b.WriteString("\n")
	}
	b.WriteString(a.status.View())
	return b.String()
}

// viewRows renders as many rows as fit, keeping the selection visible.
func (a *App) viewRows(height int) string {
	if height < 1 {
		height = 1
	}
	start := 0
	if a.selected >= height {
		start = a.selected - height + 1
	}
	end := start + height
	if end > len(a.rows) {
		end = len(a.rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := a.rows[i]
		name := truncate(strings.Repeat("  ", r.Depth)+r.NodeName, 28)
		cells := fmt.Sprintf("%-28s %-12s ", name, truncate(r.FieldName, 12))
		state := fmt.Sprintf("%-14s", r.State)
		source := truncate(r.Source, a.width-len(cells)-len(state)-1)

		if i == a.selected {
			b.WriteString(a.styles.Selected.Render(cells + state + " " + source))
		} else {
			b.WriteString(a.styles.Normal.Render(cells))
			b.WriteString(a.styles.State(r.State).Render(state))
			b.WriteString(" ")
			b.WriteString(a.styles.Muted.Render(source))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// viewHelp renders the full keybinding help.
func (a *App) viewHelp() string {
	var cols []string
	for _, group := range a.keymap.FullHelp() {
		var lines []string
		for _, binding := range group {
			h := binding.Help()
			lines = append(lines, fmt.Sprintf("%-6s %s", h.Key, h.Desc))
		}
		cols = append(cols, a.styles.Help.PaddingRight(4).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Rows returns the rows from the last refresh.
func (a *App) Rows() []report.Row {
	return a.rows
}

// Selected returns the selected row index.
func (a *App) Selected() int {
	return a.selected
}

// Doc returns the loaded world, or nil.
func (a *App) Doc() driven.WorldDocument {
	return a.doc
}

// Err returns the last world load error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// ShowingHelp returns whether the full help is visible.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// Status returns the status bar.
func (a *App) Status() *status.Bar {
	return a.status
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.status.SetWidth(width)
}
