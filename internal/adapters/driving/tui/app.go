package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsync/internal/core/domain"
)

// statusInterval is how often the dashboard refreshes the watcher snapshot.
const statusInterval = 2 * time.Second

// historyLimit caps how many recent runs each refresh pulls.
const historyLimit = 20

// App is the activity dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the dashboard keybindings.
	keys *keymap.KeyMap

	// statusBar shows watcher state, tenant and pending counts.
	statusBar *status.Bar

	// activity is the scrolling feed of recent index and
	// reconcile results.
	activity *list.ActivityList

	// watchActive mirrors the last watcher snapshot.
	watchActive bool

	// reconciling guards against overlapping manual runs.
	reconciling bool

	// showHelp toggles the help pane.
	showHelp bool

	// seenRuns dedupes history entries across refreshes.
	seenRuns map[string]bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new dashboard with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keys:      keys,
		statusBar: status.NewBar(s, keys),
		activity:  list.NewActivityList(s),
		seenRuns:  make(map[string]bool),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("docsync - Document Sync"),
		a.refreshCmd(),
		a.tickCmd(),
	}
	if cmd := a.loadTenantCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := a.historyCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// tickCmd schedules the next dashboard refresh.
func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return messages.StatusTicked{}
	})
}

// refreshCmd pulls a watcher snapshot.
func (a *App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		snapshot := a.ports.Watch.Status()
		return messages.WatchStatusLoaded{
			Root:    snapshot.Root,
			Active:  snapshot.Active,
			Pending: snapshot.Pending,
		}
	}
}

// historyCmd pulls recent reconciliation runs.
func (a *App) historyCmd() tea.Cmd {
	if a.ports.History == nil {
		return nil
	}
	return func() tea.Msg {
		runs, err := a.ports.History.History(a.ctx, historyLimit)
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

// loadTenantCmd resolves the tenant label for the status bar.
func (a *App) loadTenantCmd() tea.Cmd {
	if a.ports.Settings == nil {
		return nil
	}
	return func() tea.Msg {
		settings, err := a.ports.Settings.Get()
		if err != nil {
			return messages.TenantLoaded{Err: err}
		}
		return messages.TenantLoaded{
			Tenant: fmt.Sprintf("%s:%s", settings.Project.Name, settings.Project.Branch),
		}
	}
}

// reconcileCmd runs a manual drift repair.
func (a *App) reconcileCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := a.ports.Reconcile.Run(a.ctx)
		return messages.ReconcileCompleted{Report: report, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.statusBar.SetWidth(msg.Width)
		a.activity.SetDimensions(msg.Width, msg.Height-4)
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case messages.StatusTicked:
		cmds := []tea.Cmd{a.refreshCmd(), a.tickCmd()}
		if cmd := a.historyCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case messages.WatchStatusLoaded:
		a.watchActive = msg.Active
		a.statusBar.SetPending(msg.Pending)
		if !a.reconciling && a.statusBar.State() != status.StateError {
			a.applyWatchState()
		}
		return a, nil

	case messages.TenantLoaded:
		if msg.Err == nil && msg.Tenant != "" {
			a.statusBar.SetTenant(msg.Tenant)
		}
		return a, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.appendRuns(msg.Runs)
		return a, nil

	case messages.ReconcileCompleted:
		a.reconciling = false
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			a.activity.Append(list.Entry{
				At:   time.Now(),
				Kind: list.EntryError,
				Text: fmt.Sprintf("reconcile failed: %v", msg.Err),
			})
			return a, nil
		}
		a.applyWatchState()
		if msg.Report != nil {
			a.activity.Append(reconcileEntry(msg.Report))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// updateKey handles key presses.
func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keys.Quit):
		return a, tea.Quit

	case keymap.Matches(keyStr, a.keys.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case keymap.Matches(keyStr, a.keys.Back):
		a.showHelp = false
		return a, nil

	case keymap.Matches(keyStr, a.keys.Reconcile):
		if a.reconciling {
			return a, nil
		}
		a.reconciling = true
		a.statusBar.SetState(status.StateReconciling)
		return a, a.reconcileCmd()

	default:
		var cmd tea.Cmd
		a.activity, cmd = a.activity.Update(msg)
		return a, cmd
	}
}

// applyWatchState sets the status bar to match the watcher snapshot.
func (a *App) applyWatchState() {
	if a.watchActive {
		a.statusBar.SetState(status.StateWatching)
	} else {
		a.statusBar.SetState(status.StateIdle)
	}
}

// appendRuns adds unseen history entries to the feed, oldest first
// so the newest run ends up at the top.
func (a *App) appendRuns(runs []domain.ReconcileRun) {
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		if run.ID == "" || a.seenRuns[run.ID] {
			continue
		}
		a.seenRuns[run.ID] = true
		a.activity.Append(runEntry(run))
	}
}

// runEntry formats a recorded reconciliation run as a feed entry.
func runEntry(run domain.ReconcileRun) list.Entry {
	entry := list.Entry{At: run.EndedAt, Kind: list.EntryChange}
	switch {
	case !run.Success:
		entry.Kind = list.EntryError
		entry.Text = fmt.Sprintf("reconcile failed: %s", run.Error)
	case run.NewCount+run.ModifiedCount+run.DeletedCount == 0:
		entry.Kind = list.EntryInfo
		entry.Text = "reconcile: in sync"
	default:
		entry.Text = fmt.Sprintf("reconcile: %d new, %d modified, %d deleted",
			run.NewCount, run.ModifiedCount, run.DeletedCount)
	}
	return entry
}

// reconcileEntry formats a manual reconcile report as a feed entry.
func reconcileEntry(report *domain.ReconcileReport) list.Entry {
	entry := list.Entry{At: time.Now(), Kind: list.EntryChange}
	if report.InSync() {
		entry.Kind = list.EntryInfo
		entry.Text = fmt.Sprintf("reconcile: in sync (%d files)", report.ScannedFiles)
		return entry
	}
	entry.Text = fmt.Sprintf("reconcile: %d new, %d modified, %d deleted",
		report.NewCount, report.ModifiedCount, report.DeletedCount)
	return entry
}

// View implements tea.Model.
// It renders the dashboard as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("docsync")

	var body string
	if a.showHelp {
		body = a.viewHelp()
	} else {
		body = a.activity.View()
	}

	content := title + "\n\n" + body

	gap := a.height - lipgloss.Height(content) - 1
	if gap < 1 {
		gap = 1
	}

	return content + strings.Repeat("\n", gap) + a.statusBar.View()
}

// viewHelp renders the help pane.
func (a *App) viewHelp() string {
	return `Help

Dashboard:
  r           Run reconciliation now
  j/k, ↑/↓    Scroll activity
  ?           Toggle help
  esc         Close help
  q, ctrl+c   Quit

The dashboard refreshes the watcher status every few seconds and
lists recent indexing and reconciliation activity.

[esc] close help`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Reconciling reports whether a manual run is in flight.
func (a *App) Reconciling() bool {
	return a.reconciling
}

// ShowingHelp reports whether the help pane is open.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// ActivityCount returns the number of feed entries.
func (a *App) ActivityCount() int {
	return a.activity.Count()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.activity.SetDimensions(width, height-4)
}
