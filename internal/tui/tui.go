// Package tui provides a Bubble Tea terminal user interface for facematch.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/facematch/internal/album"
	"github.com/handiism/facematch/internal/config"
	"github.com/handiism/facematch/internal/facematch"
	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/match"
	"github.com/handiism/facematch/internal/model"
	"go.uber.org/zap"
)

// LastDirKey is the preference key holding the directory the file picker
// was last used in.
const LastDirKey = "picker.last_dir"

// previewSize is how many matches the library shows per album.
const previewSize = 3

var imageTypes = []string{".jpg", ".jpeg", ".png", ".JPG", ".JPEG", ".PNG"}

// State represents the current UI state.
type State int

const (
	StatePickTarget State = iota
	StatePickComparisons
	StateMatching
	StateResults
	StateSaveAlbum
	StateLibrary
	StateConfirmDelete
	StateConfirmClear
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   facematch.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	picker    filepicker.Model
	nameInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      []LogEntry
	notice    string
	err       error

	// App context, cancelled on quit
	ctx    context.Context
	cancel context.CancelFunc

	// Cancels the running match, if any
	matchCancel context.CancelFunc

	manager *facematch.Manager
	events  <-chan facematch.ProgressEvent

	// Current match
	target      string
	comparisons []string
	outcome     *facematch.Outcome
	saved       bool

	// Library
	albums      []model.Album
	cursor      int
	returnState State

	// Upload progress
	sentBytes  int64
	totalBytes int64

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// events may be nil; when set, progress events read from it are shown
// in the log area.
func NewModel(manager *facematch.Manager, events <-chan facematch.ProgressEvent) Model {
	ti := textinput.New()
	ti.Placeholder = "Album name"
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:     StatePickTarget,
		nameInput: ti,
		spinner:   sp,
		progress:  prog,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		manager:   manager,
		events:    events,
	}
	m.picker = m.newPicker()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for every manager progress event.
	ProgressMsg struct {
		Event facematch.ProgressEvent
	}

	// MatchDoneMsg is sent when a match request finishes.
	MatchDoneMsg struct {
		Outcome *facematch.Outcome
		Err     error
	}

	// SavedMsg is sent when saving an album finishes.
	SavedMsg struct {
		Album *model.Album
		Err   error
	}

	// AlbumsMsg carries a freshly loaded album list.
	AlbumsMsg struct {
		Albums []model.Album
		Err    error
	}

	// LibraryChangedMsg is sent after a delete or clear-all.
	LibraryChangedMsg struct {
		Notice string
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		m.picker.Height = max(msg.Height-18, 5)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 8 logs
		if len(m.logs) > 8 {
			m.logs = m.logs[len(m.logs)-8:]
		}
		cmds = append(cmds, m.waitForEvent())

	case TickMsg:
		if m.state == StateMatching && m.manager != nil {
			m.sentBytes, m.totalBytes = m.manager.UploadProgress()
			var percent float64
			if m.totalBytes > 0 {
				percent = float64(m.sentBytes) / float64(m.totalBytes)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case MatchDoneMsg:
		if m.matchCancel != nil {
			m.matchCancel()
			m.matchCancel = nil
		}
		switch {
		case msg.Err == nil:
			m.outcome = msg.Outcome
			m.saved = false
			m.state = StateResults
		case errors.Is(msg.Err, context.Canceled):
			m.state = StatePickComparisons
			m.notice = "Match cancelled"
		default:
			m.state = StateError
			m.err = msg.Err
		}

	case SavedMsg:
		var dup *album.DuplicateNameError
		switch {
		case msg.Err == nil:
			m.saved = true
			m.state = StateResults
			m.notice = fmt.Sprintf("Saved album %q", msg.Album.Name)
			m.nameInput.Blur()
		case errors.As(msg.Err, &dup):
			m.notice = fmt.Sprintf("An album named %q already exists", dup.Name)
		case errors.Is(msg.Err, facematch.ErrEmptyAlbumName):
			m.notice = "Enter a name for the album"
		default:
			m.state = StateError
			m.err = msg.Err
		}

	case AlbumsMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.albums = msg.Albums
		m.cursor = min(m.cursor, max(len(m.albums)-1, 0))

	case LibraryChangedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.state = StateLibrary
		m.notice = msg.Notice
		cmds = append(cmds, m.loadAlbums())
	}

	// The file picker needs its own directory listing messages.
	if m.state == StatePickTarget || m.state == StatePickComparisons {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.state {
	case StatePickTarget:
		switch key {
		case "q":
			m.cancel()
			return m, tea.Quit
		case "a":
			return m.openLibrary()
		}
		return m.updatePicker(msg)

	case StatePickComparisons:
		switch key {
		case "q":
			m.cancel()
			return m, tea.Quit
		case "x":
			if n := len(m.comparisons); n > 0 {
				m.notice = "Removed " + m.comparisons[n-1]
				m.comparisons = m.comparisons[:n-1]
			}
			return m, nil
		case "t":
			m.state = StatePickTarget
			m.notice = ""
			return m, nil
		case "m":
			if len(m.comparisons) < model.MinComparisons {
				m.notice = describeError(match.ErrTooFewComparisons)
				return m, nil
			}
			m.state = StateMatching
			m.notice = ""
			m.sentBytes, m.totalBytes = 0, 0
			return m, tea.Batch(m.startMatch(), m.spinner.Tick, m.tickProgress())
		}
		return m.updatePicker(msg)

	case StateMatching:
		if key == "esc" && m.matchCancel != nil {
			m.matchCancel()
		}

	case StateResults:
		switch key {
		case "s":
			if m.outcome != nil && len(m.outcome.Result.Matches) > 0 && !m.saved {
				m.state = StateSaveAlbum
				m.notice = ""
				m.nameInput.SetValue("")
				m.nameInput.Focus()
				return m, textinput.Blink
			}
		case "n":
			m.reset()
			return m, m.picker.Init()
		case "a":
			return m.openLibrary()
		case "q":
			m.cancel()
			return m, tea.Quit
		}

	case StateSaveAlbum:
		switch key {
		case "enter":
			return m, m.saveAlbum(m.nameInput.Value())
		case "esc":
			m.state = StateResults
			m.notice = ""
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case StateLibrary:
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.albums)-1 {
				m.cursor++
			}
		case "d":
			if len(m.albums) > 0 {
				m.state = StateConfirmDelete
			}
		case "c":
			m.state = StateConfirmClear
		case "esc", "b":
			m.state = m.returnState
			m.notice = ""
		case "q":
			m.cancel()
			return m, tea.Quit
		}

	case StateConfirmDelete:
		switch key {
		case "y":
			return m, m.deleteAlbum(m.albums[m.cursor].Name)
		case "n", "esc":
			m.state = StateLibrary
		}

	case StateConfirmClear:
		switch key {
		case "y":
			return m, m.clearAll()
		case "n", "esc":
			m.state = StateLibrary
		}

	case StateError:
		switch key {
		case "r":
			m.reset()
			return m, m.picker.Init()
		case "q", "esc":
			m.cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

// updatePicker forwards a key to the file picker and handles selections.
func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.rememberDir()
		m.notice = ""
		if m.state == StatePickTarget {
			m.target = path
			m.comparisons = nil
			m.state = StatePickComparisons
		} else {
			m.addComparison(path)
		}
		return m, cmd
	}

	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.notice = fmt.Sprintf("%s is not a supported image", path)
	}
	return m, cmd
}

func (m *Model) addComparison(path string) {
	if path == m.target || slices.Contains(m.comparisons, path) {
		m.notice = "Already picked " + path
		return
	}
	m.comparisons = append(m.comparisons, path)
}

func (m Model) openLibrary() (tea.Model, tea.Cmd) {
	m.returnState = m.state
	m.state = StateLibrary
	m.notice = ""
	return m, m.loadAlbums()
}

// reset starts a new match, keeping the picker directory.
func (m *Model) reset() {
	m.state = StatePickTarget
	m.target = ""
	m.comparisons = nil
	m.outcome = nil
	m.saved = false
	m.err = nil
	m.notice = ""
	m.logs = nil
	m.picker = m.newPicker()
}

func (m *Model) newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = imageTypes
	fp.AutoHeight = false
	fp.Height = 10
	if m.height > 0 {
		fp.Height = max(m.height-18, 5)
	}
	fp.CurrentDirectory = m.startDir()
	return fp
}

// startDir is the remembered picker directory, or the home directory.
func (m *Model) startDir() string {
	if m.manager != nil {
		if dir, ok := m.manager.Preference(m.ctx, LastDirKey); ok {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func (m *Model) rememberDir() {
	if m.manager == nil {
		return
	}
	_ = m.manager.SetPreference(m.ctx, LastDirKey, m.picker.CurrentDirectory)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent reads the next progress event.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// startMatch copies the picked images and submits them in the background.
func (m *Model) startMatch() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.matchCancel = cancel

	manager := m.manager
	target := m.target
	comparisons := slices.Clone(m.comparisons)
	return func() tea.Msg {
		outcome, err := manager.Match(ctx, target, comparisons)
		return MatchDoneMsg{Outcome: outcome, Err: err}
	}
}

func (m Model) saveAlbum(name string) tea.Cmd {
	manager, ctx, outcome := m.manager, m.ctx, m.outcome
	return func() tea.Msg {
		a, err := manager.SaveAlbum(ctx, name, outcome)
		return SavedMsg{Album: a, Err: err}
	}
}

func (m Model) loadAlbums() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		albums, err := manager.Albums(ctx)
		return AlbumsMsg{Albums: albums, Err: err}
	}
}

func (m Model) deleteAlbum(name string) tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		err := manager.DeleteAlbum(ctx, name, false)
		return LibraryChangedMsg{Notice: fmt.Sprintf("Deleted album %q", name), Err: err}
	}
}

func (m Model) clearAll() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		err := manager.ClearAll(ctx)
		return LibraryChangedMsg{Notice: "All data cleared", Err: err}
	}
}

// describeError turns an error into a message for the user.
func describeError(err error) string {
	var serr *match.ServerError
	var cerr *ioutils.CopyError
	switch {
	case errors.Is(err, match.ErrTooFewComparisons):
		return fmt.Sprintf("Pick at least %d comparison images", model.MinComparisons)
	case errors.Is(err, ioutils.ErrPermissionDenied):
		return "Permission to read the picked image was denied"
	case errors.As(err, &serr):
		return serr.Error()
	case errors.As(err, &cerr):
		return fmt.Sprintf("Could not copy %s: %v", cerr.Source, cerr.Err)
	case err != nil:
		return strings.TrimSpace(err.Error())
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	events := make(chan facematch.ProgressEvent, 64)
	manager, err := facematch.Open(settings, logger, func(e facematch.ProgressEvent) {
		select {
		case events <- e:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer manager.Close()

	p := tea.NewProgram(NewModel(manager, events), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
