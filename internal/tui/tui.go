package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/app"
	"github.com/tatianab/gamebook/internal/config"
	"github.com/tatianab/gamebook/internal/engine"
	"github.com/tatianab/gamebook/internal/models"
	"github.com/tatianab/gamebook/internal/progress"
	"github.com/tatianab/gamebook/internal/source"
)

type sessionState int

const (
	stateSelectBook sessionState = iota
	stateLoading
	stateInvalid
	statePlaying
	stateError
)

// Deps are the collaborators the UI talks to.
type Deps struct {
	Source        source.Source
	Sink          progress.Sink
	Logger        *zap.Logger
	ToastDuration time.Duration
	// BookID, when set, is opened immediately instead of showing the picker.
	BookID string
}

type model struct {
	state  sessionState
	deps   Deps
	logger *zap.Logger

	books     list.Model
	hasBooks  bool
	textInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model

	bookID    string
	game      *engine.Game
	play      engine.State
	cursor    int
	lastSaved *progress.Record
	err       error

	width  int
	height int
}

type bookItem string

func (b bookItem) Title() string       { return string(b) }
func (b bookItem) Description() string { return "" }
func (b bookItem) FilterValue() string { return string(b) }

func newModel(deps Deps) model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Enter a book id..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	books := list.New(nil, delegate, 40, 12)
	books.Title = "Choose a book"
	books.SetFilteringEnabled(false)
	books.SetShowStatusBar(false)

	vp := viewport.New(60, 10)
	vp.KeyMap.Up.SetEnabled(false)
	vp.KeyMap.Down.SetEnabled(false)

	m := model{
		state:     stateSelectBook,
		deps:      deps,
		logger:    deps.Logger.Named("TUI"),
		books:     books,
		textInput: ti,
		spinner:   sp,
		viewport:  vp,
	}
	if deps.BookID != "" {
		m.state = stateLoading
		m.bookID = deps.BookID
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.deps.BookID != "" {
		return tea.Batch(m.spinner.Tick, m.loadBook(m.deps.BookID))
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.listBooks())
}

type booksListedMsg struct {
	ids []string
	err error
}

type bookLoadedMsg struct {
	bookID string
	book   *models.Book
	saved  *progress.Record
	err    error
}

type saveResolvedMsg struct {
	action engine.SaveResolved
}

type toastExpiredMsg struct {
	session    string
	generation uint64
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.books.SetSize(msg.Width-4, msg.Height-4)
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height/3, 5)
		m.refreshSection()
		return m, nil

	case booksListedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to list books", zap.Error(msg.err))
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.ids))
		for _, id := range msg.ids {
			items = append(items, bookItem(id))
		}
		m.hasBooks = len(items) > 0
		return m, m.books.SetItems(items)

	case bookLoadedMsg:
		if m.state != stateLoading || msg.bookID != m.bookID {
			return m, nil
		}
		return m.startGame(msg), nil

	case saveResolvedMsg:
		return m.apply(msg.action)

	case toastExpiredMsg:
		if m.game == nil || m.game.Session() != msg.session {
			return m, nil
		}
		return m.apply(engine.ToastExpired{Generation: msg.generation})

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == stateSelectBook && !m.hasBooks {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectBook:
		return m.handleSelectKey(msg)

	case statePlaying:
		return m.handlePlayKey(msg)

	case stateInvalid, stateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "b", "enter":
			return m.backToPicker()
		}
	}
	return m, nil
}

func (m model) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return m, tea.Quit
	}
	if m.hasBooks {
		if msg.Type == tea.KeyEnter {
			if item, ok := m.books.SelectedItem().(bookItem); ok {
				return m.beginLoad(string(item))
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.books, cmd = m.books.Update(msg)
		return m, cmd
	}

	if msg.Type == tea.KeyEnter {
		id := m.textInput.Value()
		if id == "" {
			return m, nil
		}
		m.textInput.Reset()
		return m.beginLoad(id)
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	section, _ := m.game.Current(m.play)
	options := section.Options

	switch key := msg.String(); key {
	case "q", "esc":
		return m, tea.Quit
	case "b":
		return m.backToPicker()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.canChoose() && m.cursor < len(options) {
			return m.apply(engine.Choose{Option: options[m.cursor]})
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if m.canChoose() && i < len(options) {
			m.cursor = i
			return m.apply(engine.Choose{Option: options[i]})
		}
	case "p":
		return m.apply(engine.TogglePause{})
	case "r":
		return m.apply(engine.Restart{})
	case "s":
		return m.apply(engine.Save{})
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// canChoose reports whether the options of the current section are offered.
func (m model) canChoose() bool {
	return m.game.Status(m.play) == engine.StatusPlaying
}

func (m model) beginLoad(bookID string) (tea.Model, tea.Cmd) {
	m.state = stateLoading
	m.bookID = bookID
	m.game = nil
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.loadBook(bookID))
}

func (m model) backToPicker() (tea.Model, tea.Cmd) {
	m.state = stateSelectBook
	m.game = nil
	m.play = engine.State{}
	m.bookID = ""
	m.err = nil
	m.lastSaved = nil
	return m, m.listBooks()
}

func (m model) startGame(msg bookLoadedMsg) model {
	if msg.err != nil {
		m.err = msg.err
		m.state = stateError
		m.logger.Warn("Failed to load book", zap.String("bookID", msg.bookID), zap.Error(msg.err))
		return m
	}

	m.game = engine.NewGame(msg.bookID, msg.book, engine.WithToastDuration(m.deps.ToastDuration))
	m.play = m.game.Start()
	m.cursor = 0
	m.lastSaved = msg.saved
	if err := m.game.Err(); err != nil {
		m.state = stateInvalid
		m.logger.Info("Book failed validation", zap.String("bookID", msg.bookID), zap.String("reason", err.Error()))
		return m
	}
	m.state = statePlaying
	m.logger.Info("Game started",
		zap.String("bookID", msg.bookID),
		zap.String("startID", m.game.StartID()),
		zap.Int("reachable", m.game.ReachableCount()),
	)
	m.refreshSection()
	return m
}

// apply runs an action through the state machine and turns its events into commands.
func (m model) apply(a engine.Action) (tea.Model, tea.Cmd) {
	if m.game == nil {
		return m, nil
	}
	var events []engine.Event
	m.play, events = m.game.Apply(m.play, a)

	var cmds []tea.Cmd
	for _, ev := range events {
		switch ev := ev.(type) {
		case engine.ToastShown:
			cmds = append(cmds, m.expireToast(ev.Toast))
		case engine.SaveRequested:
			cmds = append(cmds, m.spinner.Tick, m.save(ev))
		case engine.SectionEntered:
			m.logger.Debug("Section entered", zap.String("bookID", m.bookID), zap.String("sectionID", ev.ID))
		case engine.HealthChanged:
			m.logger.Debug("Health changed", zap.Int("from", ev.From), zap.Int("to", ev.To))
		case engine.GameOver:
			m.logger.Info("Game over", zap.String("bookID", m.bookID))
		case engine.EndingReached:
			m.logger.Info("Ending reached", zap.String("bookID", m.bookID), zap.String("sectionID", ev.ID))
		case engine.NavigationFailed:
			m.logger.Warn("Navigation failed", zap.String("bookID", m.bookID), zap.String("reason", ev.Message))
		case engine.SaveFailed:
			m.logger.Warn("Save failed", zap.String("bookID", m.bookID), zap.String("reason", ev.Message))
		case engine.ProgressSaved:
			m.lastSaved = &progress.Record{BookID: ev.BookID, Section: ev.Section, SavedAt: time.Now()}
		}
	}

	switch a.(type) {
	case engine.Choose, engine.Restart:
		m.cursor = 0
		m.refreshSection()
	}
	return m, tea.Batch(cmds...)
}

func (m *model) refreshSection() {
	if m.game == nil {
		return
	}
	m.viewport.SetContent(m.sectionText())
	m.viewport.GotoTop()
}

func (m model) listBooks() tea.Cmd {
	lister, ok := m.deps.Source.(source.Lister)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ids, err := lister.ListBooks(context.Background())
		return booksListedMsg{ids: ids, err: err}
	}
}

func (m model) loadBook(bookID string) tea.Cmd {
	src := m.deps.Source
	loader, _ := m.deps.Sink.(progress.Loader)
	return func() tea.Msg {
		ctx := context.Background()
		book, err := src.LoadBook(ctx, bookID)
		if err != nil {
			return bookLoadedMsg{bookID: bookID, err: err}
		}
		msg := bookLoadedMsg{bookID: bookID, book: book}
		if loader != nil {
			if rec, err := loader.Load(ctx, bookID); err == nil {
				msg.saved = &rec
			}
		}
		return msg
	}
}

func (m model) save(req engine.SaveRequested) tea.Cmd {
	sink := m.deps.Sink
	return func() tea.Msg {
		if sink == nil {
			return saveResolvedMsg{engine.SaveResolved{Request: req, Err: errors.New("progress saving is not configured")}}
		}
		return saveResolvedMsg{engine.PerformSave(context.Background(), sink, req)}
	}
}

func (m model) expireToast(t engine.Toast) tea.Cmd {
	session := m.game.Session()
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{session: session, generation: t.Generation}
	})
}

// Run starts the UI with the given collaborators.
func Run(deps Deps) error {
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Start loads the configuration from the environment and runs the UI.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	return Run(Deps{
		Source:        a.Source,
		Sink:          a.Sink,
		Logger:        a.Logger,
		ToastDuration: cfg.ToastDuration,
	})
}
