// Package engine plays a validated book: it resolves option consequences and
// moves a State from section to section in response to player actions.
package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tatianab/gamebook/internal/graph"
	"github.com/tatianab/gamebook/internal/models"
)

// Player-facing messages.
const (
	MsgNoTarget       = "This option has no target section (gotoId)."
	MsgChoiceMade     = "Choice made."
	MsgSaved          = "Your adventure progress has been bookmarked."
	MsgSaveFailed     = "Failed to save progress."
	MsgMissingBookID  = "Cannot save: missing book id."
	MsgMissingSection = "Cannot save: current section id is missing."

	TitleChoiceMade = "Choice Made"
	TitleSaved      = "Progress Saved"
)

// Saver persists the section a player reached.
type Saver interface {
	SaveProgress(ctx context.Context, bookID string, section int) error
}

// Game is a book that has been validated once and can be played any number of times.
type Game struct {
	bookID        string
	book          *models.Book
	index         graph.Index
	result        graph.Result
	err           error
	session       string
	toastDuration time.Duration
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithToastDuration overrides DefaultToastDuration.
func WithToastDuration(d time.Duration) GameOption {
	return func(g *Game) {
		if d > 0 {
			g.toastDuration = d
		}
	}
}

// NewGame indexes and validates a book. A book that fails validation still yields
// a Game, in StatusInvalid, whose Err explains why.
func NewGame(bookID string, book *models.Book, opts ...GameOption) *Game {
	g := &Game{
		bookID:        strings.TrimSpace(bookID),
		book:          book,
		session:       uuid.NewString(),
		toastDuration: DefaultToastDuration,
	}
	for _, opt := range opts {
		opt(g)
	}
	if book != nil {
		g.index = graph.NewIndex(book.Sections)
	}
	g.result, g.err = graph.Validate(book)
	return g
}

// Err returns the validation failure, if any.
func (g *Game) Err() error { return g.err }

func (g *Game) BookID() string { return g.bookID }

func (g *Game) Book() *models.Book { return g.book }

// Session identifies this game instance in save tickets.
func (g *Game) Session() string { return g.session }

// StartID returns the id of the BEGIN section, or "" for an invalid book.
func (g *Game) StartID() string { return g.result.StartID }

// ReachableCount is the number of sections reachable from the start.
func (g *Game) ReachableCount() int { return len(g.result.Reachable) }

// Start returns the initial state: on the start section with full health.
func (g *Game) Start() State {
	s := State{Health: MaxHealth, Visited: map[string]struct{}{}}
	if g.err == nil && g.book != nil {
		s.Visited[g.result.StartID] = struct{}{}
	}
	return s
}

// CurrentID returns the id of the section the player is on.
func (g *Game) CurrentID(s State) string {
	if s.Override != "" {
		return s.Override
	}
	return g.result.StartID
}

// Current returns the section the player is on.
func (g *Game) Current(s State) (models.Section, bool) {
	if !g.playable() {
		return models.Section{}, false
	}
	return g.index.Lookup(g.CurrentID(s))
}

// Status derives the game phase from a state.
func (g *Game) Status(s State) Status {
	switch {
	case g == nil || g.book == nil:
		return StatusLoading
	case g.err != nil:
		return StatusInvalid
	}
	section, ok := g.Current(s)
	switch {
	case !ok:
		return StatusSectionMissing
	case s.Health <= 0:
		return StatusDead
	case section.IsEnd():
		return StatusEnding
	}
	return StatusPlaying
}

// VisitedCount is the number of distinct sections entered, reported as complete
// once the game has ended either way.
func (g *Game) VisitedCount(s State) int {
	if !g.playable() {
		return 0
	}
	switch g.Status(s) {
	case StatusEnding, StatusDead:
		return g.ReachableCount()
	}
	return len(s.Visited)
}

// SectionNumber is the 1-based position of the current section in the book.
func (g *Game) SectionNumber(s State) int {
	if !g.playable() {
		return 0
	}
	return g.book.SectionNumber(g.CurrentID(s))
}

// Apply computes the state that follows an action, together with the events the
// caller has to act on. It never modifies s.
func (g *Game) Apply(s State, a Action) (State, []Event) {
	if !g.playable() {
		return s, nil
	}
	switch a := a.(type) {
	case Choose:
		return g.choose(s, a.Option)
	case TogglePause:
		return g.togglePause(s)
	case Restart:
		return g.restart(s)
	case Save:
		return g.save(s)
	case SaveResolved:
		return g.saveResolved(s, a)
	case ToastExpired:
		if s.Toast.Visible() && s.Toast.Generation == a.Generation {
			s.Toast = Toast{}
		}
		return s, nil
	}
	return s, nil
}

func (g *Game) playable() bool {
	return g != nil && g.book != nil && g.err == nil
}

func (g *Game) choose(s State, opt models.Option) (State, []Event) {
	if s.Paused || s.Health <= 0 {
		return s, nil
	}
	s.NavError, s.SaveError = "", ""

	target, ok := opt.Target()
	if !ok {
		s.NavError = MsgNoTarget
		return s, []Event{NavigationFailed{Message: s.NavError}}
	}
	next, ok := g.index.Lookup(target)
	if !ok {
		s.NavError = fmt.Sprintf("Invalid next section id: %s", target)
		return s, []Event{NavigationFailed{Message: s.NavError}}
	}

	text, ok := Text(opt.Consequence)
	if !ok {
		text = MsgChoiceMade
	}
	s, toast := s.showToast(TitleChoiceMade, text, g.toastDuration)
	events := []Event{ToastShown{Toast: toast}}

	health := ClampHealth(s.Health + Delta(opt.Consequence))
	if health != s.Health {
		events = append(events, HealthChanged{From: s.Health, To: health})
		s.Health = health
	}
	if health <= 0 {
		return s, append(events, GameOver{})
	}

	s.Override = target
	s.Visited = s.withVisited(target)
	events = append(events, SectionEntered{ID: target})
	if next.IsEnd() {
		events = append(events, EndingReached{ID: target})
	}
	return s, events
}

func (g *Game) togglePause(s State) (State, []Event) {
	switch g.Status(s) {
	case StatusDead, StatusEnding:
		return s, nil
	}
	s.Paused = !s.Paused
	return s, nil
}

func (g *Game) restart(s State) (State, []Event) {
	next := g.Start()
	next.Epoch = s.Epoch + 1
	next.toastSeq = s.toastSeq
	return next, nil
}

func (g *Game) ticket(s State) Ticket {
	return Ticket{Session: g.session, Epoch: s.Epoch}
}

func (g *Game) save(s State) (State, []Event) {
	if s.Health <= 0 || s.Saving {
		return s, nil
	}
	s.SaveError = ""

	reject := func(msg string) (State, []Event) {
		s.SaveError = msg
		return s, []Event{SaveFailed{Message: msg}}
	}

	if g.bookID == "" {
		return reject(MsgMissingBookID)
	}
	section, ok := g.Current(s)
	if !ok {
		return reject(MsgMissingSection)
	}
	id, _ := section.ID.ID()
	number, ok := sectionNumber(id)
	if !ok {
		return reject(fmt.Sprintf("Cannot save: section %q is not a number (API expects integer section).", id))
	}

	s.Saving = true
	return s, []Event{SaveRequested{Ticket: g.ticket(s), BookID: g.bookID, Section: number}}
}

func (g *Game) saveResolved(s State, a SaveResolved) (State, []Event) {
	if !s.Saving || a.Request.Ticket != g.ticket(s) || a.Request.BookID != g.bookID {
		return s, nil
	}
	s.Saving = false

	if a.Err != nil {
		msg := strings.TrimSpace(a.Err.Error())
		if msg == "" {
			msg = MsgSaveFailed
		}
		s.SaveError = msg
		return s, []Event{SaveFailed{Message: msg}}
	}

	s, toast := s.showToast(TitleSaved, MsgSaved, g.toastDuration)
	return s, []Event{
		ToastShown{Toast: toast},
		ProgressSaved{BookID: a.Request.BookID, Section: a.Request.Section},
	}
}

// sectionNumber parses a section id as an integer section number.
func sectionNumber(id string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// PerformSave runs a save request against a Saver and returns the action that
// reports its outcome.
func PerformSave(ctx context.Context, saver Saver, req SaveRequested) SaveResolved {
	err := saver.SaveProgress(ctx, req.BookID, req.Section)
	return SaveResolved{Request: req, Err: err}
}
