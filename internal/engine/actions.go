package engine

import "github.com/tatianab/gamebook/internal/models"

// Action is a player or system input to Game.Apply.
type Action interface{ action() }

// Choose follows an option of the current section.
type Choose struct{ Option models.Option }

// TogglePause pauses or resumes the game.
type TogglePause struct{}

// Restart returns to the start section with full health.
type Restart struct{}

// Save asks to bookmark the current section.
type Save struct{}

// SaveResolved reports the outcome of a SaveRequested event.
type SaveResolved struct {
	Request SaveRequested
	Err     error
}

// ToastExpired hides the toast with the given generation, if it is still shown.
type ToastExpired struct{ Generation uint64 }

func (Choose) action()       {}
func (TogglePause) action()  {}
func (Restart) action()      {}
func (Save) action()         {}
func (SaveResolved) action() {}
func (ToastExpired) action() {}

// Event is an observable effect of an action.
type Event interface{ event() }

// ToastShown asks the caller to display a toast and expire it after Toast.Duration.
type ToastShown struct{ Toast Toast }

// NavigationFailed reports a choice whose target could not be followed.
type NavigationFailed struct{ Message string }

// SaveRequested asks the caller to persist progress and answer with SaveResolved.
type SaveRequested struct {
	Ticket  Ticket
	BookID  string
	Section int
}

// SaveFailed reports a save that was rejected locally or by the progress sink.
type SaveFailed struct{ Message string }

// ProgressSaved reports a successful save.
type ProgressSaved struct {
	BookID  string
	Section int
}

type HealthChanged struct {
	From, To int
}

type SectionEntered struct{ ID string }

type EndingReached struct{ ID string }

type GameOver struct{}

func (ToastShown) event()       {}
func (NavigationFailed) event() {}
func (SaveRequested) event()    {}
func (SaveFailed) event()       {}
func (ProgressSaved) event()    {}
func (HealthChanged) event()    {}
func (SectionEntered) event()   {}
func (EndingReached) event()    {}
func (GameOver) event()         {}
