package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/gamebook/internal/engine"
)

const (
	deathText    = "Your health reached zero. The adventure is over."
	noTextText   = "No text provided for this section."
	noOptionText = "No options available for this section."
)

var (
	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	consequenceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA")).
				Italic(true).
				PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FAF5F")).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D75F5F")).
			Foreground(lipgloss.Color("#FF8787")).
			Padding(0, 1)
)

func (m model) View() string {
	var s string

	switch m.state {
	case stateSelectBook:
		if m.hasBooks {
			s = m.books.View()
		} else {
			s = fmt.Sprintf(
				"Welcome to the Gamebook Reader!\n\n%s\n\n%s",
				"Which book do you want to play?",
				m.textInput.View(),
			)
		}
		s += "\n\n" + helpStyle.Render("enter: open, esc: quit")

	case stateLoading:
		s = fmt.Sprintf("\n  %s Loading %q... please wait.\n", m.spinner.View(), m.bookID)

	case stateInvalid:
		s = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.pageTitle()),
			"",
			alertStyle.Render("Invalid book structure\n"+m.game.Err().Error()),
			"",
			helpStyle.Render("b: choose another book, q: quit"),
		)

	case statePlaying:
		s = m.playView()

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\n%s", m.err, helpStyle.Render("b: choose another book, q: quit"))
	}

	return "\n" + s + "\n"
}

func (m model) pageTitle() string {
	if m.game != nil && m.game.Book() != nil && m.game.Book().Title != "" {
		return m.game.Book().Title
	}
	if m.bookID != "" {
		return m.bookID
	}
	return "Game"
}

func (m model) playView() string {
	status := m.game.Status(m.play)

	var banners []string
	if t := m.play.Toast; t.Visible() {
		banners = append(banners, toastStyle.Render(t.Title+"\n"+t.Message))
	}
	if m.play.SaveError != "" {
		banners = append(banners, alertStyle.Render("Save error\n"+m.play.SaveError))
	}
	if m.play.NavError != "" {
		banners = append(banners, alertStyle.Render("Navigation error\n"+m.play.NavError))
	}

	if status == engine.StatusSectionMissing {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.pageTitle()),
			"",
			alertStyle.Render("Cannot render section\nCurrent section id is missing or not found in the book."),
			"",
			helpStyle.Render("r: restart, b: books, q: quit"),
		)
	}

	story := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.heading()),
		"",
		m.viewport.View(),
		"",
		m.choicesView(status),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, story, m.renderState(status))

	parts := []string{titleStyle.Render(m.pageTitle()), ""}
	parts = append(parts, banners...)
	parts = append(parts, main, "", helpStyle.Render(m.helpText(status)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) heading() string {
	switch m.game.Status(m.play) {
	case engine.StatusDead:
		return "Game Over"
	case engine.StatusEnding:
		return "The End"
	}
	if n := m.game.SectionNumber(m.play); n > 0 {
		return fmt.Sprintf("Section %d", n)
	}
	return "What do you choose?"
}

// sectionText is the body shown in the viewport.
func (m model) sectionText() string {
	if m.game.Status(m.play) == engine.StatusDead {
		return deathText
	}
	section, ok := m.game.Current(m.play)
	if !ok || strings.TrimSpace(section.Text) == "" {
		return noTextText
	}
	width := max(m.viewport.Width-2, 20)
	return lipgloss.NewStyle().Width(width).Render(section.Text)
}

func (m model) choicesView(status engine.Status) string {
	switch status {
	case engine.StatusDead:
		return "Game Over"
	case engine.StatusEnding:
		return "Adventure completed"
	}

	section, _ := m.game.Current(m.play)
	if len(section.Options) == 0 {
		return disabledStyle.Render(noOptionText)
	}

	var b strings.Builder
	b.WriteString("What do you choose?\n\n")
	for i, opt := range section.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt.Label())
		switch {
		case m.play.Paused:
			b.WriteString(disabledStyle.Render("  " + line))
		case i == m.cursor:
			b.WriteString(choiceStyle.Render("> " + line))
		default:
			b.WriteString(optionStyle.Render("  " + line))
		}
		b.WriteString("\n")
		if text, ok := engine.Text(opt.Consequence); ok {
			b.WriteString(consequenceStyle.Render(text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m model) renderState(status engine.Status) string {
	section := titleStyle.Render("SECTION") + "\n" + m.game.CurrentID(m.play) + "\n\n"

	stats := titleStyle.Render("STATS") + "\n"
	stats += fmt.Sprintf("HP: %d/%d\n", engine.ClampHealth(m.play.Health), engine.MaxHealth)
	if reachable := m.game.ReachableCount(); reachable > 0 {
		stats += fmt.Sprintf("Progress: %d/%d\n", m.game.VisitedCount(m.play), reachable)
	}
	if m.play.Paused {
		stats += "Paused\n"
	}
	if m.play.Saving {
		stats += "Saving...\n"
	}
	if status == engine.StatusPlaying && m.lastSaved != nil {
		stats += fmt.Sprintf("\nLast save: section %d\n", m.lastSaved.Section)
	}

	return stateStyle.Render(section + stats)
}

func (m model) helpText(status engine.Status) string {
	switch status {
	case engine.StatusDead, engine.StatusEnding:
		return "r: restart, b: books, q: quit"
	}
	pause := "p: pause"
	if m.play.Paused {
		pause = "p: resume"
	}
	return "up/down or 1-9: choose, enter: confirm, " + pause + ", s: save, r: restart, b: books, q: quit"
}
