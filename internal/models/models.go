package models

import "strings"

// Section types recognised by the reader. Anything else is an ordinary section.
const (
	SectionBegin = "BEGIN"
	SectionEnd   = "END"
)

// Consequence types.
const (
	LoseHealth = "LOSE_HEALTH"
	GainHealth = "GAIN_HEALTH"
	Health     = "HEALTH"
)

// DefaultOptionLabel is shown for options without a description.
const DefaultOptionLabel = "Continue"

// Book is a branching story: an ordered list of sections linked by options.
type Book struct {
	Title      string    `yaml:"title,omitempty" json:"title,omitempty"`
	Author     string    `yaml:"author,omitempty" json:"author,omitempty"`
	Difficulty string    `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Type       string    `yaml:"type,omitempty" json:"type,omitempty"`
	Sections   []Section `yaml:"sections" json:"sections"`
}

// Section is one page of the book.
type Section struct {
	ID      Scalar   `yaml:"id" json:"id"`
	Text    string   `yaml:"text,omitempty" json:"text,omitempty"`
	Type    string   `yaml:"type,omitempty" json:"type,omitempty"`
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`
}

// Option is a choice leading from one section to another.
type Option struct {
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	GotoID      Scalar       `yaml:"gotoId,omitempty" json:"gotoId,omitempty"`
	Consequence *Consequence `yaml:"consequence,omitempty" json:"consequence,omitempty"`
}

// Consequence is the effect attached to an option.
type Consequence struct {
	Type  string `yaml:"type,omitempty" json:"type,omitempty"`
	Value Scalar `yaml:"value,omitempty" json:"value,omitempty"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
}

// NormalizeType trims and uppercases a section or consequence type tag.
func NormalizeType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// Kind returns the normalised section type.
func (s Section) Kind() string { return NormalizeType(s.Type) }

func (s Section) IsBegin() bool { return s.Kind() == SectionBegin }

func (s Section) IsEnd() bool { return s.Kind() == SectionEnd }

// Label returns the option's display label.
func (o Option) Label() string {
	if d := strings.TrimSpace(o.Description); d != "" {
		return d
	}
	return DefaultOptionLabel
}

// Target returns the normalised id of the section the option leads to.
func (o Option) Target() (string, bool) { return o.GotoID.ID() }

// SectionNumber returns the 1-based position of the first section with the given
// id, or 0 when no section matches.
func (b *Book) SectionNumber(id string) int {
	if b == nil {
		return 0
	}
	for i, s := range b.Sections {
		if sid, ok := s.ID.ID(); ok && sid == id {
			return i + 1
		}
	}
	return 0
}
