package graph

import (
	"fmt"
	"sort"

	"github.com/tatianab/gamebook/internal/models"
)

// Rule names the structural check a book failed.
type Rule string

const (
	RuleNoSections        Rule = "no_sections"
	RuleNoBegin           Rule = "no_begin"
	RuleMultipleBegin     Rule = "multiple_begin"
	RuleInvalidBeginID    Rule = "invalid_begin_id"
	RuleStartNotFound     Rule = "start_not_found"
	RuleMissingSection    Rule = "missing_section"
	RuleNoOptions         Rule = "no_options"
	RuleNoGotoID          Rule = "no_goto_id"
	RuleInvalidTarget     Rule = "invalid_target"
	RuleNoReachableEnding Rule = "no_reachable_ending"
)

// StructuralError reports why a book cannot be played.
type StructuralError struct {
	Rule   Rule
	Reason string
}

func (e *StructuralError) Error() string { return e.Reason }

func fail(rule Rule, format string, args ...any) error {
	return &StructuralError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Result is a book that passed validation.
type Result struct {
	StartID   string
	Reachable map[string]struct{}
}

// IsReachable reports whether id can be reached from the start section.
func (r Result) IsReachable(id string) bool {
	_, ok := r.Reachable[id]
	return ok
}

// ReachableIDs returns the reachable ids in sorted order.
func (r Result) ReachableIDs() []string { return sortedKeys(r.Reachable) }

// Validate checks the part of the book reachable from its single BEGIN section.
// Sections that cannot be reached are never inspected.
func Validate(book *models.Book) (Result, error) {
	var sections []models.Section
	if book != nil {
		sections = book.Sections
	}
	if len(sections) == 0 {
		return Result{}, fail(RuleNoSections, "Book has no sections.")
	}

	var begins []models.Section
	for _, s := range sections {
		if s.IsBegin() {
			begins = append(begins, s)
		}
	}
	switch {
	case len(begins) == 0:
		return Result{}, fail(RuleNoBegin, "Book has no beginning section (BEGIN).")
	case len(begins) > 1:
		return Result{}, fail(RuleMultipleBegin, "Book has more than one beginning section (BEGIN).")
	}

	startID, ok := begins[0].ID.ID()
	if !ok {
		return Result{}, fail(RuleInvalidBeginID, "BEGIN section has invalid id.")
	}

	index := NewIndex(sections)
	if !index.Has(startID) {
		return Result{}, fail(RuleStartNotFound, "Start section id %q not found in sections.", startID)
	}

	reachable := Reach(index, startID)

	endings := 0
	for _, id := range sortedKeys(reachable) {
		section, ok := index.Lookup(id)
		if !ok {
			return Result{}, fail(RuleMissingSection, "Reachable section %q is missing.", id)
		}
		if section.IsEnd() {
			endings++
			continue
		}
		if len(section.Options) == 0 {
			return Result{}, fail(RuleNoOptions, "Reachable non-ending section %q has no options.", id)
		}
		for _, opt := range section.Options {
			target, ok := opt.Target()
			if !ok {
				return Result{}, fail(RuleNoGotoID, "Option in section %q has no gotoId.", id)
			}
			if !index.Has(target) {
				return Result{}, fail(RuleInvalidTarget, "Invalid next section id %q from section %q.", target, id)
			}
		}
	}

	if endings == 0 {
		return Result{}, fail(RuleNoReachableEnding, "Book has no reachable ending section (END).")
	}

	return Result{StartID: startID, Reachable: reachable}, nil
}

// Reach walks the graph depth-first from start and returns every section id it
// can reach. END sections are leaves; edges to unknown or invalid ids are skipped.
func Reach(index Index, start string) map[string]struct{} {
	reachable := make(map[string]struct{})
	stack := []string{start}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := reachable[id]; seen {
			continue
		}

		section, ok := index.Lookup(id)
		if !ok {
			continue
		}
		reachable[id] = struct{}{}

		if section.IsEnd() {
			continue
		}
		for _, opt := range section.Options {
			if target, ok := opt.Target(); ok && index.Has(target) {
				stack = append(stack, target)
			}
		}
	}

	return reachable
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
