package validator

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"svw.info/ordl/internal/corpus"
	"svw.info/ordl/internal/domain"
)

// Curation thresholds for a single puzzle.
const (
	MinSpanError      = 3 // years; tighter clustering blocks the puzzle
	MinSpanWarn       = 4
	MaxLowFamiliarity = 3
	MinHighFamiliar   = 1
)

// PuzzleReport lists what is wrong with one puzzle of the corpus.
type PuzzleReport struct {
	Number   int      `json:"number"`
	Span     int      `json:"span"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Report is the outcome of checking a whole corpus.
type Report struct {
	Puzzles  []PuzzleReport `json:"puzzles"`
	Warnings []string       `json:"warnings,omitempty"`
}

// OK is true when no puzzle has a blocking issue.
func (r Report) OK() bool {
	for _, p := range r.Puzzles {
		if len(p.Issues) > 0 {
			return false
		}
	}
	return true
}

func (r Report) IssueCount() (issues, warnings int) {
	warnings = len(r.Warnings)
	for _, p := range r.Puzzles {
		issues += len(p.Issues)
		warnings += len(p.Warnings)
	}
	return issues, warnings
}

// Corpus checks every puzzle of c against the curation rules.
func Corpus(c *corpus.Corpus) Report {
	var rep Report
	events := c.Events()
	if rest := len(events) % domain.EventsPerPuzzle; rest != 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d trailing events do not fill a puzzle and are unreachable", rest))
	}
	for n := 1; n <= c.TotalPuzzles(); n++ {
		start := (n - 1) * domain.EventsPerPuzzle
		rep.Puzzles = append(rep.Puzzles, checkPuzzle(n, events[start:start+domain.EventsPerPuzzle]))
	}
	return rep
}

func checkPuzzle(n int, events []domain.Event) PuzzleReport {
	pr := PuzzleReport{Number: n}

	minYear, maxYear := events[0].Year, events[0].Year
	dates := make(map[string]string)
	groups := make(map[string][]string)
	var high, low, tagged int
	for _, e := range events {
		if err := Struct(e); err != nil {
			pr.Issues = append(pr.Issues, fmt.Sprintf("%s: %s", e.ID, fieldErrors(err)))
		}
		if e.Date.Year() != e.Year {
			pr.Issues = append(pr.Issues, fmt.Sprintf("%s: year %d does not match date %s", e.ID, e.Year, e.FullDate))
		}
		key := e.Date.Format("2006-01-02")
		if other, ok := dates[key]; ok {
			pr.Issues = append(pr.Issues, fmt.Sprintf("%s and %s share the date %s", other, e.ID, key))
		}
		dates[key] = e.ID
		if e.RelatedGroup != "" {
			groups[e.RelatedGroup] = append(groups[e.RelatedGroup], e.ID)
		}
		switch e.Familiarity {
		case "high":
			high++
		case "low":
			low++
		}
		if e.Familiarity != "" {
			tagged++
		}
		minYear, maxYear = min(minYear, e.Year), max(maxYear, e.Year)
	}

	for _, g := range slices.Sorted(maps.Keys(groups)) {
		if ids := groups[g]; len(ids) > 1 {
			pr.Issues = append(pr.Issues, fmt.Sprintf("related group %q has multiple events: %s", g, strings.Join(ids, ", ")))
		}
	}

	pr.Span = maxYear - minYear
	switch {
	case pr.Span < MinSpanError:
		pr.Issues = append(pr.Issues, fmt.Sprintf("temporal span critically narrow: %d years (%d-%d)", pr.Span, minYear, maxYear))
	case pr.Span < MinSpanWarn:
		pr.Warnings = append(pr.Warnings, fmt.Sprintf("temporal span narrow: %d years (%d-%d)", pr.Span, minYear, maxYear))
	}

	// Familiarity rules only apply to curated puzzles.
	if tagged > 0 {
		if high < MinHighFamiliar {
			pr.Warnings = append(pr.Warnings, fmt.Sprintf("no anchor event: %d high familiarity events", high))
		}
		if low > MaxLowFamiliarity {
			pr.Warnings = append(pr.Warnings, fmt.Sprintf("many obscure events: %d low familiarity events", low))
		}
	}
	return pr
}

func fieldErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
