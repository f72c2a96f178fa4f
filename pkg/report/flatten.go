package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/devicelab-dev/robot-report/pkg/result"
)

// Flatten walks a parsed result tree and produces the flat, render-ready
// report: per-suite records with ordered tests and filtered step sequences,
// aggregate counts, and the keyword occurrence tally.
//
// The input tree is never mutated.
func Flatten(root *result.Suite) *Report {
	r := &Report{KeywordOccurrences: make(map[string]int)}
	flattenSuite(root, "", r)
	r.TotalSuites = len(r.Suites)
	return r
}

func flattenSuite(s *result.Suite, parent string, r *Report) {
	// Aggregates cover the raw tree regardless of what gets displayed.
	r.TotalTests += len(s.Tests)
	r.TotalKeywords += rawFixtureCount(s.Setup) + rawFixtureCount(s.Teardown)
	for i := range s.Tests {
		t := &s.Tests[i]
		r.TotalKeywords += rawFixtureCount(t.Setup) + rawFixtureCount(t.Teardown)
		for j := range t.Body {
			r.TotalKeywords += rawCount(&t.Body[j])
		}
	}

	countFixture(s.Setup, r.KeywordOccurrences)
	countFixture(s.Teardown, r.KeywordOccurrences)
	for i := range s.Tests {
		t := &s.Tests[i]
		countFixture(t.Setup, r.KeywordOccurrences)
		for j := range t.Body {
			countStep(&t.Body[j], r.KeywordOccurrences)
		}
		countFixture(t.Teardown, r.KeywordOccurrences)
	}

	if ownsTests(s) {
		record := SuiteRecord{
			ID:       s.ID,
			Name:     s.Name,
			Parent:   parent,
			Status:   s.Status,
			Setup:    fixtureRecord(s.Setup),
			Teardown: fixtureRecord(s.Teardown),
			Tests:    make([]TestRecord, 0, len(s.Tests)),
		}
		for i := range s.Tests {
			record.Tests = append(record.Tests, flattenTest(&s.Tests[i]))
		}
		r.Suites = append(r.Suites, record)
	}

	for i := range s.Suites {
		flattenSuite(&s.Suites[i], s.Name, r)
	}
}

// ownsTests reports whether the suite directly or transitively owns a test.
// Pure containers with no tests anywhere beneath them are not reported.
func ownsTests(s *result.Suite) bool {
	if len(s.Tests) > 0 {
		return true
	}
	for i := range s.Suites {
		if ownsTests(&s.Suites[i]) {
			return true
		}
	}
	return false
}

func flattenTest(t *result.Test) TestRecord {
	record := TestRecord{
		ID:       t.ID,
		Name:     t.Name,
		Status:   t.Status,
		Setup:    fixtureRecord(t.Setup),
		Teardown: fixtureRecord(t.Teardown),
	}
	for i := range t.Body {
		flattenStep(&t.Body[i], &record.Steps)
	}
	return record
}

// fixtureRecord resolves a setup or teardown. A fixture that is absent, was
// never executed, or has an empty body yields no record.
func fixtureRecord(s *result.Step) *StepRecord {
	if s == nil || !s.Status.Executed() || len(s.Body) == 0 {
		return nil
	}
	record := &StepRecord{
		Name:     displayName(s.Name),
		Kind:     s.Kind.String(),
		Status:   s.Status,
		Args:     s.Args,
		Duration: formatElapsed(s.Elapsed),
	}
	for i := range s.Body {
		flattenStep(&s.Body[i], &record.Children)
	}
	return record
}

// flattenStep applies the display filtering rules and appends the resulting
// records to out. Containers and filtered names are transparent: their
// children land in the same output sequence, in order, never lost.
func flattenStep(s *result.Step, out *[]StepRecord) {
	if !s.Status.Executed() {
		return
	}

	if s.Kind.Container() {
		for i := range s.Body {
			flattenStep(&s.Body[i], out)
		}
		return
	}

	name := displayName(s.Name)
	if name == "" || isPlaceholder(name) {
		for i := range s.Body {
			flattenStep(&s.Body[i], out)
		}
		return
	}

	record := StepRecord{
		Name:     name,
		Kind:     s.Kind.String(),
		Status:   s.Status,
		Args:     s.Args,
		Duration: formatElapsed(s.Elapsed),
	}
	for i := range s.Body {
		flattenStep(&s.Body[i], &record.Children)
	}
	*out = append(*out, record)
}

func countFixture(s *result.Step, occ map[string]int) {
	if s == nil {
		return
	}
	countStep(s, occ)
}

// countStep tallies keyword usage over the raw tree. Containers are not
// counted but are descended into; a step that never executed is excluded
// together with everything beneath it.
func countStep(s *result.Step, occ map[string]int) {
	if !s.Status.Executed() {
		return
	}
	if !s.Kind.Container() {
		if name := displayName(s.Name); name != "" && !isPlaceholder(name) {
			occ[name]++
		}
	}
	for i := range s.Body {
		countStep(&s.Body[i], occ)
	}
}

func rawFixtureCount(s *result.Step) int {
	if s == nil {
		return 0
	}
	return rawCount(s)
}

// rawCount counts every node of a step subtree once, containers and
// unexecuted steps included. This feeds TotalKeywords, which deliberately
// diverges from the number of records the display filtering keeps.
func rawCount(s *result.Step) int {
	n := 1
	for i := range s.Body {
		n += rawCount(&s.Body[i])
	}
	return n
}

// argSeparator matches Robot's argument separator inside a raw name: a tab
// or a run of two-plus spaces. Single spaces stay part of the keyword name.
var argSeparator = regexp.MustCompile(`\t| {2,}`)

// displayName cuts embedded argument/signature text off a raw step name.
func displayName(raw string) string {
	name := strings.TrimSpace(raw)
	if loc := argSeparator.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	return name
}

// isPlaceholder reports whether the name is a bare variable reference.
func isPlaceholder(name string) bool {
	if len(name) < 2 || name[1] != '{' {
		return false
	}
	switch name[0] {
	case '$', '@', '&', '%':
		return true
	}
	return false
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}
