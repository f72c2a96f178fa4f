// Package report builds render-ready records from a parsed Robot Framework
// result tree and renders them as a single static HTML report.
package report

import (
	"sort"

	"github.com/devicelab-dev/robot-report/pkg/result"
)

// Report is the flattened, render-ready form of a result tree.
type Report struct {
	Suites             []SuiteRecord
	TotalSuites        int
	TotalTests         int
	TotalKeywords      int
	KeywordOccurrences map[string]int
}

// SuiteRecord is one reportable suite. Parent is the enclosing suite's name,
// kept for display grouping only; ownership always runs parent-to-child.
type SuiteRecord struct {
	ID       string
	Name     string
	Parent   string
	Status   result.Status
	Setup    *StepRecord
	Teardown *StepRecord
	Tests    []TestRecord
}

// TestRecord is one test with its flattened, filtered step sequence.
type TestRecord struct {
	ID       string
	Name     string
	Status   result.Status
	Setup    *StepRecord
	Steps    []StepRecord
	Teardown *StepRecord
}

// StepRecord is one visible keyword call. Control-flow containers never
// become StepRecords; their children are spliced into the parent sequence.
type StepRecord struct {
	Name     string
	Kind     string
	Status   result.Status
	Args     []string
	Duration string
	Children []StepRecord
}

// KeywordCount is one entry of the keyword usage tally.
type KeywordCount struct {
	Name  string
	Count int
}

// TopKeywords returns the most frequently used keywords, count descending,
// name ascending on ties. limit <= 0 returns all entries.
func (r *Report) TopKeywords(limit int) []KeywordCount {
	counts := make([]KeywordCount, 0, len(r.KeywordOccurrences))
	for name, count := range r.KeywordOccurrences {
		counts = append(counts, KeywordCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
