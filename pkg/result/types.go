// Package result handles parsing and representation of Robot Framework
// output.xml result files.
package result

import "time"

// Status represents the execution status of a suite, test or step.
type Status string

// Status values as they appear in output.xml.
const (
	StatusPass   Status = "PASS"
	StatusFail   Status = "FAIL"
	StatusSkip   Status = "SKIP"
	StatusNotRun Status = "NOT RUN"
	StatusNotSet Status = "NOT SET"
)

// Executed returns true if the node actually ran.
func (s Status) Executed() bool {
	return s != StatusNotRun && s != StatusNotSet
}

// Kind classifies a step. It is derived from the XML element tag and the
// type attribute on kw elements, never from the step name.
type Kind int

// Kind values.
const (
	KindKeyword   Kind = iota // plain keyword invocation
	KindSetup                 // kw with type="SETUP"
	KindTeardown              // kw with type="TEARDOWN"
	KindBranch                // if/try/group wrappers and their branch arms
	KindLoop                  // for/while
	KindIteration             // iter
)

// Container returns true for control-flow steps that only group other steps.
func (k Kind) Container() bool {
	return k == KindBranch || k == KindLoop || k == KindIteration
}

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindTeardown:
		return "teardown"
	case KindBranch:
		return "branch"
	case KindLoop:
		return "loop"
	case KindIteration:
		return "iteration"
	default:
		return "keyword"
	}
}

// Suite is a named grouping of tests, possibly nested. Ownership runs
// parent-to-child only; the parent back-reference used for display grouping
// is resolved by name during flattening.
type Suite struct {
	ID       string
	Name     string
	Source   string
	Status   Status
	Setup    *Step
	Teardown *Step
	Tests    []Test
	Suites   []Suite
}

// Test is a named, ordered sequence of steps with optional setup/teardown.
type Test struct {
	ID       string
	Name     string
	Status   Status
	Setup    *Step
	Body     []Step
	Teardown *Step
}

// Step is a single keyword invocation or control-flow construct executed
// during a test, setup or teardown. Control-flow steps carry their grouped
// steps in Body just like keywords carry nested calls.
type Step struct {
	Name    string
	Kind    Kind
	Status  Status
	Args    []string
	Tags    []string
	Elapsed time.Duration
	Body    []Step
}
