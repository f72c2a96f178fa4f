package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/robot-report/pkg/result"
)

func kw(name string, body ...result.Step) result.Step {
	return result.Step{Name: name, Kind: result.KindKeyword, Status: result.StatusPass, Body: body}
}

func loop(iters ...result.Step) result.Step {
	return result.Step{Kind: result.KindLoop, Status: result.StatusPass, Body: iters}
}

func iteration(body ...result.Step) result.Step {
	return result.Step{Kind: result.KindIteration, Status: result.StatusPass, Body: body}
}

func branch(body ...result.Step) result.Step {
	return result.Step{Kind: result.KindBranch, Status: result.StatusPass, Body: body}
}

func TestFlatten_LoginExample(t *testing.T) {
	root := &result.Suite{
		ID:     "s1",
		Name:   "Login Tests",
		Status: result.StatusPass,
		Tests: []result.Test{
			{
				ID:     "s1-t1",
				Name:   "Valid Login",
				Status: result.StatusPass,
				Body: []result.Step{
					kw("Open Browser"),
					kw("Enter Credentials"),
					kw("Click Submit"),
				},
			},
		},
	}

	rep := Flatten(root)

	require.Len(t, rep.Suites, 1)
	require.Len(t, rep.Suites[0].Tests, 1)

	test := rep.Suites[0].Tests[0]
	require.Len(t, test.Steps, 3)
	assert.Equal(t, "Open Browser", test.Steps[0].Name)
	assert.Equal(t, "Enter Credentials", test.Steps[1].Name)
	assert.Equal(t, "Click Submit", test.Steps[2].Name)
	assert.Nil(t, test.Setup)
	assert.Nil(t, test.Teardown)

	assert.Equal(t, 1, rep.TotalSuites)
	assert.Equal(t, 1, rep.TotalTests)
	assert.Equal(t, 3, rep.TotalKeywords)
	assert.Equal(t, map[string]int{
		"Open Browser":      1,
		"Enter Credentials": 1,
		"Click Submit":      1,
	}, rep.KeywordOccurrences)
}

func TestFlatten_LoopIsTransparent(t *testing.T) {
	root := &result.Suite{
		Name: "Loops",
		Tests: []result.Test{
			{
				Name:   "Logging Loop",
				Status: result.StatusPass,
				Body: []result.Step{
					loop(
						iteration(kw("Log Message")),
						iteration(kw("Log Message")),
					),
				},
			},
		},
	}

	rep := Flatten(root)

	require.Len(t, rep.Suites, 1)
	test := rep.Suites[0].Tests[0]
	require.Len(t, test.Steps, 2)
	assert.Equal(t, "Log Message", test.Steps[0].Name)
	assert.Equal(t, "Log Message", test.Steps[1].Name)
	assert.Equal(t, 2, rep.KeywordOccurrences["Log Message"])
}

func TestFlatten_EmptyTree(t *testing.T) {
	root := &result.Suite{
		Name: "Empty",
		Suites: []result.Suite{
			{Name: "Also Empty"},
			{Name: "Still Empty", Suites: []result.Suite{{Name: "Deep"}}},
		},
	}

	rep := Flatten(root)

	assert.Empty(t, rep.Suites)
	assert.Equal(t, 0, rep.TotalSuites)
	assert.Equal(t, 0, rep.TotalTests)
	assert.Equal(t, 0, rep.TotalKeywords)
	assert.Empty(t, rep.KeywordOccurrences)
}

func TestFlatten_ContainerSuiteOmittedButDescendantsVisited(t *testing.T) {
	root := &result.Suite{
		Name: "Container",
		Suites: []result.Suite{
			{
				Name: "Leaf",
				Tests: []result.Test{
					{Name: "T1", Status: result.StatusPass, Body: []result.Step{kw("Ping")}},
				},
			},
		},
	}

	rep := Flatten(root)

	// Both the root and Leaf transitively own the test; the root just has
	// no direct tests in its record.
	require.Len(t, rep.Suites, 2)
	assert.Equal(t, "Container", rep.Suites[0].Name)
	assert.Empty(t, rep.Suites[0].Tests)
	assert.Equal(t, "Leaf", rep.Suites[1].Name)
	assert.Equal(t, "Container", rep.Suites[1].Parent)
	assert.Equal(t, 1, rep.TotalTests)
}

func TestFlatten_NotRunExcludedEverywhere(t *testing.T) {
	notRun := result.Step{
		Name: "Skipped Keyword", Kind: result.KindKeyword, Status: result.StatusNotRun,
		Body: []result.Step{kw("Nested Child")},
	}
	root := &result.Suite{
		Name: "S",
		Tests: []result.Test{
			{
				Name:   "T",
				Status: result.StatusPass,
				Body:   []result.Step{kw("Ran"), notRun},
			},
		},
	}

	rep := Flatten(root)

	test := rep.Suites[0].Tests[0]
	require.Len(t, test.Steps, 1)
	assert.Equal(t, "Ran", test.Steps[0].Name)
	assert.NotContains(t, rep.KeywordOccurrences, "Skipped Keyword")
	assert.NotContains(t, rep.KeywordOccurrences, "Nested Child")

	// Raw node counting still sees them.
	assert.Equal(t, 3, rep.TotalKeywords)
}

func TestFlatten_TotalKeywordsCountsRawNodes(t *testing.T) {
	// N=5 nodes, all filtered from display: a loop holding an iteration
	// holding a placeholder holding an unnamed step holding a NOT RUN leaf.
	tree := loop(
		iteration(
			result.Step{
				Name: "${placeholder}", Kind: result.KindKeyword, Status: result.StatusPass,
				Body: []result.Step{
					{
						Kind: result.KindKeyword, Status: result.StatusPass,
						Body: []result.Step{
							{Name: "Ghost", Kind: result.KindKeyword, Status: result.StatusNotRun},
						},
					},
				},
			},
		),
	)
	root := &result.Suite{
		Name:  "S",
		Tests: []result.Test{{Name: "T", Status: result.StatusPass, Body: []result.Step{tree}}},
	}

	rep := Flatten(root)

	assert.Equal(t, 5, rep.TotalKeywords)
	assert.Empty(t, rep.Suites[0].Tests[0].Steps)
	assert.Empty(t, rep.KeywordOccurrences)
}

func TestFlatten_PlaceholderChildrenPromoted(t *testing.T) {
	root := &result.Suite{
		Name: "S",
		Tests: []result.Test{
			{
				Name:   "T",
				Status: result.StatusPass,
				Body: []result.Step{
					{
						Name: "${kw name}", Kind: result.KindKeyword, Status: result.StatusPass,
						Body: []result.Step{kw("Resolved Call")},
					},
				},
			},
		},
	}

	rep := Flatten(root)

	test := rep.Suites[0].Tests[0]
	require.Len(t, test.Steps, 1)
	assert.Equal(t, "Resolved Call", test.Steps[0].Name)
	assert.Equal(t, 1, rep.KeywordOccurrences["Resolved Call"])
}

func TestFlatten_OccurrencesSumAcrossSubsuites(t *testing.T) {
	callOnce := func(name string) result.Test {
		return result.Test{Name: "T", Status: result.StatusPass, Body: []result.Step{kw(name)}}
	}
	root := &result.Suite{
		Name:  "Parent",
		Tests: []result.Test{callOnce("Shared Keyword")},
		Suites: []result.Suite{
			{Name: "Child A", Tests: []result.Test{callOnce("Shared Keyword")}},
			{Name: "Child B", Tests: []result.Test{callOnce("Shared Keyword")}},
		},
	}

	rep := Flatten(root)

	assert.Equal(t, 3, rep.KeywordOccurrences["Shared Keyword"])
	assert.Equal(t, 3, rep.TotalTests)
	assert.Equal(t, 3, rep.TotalSuites)
}

func TestFlatten_FixtureResolution(t *testing.T) {
	setup := result.Step{
		Name: "Prepare Environment", Kind: result.KindSetup, Status: result.StatusPass,
		Body: []result.Step{kw("Start Server")},
	}
	trivialTeardown := result.Step{
		Name: "Close All", Kind: result.KindTeardown, Status: result.StatusPass,
	}
	root := &result.Suite{
		Name:  "S",
		Setup: &setup,
		Tests: []result.Test{
			{
				Name:     "T",
				Status:   result.StatusPass,
				Setup:    &setup,
				Body:     []result.Step{kw("Do Work")},
				Teardown: &trivialTeardown,
			},
		},
	}

	rep := Flatten(root)

	suite := rep.Suites[0]
	require.NotNil(t, suite.Setup)
	assert.Equal(t, "Prepare Environment", suite.Setup.Name)
	assert.Equal(t, "setup", suite.Setup.Kind)
	require.Len(t, suite.Setup.Children, 1)
	assert.Equal(t, "Start Server", suite.Setup.Children[0].Name)

	test := suite.Tests[0]
	require.NotNil(t, test.Setup)
	// A fixture with an empty body is trivial and produces no record.
	assert.Nil(t, test.Teardown)

	// Fixture keywords count as occurrences at both suite and test level.
	assert.Equal(t, 2, rep.KeywordOccurrences["Prepare Environment"])
	assert.Equal(t, 2, rep.KeywordOccurrences["Start Server"])
	assert.Equal(t, 1, rep.KeywordOccurrences["Close All"])

	// Raw counts: suite setup (2) + test setup (2) + body (1) + teardown (1).
	assert.Equal(t, 6, rep.TotalKeywords)
}

func TestFlatten_BranchTransparent(t *testing.T) {
	root := &result.Suite{
		Name: "S",
		Tests: []result.Test{
			{
				Name:   "T",
				Status: result.StatusPass,
				Body: []result.Step{
					branch(
						branch(kw("Taken Path")),
						result.Step{Kind: result.KindBranch, Status: result.StatusNotRun,
							Body: []result.Step{kw("Untaken Path")}},
					),
				},
			},
		},
	}

	rep := Flatten(root)

	test := rep.Suites[0].Tests[0]
	require.Len(t, test.Steps, 1)
	assert.Equal(t, "Taken Path", test.Steps[0].Name)
	assert.NotContains(t, rep.KeywordOccurrences, "Untaken Path")
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Open Browser", "Open Browser"},
		{"Open Browser    https://example.com    chrome", "Open Browser"},
		{"Log\tHello world", "Log"},
		{"  Trimmed Name  ", "Trimmed Name"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, displayName(tc.raw), "raw=%q", tc.raw)
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, isPlaceholder("${var}"))
	assert.True(t, isPlaceholder("@{list}"))
	assert.True(t, isPlaceholder("&{dict}"))
	assert.True(t, isPlaceholder("%{env}"))
	assert.False(t, isPlaceholder("Open Browser"))
	assert.False(t, isPlaceholder("$notavar"))
	assert.False(t, isPlaceholder("x"))
}

func TestTopKeywords(t *testing.T) {
	rep := &Report{KeywordOccurrences: map[string]int{
		"Click": 5, "Log": 5, "Open": 9, "Close": 1,
	}}

	top := rep.TopKeywords(3)
	require.Len(t, top, 3)
	assert.Equal(t, KeywordCount{"Open", 9}, top[0])
	// Ties break by name.
	assert.Equal(t, KeywordCount{"Click", 5}, top[1])
	assert.Equal(t, KeywordCount{"Log", 5}, top[2])

	assert.Len(t, rep.TopKeywords(0), 4)
}
