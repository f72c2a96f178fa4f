package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/robot-report/pkg/report"
	"github.com/devicelab-dev/robot-report/pkg/result"
)

var statsCommand = &cli.Command{
	Name:      "stats",
	Usage:     "Print aggregate statistics for a result file",
	ArgsUsage: "<output.xml>",
	Description: `Print suite/test/keyword counts and the keyword usage tally
to stdout without writing a report.

Examples:
  robot-report stats output.xml
  robot-report stats output.xml --keyword-limit 10`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "keyword-limit",
			Usage: "Max rows in the keyword usage listing (-1 = all)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to robot-report.yaml",
		},
	},
	Action: runStats,
}

func runStats(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one result file\nUsage: robot-report stats <output.xml>", 1)
	}

	input := c.Args().First()
	if info, err := os.Stat(input); err != nil || info.IsDir() {
		return cli.Exit(fmt.Sprintf("input file '%s' not found", input), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), 1)
	}

	limit := c.Int("keyword-limit")
	if limit == 0 {
		limit = cfg.KeywordLimit
	}
	if limit == 0 {
		limit = 20
	}

	root, err := result.ParseFile(input)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	rep := report.Flatten(root)

	fmt.Printf("Suites:   %d\n", rep.TotalSuites)
	fmt.Printf("Tests:    %d\n", rep.TotalTests)
	fmt.Printf("Keywords: %d\n", rep.TotalKeywords)

	top := rep.TopKeywords(limit)
	if len(top) == 0 {
		return nil
	}

	fmt.Println("\nKeyword usage:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, kc := range top {
		fmt.Fprintf(w, "  %s\t%d\n", kc.Name, kc.Count)
	}
	return w.Flush()
}
