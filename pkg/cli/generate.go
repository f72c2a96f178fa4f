package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/devicelab-dev/robot-report/pkg/logger"
	"github.com/devicelab-dev/robot-report/pkg/report"
	"github.com/devicelab-dev/robot-report/pkg/result"
)

const defaultMaxWorkers = 4

var generateCommand = &cli.Command{
	Name:      "generate",
	Aliases:   []string{"gen"},
	Usage:     "Generate HTML reports from Robot Framework output.xml files",
	ArgsUsage: "<output.xml|glob>...",
	Description: `Generate one static HTML report per input result file.

With a single input the report is written to --output (default: ` + report.DefaultOutputPath + `).
With multiple inputs (several arguments or a glob pattern) --output names a
directory and each report is written as <name>.html inside it.

Examples:
  robot-report generate output.xml
  robot-report generate output.xml -o report.html
  robot-report generate "results/**/output.xml" -o reports/`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output HTML file (single input) or directory (multiple inputs)",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Report title",
		},
		&cli.IntFlag{
			Name:  "keyword-limit",
			Usage: "Max rows in the keyword usage table",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to robot-report.yaml",
		},
		&cli.IntFlag{
			Name:  "max-workers",
			Usage: "Parallel report generation bound (batch mode)",
		},
	},
	Action: runGenerate,
}

func runGenerate(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("no input file specified\nUsage: robot-report generate <output.xml> [-o report.html]", 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), 1)
	}

	inputs, err := resolveInputs(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	title := firstNonEmpty(c.String("title"), cfg.Title)
	output := firstNonEmpty(c.String("output"), cfg.Output)
	limit := c.Int("keyword-limit")
	if limit == 0 {
		limit = cfg.KeywordLimit
	}

	if len(inputs) == 1 {
		return generateOne(inputs[0], report.HTMLConfig{
			OutputPath:   output,
			Title:        title,
			KeywordLimit: limit,
		})
	}

	workers := c.Int("max-workers")
	if workers == 0 {
		workers = cfg.MaxWorkers
	}
	if workers <= 0 {
		workers = defaultMaxWorkers
	}

	return generateBatch(inputs, output, title, limit, workers)
}

// generateOne renders a single report and logs where it went.
func generateOne(input string, cfg report.HTMLConfig) error {
	root, err := result.ParseFile(input)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := report.GenerateHTML(root, cfg); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	path := cfg.OutputPath
	if path == "" {
		path = report.DefaultOutputPath
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	logger.Info("report written: %s", path)
	fmt.Printf("HTML report created at: %s\n", path)
	return nil
}

// generateBatch renders reports for independent inputs concurrently.
// Inputs share nothing; one failed parse fails the run without touching
// the other outputs.
func generateBatch(inputs []string, outDir, title string, limit, workers int) error {
	if outDir == "" {
		outDir = "reports"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return cli.Exit(fmt.Sprintf("failed to create output directory: %v", err), 1)
	}

	outputs := outputNames(inputs, outDir)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range inputs {
		input, output := inputs[i], outputs[i]
		g.Go(func() error {
			root, err := result.ParseFile(input)
			if err != nil {
				return err
			}
			if err := report.GenerateHTML(root, report.HTMLConfig{
				OutputPath:   output,
				Title:        title,
				KeywordLimit: limit,
			}); err != nil {
				return err
			}
			logger.Info("report written: %s", output)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("%d HTML reports created in: %s\n", len(inputs), outDir)
	return nil
}

// resolveInputs expands glob patterns and verifies plain paths exist.
func resolveInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if containsGlobMeta(arg) {
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern %q", arg)
			}
			inputs = append(inputs, matches...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("input file '%s' not found", arg)
		}
		inputs = append(inputs, arg)
	}
	return inputs, nil
}

func containsGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// outputNames derives one report filename per input. Robot results are
// typically all named output.xml, so the parent directory names the report
// when the stem is not distinctive; remaining collisions get a numeric
// suffix.
func outputNames(inputs []string, outDir string) []string {
	seen := make(map[string]int, len(inputs))
	outputs := make([]string, len(inputs))
	for i, input := range inputs {
		base := filepath.Base(input)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if stem == "output" {
			if dir := filepath.Base(filepath.Dir(input)); dir != "." && dir != string(filepath.Separator) {
				stem = dir
			}
		}

		name := stem + ".html"
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s-%d.html", stem, n+1)
		} else {
			seen[name] = 1
		}
		outputs[i] = filepath.Join(outDir, name)
	}
	return outputs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
