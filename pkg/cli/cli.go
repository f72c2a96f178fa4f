// Package cli provides the command-line interface for robot-report.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/robot-report/pkg/config"
	"github.com/devicelab-dev/robot-report/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging to stderr",
		EnvVars: []string{"ROBOT_REPORT_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Append logs to a file instead of stderr",
		EnvVars: []string{"ROBOT_REPORT_LOG_FILE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "robot-report",
		Usage:   "Generate interactive HTML reports from Robot Framework results",
		Version: Version,
		Description: `robot-report reads Robot Framework output.xml result files and
renders them as static, self-contained HTML reports.

Examples:
  robot-report generate output.xml
  robot-report generate output.xml -o report.html --title "Nightly Run"
  robot-report generate "results/**/output.xml" -o reports/
  robot-report stats output.xml`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") || c.String("log-file") != "" {
				return logger.Init(c.String("log-file"))
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			generateCommand,
			statsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the workspace config. An explicit --config path must
// exist; otherwise the working directory is probed and absence is fine.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}
