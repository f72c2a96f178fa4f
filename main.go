package main

import "github.com/devicelab-dev/robot-report/pkg/cli"

func main() {
	cli.Execute()
}
