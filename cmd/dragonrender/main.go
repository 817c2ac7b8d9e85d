package main

import (
	"fmt"
	"os"

	"github.com/tauraamui/dragonrender/pkg/log"
)

const usage = `Usage: dragonrender setup [--reset] | probe <input> | render --input <file> [flags]

Run "dragonrender render --help" for render flags.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "setup":
		return runSetup(args[1:])
	case "probe":
		return runProbe(args[1:])
	case "render":
		return runRender(args[1:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}

func init() {
	log.SetLevel(os.Getenv("DRAGON_RENDER_LOGGING_LEVEL"))
}
