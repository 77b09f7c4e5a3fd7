package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	cmdcalculate "stage-dashboard/command/calculate"
	cmdimport "stage-dashboard/command/import"
	cmdweb "stage-dashboard/command/web"

	"github.com/joho/godotenv"
)

// Stage progress dashboard over published spreadsheet feeds.
// Usage:
//   stage-dashboard import [-dataset <id> | -all | -file <path> -name <id>] [-data ./data]
//   stage-dashboard calculate -dataset <id> [-stage <name>] [-week all|week1|w2|w3|w4] [-data ./data]
//   stage-dashboard web [-addr :8080] [-ui ./ui/dist] [-data ./data] [-preload]
// Notes:
// - Feeds are listed in the YAML config (CONFIG_PATH, default ./config.yml); without one the
//   built-in yearly feeds are used.
// - A .env file in the working directory is loaded first, for per-dataset token variables.

func main() {
	args := os.Args
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("env.load.error", "error", err)
	}

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		var run func([]string) error
		switch sub {
		case "import":
			run = cmdimport.Run
		case "calculate":
			run = cmdcalculate.Run
		case "web":
			run = cmdweb.Run
		}
		if run != nil {
			if err := run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: stage-dashboard import [-dataset <id> | -all | -file <path>] | calculate -dataset <id> [-stage <s>] [-week <w>] | web [-addr :8080] [-data ./data]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}
