// Command dtmf renders, plays and serves DTMF keypad sequences.
//
//	dtmf [-config file] render  [flags] -o out.wav
//	dtmf [-config file] play    [flags]
//	dtmf [-config file] plan    [flags]
//	dtmf [-config file] overlay [flags] -bg background.mp3 -o out.wav
//	dtmf [-config file] serve
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/faiface/dtmf/internal/config"
	"go.uber.org/zap"
)

type command struct {
	name  string
	usage string
	run   func(cfg config.Config, log *zap.Logger, args []string) error
}

var commands = []command{
	{"render", "write a sequence to a WAVE or raw PCM file", runRender},
	{"play", "play a sequence through the speaker", runPlay},
	{"plan", "print the segment plan of a sequence", runPlan},
	{"overlay", "mix a sequence into a background recording", runOverlay},
	{"serve", "serve rendered sequences over HTTP", runServe},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: dtmf [-config file] <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.usage)
	}
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", os.Getenv("DTMF_CONFIG"), "YAML configuration file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(cfg, log.Named(name), args); err != nil {
			log.Error("command failed", zap.String("command", name), zap.Error(err))
			log.Sync()
			os.Exit(1)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "dtmf: unknown command %q\n", name)
	usage()
	os.Exit(2)
}

func newLogger(c config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}
