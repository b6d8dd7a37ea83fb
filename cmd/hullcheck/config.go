package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Config is the command-line configuration of a check run.
type Config struct {
	Dump         bool
	DumpDir      string
	Strict       bool
	Profile      bool
	LoggingLevel string
	CacheDir     string
	Kernel       string
	Files        []string
}

// GenConfig is the configuration of the gen subcommand.
type GenConfig struct {
	Out    string
	Points int
	Seed   int64
	Radius float64
	Gzip   bool
}

var availableLoggingLevels = lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string {
	return l.String()
})

// ParseConfig reads the check flags from args. Usage and problems are
// written to stderr.
func ParseConfig(args []string, stderr io.Writer) (Config, error) {
	var config Config
	fs := flag.NewFlagSet("hullcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: hullcheck [flags] FILE...\n       hullcheck gen [flags]\n\nflags:\n")
		fs.PrintDefaults()
	}

	fs.BoolVar(&config.Dump, "dump", false, "write a snapshot file for every quickhull iteration")
	fs.StringVar(&config.DumpDir, "dump-dir", ".", "directory for -dump snapshots")
	fs.BoolVar(&config.Strict, "strict", false, "treat surface consistency warnings as errors")
	fs.BoolVar(&config.Profile, "profile", false, "write a CPU profile")
	fs.StringVar(&config.LoggingLevel, "log-level", "info", "logging level, one of: "+strings.Join(availableLoggingLevels, ", "))
	fs.StringVar(&config.CacheDir, "cache", "", "hull cache directory for .craft inputs")
	fs.StringVar(&config.Kernel, "kernel", "sdfx", "geometry kernel for .craft inputs, one of: sdfx, manifold")
	if err := fs.Parse(args); err != nil {
		return config, err
	}

	config.LoggingLevel = strings.ToLower(config.LoggingLevel)
	config.Files = fs.Args()

	var problems []error
	if _, err := logrus.ParseLevel(config.LoggingLevel); err != nil {
		problems = append(problems, fmt.Errorf("invalid log level: %q", config.LoggingLevel))
	}
	if config.Kernel != "sdfx" && config.Kernel != "manifold" {
		problems = append(problems, fmt.Errorf("invalid kernel: %q", config.Kernel))
	}
	if len(config.Files) == 0 {
		problems = append(problems, errors.New("no input files"))
	}
	if err := errors.Join(problems...); err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		fs.Usage()
		return config, err
	}
	return config, nil
}

// ParseGenConfig reads the gen subcommand flags from args.
func ParseGenConfig(args []string, stderr io.Writer) (GenConfig, error) {
	var config GenConfig
	fs := flag.NewFlagSet("hullcheck gen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&config.Out, "out", "", "output point cloud file (.gz compresses)")
	fs.IntVar(&config.Points, "points", 5000, "number of points")
	fs.Int64Var(&config.Seed, "seed", 1, "random seed")
	fs.Float64Var(&config.Radius, "radius", 10, "mean radius")
	fs.BoolVar(&config.Gzip, "gz", false, "gzip the output")
	if err := fs.Parse(args); err != nil {
		return config, err
	}
	if strings.HasSuffix(config.Out, ".gz") {
		config.Gzip = true
	}

	var problems []error
	if config.Out == "" {
		problems = append(problems, errors.New("missing -out"))
	}
	if config.Points < 4 {
		problems = append(problems, fmt.Errorf("invalid -points: %d (need at least 4)", config.Points))
	}
	if config.Radius <= 0 {
		problems = append(problems, fmt.Errorf("invalid -radius: %g", config.Radius))
	}
	if err := errors.Join(problems...); err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		fs.PrintDefaults()
		return config, err
	}
	return config, nil
}
