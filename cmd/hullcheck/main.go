// Command hullcheck replays quickhull on saved point clouds and craft
// descriptions, for timing and for chasing down bad hulls.
//
// Usage:
//
//	hullcheck [-dump] [-dump-dir D] [-strict] [-profile] [-log-level L] [-cache DIR] FILE...
//	hullcheck gen -out FILE [-points N] [-seed S] [-radius R] [-gz]
//
// Point cloud files hold an int32 count followed by float32 xyz triples and
// may be gzipped (.gz). Files ending in .craft are evaluated and meshed
// first. The exit status is 1 if any input failed.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/crafthull/internal/logging"
	"github.com/pkg/profile"
)

var log = logging.Named("hullcheck")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "gen" {
		config, err := ParseGenConfig(args[1:], stderr)
		if err != nil {
			return 2
		}
		if err := generate(config, stdout); err != nil {
			log.Error(err.Error())
			return 1
		}
		return 0
	}

	config, err := ParseConfig(args, stderr)
	if err != nil {
		return 2
	}
	if err := logging.SetLevel(config.LoggingLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if config.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	failed := false
	for _, path := range config.Files {
		if err := check(path, config, stdout); err != nil {
			log.Errorf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}
