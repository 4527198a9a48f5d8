// Command cornermesh inspects, converts and generates ASCII STL meshes.
//
// Usage:
//
//	cornermesh [flags] info <file.stl>
//	cornermesh [flags] resave <in.stl> <out.stl>
//	cornermesh [flags] triangulate <in.stl> <out.stl>
//	cornermesh [flags] gen [-o dir] <script.lisp>
//	cornermesh [flags] preview [-size px] <in.stl> <out.webp|out.png>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chazu/cornermesh/internal/config"
	"github.com/chazu/cornermesh/pkg/meshlog"
)

// errUsage marks failures caused by bad command-line arguments.
var errUsage = errors.New("usage error")

type command struct {
	name  string
	usage string
	run   func(env *cliEnv, args []string) error
}

var commands = []command{
	{"info", "info <file.stl>", runInfo},
	{"resave", "resave <in.stl> <out.stl>", runResave},
	{"triangulate", "triangulate <in.stl> <out.stl>", runTriangulate},
	{"gen", "gen [-o dir] <script.lisp>", runGen},
	{"preview", "preview [-size px] <in.stl> <out.webp|out.png>", runPreview},
}

// cliEnv carries the resolved configuration and output streams to a command.
type cliEnv struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cornermesh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to config.json file")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	precision := fs.Int("precision", config.DefaultPrecision, "Decimals per STL coordinate (-1: shortest)")
	cells := fs.Int("cells", 0, "Marching cubes cells along the longest axis (default: 200)")
	timeout := fs.Duration("timeout", 0, "Script evaluation timeout (default: 5s)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cornermesh [flags] <command> [args]")
		fmt.Fprintln(stderr, "\nCommands:")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %s\n", c.usage)
		}
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	flags := config.Flags{
		LogLevel:    *logLevel,
		MeshCells:   *cells,
		EvalTimeout: *timeout,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "precision" {
			flags.Precision = precision
		}
	})
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, _ := meshlog.ParseLevel(cfg.LogLevel)
	meshlog.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer meshlog.SetLogger(nil)

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		start := time.Now()
		err := c.run(&cliEnv{cfg: cfg, stdout: stdout, stderr: stderr}, fs.Args()[1:])
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Usage: cornermesh [flags] %s\n", c.usage)
			return 2
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		meshlog.Logger().Debug("command finished", "command", name, "elapsed", time.Since(start))
		return 0
	}

	fmt.Fprintf(stderr, "Error: unknown command %q\n", name)
	fs.Usage()
	return 2
}
