package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/stalexteam/pulse-switcher/pkg/switcher"
)

var (
	versionTag = "dev"
	gitCommit  = "unknown"
)

const (
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
	flagConfig  = "config"
	flagServer  = "server"
	flagNotify  = "notify"
)

func init() {
	// -v belongs to --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// cliApp holds what the command line needs beyond the parsed flags
type cliApp struct {
	stdout io.Writer
	stderr io.Writer

	// nil connects to the real sound server
	connect switcher.ConnectFunc

	// counts given before the command name
	verbosity switcher.Verbosity

	// set once -qqq has been seen, so the final error isn't printed either
	silent bool
}

func main() {
	a := &cliApp{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	os.Exit(a.run(os.Args))
}

// run executes the command line and returns the process exit code
func (a *cliApp) run(args []string) int {
	if err := a.newApp().Run(args); err != nil {
		if !a.silent {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
		}
		return 1
	}

	return 0
}

func (a *cliApp) newApp() *cli.App {
	var listVerbosity, nextVerbosity switcher.Verbosity

	return &cli.App{
		Name:                   "pulse-switcher",
		Usage:                  "cycle the default PulseAudio sink through a filtered set of devices",
		Version:                fmt.Sprintf("%s (%s)", versionTag, gitCommit),
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags(&a.verbosity),
		Action: func(c *cli.Context) error {
			return a.runList(c, switcher.Verbosity{})
		},
		Commands: []*cli.Command{
			{
				Name:                   "list",
				Usage:                  "list all devices, the devices matching the config and the current default device (default command)",
				UseShortOptionHandling: true,
				Flags:                  globalFlags(&listVerbosity),
				Action: func(c *cli.Context) error {
					return a.runList(c, listVerbosity)
				},
			},
			{
				Name: "next",
				Usage: "set the next matching device as the default device; devices are ordered as the server " +
					"lists them, and if the current default doesn't match, the first matching device is used",
				UseShortOptionHandling: true,
				Flags: append(globalFlags(&nextVerbosity),
					&cli.BoolFlag{
						Name:    flagNotify,
						Aliases: []string{"n"},
						Usage:   "send a desktop notification naming the new default device",
					},
				),
				Action: func(c *cli.Context) error {
					return a.runNext(c, nextVerbosity)
				},
			},
		},
	}
}

// globalFlags are accepted both before and after the command name.
// Each level counts -v/-q into its own Verbosity.
func globalFlags(verbosity *switcher.Verbosity) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"v"},
			Usage:   "verbose output, pass twice to trace filter decisions",
			Count:   &verbosity.Verbose,
		},
		&cli.BoolFlag{
			Name:    flagQuiet,
			Aliases: []string{"q"},
			Usage:   "quiet output: once for warnings, twice for errors only, thrice for silence",
			Count:   &verbosity.Quiet,
		},
		&cli.PathFlag{
			Name:      flagConfig,
			Aliases:   []string{"c"},
			Usage:     "config file `FILE` (default: $XDG_CONFIG_HOME/pulse-switcher/config.toml if it exists)",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage:   "PulseAudio server address",
			EnvVars: []string{"PULSE_SERVER"},
		},
	}
}

// lookupString returns the value from the innermost command level that set the flag
func lookupString(c *cli.Context, name string) string {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.String(name)
		}
	}

	return c.String(name)
}

func (a *cliApp) runList(c *cli.Context, local switcher.Verbosity) error {
	return a.withSwitcher(c, local, func(s *switcher.Switcher) error {
		return s.List(c.App.Writer)
	})
}

func (a *cliApp) runNext(c *cli.Context, local switcher.Verbosity) error {
	return a.withSwitcher(c, local, func(s *switcher.Switcher) error {
		_, err := s.Next()
		return err
	})
}

func (a *cliApp) withSwitcher(c *cli.Context, local switcher.Verbosity, run func(s *switcher.Switcher) error) error {
	verbosity := a.verbosity.Add(local)
	a.silent = verbosity.Silent()

	logger, err := switcher.NewLogger(verbosity)
	if err != nil {
		return err
	}

	logger = logger.Named("pulse-switcher")
	logger.Debugw("Version info", "version", versionTag, "commit", gitCommit)

	s, err := switcher.NewSwitcher(logger, switcher.Options{
		ConfigPath: lookupString(c, flagConfig),
		Server:     lookupString(c, flagServer),
		Notify:     c.Bool(flagNotify),
		Verbosity:  verbosity,
		Connect:    a.connect,
	})
	if err != nil {
		return err
	}

	defer releaseSwitcher(logger, s)

	if err := s.Initialize(); err != nil {
		return err
	}

	return run(s)
}

func releaseSwitcher(logger *zap.SugaredLogger, s *switcher.Switcher) {
	if err := s.Release(); err != nil {
		logger.Warnw("Failed to release switcher", "error", err)
	}
}
