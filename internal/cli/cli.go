package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/voxelforge/internal/app"
	"github.com/specialistvlad/voxelforge/internal/notify"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags come before the subcommand so that negative coordinates are read
// as arguments.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("voxelforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
VoxelForge - Procedural placement of voxel objects from declarative definitions.

Usage:
  voxelforge [options] list
  voxelforge [options] check NAME X Y Z
  voxelforge [options] place NAME X Y Z
  voxelforge [options] fill MATERIAL X1 Y1 Z1 X2 Y2 Z2
  voxelforge [options] eval

Commands:
  list    Print the loaded objects and the definitions that failed to load.
  check   Report whether the object's conditions hold at the origin.
  place   Check the conditions, then place the object at the origin.
  fill    Write a material into a box of the world.
  eval    Start an interactive expression calculator.

Options:
`)
		flagSet.PrintDefaults()
	}

	defsFlag := flagSet.String("defs", "objects", "Path to a definition file or a directory of .hcl/.yaml files.")
	dFlag := flagSet.String("d", "", "Path to the definitions (shorthand).")
	worldFlag := flagSet.String("world", "", "SQLite world file. Empty keeps the world in memory.")
	seedFlag := flagSet.Uint64("seed", 0, "Random seed. 0 seeds from the process-wide source.")
	forceFlag := flagSet.Bool("force", false, "Place without checking conditions.")
	rerandomizeFlag := flagSet.Bool("rerandomize", true, "Draw fresh random values before each check or place.")
	rotationFlag := flagSet.Int("rotation", 0, "Rotation about Y in degrees: 0, 90, 180 or 270. Overrides the definitions when set.")
	mirrorFlag := flagSet.Bool("mirror", false, "Mirror along X. Overrides the definitions when set.")
	notifyURLFlag := flagSet.String("notify-url", "", "Socket.IO server notified after each placement.")
	notifyNamespaceFlag := flagSet.String("notify-namespace", "/", "Socket.IO namespace for placement events.")
	notifyTimeoutFlag := flagSet.Duration("notify-timeout", notify.DefaultTimeout, "Time to wait for the placement acknowledgement.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'text', 'json' or 'auto'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	command := strings.ToLower(flagSet.Arg(0))

	defs := *defsFlag
	if *dFlag != "" {
		defs = *dFlag
	}

	orientation := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "rotation" || f.Name == "mirror" {
			orientation = true
		}
	})

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "text", "json", "auto":
	default:
		return nil, false, usageError("invalid log-format: must be 'text', 'json' or 'auto'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DefinitionsPath:     defs,
		WorldPath:           *worldFlag,
		Command:             command,
		Args:                flagSet.Args()[1:],
		Seed:                *seedFlag,
		Force:               *forceFlag,
		Rerandomize:         *rerandomizeFlag,
		OverrideOrientation: orientation,
		Rotation:            *rotationFlag,
		Mirror:              *mirrorFlag,
		NotifyURL:           *notifyURLFlag,
		NotifyNamespace:     *notifyNamespaceFlag,
		NotifyTimeout:       *notifyTimeoutFlag,
		LogFormat:           logFormat,
		LogLevel:            logLevel,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}
