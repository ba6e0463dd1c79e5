package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/voxelforge/internal/geometry"
)

// Commands understood by App.Run.
const (
	CommandList  = "list"
	CommandCheck = "check"
	CommandPlace = "place"
	CommandEval  = "eval"
	CommandFill  = "fill"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DefinitionsPath string // .hcl and .yaml object definitions
	WorldPath       string // SQLite file; empty keeps the world in memory

	Command string
	Args    []string

	Seed        uint64
	Force       bool
	Rerandomize bool

	// OverrideOrientation applies Rotation and Mirror to every object,
	// replacing what the definitions declare.
	OverrideOrientation bool
	Rotation            int // degrees
	Mirror              bool

	NotifyURL       string
	NotifyNamespace string
	NotifyTimeout   time.Duration

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefinitionsPath == "" && cfg.Command != CommandEval && cfg.Command != CommandFill {
		return nil, errors.New("DefinitionsPath is a required configuration field and cannot be empty")
	}

	want, ok := commandArgs[cfg.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if len(cfg.Args) != want {
		return nil, fmt.Errorf("command %q takes %d arguments, got %d", cfg.Command, want, len(cfg.Args))
	}

	if _, err := geometry.QuarterTurns(cfg.Rotation); err != nil {
		return nil, err
	}
	if cfg.NotifyTimeout < 0 {
		return nil, errors.New("notify timeout cannot be negative")
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "", "text", "json", "auto":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return &cfg, nil
}

var commandArgs = map[string]int{
	CommandList:  0,
	CommandCheck: 4,
	CommandPlace: 4,
	CommandEval:  0,
	CommandFill:  7,
}
