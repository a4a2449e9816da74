package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/specialistvlad/wfscript/internal/rules"
	"github.com/specialistvlad/wfscript/internal/transpile"
)

// Command selects what Run does.
type Command string

const (
	// CommandTranspile writes the script of a workflow.
	CommandTranspile Command = "transpile"
	// CommandEmbed writes an image with its script embedded as metadata.
	CommandEmbed Command = "embed"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command Command

	InputPath string
	// OutputPath is the script file (transpile) or image (embed). Empty
	// means stdout for transpile and the input image for embed.
	OutputPath string
	EndNodes   []nodeid.ID

	ArgsFormat      transpile.ArgsFormat
	Runtime         bool
	RuntimeModule   string
	StrictVersion   bool
	PreferAPIFormat bool
	ScriptKey       string

	NoBuiltin       bool
	Manifests       []string
	ObjectInfo      []string
	Endpoint        string
	EndpointTimeout time.Duration
	Rules           rules.Spec

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	switch cfg.Command {
	case "":
		cfg.Command = CommandTranspile
	case CommandTranspile, CommandEmbed:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.ArgsFormat == "" {
		cfg.ArgsFormat = transpile.ArgsPositional
	}
	if _, err := transpile.ParseArgsFormat(string(cfg.ArgsFormat)); err != nil {
		return nil, err
	}
	if cfg.Command == CommandEmbed && cfg.ScriptKey == "" {
		return nil, errors.New("ScriptKey is required for the embed command")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return &cfg, nil
}
