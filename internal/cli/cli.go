package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/specialistvlad/wfscript/internal/app"
	"github.com/specialistvlad/wfscript/internal/config"
	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/specialistvlad/wfscript/internal/transpile"
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

// flagValues receives the raw flag values before they are merged with the
// settings file.
type flagValues struct {
	configPath      string
	output          string
	endNodes        []string
	argsFormat      string
	runtime         bool
	runtimeModule   string
	strictVersion   bool
	preferAPIFormat bool
	manifests       []string
	objectInfo      []string
	endpoint        string
	timeout         time.Duration
	noBuiltin       bool
	logFormat       string
	logLevel        string
	scriptKey       string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return parse(args, output, os.Getenv)
}

func parse(args []string, output io.Writer, getenv func(string) string) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		fv      flagValues
		command app.Command
		input   string
		flags   *pflag.FlagSet
	)

	capture := func(c app.Command) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			command, input, flags = c, args[0], cmd.Flags()
			return nil
		}
	}

	root := &cobra.Command{
		Use:   "wfscript [flags] WORKFLOW",
		Short: "Transpile node-graph workflows into assignment scripts.",
		Long: `wfscript - Transpile node-graph workflows into assignment scripts.

WORKFLOW is a workflow JSON file (editor or API format) or a PNG image
carrying the workflow in its metadata. The script is written to stdout
unless --output is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          capture(app.CommandTranspile),
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	pf := root.PersistentFlags()
	pf.StringVarP(&fv.configPath, "config", "c", "", "Path to the YAML settings file.")
	pf.StringSliceVarP(&fv.endNodes, "end-node", "e", nil, "Node ids to render from (repeatable or comma separated). Default: every node without consumers.")
	pf.StringVar(&fv.argsFormat, "args", "pos", "Argument format: "+formatList()+".")
	pf.BoolVar(&fv.runtime, "runtime", false, "Wrap the script in the runtime imports and a workflow block.")
	pf.StringVar(&fv.runtimeModule, "runtime-module", transpile.DefaultRuntimeModule, "Module imported by --runtime.")
	pf.BoolVar(&fv.strictVersion, "strict-version", false, "Reject workflows written in an unsupported format version.")
	pf.BoolVar(&fv.preferAPIFormat, "prefer-api", false, "Read the 'prompt' metadata of images before 'workflow'.")
	pf.StringSliceVar(&fv.manifests, "manifests", nil, "HCL operation manifests (files or directories).")
	pf.StringSliceVar(&fv.objectInfo, "object-info", nil, "object_info JSON schema files.")
	pf.StringVar(&fv.endpoint, "endpoint", "", "Base URL of a running engine to fetch /object_info from.")
	pf.DurationVar(&fv.timeout, "timeout", 10*time.Second, "Timeout of the --endpoint request.")
	pf.BoolVar(&fv.noBuiltin, "no-builtin", false, "Do not register the compiled-in schema catalogs.")
	pf.StringVar(&fv.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&fv.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.Flags().StringVarP(&fv.output, "output", "o", "", "Write the script to this file instead of stdout.")

	embed := &cobra.Command{
		Use:   "embed [flags] IMAGE",
		Short: "Embed the script of an image's workflow into the image metadata.",
		Long: `Transpile the workflow stored in IMAGE and write the image back with the
script in a text chunk. The image is rewritten in place unless --output
is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: capture(app.CommandEmbed),
	}
	embed.Flags().StringVarP(&fv.output, "output", "o", "", "Write the image here instead of replacing IMAGE.")
	embed.Flags().StringVar(&fv.scriptKey, "key", "script", "Text chunk keyword of the script.")
	root.AddCommand(embed)

	if err := root.Execute(); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if flags == nil {
		// Help was requested or no input was given.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.", "command", command, "input", input)

	settingsPath, err := config.Locate(fv.configPath, getenv)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	settings, err := config.NewLoader().Load(context.Background(), settingsPath)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	cfg, err := merge(settings, &fv, flags)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	cfg.Command = command
	cfg.InputPath = input

	validated, err := app.NewConfig(*cfg)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", validated)
	return validated, false, nil
}

// merge overlays the flags that were set explicitly on the settings file.
func merge(s *config.Model, fv *flagValues, flags *pflag.FlagSet) (*app.Config, error) {
	set := flags.Changed

	pick := func(name string, flagValue, fileValue string) string {
		if set(name) || fileValue == "" {
			return flagValue
		}
		return fileValue
	}
	pickBool := func(name string, flagValue, fileValue bool) bool {
		if set(name) {
			return flagValue
		}
		return fileValue
	}
	pickList := func(name string, flagValue, fileValue []string) []string {
		if set(name) {
			return flagValue
		}
		return fileValue
	}

	format, err := transpile.ParseArgsFormat(pick("args", fv.argsFormat, s.Transpile.ArgsFormat))
	if err != nil {
		return nil, err
	}

	endNodes, err := nodeid.ParseList(fv.endNodes)
	if err != nil {
		return nil, fmt.Errorf("invalid --end-node: %w", err)
	}

	logFormat := strings.ToLower(pick("log-format", fv.logFormat, s.Log.Format))
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(pick("log-level", fv.logLevel, s.Log.Level))
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, fmt.Errorf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	timeout := s.Schemas.Timeout
	if set("timeout") || timeout <= 0 {
		timeout = fv.timeout
	}

	return &app.Config{
		OutputPath:      fv.output,
		EndNodes:        endNodes,
		ArgsFormat:      format,
		Runtime:         pickBool("runtime", fv.runtime, s.Transpile.Runtime),
		RuntimeModule:   pick("runtime-module", fv.runtimeModule, s.Transpile.RuntimeModule),
		StrictVersion:   pickBool("strict-version", fv.strictVersion, s.Transpile.StrictVersion),
		PreferAPIFormat: pickBool("prefer-api", fv.preferAPIFormat, s.Transpile.PreferAPIFormat),
		ScriptKey:       pick("key", fv.scriptKey, s.PNG.ScriptKey),
		NoBuiltin:       pickBool("no-builtin", fv.noBuiltin, s.Schemas.NoBuiltin),
		Manifests:       pickList("manifests", fv.manifests, s.Schemas.Manifests),
		ObjectInfo:      pickList("object-info", fv.objectInfo, s.Schemas.ObjectInfo),
		Endpoint:        pick("endpoint", fv.endpoint, s.Schemas.Endpoint),
		EndpointTimeout: timeout,
		Rules:           s.Rules,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	}, nil
}

func formatList() string {
	names := make([]string, len(transpile.ArgsFormats))
	for i, f := range transpile.ArgsFormats {
		names[i] = "'" + string(f) + "'"
	}
	return strings.Join(names, ", ")
}
