package config

import (
	"time"

	"github.com/specialistvlad/wfscript/internal/rules"
)

// Model is the format-agnostic representation of the settings file.
type Model struct {
	Schemas   Schemas    `yaml:"schemas"`
	Transpile Transpile  `yaml:"transpile"`
	PNG       PNG        `yaml:"png"`
	Log       Log        `yaml:"log"`
	Rules     rules.Spec `yaml:"rules"`
}

// Schemas lists the schema sources, applied after the compiled-in
// catalogs in this order: manifests, object_info files, endpoint.
type Schemas struct {
	// Manifests are .hcl files or directories searched recursively.
	Manifests []string `yaml:"manifests"`
	// ObjectInfo are object_info JSON files.
	ObjectInfo []string `yaml:"object_info"`
	// Endpoint is the base URL of a running engine.
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds the endpoint request.
	Timeout time.Duration `yaml:"timeout"`
	// NoBuiltin skips the compiled-in catalogs.
	NoBuiltin bool `yaml:"no_builtin"`
}

// Transpile holds the script generation settings.
type Transpile struct {
	ArgsFormat      string `yaml:"args_format"`
	Runtime         bool   `yaml:"runtime"`
	RuntimeModule   string `yaml:"runtime_module"`
	StrictVersion   bool   `yaml:"strict_version"`
	PreferAPIFormat bool   `yaml:"prefer_api_format"`
}

// PNG holds the metadata keys used with image files.
type PNG struct {
	// ScriptKey is the text chunk keyword the embed command writes.
	ScriptKey string `yaml:"script_key"`
}

// Log holds the logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the settings used when no file is present.
func Defaults() *Model {
	return &Model{
		Schemas:   Schemas{Timeout: 10 * time.Second},
		Transpile: Transpile{ArgsFormat: "pos"},
		PNG:       PNG{ScriptKey: "script"},
		Log:       Log{Level: "warn", Format: "text"},
	}
}
