// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the transpile and embed lifecycles,
// decoupled from any specific entrypoint like a CLI.
//
// NewApp assembles the schema registry from the compiled-in catalogs and
// the configured sources. Run reads a workflow (JSON or PNG), transpiles
// it and writes the script, or embeds it back into the image.
package app
