// Package config defines the settings model of the application and the
// Loader interface that reads it.
//
// The settings file is optional. When present it supplies defaults for
// every command-line flag plus the values that have no flag, such as
// extensions of the elimination rule tables. YAMLLoader is the concrete
// file-based implementation.
package config
