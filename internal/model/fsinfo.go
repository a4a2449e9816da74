// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which records where a schema came
// from: a manifest path, an object_info file, or an engine endpoint.
//
// Why store the source?
//
// Schemas from several sources are merged into one registry, and later
// sources replace earlier ones. When a generated script looks wrong, the
// first question is which definition of an operation was in effect, so
// every Operation carries its origin into logs and error messages.
package model

// FSInfo identifies the source of a schema definition.
type FSInfo struct {
	FilePath string
}

// NewFSInfo returns source metadata for filePath.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// String returns the source path, or "builtin" when none is recorded.
func (f *FSInfo) String() string {
	if f == nil || f.FilePath == "" {
		return "builtin"
	}
	return f.FilePath
}
