// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of operation schemas:
// the contract of every operation type a workflow node can reference.
//
// # Core Concepts
//
//   - Operation: the schema of one operation type. It lists the ordered
//     required, optional and hidden inputs and the ordered outputs. Input
//     order is significant: it decides the positional order of arguments in
//     a generated script and how positional widget values are named.
//
//   - Input / Output: a named, typed slot. Inputs may carry a closed set of
//     choices (an enum), a default literal, and editor-only hints such as
//     "this widget is followed by a control_after_generate widget".
//
//   - SchemaProvider: the read-only lookup the transpiler consumes. It is
//     satisfied by the registry package; the transpiler never learns where a
//     schema came from.
//
//   - FSInfo: metadata that links every Operation back to its source file or
//     endpoint, for error messages.
//
// # Sources
//
// Schemas are decoded from two formats:
//
//  1. HCL manifests (`operation "KSampler" { input "seed" { type = INT } }`),
//     used for the built-in catalog and for user supplied extensions.
//
//  2. The engine's `object_info` JSON document, either read from disk or
//     fetched from a running engine.
//
// Both produce the same Operation values, so the rest of the system treats
// them identically.
package model
