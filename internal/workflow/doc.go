// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package workflow decodes serialized node-graph documents.
//
// Two serialized shapes are understood:
//
//   - The editor format (version 0.4): a node list carrying positions,
//     modes, titles, widget values and slot descriptors, plus a link list.
//
//   - The execution-request ("API") format: a flat, ordered map of node id
//     to {class_type, inputs}. It carries no layout and no output fan-out, so
//     it is reconstructed into the editor format with the help of an
//     operation schema source before anything else looks at it.
//
// The decoded Document is a faithful, format-level view. It does not check
// referential integrity; that is the job of the builder package.
package workflow
