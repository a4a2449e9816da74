// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package nodeid provides a structured, comparable representation for node
identifiers found in serialized workflows.

Workflow producers emit node ids either as JSON integers (`"id": 7`) or as
JSON strings (`"id": "7"`, `"id": "sampler"`). Both forms are kept apart so
that a document using one form round-trips faithfully, while lookups coming
from the outside (command-line end nodes, execution-request references) can
be coerced into whichever form the document actually uses.

This package centralizes the parsing, ordering and coercion rules so the
builder and the orderer never compare raw strings.
*/
package nodeid
