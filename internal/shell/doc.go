// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell runs the interactive read-eval loop.
//
// Each input line is tokenized, replayed through a fresh parser over the
// shared grammar graph, verified, and executed. A trailing "?" turns the
// line into a query that prints the possible continuations instead of
// executing anything. Tab completion goes through the same grammar, so the
// two can never disagree.
package shell
