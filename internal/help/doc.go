// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package help renders command documentation from the grammar graph.
//
// All text is derived from the nodes themselves: usage lines from command
// paths and parameter symbols, descriptions from node help text. There is
// no separate documentation source to drift out of date.
package help
