// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists executed command lines to a SQLite database.
//
// Every invocation records the raw line, the resolved command path, the
// outcome, and the shell session that ran it, so past activity can be
// inspected across restarts with the history command.
package history
