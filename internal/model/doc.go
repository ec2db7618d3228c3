// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
//
// The central type is TurnLog, an ordered sequence of user/assistant turns with
// a side table of per-assistant generation statistics. Turns alternate strictly:
// even indices are user turns, odd indices are assistant turns, and the sequence
// always starts with a user turn. The assistant turn for a prompt is appended
// (empty) before any tokens arrive, so the pairing is positional and stable.
//
// The package also derives the request-ready history projection sent to the
// generation endpoint when no server-side conversation id provides context.
package model
