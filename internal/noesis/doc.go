// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noesis provides the HTTP client for the NOESIS chat backend.
//
// The backend exposes a token-streamed generation endpoint (POST /message)
// whose response body is a sequence of "data: <json>" records, plus a small
// conversation directory (list, create, load, delete). This package owns the
// wire types, the incremental stream decoder, and the transport; it knows
// nothing about conversation state, which lives in the session controller.
package noesis
