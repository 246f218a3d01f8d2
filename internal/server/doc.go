// Package server implements the MCP (Model Context Protocol) server for dice
// mosaics.
//
// The server exposes the mosaic pipeline as tools: convert an image into a
// grid of dice faces, keep the grid under a key, and then render, export or
// summarize it in later calls.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Source images:
//   - image_load: Image metadata (size, format, aspect ratio)
//   - mosaic_suggest_palette: Face colors extracted from an image
//
// Grid creation:
//   - mosaic_generate: Convert an image (file path or base64) into a grid
//   - mosaic_sample_grid: Deterministic diagonal gradient grid
//   - mosaic_random_grid: Random grid, optionally seeded
//
// Stored grids:
//   - mosaic_get_grid: Fetch a grid by key
//   - mosaic_export_csv: row,column,value CSV
//   - mosaic_render: PNG preview with pips or numerals
//   - mosaic_summary: Dice counts, physical size, build time and cost
//
// Every tool that creates a grid stores it and returns its key. Tools that
// read a grid use the most recent one when no key is given.
//
// # Decode Failures
//
// An image that cannot be decoded is not an error: mosaic_generate returns a
// random grid of the requested size with "fallback": true and the reason.
// Missing files and malformed arguments are errors.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32601 unknown method, -32602 invalid params, -32000 tool failure
//   - message: Human-readable error description
//   - data: The underlying Go error string
//
// # Usage
//
//	srv := server.New(server.WithStore(st))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
