// Package server implements the MCP (Model Context Protocol) server for the
// autocrop tools.
//
// This package provides a JSON-RPC 2.0 server that exposes region detection
// and cropping through the MCP protocol, so an MCP client can find the items
// on a scanned page, inspect the boxes, and cut them out.
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
// Basic Image Information:
//   - image_dimensions: Get width, height and format
//
// Detection:
//   - image_find_regions: Region boxes before and after overlap merging
//   - image_box_overlay: Merged boxes drawn over the image
//
// Cropping:
//   - image_crop_box: Extract one box as base64 PNG
//   - image_autocrop: Detect and save every crop of one image
//
// Detection settings omitted from a call fall back to the config the server
// was created with.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across tool calls. image_autocrop evicts the image it
// processed.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(config.Default())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
