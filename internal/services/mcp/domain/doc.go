// Package domain defines the MCP tool schemas and handlers for the French
// open-data and geospatial services. Handlers are closures over their
// upstream client and the response cache; oversized responses are swapped
// for cache envelopes before leaving the server.
package domain
