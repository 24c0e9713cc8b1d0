package domain

import "time"

// upstreamCallTimeout caps the time for a single upstream API call from an
// MCP tool handler. Route and isochrone computations can take several
// seconds on large graphs.
const upstreamCallTimeout = 30 * time.Second
