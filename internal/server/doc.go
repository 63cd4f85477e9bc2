// Package server exposes the subsequence service over HTTP with gin.
//
// Routes:
//
//	GET /api/fibonacci/subsequence/:startIndex/:endIndex/:useCache?timeout=<ms>&maxMemory=<bytes>
//	GET /health
//	GET /metrics
package server
