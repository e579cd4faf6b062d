// Package discogs is a minimal client for the Discogs HTTP API covering
// database search and per-resource lookups, with the polite request pacing
// the API demands: at most one request per second, backing off when the
// advertised rate-limit budget runs out, and honoring Retry-After on 429.
package discogs
