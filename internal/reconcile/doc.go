// Package reconcile implements an OpenRefine reconciliation service backed
// by the Discogs database.
//
// The service follows the OpenRefine reconciliation protocol: a request to
// /reconcile without a queries parameter returns the service metadata; with
// one, the parameter carries a JSON batch of keyed queries whose results are
// candidate lists scored by fuzzy title similarity. A per-entity preview
// endpoint renders a small HTML card for OpenRefine's hover window. JSONP is
// supported via the callback query parameter, and CORS is open, both of
// which OpenRefine requires when the service runs on another origin.
package reconcile
