// Package server wires the HTTP API together: router, stores, auth
// middleware and metrics.
package server
