// Package endpoints implements the HTTP handlers of the job submission
// API in versions v2 and v3.
package endpoints
