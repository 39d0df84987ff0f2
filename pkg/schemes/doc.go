// Package schemes defines the wire schemas shared between the API, the
// storage providers and the simulator workers: backend configurations,
// backend status, job status messages and result documents.
package schemes
