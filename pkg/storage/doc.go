// Package storage defines the storage provider abstraction. A provider
// holds backend configurations and the job, status and result documents
// exchanged with the hardware or simulator that consumes the queue.
package storage
