// Package main provides qlued, an API server that manages the access to
// quantum hardware and simulators.
//
// Jobs are submitted as JSON documents and queued on a storage provider
// (local filesystem, MongoDB or Dropbox), where the hardware or simulator
// consumes them and writes status and result documents back.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: database access for tokens and providers
//   - pkg/storage: storage provider implementations
//   - pkg/schemes: shared document schemas
//   - pkg/signing: Ed25519 JWK handling and result signing
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The server is run via the qluedctl CLI:
//
//	# Run database migrations
//	qluedctl db migrate
//
//	# Create a user and a storage provider
//	qluedctl user create alice
//	qluedctl storage add alqor --type local --login '{"base_path": "/var/qlued"}' --owner alice
//
//	# Create an API token for the user
//	qluedctl token create alice --storage alqor
//
//	# Start the server
//	qluedctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - QLUED_BASE_URL: Public base URL used in backend configs
//   - QLUED_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
package main
