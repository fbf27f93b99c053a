// Package app composes the advisor CRM into a running application.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Domain models (pure data structures)
//	│   ├── client/         # Advisory clients
//	│   ├── followup/       # Scheduled touchpoints
//	│   ├── metric/         # Business snapshots
//	│   └── integration/    # External system hookups
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # Store interfaces
//	│   ├── memory/         # In-memory implementation (default, seedable)
//	│   └── postgres/       # PostgreSQL implementation
//	├── validation/         # Request payload schemas
//	├── services/           # Business services over the stores
//	├── httpapi/            # REST handlers, routing and CSV export
//	├── system/             # Lifecycle management
//	└── metrics/            # Prometheus collectors
//
// The app package wires services to stores and owns their lifecycle; business
// rules live in internal/app/services/, HTTP concerns in internal/app/httpapi/.
package app
