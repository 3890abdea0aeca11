// Package mockcloud implements a local stand-in for the Emberon cloud API.
//
// This package provides an HTTP server that simulates the vendor service
// well enough to drive the client library, the CLI and the TUI end-to-end
// without touching real hardware or a real account. Fireplace state lives
// in memory and behaves like the real thing: writes change it, overviews
// report it back as binary parameter frames.
//
// # Endpoints
//
// The mock serves the same surface the client library consumes:
//
//	POST /auth/login                  accepts any credentials, issues a fake token
//	GET  /fires                       lists the simulated fleet
//	GET  /fires/{serial}/overview     current state as concatenated parameter frames
//	PUT  /fires/{serial}/parameters   decodes frames and applies them in order
//
// All endpoints except login require a bearer token. Any token value is
// accepted; the check only exists so clients exercise their auth path.
//
// # Fleet State
//
// The server starts with two built-in units, one online and one offline.
// A YAML fixtures file replaces the seed fleet:
//
//	fires:
//	  - serial: EF36-0042
//	    nickname: Living Room
//	    model: EF36-PRO
//	    firmware: 2.4.1
//	  - serial: EF50-0901
//	    model: EF50
//	    online: false
//	    fault: 1
//
// Writes with tags outside the known parameter set are stored and reported
// back in later overviews, the way real firmware keeps state this library
// does not know about.
//
// # Usage Example
//
//	config := &mockcloud.Config{
//	    Host:     "",     // Listen on all interfaces
//	    Port:     8099,
//	    LogLevel: "info",
//	}
//
//	srv, err := mockcloud.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until shutdown signal or error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Logging
//
// Requests are logged with status and duration. At debug level every
// parameter frame crossing the wire is hex-dumped, which makes the mock a
// convenient protocol tracer while developing against the client library.
//
// # Graceful Shutdown
//
// The server handles SIGINT and SIGTERM, stops accepting new connections
// and waits up to ten seconds for in-flight requests.
package mockcloud
