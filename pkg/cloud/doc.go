// Package cloud provides an HTTP client for the Emberon cloud API.
//
// Emberon EF-series fireplaces hold a persistent connection to the
// vendor cloud; this package talks to that cloud's REST API to list the
// fireplaces on an account, read a unit's current state and write
// control parameters. State and control payloads use the binary frame
// format implemented by package brasa; everything else is JSON.
//
// # Authentication
//
// The API uses bearer tokens. Login exchanges an email and password for
// a token and returns a ready-to-use client:
//
//	client, err := cloud.Login(ctx, "me@example.com", "hunter2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tokens are never persisted by the library. To reuse a token across
// runs, read it with Token, store it, and reconstruct the client later:
//
//	tok, _ := client.Token()
//	// ... save tok.AccessToken somewhere safe ...
//
//	client = cloud.NewClient(oauth2.StaticTokenSource(&oauth2.Token{
//	    AccessToken: saved,
//	}))
//
// # Usage Example
//
//	fires, err := client.ListFires(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	overview, err := client.GetOverview(ctx, fires[0].Serial)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if overview.Setpoint != nil {
//	    fmt.Printf("target: %s\n", overview.Setpoint.Setpoint)
//	}
//
//	// Turn the unit on and set 22.5°C in auto heat mode
//	err = client.WriteParameters(ctx, fires[0].Serial,
//	    brasa.ModeParam{Mode: brasa.ModeOn},
//	    brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: brasa.TemperatureFromCelsius(22.5)},
//	)
//
// # Retries
//
// Network failures, 5xx responses and 429 rate limiting are retried
// with exponential backoff (3 attempts by default, tunable with
// WithRetry). Writes carry absolute values, so retrying them is safe.
// Authentication, not-found and validation failures are never retried.
//
// # Error Handling
//
// All errors are *APIError values categorized by ErrorType. Use the
// predicate helpers (IsAuthError, IsNotFound, IsRetryable, ...) or
// errors.As to branch on the category, and GetTroubleshootingHint for
// operator-facing advice.
//
// # Thread Safety
//
// Client instances are safe for concurrent use.
package cloud
