// Package cli provides the interactive handlekeeper command-line client.
//
// It wires configuration and the HTTP API client into a small REPL:
//   - signup / signin: obtain a bearer token
//   - me: show the account the token belongs to
//   - signout: forget the token
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
