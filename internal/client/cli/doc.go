// Package cli provides the interactive terminal client for the job board.
//
// It wires configuration, local storage, the API client, the headless page
// and the dialog controller, and serves a REPL whose commands stand in for
// the page's buttons, links and forms.
//
// Key features:
//   - Login / Register / Logout through the login and register dialogs
//   - Outside-click dismissal of dialogs via "click <element-id>"
//   - Session check against the server on start and via "whoami"
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
