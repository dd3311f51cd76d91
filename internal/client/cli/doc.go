// Package cli implements the farmdash command-line client.
//
// The root command resolves the configuration (flags, FARMDASH_* environment
// variables and an optional config file), opens the local database that
// holds the session credential, and wires the HTTP gateway, the response
// cache and the category, product and farmer services into an App.
//
// Commands:
//   - login / logout / whoami
//   - categories list|show|create|update|status|delete
//   - products list|show|create|update|delete
//   - farmers list|delete
//   - repl: an interactive session in which every command shares one cache,
//     unused entries are swept in the background and "watch" keeps a live
//     view of a list
//
// See Execute, App and runREPL for details.
package cli
