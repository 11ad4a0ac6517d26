// Package cmd implements the command-line interface for schedassist.
//
// Commands:
//   - serve: run the HTTP chat API and metrics servers
//   - chat: process a single message and print the reply
//   - version: print the version number
package cmd
