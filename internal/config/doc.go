// Package config loads runtime configuration from the environment, with
// optional .env file support for local development.
package config
