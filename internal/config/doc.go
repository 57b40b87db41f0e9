// Package config loads the process-wide configuration from environment
// variables, with optional .env file support for local development.
//
// The configuration is a flat set of named string values: TickTick
// credentials, transport selection, and the listen address. It is read once
// at startup and treated as immutable for the process lifetime.
package config
