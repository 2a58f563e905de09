// Package app wires configuration, logging, services and the HTTP
// router into a runnable server with graceful shutdown.
package app
