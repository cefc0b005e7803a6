// Package app wires configuration, logging, storage and the HTTP surface
// into a runnable server. Everything is configured through QUILL_*
// environment variables; see LoadConfig for the full list.
package app
