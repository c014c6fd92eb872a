// Package server wires the HTTP API and the websocket endpoint into an
// Echo application.
package server
