// Package app holds the wish flows and the reconciliation engine.
//
// The service wraps the document store and the embed cache for the
// HTTP handlers; the reconciler is the drift-repair path triggered by
// the websocket upgrade action.
package app
