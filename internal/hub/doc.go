// Package hub holds the process-local connection registry and the
// broadcast dispatcher.
//
// Clients register under a (user, wishlist) channel via an explicit
// protocol message, never implicitly on connect, and are never removed.
// Dispatch fans a serialized message out to every registrant: open
// connections get it immediately, connecting ones get it parked in a
// per-client outbox drained once on open, closed ones drop it.
package hub
