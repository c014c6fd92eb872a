// Package domain defines the core domain types and interfaces.
//
// Entities (Wish, Embed, Channel), sentinel errors, and the contracts
// the synchronization core depends on: repositories over the document
// store, the external resolver, the embed cache, and the broadcaster.
// No implementation code lives here.
package domain
