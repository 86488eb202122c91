// Package cart holds the buyer's cart: an ordered set of license selections kept in memory
// and mirrored to durable storage.
//
// # Identity
//
// A [models.CartItem] is identified by its (hook id, license type) pair. [Store.Add] ignores
// an item whose key is already present and keeps the original entry.
//
// # Persistence
//
// Every mutation serializes the full cart as a JSON array under [StorageKey] and hands it to a
// background writer. Writes are applied in mutation order and never awaited by the caller;
// failures are logged and otherwise ignored. [Store.Flush] waits for pending writes and
// [Store.Close] stops the writer.
//
// On construction the store hydrates from [StorageKey]. Missing, unreadable or malformed data
// gives an empty cart.
//
// # Scope
//
// A session has one cart. It is handed to consumers through [context.Context] with [WithStore];
// [FromContext] fails with [shared.ErrContextMissing] when no cart was provided.
package cart
