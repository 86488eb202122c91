// Package repositories implements SQLite persistence for hookx.
//
// The application persists two small records, the cart snapshot and the setup coordinates,
// so storage is a single kv_store table exposed through [KVRepository], which implements
// [models.KeyValueStore]. The schema is created by the embedded migrations in the shared package.
//
// Key ownership is a convention: each key has exactly one owning package (cart owns "cart",
// setup owns "backend_config" and "setup_complete") and other code goes through that package.
package repositories
