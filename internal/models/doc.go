// Package models defines the domain entities and storage interfaces for the hookx marketplace client.
//
// The package contains two categories of types:
//
// 1. Cart entities: what a buyer has selected for checkout
//   - [CartItem] : one license selection for a hook, identified by [CartKey]
//   - [LicenseType] : non_exclusive or exclusive rights
//
// 2. Setup entities: how the client reaches its backing service
//   - [BackendConfig] : the url and anonymous access key saved by the setup wizard
//
// Both are persisted through [KeyValueStore], a durable string key-value abstraction.
// The JSON field names of [CartItem] and [BackendConfig] are part of the persisted format and must not change.
package models
