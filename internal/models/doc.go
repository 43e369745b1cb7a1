// Package models defines domain entities and persistence interfaces for the tagsync publishing service.
//
// The package contains two categories of types:
//
// 1. Pipeline values: plain structs and functions with no I/O
//   - [SyncRequest] : Incoming webhook payload naming a record and its tags
//   - [TagSet] : Ordered, deduplicated tag list produced by [NormalizeTags]
//   - [VideoReference] : Platform video identity produced by [ResolveVideoURL]
//   - [SyncOutcome] : Terminal result written back to the content record
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [SyncRecord] : Audit row for one pipeline run, kept as local sync history
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
