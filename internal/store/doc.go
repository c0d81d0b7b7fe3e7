// Package store provides SQLite-backed history of recorded build timelines.
//
// A session is one reconstructed ninja log: summary counts plus every lane
// event that was emitted for it.
//
// # Invariants
//
// Idempotent recording
//   - sessions.fingerprint is UNIQUE and content-addressed
//   - Recording an identical timeline again leaves the store unchanged
//
// Deterministic query results
//   - Sessions are listed ORDER BY id COLLATE BINARY (UUIDv7, so by time)
//   - Steps are read ORDER BY seq ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
