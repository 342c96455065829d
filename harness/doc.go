// Package harness exercises the sorting engine end to end.
//
// Scenarios are fixed inputs with known outputs. Stress runs randomized trials
// concurrently, each on its own buffer, and verifies every result with the
// order oracle and the record fingerprints from package hashing.
package harness
