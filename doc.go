// Package tradebook provides an in-memory, thread-safe record keeping engine
// for trading accounts: cash balances, per-symbol holdings and an append-only
// history of transactions, computed with exact decimal arithmetic.
//
// The package is organized in two layers:
//   - Store: a repository of accounts, holdings and transactions. It normalizes
//     identifiers and numbers but applies no business rule.
//   - Ledger: validates raw input (integers, floats, decimal text), quantizes
//     amounts and quantities to configured precisions, enforces the sign of
//     each kind of transaction and produces immutable TransactionRecord values.
//
// A Ledger may delegate account existence checks to an AccountResolver, such
// as the AccountDirectory of a Store, and may post its records to a Store so
// that balances and holdings follow the transactions.
//
// Raw numbers are given as Number values, built with Int, Float, Text, Dec or
// the generic N. Nothing is rounded implicitly: Normalize converts a Number to
// an exact decimal, Quantize rounds it half away from zero.
//
// This package serves as the foundational logic for the `tbk` command-line
// tool.
package tradebook
