// Package billing contains the tenant billing core: the per-tenant wallet
// with its append-only transaction ledger, subscription plans, the tenant
// subscription lifecycle with its audit history, and the ports these
// aggregates need (repositories, platform configuration lookup).
//
// Money is represented with exact decimals throughout; binary floating
// point is never used for balance or price arithmetic.
package billing
