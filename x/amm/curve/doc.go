// Package curve implements the pricing and liquidity math of amm pairs.
//
// Every curve kind is a pure Strategy: the same function prices simulations
// and executions, all arithmetic is integer, and every rounding decision
// favours the pool (outputs floor, required inputs ceil).
package curve
