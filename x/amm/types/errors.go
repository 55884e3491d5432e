package types

import (
	"fmt"

	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrInvalidInput          = errors.Register(ModuleName, 2, "invalid input")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 3, "insufficient liquidity")
	ErrSlippageExceeded      = errors.Register(ModuleName, 4, "slippage exceeded")
	ErrInsufficientShares    = errors.Register(ModuleName, 5, "insufficient liquidity shares")
	ErrUnsupportedAsset      = errors.Register(ModuleName, 6, "unsupported asset")
	ErrAlreadyInitialized    = errors.Register(ModuleName, 7, "pair already initialized")
	ErrPairAlreadyExists     = errors.Register(ModuleName, 8, "pair already exists")
	ErrUnknownConfig         = errors.Register(ModuleName, 9, "unknown pair config")
	ErrPairNotFound          = errors.Register(ModuleName, 10, "pair not found")
	ErrInvalidRoute          = errors.Register(ModuleName, 11, "invalid route")
	ErrRouteExecutionFailed  = errors.Register(ModuleName, 12, "route execution failed")
	ErrUnauthorized          = errors.Register(ModuleName, 13, "unauthorized")
	ErrPairDeprecated        = errors.Register(ModuleName, 14, "pair deprecated")
	ErrConfigDisabled        = errors.Register(ModuleName, 15, "pair config disabled")
	ErrInvalidState          = errors.Register(ModuleName, 16, "invalid state")
	ErrTradingNotStarted     = errors.Register(ModuleName, 17, "trading not started")
)

// RouteExecutionError reports which hop of a route failed and why. It matches
// both ErrRouteExecutionFailed and the hop's own error under errors.Is.
type RouteExecutionError struct {
	HopIndex int
	Cause    error
}

// NewRouteExecutionError wraps the failure of the hop at index.
func NewRouteExecutionError(index int, cause error) *RouteExecutionError {
	return &RouteExecutionError{HopIndex: index, Cause: cause}
}

func (e *RouteExecutionError) Error() string {
	return fmt.Sprintf("hop %d: %s: %s", e.HopIndex, ErrRouteExecutionFailed.Error(), e.Cause)
}

// Unwrap exposes both the route failure kind and the hop cause.
func (e *RouteExecutionError) Unwrap() []error {
	return []error{ErrRouteExecutionFailed, e.Cause}
}

// Codespace implements the ABCI error coder contract.
func (e *RouteExecutionError) Codespace() string { return ErrRouteExecutionFailed.Codespace() }

// ABCICode implements the ABCI error coder contract.
func (e *RouteExecutionError) ABCICode() uint32 { return ErrRouteExecutionFailed.ABCICode() }
