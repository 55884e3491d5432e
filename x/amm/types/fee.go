package types

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// FeeRate is a rational fraction numerator/denominator. It is never
// converted to floating point.
type FeeRate struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// NewFeeRate builds a fee rate. It does not validate.
func NewFeeRate(num, den uint64) FeeRate {
	return FeeRate{Numerator: num, Denominator: den}
}

// ZeroFee is 0/1.
func ZeroFee() FeeRate { return FeeRate{Numerator: 0, Denominator: 1} }

// FeeRateFromBps returns bps/10000.
func FeeRateFromBps(bps uint64) FeeRate { return FeeRate{Numerator: bps, Denominator: 10_000} }

// ParseFeeRate reads "num/den" or a bare basis point count ("30" = 30/10000).
func ParseFeeRate(s string) (FeeRate, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return FeeRate{}, ErrInvalidInput.Wrapf("invalid fee numerator %q", num)
	}
	if !found {
		return FeeRateFromBps(n), nil
	}
	d, err := strconv.ParseUint(den, 10, 64)
	if err != nil {
		return FeeRate{}, ErrInvalidInput.Wrapf("invalid fee denominator %q", den)
	}
	return FeeRate{Numerator: n, Denominator: d}, nil
}

// Validate requires a non-zero denominator and a value strictly below one.
func (f FeeRate) Validate() error {
	if f.Denominator == 0 {
		return ErrInvalidInput.Wrap("fee denominator must be positive")
	}
	if f.Numerator >= f.Denominator {
		return ErrInvalidInput.Wrapf("fee %s must be below 1", f)
	}
	return nil
}

// ValidateShare is Validate but also accepts exactly one (share of a fee).
func (f FeeRate) ValidateShare() error {
	if f.Denominator == 0 {
		return ErrInvalidInput.Wrap("share denominator must be positive")
	}
	if f.Numerator > f.Denominator {
		return ErrInvalidInput.Wrapf("share %s must not exceed 1", f)
	}
	return nil
}

// IsZero reports a zero fee.
func (f FeeRate) IsZero() bool { return f.Numerator == 0 }

// Cmp compares two rates by cross multiplication.
func (f FeeRate) Cmp(other FeeRate) int {
	l := new(big.Int).Mul(new(big.Int).SetUint64(f.Numerator), new(big.Int).SetUint64(other.Denominator))
	r := new(big.Int).Mul(new(big.Int).SetUint64(other.Numerator), new(big.Int).SetUint64(f.Denominator))
	return l.Cmp(r)
}

// Remainder returns floor(amount * (den-num) / den), the part of amount left
// after the fee.
func (f FeeRate) Remainder(amount sdkmath.Int) sdkmath.Int {
	keep := new(big.Int).SetUint64(f.Denominator - f.Numerator)
	r := new(big.Int).Mul(amount.BigInt(), keep)
	r.Quo(r, new(big.Int).SetUint64(f.Denominator))
	return sdkmath.NewIntFromBigInt(r)
}

// Apply returns the fee charged on amount: amount - Remainder(amount), which
// rounds the fee up.
func (f FeeRate) Apply(amount sdkmath.Int) sdkmath.Int {
	return amount.Sub(f.Remainder(amount))
}

// Portion returns floor(amount * num / den), used for fee shares.
func (f FeeRate) Portion(amount sdkmath.Int) sdkmath.Int {
	r := new(big.Int).Mul(amount.BigInt(), new(big.Int).SetUint64(f.Numerator))
	r.Quo(r, new(big.Int).SetUint64(f.Denominator))
	return sdkmath.NewIntFromBigInt(r)
}

// GrossUp returns the smallest amount whose Remainder is at least net. It
// fails when the result does not fit in an Int.
func (f FeeRate) GrossUp(net sdkmath.Int) (sdkmath.Int, error) {
	keep := new(big.Int).SetUint64(f.Denominator - f.Numerator)
	r := new(big.Int).Mul(net.BigInt(), new(big.Int).SetUint64(f.Denominator))
	r.Add(r, keep)
	r.Sub(r, big.NewInt(1))
	r.Quo(r, keep)
	if r.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, ErrInvalidInput.Wrapf("amount %s grossed up by fee %s overflows", net, f)
	}
	return sdkmath.NewIntFromBigInt(r), nil
}

func (f FeeRate) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
