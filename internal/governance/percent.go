package governance

import "math/big"

// BasisPoints is the scale used for every percentage computed from token weights
const BasisPoints = 10000

var bpsScale = big.NewInt(BasisPoints)

// Bps returns part/total scaled to basis points using integer division.
// A zero or nil total yields zero.
func Bps(part, total *big.Int) *big.Int {
	if part == nil || total == nil || total.Sign() == 0 {
		return new(big.Int)
	}
	scaled := new(big.Int).Mul(part, bpsScale)
	return scaled.Quo(scaled, total)
}

// Percent converts part/total into a display percentage with two decimals
func Percent(part, total *big.Int) float64 {
	bps := Bps(part, total)
	if !bps.IsInt64() {
		return 0
	}
	return float64(bps.Int64()) / 100
}

// MulBps returns value * bps / 10000
func MulBps(value *big.Int, bps uint64) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	out := new(big.Int).Mul(value, new(big.Int).SetUint64(bps))
	return out.Quo(out, bpsScale)
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
