package bem

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// ErrUnknownBasis indicates a coefficient basis other than torque or power.
var ErrUnknownBasis = errors.New("bem: unknown coefficient basis")

// CoefficientBasis selects which torque-normalised coefficient is computed
// directly from net torque; the other is derived from it.
type CoefficientBasis string

const (
	// TorqueBasis computes C_Q = Q/(ρn²d⁵) and derives C_P = 2π·C_Q.
	TorqueBasis CoefficientBasis = "torque"
	// PowerBasis computes C_P = Q/(ρn²d⁵) and derives C_Q = C_P/2π.
	PowerBasis CoefficientBasis = "power"
)

// ParseBasis accepts "torque", "power" or "" (torque).
func ParseBasis(s string) (CoefficientBasis, error) {
	switch CoefficientBasis(s) {
	case TorqueBasis, "":
		return TorqueBasis, nil
	case PowerBasis:
		return PowerBasis, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBasis, s)
}

// Aggregate sums element loads into rotor performance. Arithmetic is not
// guarded: a zero torque coefficient or a parked rotor yields NaN or Inf
// and sets Degenerate on the result.
func Aggregate(in RotorInput, basis CoefficientBasis) (RotorPerformance, error) {
	if len(in.DeltaT) != len(in.DeltaQ) {
		return RotorPerformance{}, fmt.Errorf("%w: %d thrusts, %d torques", ErrMisaligned, len(in.DeltaT), len(in.DeltaQ))
	}

	p := RotorPerformance{
		NetThrust: floats.Sum(in.DeltaT),
		NetTorque: floats.Sum(in.DeltaQ),
	}

	diam := 2 * in.R
	n := in.RPM / 60
	norm := in.Rho * n * n * math.Pow(diam, 4)

	p.CT = p.NetThrust / norm
	p.J = in.VInf / (n * diam)

	switch basis {
	case TorqueBasis, "":
		p.Basis = TorqueBasis
		p.CQ = p.NetTorque / (norm * diam)
		p.CP = p.CQ * 2 * math.Pi
		p.Eta = p.CT / p.CQ * p.J / (2 * math.Pi)
	case PowerBasis:
		p.Basis = PowerBasis
		p.CP = p.NetTorque / (norm * diam)
		p.CQ = p.CP / (2 * math.Pi)
		p.Eta = p.CT / p.CP * p.J / (2 * math.Pi)
	default:
		return RotorPerformance{}, fmt.Errorf("%w: %q", ErrUnknownBasis, basis)
	}

	p.Degenerate = len(p.Warnings()) > 0
	return p, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
