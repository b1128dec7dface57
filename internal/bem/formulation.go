package bem

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/bemsim/internal/aero"
)

// InflowResidual evaluates one iteration of the inflow equations at
// x = (a, b). The residual is x minus the updated inflow factors, and the
// intermediates are those computed at x. Implementations must not keep
// per-call state.
type InflowResidual interface {
	Name() string
	Evaluate(x [2]float64, in ElementInput) ([2]float64, Intermediates)
}

// AngleFormulation iterates on the relative flow angle built from the
// axial and tangential velocities at the disk, and updates the inflow
// factors from an annulus momentum balance on the element loads.
type AngleFormulation struct {
	model aero.Model
}

func NewAngleFormulation(model aero.Model) *AngleFormulation {
	return &AngleFormulation{model: model}
}

func (f *AngleFormulation) Name() string { return "angle" }

func (f *AngleFormulation) Evaluate(x [2]float64, in ElementInput) ([2]float64, Intermediates) {
	a, b := x[0], x[1]

	s := baseIntermediates(in)
	omegaR := s.Omega * in.R

	s.V0 = in.VInf * (1 + a)
	s.V2 = omegaR * (1 - b)
	s.V1 = math.Hypot(s.V0, s.V2)
	s.Phi = math.Atan2(s.V0, s.V2)
	s.Alpha = in.Theta - s.Phi
	s.CD, s.CL = f.model.Coefficients(s.Alpha, in.R)
	applyLoads(&s, in)

	// annulus momentum: B·dT = 4πrρ·dr·V²(1+a)a, B·dQ = 4πr³ρ·dr·V(1+a)bΩ
	annulus := 4 * math.Pi * in.R * in.Rho * in.Dr
	newA := 0.5 * (a + in.blades()*s.DeltaT/(annulus*in.VInf*in.VInf*(1+a)))
	newB := 0.5 * b
	if s.Omega > 0 {
		newB = 0.5 * (b + in.blades()*s.DeltaQ/(annulus*in.R*in.R*in.VInf*(1+a)*s.Omega))
	}

	return [2]float64{a - newA, b - newB}, s
}

// TipSpeedFormulation iterates on the local tip speed ratio and updates the
// inflow factors in closed form from solidity, lift and flow angle.
type TipSpeedFormulation struct {
	model aero.Model
}

func NewTipSpeedFormulation(model aero.Model) *TipSpeedFormulation {
	return &TipSpeedFormulation{model: model}
}

func (f *TipSpeedFormulation) Name() string { return "tip-speed" }

func (f *TipSpeedFormulation) Evaluate(x [2]float64, in ElementInput) ([2]float64, Intermediates) {
	a, b := x[0], x[1]

	s := baseIntermediates(in)
	s.Phi = math.Atan(s.LambdaR * (1 + b) / (1 - a))
	s.Alpha = in.Theta - s.Phi
	s.CD, s.CL = f.model.Coefficients(s.Alpha, in.R)

	sinPhi, cosPhi := math.Sincos(s.Phi)
	newA := 1 / (1 + 4*cosPhi*cosPhi/(s.Sigma*s.CL*sinPhi))
	newB := 0.0
	if s.LambdaR > 0 {
		newB = s.Sigma * s.CL / (4 * s.LambdaR * cosPhi) * (1 - newA)
	}

	s.V0 = in.VInf * (1 + a)
	s.V2 = s.Omega * in.R * (1 - b)
	s.V1 = math.Hypot(s.V0, s.V2)
	applyLoads(&s, in)

	return [2]float64{a - newA, b - newB}, s
}

func baseIntermediates(in ElementInput) Intermediates {
	omega := in.Omega()
	return Intermediates{
		Omega:   omega,
		LambdaR: omega * in.R / in.VInf,
		Sigma:   in.blades() * in.Chord / (2 * math.Pi * in.R),
	}
}

// applyLoads fills DeltaT and DeltaQ from V1, Phi and the coefficients.
func applyLoads(s *Intermediates, in ElementInput) {
	qc := in.Rho * s.V1 * s.V1 * in.Chord * in.Dr
	sinPhi, cosPhi := math.Sincos(s.Phi)
	s.DeltaT = qc * (s.CL*cosPhi - s.CD*sinPhi)
	s.DeltaQ = qc * in.R * (s.CL*sinPhi + s.CD*cosPhi)
}

var formulations = map[string]func(aero.Model) InflowResidual{
	"angle":     func(m aero.Model) InflowResidual { return NewAngleFormulation(m) },
	"tip-speed": func(m aero.Model) InflowResidual { return NewTipSpeedFormulation(m) },
}

// NewFormulation returns the named formulation backed by model.
func NewFormulation(name string, model aero.Model) (InflowResidual, error) {
	fn, ok := formulations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormulation, name, FormulationNames())
	}
	return fn(model), nil
}

// FormulationNames lists registered formulation names in sorted order.
func FormulationNames() []string {
	names := make([]string, 0, len(formulations))
	for name := range formulations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
