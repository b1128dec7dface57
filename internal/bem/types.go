package bem

import "math"

// ElementInput is the geometry and operating point of one radial slice.
// Angles are in radians.
type ElementInput struct {
	R      float64 `json:"r"`
	Dr     float64 `json:"dr"`
	Theta  float64 `json:"theta"`
	Chord  float64 `json:"chord"`
	Blades int     `json:"blades"` // zero means a single blade
	RPM    float64 `json:"rpm"`
	Rho    float64 `json:"rho"`
	VInf   float64 `json:"v_inf"`
	AInit  float64 `json:"a_init"`
	BInit  float64 `json:"b_init"`
}

// DefaultElementInput is the reference rotor's tip element.
func DefaultElementInput() ElementInput {
	return ElementInput{
		R:      5,
		Dr:     1,
		Theta:  1.616,
		Chord:  0.1872796,
		Blades: 3,
		RPM:    106.952,
		Rho:    1.225,
		VInf:   7,
		AInit:  0.2,
		BInit:  0.01,
	}
}

// Validate checks physical preconditions.
func (in ElementInput) Validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
		rule  string
	}{
		{"r", in.R, in.R > 0, "> 0"},
		{"dr", in.Dr, in.Dr > 0, "> 0"},
		{"chord", in.Chord, in.Chord > 0, "> 0"},
		{"v_inf", in.VInf, in.VInf > 0, "> 0"},
		{"rho", in.Rho, in.Rho > 0, "> 0"},
		{"rpm", in.RPM, in.RPM >= 0, ">= 0"},
		{"blades", float64(in.Blades), in.Blades >= 0, ">= 0"},
		{"theta", in.Theta, isFinite(in.Theta), "finite"},
		{"a_init", in.AInit, isFinite(in.AInit), "finite"},
		{"b_init", in.BInit, isFinite(in.BInit), "finite"},
	}
	for _, c := range checks {
		// NaN fails every comparison, so it is rejected here too
		if !c.ok {
			return &InvalidInputError{Field: c.field, Value: c.value, Rule: c.rule}
		}
	}
	return nil
}

func (in ElementInput) blades() float64 {
	if in.Blades < 1 {
		return 1
	}
	return float64(in.Blades)
}

// Omega is the angular velocity in rad/s.
func (in ElementInput) Omega() float64 {
	return in.RPM * 2 * math.Pi / 60
}

// Intermediates are the quantities derived while evaluating one inflow
// iteration at a given (a, b).
type Intermediates struct {
	Omega   float64 `json:"omega"`
	V0      float64 `json:"v_0"`
	V1      float64 `json:"v_1"`
	V2      float64 `json:"v_2"`
	Phi     float64 `json:"phi"`
	Alpha   float64 `json:"alpha"`
	Sigma   float64 `json:"sigma"`
	LambdaR float64 `json:"lambda_r"`
	CL      float64 `json:"c_l"`
	CD      float64 `json:"c_d"`
	DeltaT  float64 `json:"delta_t"`
	DeltaQ  float64 `json:"delta_q"`
}

// ElementOutput is the converged state of one element.
type ElementOutput struct {
	Intermediates
	A          float64    `json:"a"`
	B          float64    `json:"b"`
	Residual   [2]float64 `json:"residual"`
	Iterations int        `json:"iterations"`
}

// RotorInput collects index-aligned element loads and the rotor operating point.
type RotorInput struct {
	R      float64   `json:"r"`
	RPM    float64   `json:"rpm"`
	Rho    float64   `json:"rho"`
	VInf   float64   `json:"v_inf"`
	DeltaT []float64 `json:"delta_t"`
	DeltaQ []float64 `json:"delta_q"`
}

// RotorPerformance holds aggregated rotor loads and coefficients.
type RotorPerformance struct {
	NetThrust float64          `json:"net_thrust"`
	NetTorque float64          `json:"net_torque"`
	CT        float64          `json:"c_t"`
	CQ        float64          `json:"c_q"`
	CP        float64          `json:"c_p"`
	J         float64          `json:"j"`
	Eta       float64          `json:"eta"`
	Basis     CoefficientBasis `json:"basis"`

	// Degenerate flags a stalled or idle rotor whose coefficients hold NaN
	// or Inf. It is a warning, not an error.
	Degenerate bool `json:"degenerate"`
}

// Warnings describes each non-finite coefficient of a degenerate result.
func (p RotorPerformance) Warnings() []DegenerateResultWarning {
	var out []DegenerateResultWarning
	fields := []struct {
		name  string
		value float64
	}{
		{"c_t", p.CT}, {"c_q", p.CQ}, {"c_p", p.CP}, {"j", p.J}, {"eta", p.Eta},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			out = append(out, DegenerateResultWarning{Field: f.name, Value: f.value})
		}
	}
	return out
}

// DegenerateResultWarning reports a coefficient that is not a finite number.
type DegenerateResultWarning struct {
	Field string
	Value float64
}

func (w DegenerateResultWarning) String() string {
	return "degenerate " + w.Field + ": " + formatFloat(w.Value)
}

// ActuatorDiskOutput is the closed-form actuator disk result.
type ActuatorDiskOutput struct {
	Ct     float64 `json:"ct"`
	Thrust float64 `json:"thrust"`
	Cp     float64 `json:"cp"`
	Power  float64 `json:"power"`
	Vr     float64 `json:"vr"`
	Vd     float64 `json:"vd"`
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
