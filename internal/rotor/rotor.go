// Package rotor evaluates a whole rotor: it lays the blade out as
// stations, solves every element and aggregates the loads.
package rotor

import (
	"fmt"

	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
)

// Operating is the rotor operating point.
type Operating struct {
	RPM  float64 `yaml:"rpm" json:"rpm"`
	Rho  float64 `yaml:"rho" json:"rho"`
	VInf float64 `yaml:"v_inf" json:"v_inf"`
}

// Rotor is everything needed to evaluate one operating point.
type Rotor struct {
	Blade     geometry.Blade       `json:"blade"`
	Operating Operating            `json:"operating"`
	Elements  int                  `json:"elements"`
	AInit     float64              `json:"a_init"`
	BInit     float64              `json:"b_init"`
	Basis     bem.CoefficientBasis `json:"basis"`
}

// SmallRotor is the three-element reference rotor.
func SmallRotor() Rotor {
	r := DefaultRotor()
	r.Elements = 3
	return r
}

// DefaultRotor is the six-element reference rotor at its rated speed.
func DefaultRotor() Rotor {
	in := bem.DefaultElementInput()
	return Rotor{
		Blade: geometry.ReferenceBlade(),
		Operating: Operating{
			RPM:  in.RPM,
			Rho:  in.Rho,
			VInf: in.VInf,
		},
		Elements: 6,
		AInit:    in.AInit,
		BInit:    in.BInit,
		Basis:    bem.TorqueBasis,
	}
}

// PropellerRotor is a two-bladed propeller in forward flight.
func PropellerRotor() Rotor {
	return Rotor{
		Blade: geometry.Blade{
			RHub:     0.1,
			RTip:     0.8,
			ChordHub: 0.12,
			ChordTip: 0.06,
			TwistHub: 72,
			TwistTip: 22,
			Blades:   2,
		},
		Operating: Operating{RPM: 2100, Rho: 1.225, VInf: 60},
		Elements:  6,
		AInit:     0.2,
		BInit:     0.01,
		Basis:     bem.TorqueBasis,
	}
}

// Inputs lays the blade out and builds one element input per station.
func (r Rotor) Inputs() ([]geometry.Station, []bem.ElementInput, error) {
	stations, err := r.Blade.Stations(r.Elements)
	if err != nil {
		return nil, nil, fmt.Errorf("rotor: %w", err)
	}

	inputs := make([]bem.ElementInput, len(stations))
	for i, s := range stations {
		inputs[i] = bem.ElementInput{
			R:      s.R,
			Dr:     s.Dr,
			Theta:  s.Theta,
			Chord:  s.Chord,
			Blades: r.Blade.Blades,
			RPM:    r.Operating.RPM,
			Rho:    r.Operating.Rho,
			VInf:   r.Operating.VInf,
			AInit:  r.AInit,
			BInit:  r.BInit,
		}
	}
	return stations, inputs, nil
}
