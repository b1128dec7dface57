// Package geometry lays a blade out as radial stations.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrTooFewStations indicates a distribution with fewer than two points.
	ErrTooFewStations = errors.New("geometry: need at least two stations")

	// ErrBladeShape indicates hub and tip values that do not describe a blade.
	ErrBladeShape = errors.New("geometry: invalid blade shape")
)

// Linear spreads N equally spaced values from Start to End, shifted by Offset.
type Linear struct {
	Start  float64
	End    float64
	Offset float64
	N      int
}

// Output returns the N values.
func (l Linear) Output() ([]float64, error) {
	if l.N < 2 {
		return nil, fmt.Errorf("%w: n=%d", ErrTooFewStations, l.N)
	}
	out := make([]float64, l.N)
	floats.Span(out, l.Start, l.End)
	if l.Offset != 0 {
		floats.AddConst(l.Offset, out)
	}
	return out, nil
}

// Delta is the spacing between consecutive values.
func (l Linear) Delta() float64 {
	if l.N < 2 {
		return 0
	}
	return (l.End - l.Start) / float64(l.N-1)
}

// Blade describes a linearly tapered and twisted blade. Twist and pitch
// are in degrees.
type Blade struct {
	RHub     float64 `yaml:"r_hub" json:"r_hub"`
	RTip     float64 `yaml:"r_tip" json:"r_tip"`
	ChordHub float64 `yaml:"chord_hub" json:"chord_hub"`
	ChordTip float64 `yaml:"chord_tip" json:"chord_tip"`
	TwistHub float64 `yaml:"twist_hub" json:"twist_hub"`
	TwistTip float64 `yaml:"twist_tip" json:"twist_tip"`
	Pitch    float64 `yaml:"pitch" json:"pitch"`
	Blades   int     `yaml:"blades" json:"blades"`
}

// ReferenceBlade is the three-bladed reference rotor.
func ReferenceBlade() Blade {
	return Blade{
		RHub:     0.2,
		RTip:     5,
		ChordHub: 0.7,
		ChordTip: 0.187,
		TwistHub: 61,
		TwistTip: 92.58,
		Pitch:    0,
		Blades:   3,
	}
}

// Validate checks the blade describes a physical rotor.
func (b Blade) Validate() error {
	switch {
	case b.RHub < 0:
		return fmt.Errorf("%w: r_hub=%g is negative", ErrBladeShape, b.RHub)
	case b.RTip <= b.RHub:
		return fmt.Errorf("%w: r_tip=%g must exceed r_hub=%g", ErrBladeShape, b.RTip, b.RHub)
	case b.ChordHub <= 0 || b.ChordTip <= 0:
		return fmt.Errorf("%w: chords must be positive (hub=%g, tip=%g)", ErrBladeShape, b.ChordHub, b.ChordTip)
	case b.Blades < 1:
		return fmt.Errorf("%w: blades=%d", ErrBladeShape, b.Blades)
	}
	return nil
}

// Station is one radial slice. Theta is in radians.
type Station struct {
	Index int     `json:"index"`
	R     float64 `json:"r"`
	Dr    float64 `json:"dr"`
	Theta float64 `json:"theta"`
	Chord float64 `json:"chord"`
}

// Stations places n stations from hub to tip. The first and last station
// sit on the hub and tip radii and every station is Dr wide.
func (b Blade) Stations(n int) ([]Station, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	radius := Linear{Start: b.RHub, End: b.RTip, N: n}
	rs, err := radius.Output()
	if err != nil {
		return nil, err
	}
	chords, _ := Linear{Start: b.ChordHub, End: b.ChordTip, N: n}.Output()
	twists, _ := Linear{Start: b.TwistHub, End: b.TwistTip, Offset: b.Pitch, N: n}.Output()

	dr := radius.Delta()
	stations := make([]Station, n)
	for i := range stations {
		stations[i] = Station{
			Index: i,
			R:     rs[i],
			Dr:    dr,
			Theta: twists[i] * math.Pi / 180,
			Chord: chords[i],
		}
	}
	return stations, nil
}
