package bem

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propellerRotor() RotorInput {
	return RotorInput{
		R:      0.8,
		RPM:    2100,
		Rho:    1.225,
		VInf:   60,
		DeltaT: []float64{12, 40, 85, 120, 96},
		DeltaQ: []float64{1, 3, 7, 11, 9},
	}
}

func TestAggregate_TorqueBasis(t *testing.T) {
	in := propellerRotor()

	p, err := Aggregate(in, TorqueBasis)
	require.NoError(t, err)

	n := 2100.0 / 60
	d := 1.6
	norm := 1.225 * n * n * math.Pow(d, 4)

	assert.Equal(t, 353.0, p.NetThrust)
	assert.Equal(t, 31.0, p.NetTorque)
	assert.InEpsilon(t, 353/norm, p.CT, 1e-12)
	assert.InEpsilon(t, 31/(norm*d), p.CQ, 1e-12)
	assert.InEpsilon(t, 2*math.Pi*p.CQ, p.CP, 1e-12)
	assert.InEpsilon(t, 60/(n*d), p.J, 1e-12)
	assert.InEpsilon(t, p.CT/p.CQ*p.J/(2*math.Pi), p.Eta, 1e-12)
	assert.Equal(t, TorqueBasis, p.Basis)
	assert.False(t, p.Degenerate)
	assert.Empty(t, p.Warnings())
}

func TestAggregate_PowerBasis(t *testing.T) {
	in := propellerRotor()

	tq, err := Aggregate(in, TorqueBasis)
	require.NoError(t, err)
	pw, err := Aggregate(in, PowerBasis)
	require.NoError(t, err)

	// the directly computed coefficient is the same number in both bases
	assert.Equal(t, tq.CQ, pw.CP)
	assert.InEpsilon(t, pw.CP/(2*math.Pi), pw.CQ, 1e-12)
	assert.InEpsilon(t, pw.CT/pw.CP*pw.J/(2*math.Pi), pw.Eta, 1e-12)
	assert.Equal(t, tq.CT, pw.CT)
	assert.Equal(t, tq.J, pw.J)
}

func TestAggregate_OrderInvariant(t *testing.T) {
	in := propellerRotor()
	base, err := Aggregate(in, TorqueBasis)
	require.NoError(t, err)

	perms := [][]int{
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 2, 3, 4, 0},
	}
	for _, perm := range perms {
		shuffled := in
		shuffled.DeltaT = make([]float64, len(perm))
		shuffled.DeltaQ = make([]float64, len(perm))
		for i, j := range perm {
			shuffled.DeltaT[i] = in.DeltaT[j]
			shuffled.DeltaQ[i] = in.DeltaQ[j]
		}

		p, err := Aggregate(shuffled, TorqueBasis)
		require.NoError(t, err)
		assert.Equal(t, base, p, "permutation %v", perm)
	}
}

func TestAggregate_AllZeroLoads(t *testing.T) {
	in := propellerRotor()
	in.DeltaT = make([]float64, 5)
	in.DeltaQ = make([]float64, 5)

	p, err := Aggregate(in, TorqueBasis)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.NetThrust)
	assert.Equal(t, 0.0, p.NetTorque)
	assert.Equal(t, 0.0, p.CT)
	assert.Equal(t, 0.0, p.CQ)
	assert.True(t, math.IsNaN(p.Eta), "eta = %v", p.Eta)
	assert.True(t, p.Degenerate)

	warnings := p.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "eta", warnings[0].Field)
	assert.Equal(t, "degenerate eta: NaN", warnings[0].String())
}

func TestAggregate_ParkedRotor(t *testing.T) {
	in := propellerRotor()
	in.RPM = 0

	p, err := Aggregate(in, TorqueBasis)
	require.NoError(t, err)

	assert.True(t, math.IsInf(p.CT, 1))
	assert.True(t, math.IsInf(p.J, 1))
	assert.True(t, p.Degenerate)
}

func TestAggregate_Errors(t *testing.T) {
	in := propellerRotor()
	in.DeltaQ = in.DeltaQ[:3]

	_, err := Aggregate(in, TorqueBasis)
	assert.True(t, errors.Is(err, ErrMisaligned))

	_, err = Aggregate(propellerRotor(), "energy")
	assert.True(t, errors.Is(err, ErrUnknownBasis))
}

func TestParseBasis(t *testing.T) {
	tests := []struct {
		in      string
		want    CoefficientBasis
		wantErr bool
	}{
		{"", TorqueBasis, false},
		{"torque", TorqueBasis, false},
		{"power", PowerBasis, false},
		{"thrust", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBasis(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
