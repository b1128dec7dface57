package rotor_test

import (
	"context"
	"errors"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bemsim/internal/aero"
	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
	"github.com/san-kum/bemsim/internal/rootfind"
	"github.com/san-kum/bemsim/internal/rotor"
)

func newSolver(formulation string) *bem.Solver {
	res, err := bem.NewFormulation(formulation, aero.PaperTable())
	Expect(err).NotTo(HaveOccurred())
	finder, err := rootfind.New("broyden", rootfind.DefaultSettings())
	Expect(err).NotTo(HaveOccurred())
	return bem.NewSolver(res, finder)
}

// stubSolver fails to converge until it is handed the accepted guess.
type stubSolver struct {
	accept [2]float64
	calls  atomic.Int32
}

func (s *stubSolver) Solve(in bem.ElementInput) (bem.ElementOutput, error) {
	s.calls.Add(1)
	if in.AInit != s.accept[0] || in.BInit != s.accept[1] {
		return bem.ElementOutput{}, &bem.ConvergenceError{Cause: rootfind.ErrMaxIterations}
	}
	out := bem.ElementOutput{A: in.AInit, B: in.BInit}
	out.DeltaT = in.R
	out.DeltaQ = in.R * in.R
	return out, nil
}

type zeroSolver struct{}

func (zeroSolver) Solve(bem.ElementInput) (bem.ElementOutput, error) {
	return bem.ElementOutput{}, nil
}

var _ = Describe("Rotor", func() {
	It("lays out one input per station", func() {
		r := rotor.PropellerRotor()
		stations, inputs, err := r.Inputs()
		Expect(err).NotTo(HaveOccurred())
		Expect(stations).To(HaveLen(6))
		Expect(inputs).To(HaveLen(6))
		Expect(inputs[0].R).To(Equal(0.1))
		Expect(inputs[5].R).To(BeNumerically("~", 0.8, 1e-12))
		for _, in := range inputs {
			Expect(in.Blades).To(Equal(2))
			Expect(in.RPM).To(Equal(2100.0))
			Expect(in.Dr).To(BeNumerically("~", 0.14, 1e-12))
		}
	})

	It("rejects a blade with a single station", func() {
		r := rotor.PropellerRotor()
		r.Elements = 1
		_, _, err := r.Inputs()
		Expect(err).To(MatchError(geometry.ErrTooFewStations))
	})

	It("mirrors the reference rotor in its presets", func() {
		Expect(rotor.DefaultRotor().Elements).To(Equal(6))
		Expect(rotor.SmallRotor().Elements).To(Equal(3))
		Expect(rotor.DefaultRotor().Blade).To(Equal(geometry.ReferenceBlade()))
	})
})

var _ = Describe("Evaluator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with the angle formulation on a propeller", func() {
		var ev *rotor.Evaluator

		BeforeEach(func() {
			ev = rotor.NewEvaluator(newSolver("angle"))
		})

		It("converges every element and aggregates the loads", func() {
			res, err := ev.Evaluate(ctx, rotor.PropellerRotor())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Elements).To(HaveLen(6))
			Expect(res.Stations).To(HaveLen(6))

			p := res.Performance
			Expect(p.Degenerate).To(BeFalse())
			Expect(p.NetThrust).To(BeNumerically("~", 669.667, 0.01))
			Expect(p.NetTorque).To(BeNumerically("~", 220.701, 0.01))
			Expect(p.CT).To(BeNumerically("~", 0.0680937, 1e-6))
			Expect(p.CQ).To(BeNumerically("~", 0.0140259, 1e-6))
			Expect(p.J).To(BeNumerically("~", 1.0714286, 1e-6))
			Expect(p.Eta).To(BeNumerically("~", 0.827863, 1e-5))
		})

		It("sums the element loads it reports", func() {
			res, err := ev.Evaluate(ctx, rotor.PropellerRotor())
			Expect(err).NotTo(HaveOccurred())

			var thrust, torque float64
			for _, el := range res.Elements {
				Expect(el.Residual[0]).To(BeNumerically("~", 0, 1e-10))
				Expect(el.Residual[1]).To(BeNumerically("~", 0, 1e-10))
				thrust += el.DeltaT
				torque += el.DeltaQ
			}
			Expect(res.Performance.NetThrust).To(BeNumerically("~", thrust, 1e-9))
			Expect(res.Performance.NetTorque).To(BeNumerically("~", torque, 1e-9))
		})

		It("coarsens with fewer elements", func() {
			r := rotor.PropellerRotor()
			r.Elements = 3
			res, err := ev.Evaluate(ctx, r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Performance.NetThrust).To(BeNumerically("~", 836.205, 0.01))
			Expect(res.Performance.NetTorque).To(BeNumerically("~", 282.989, 0.01))
		})

		It("derives the power coefficient from torque on the power basis", func() {
			r := rotor.PropellerRotor()
			r.Basis = bem.PowerBasis
			res, err := ev.Evaluate(ctx, r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Performance.Basis).To(Equal(bem.PowerBasis))
			Expect(res.Performance.CP).To(BeNumerically("~", 0.0140259, 1e-6))
		})

		It("reports the failing element of an invalid operating point", func() {
			r := rotor.PropellerRotor()
			r.Operating.VInf = 0
			_, err := ev.Evaluate(ctx, r)
			Expect(err).To(MatchError(bem.ErrInvalidInput))

			var ee *bem.ElementError
			Expect(errors.As(err, &ee)).To(BeTrue())
			Expect(ee.Index).To(BeNumerically(">=", 0))
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := ev.Evaluate(cctx, rotor.PropellerRotor())
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("with the tip-speed formulation on the reference rotor", func() {
		It("converges below rated speed", func() {
			r := rotor.DefaultRotor()
			r.Operating.RPM = 80

			res, err := rotor.NewEvaluator(newSolver("tip-speed")).Evaluate(ctx, r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Performance.NetThrust).To(BeNumerically("~", 213.748, 0.01))
			Expect(res.Performance.NetTorque).To(BeNumerically("~", 3395.812, 0.01))
			Expect(res.Performance.J).To(BeNumerically("~", 0.525, 1e-9))
		})
	})

	Context("with retry guesses", func() {
		It("retries a non-converging element from each guess in turn", func() {
			stub := &stubSolver{accept: [2]float64{0.3, 0.02}}
			ev := rotor.NewEvaluator(stub, rotor.WithRetryGuesses([2]float64{0.1, 0}, [2]float64{0.3, 0.02}))

			r := rotor.PropellerRotor()
			r.Elements = 2
			res, err := ev.Evaluate(ctx, r)
			Expect(err).NotTo(HaveOccurred())
			Expect(stub.calls.Load()).To(Equal(int32(6)))
			for _, el := range res.Elements {
				Expect(el.A).To(Equal(0.3))
			}
			Expect(res.Performance.NetThrust).To(BeNumerically("~", 0.9, 1e-12))
		})

		It("returns the first failure when no guess converges", func() {
			stub := &stubSolver{accept: [2]float64{9, 9}}
			ev := rotor.NewEvaluator(stub, rotor.WithRetryGuesses([2]float64{0.1, 0}))

			_, err := ev.Evaluate(ctx, rotor.PropellerRotor())
			Expect(err).To(MatchError(bem.ErrConvergence))
		})
	})

	It("returns a degenerate result without error", func() {
		res, err := rotor.NewEvaluator(zeroSolver{}).Evaluate(ctx, rotor.PropellerRotor())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Performance.Degenerate).To(BeTrue())
		Expect(res.Performance.Warnings()).NotTo(BeEmpty())
	})
})
