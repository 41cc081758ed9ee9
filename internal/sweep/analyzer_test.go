package sweep_test

import (
	"context"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/celbio/methanosim/internal/metrics"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/sim"
	"github.com/celbio/methanosim/internal/sweep"
)

func fastConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Horizon = 60
	cfg.Samples = 50
	return cfg
}

var _ = Describe("Range", func() {
	It("builds a uniform grid including both endpoints", func() {
		values := sweep.Range(0, 1, 5)
		Expect(values).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
	})

	It("collapses a single-point request to the minimum", func() {
		Expect(sweep.Range(3, 9, 1)).To(Equal([]float64{3}))
		Expect(sweep.Range(3, 9, 0)).To(Equal([]float64{3}))
	})

	It("collapses a degenerate interval", func() {
		Expect(sweep.Range(5, 5, 10)).To(Equal([]float64{5}))
	})
})

var _ = Describe("Analyzer", func() {
	var base params.Set

	BeforeEach(func() {
		base = params.Default()
	})

	It("rejects an unknown integrator at construction", func() {
		_, err := sweep.New("nonexistent", fastConfig())
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown parameter name", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		_, err = an.Sweep(context.Background(), base, "nonexistent", []float64{1})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid base set before sweeping", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		base.KmRef = 0
		_, err = an.Sweep(context.Background(), base, "temperature_c", []float64{25})
		Expect(err).To(HaveOccurred())
	})

	It("reproduces a direct simulation at a single grid point", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		res, err := an.Sweep(context.Background(), base, "temperature_c", sweep.Range(30, 30, 1))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Points).To(HaveLen(1))
		Expect(res.Points[0].Err).NotTo(HaveOccurred())

		derived, err := base.With("temperature_c", 30)
		Expect(err).NotTo(HaveOccurred())
		integ, err := sim.GetIntegrator("rk45")
		Expect(err).NotTo(HaveOccurred())
		tr, err := sim.New(integ).Simulate(context.Background(), derived, fastConfig())
		Expect(err).NotTo(HaveOccurred())

		direct := metrics.FromTrajectory(derived, tr)
		Expect(res.Points[0].Metrics.FinalRate).To(Equal(direct.FinalRate))
		Expect(res.Points[0].Metrics.CH4Uptake).To(Equal(direct.CH4Uptake))
	})

	It("shows the final rate falling as substrate affinity weakens", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		res, err := an.Sweep(context.Background(), base, "km_ref", sweep.Range(1e-4, 1e-2, 5))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Failed()).To(BeZero())

		rates := res.FinalRates()
		for i := 1; i < len(rates); i++ {
			Expect(rates[i]).To(BeNumerically("<", rates[i-1]),
				"rate should fall with Km, point %d", i)
		}
	})

	It("records a failed point without aborting the sweep", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		// -300°C is below absolute zero and fails parameter derivation
		res, err := an.Sweep(context.Background(), base, "temperature_c", []float64{20, -300, 30})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Failed()).To(Equal(1))

		Expect(res.Points[0].Err).NotTo(HaveOccurred())
		Expect(res.Points[1].Err).To(HaveOccurred())
		Expect(res.Points[2].Err).NotTo(HaveOccurred())
		Expect(res.Points[2].Metrics.FinalRate).To(BeNumerically(">", 0))

		// failed points report a zero rate in the plotted series
		Expect(res.FinalRates()[1]).To(BeZero())
	})

	It("stops between points when the context is cancelled", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := an.Sweep(ctx, base, "temperature_c", sweep.Range(10, 40, 8))
		Expect(err).To(MatchError(context.Canceled))

		// the grid values survive cancellation so partial results stay usable
		Expect(res.Points).To(HaveLen(8))
		for _, pt := range res.Points {
			Expect(pt.Value).To(BeNumerically(">=", 10))
		}
	})

	It("reports every completed point through OnPoint", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		var calls atomic.Int64
		an.OnPoint = func(param string, index, total int, pt sweep.Point) {
			calls.Add(1)
		}

		_, err = an.Sweep(context.Background(), base, "scaling", sweep.Range(0.5, 2, 4))
		Expect(err).NotTo(HaveOccurred())
		Expect(calls.Load()).To(Equal(int64(4)))
	})

	It("honors the worker bound", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())
		an.SetWorkers(1)

		res, err := an.Sweep(context.Background(), base, "scaling", sweep.Range(0.5, 2, 4))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Failed()).To(BeZero())
	})
})

var _ = Describe("SweepAll", func() {
	It("normalizes each row to the unit interval", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		f, ok := params.Lookup("km_ref")
		Expect(ok).To(BeTrue())

		hm, err := an.SweepAll(context.Background(), params.Default(), []params.Field{f}, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(hm.Params).To(Equal([]string{"km_ref"}))
		Expect(hm.Normalized[0]).To(HaveLen(5))
		Expect(hm.Failures[0]).To(BeZero())

		for _, v := range hm.Normalized[0] {
			Expect(v).To(BeNumerically(">=", 0))
			Expect(v).To(BeNumerically("<=", 1))
		}
		// a varying row touches both ends of the scale
		Expect(hm.Normalized[0]).To(ContainElement(0.0))
		Expect(hm.Normalized[0]).To(ContainElement(1.0))
	})

	It("normalizes a constant row to zeros", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		f, ok := params.Lookup("scaling")
		Expect(ok).To(BeTrue())
		f.Min = 1
		f.Max = 1

		hm, err := an.SweepAll(context.Background(), params.Default(), []params.Field{f}, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(hm.Normalized[0]).To(Equal([]float64{0}))
	})

	It("stops between rows when the context is cancelled", func() {
		an, err := sweep.New("rk45", fastConfig())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		hm, err := an.SweepAll(ctx, params.Default(), params.Fields(), 3)
		Expect(err).To(MatchError(context.Canceled))
		Expect(hm.Params).To(BeEmpty())
	})
})
