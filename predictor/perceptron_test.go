package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("PerceptronScheme", func() {
	It("should predict taken on a zero score", func() {
		p := predictor.NewPerceptronScheme(8, 6, 0, 0)
		for _, pc := range []uint32{0, 1, 0x40d7f8, 0xFFFFFFFF} {
			Expect(p.Predict(pc)).To(Equal(predictor.Taken))
			Expect(p.LastScore()).To(Equal(int32(0)))
		}
	})

	It("should default theta to floor(1.93h+14)", func() {
		p := predictor.NewPerceptronScheme(12, 4, 0, 0)
		Expect(p.Theta()).To(Equal(int32(37)))
	})

	It("should keep historyBits+1 weights per vector", func() {
		p := predictor.NewPerceptronScheme(5, 3, 0, 0)
		Expect(p.Weights(0)).To(HaveLen(6))
	})

	It("should stop training once the score clears theta", func() {
		p := predictor.NewPerceptronScheme(2, 2, 1, 0)
		for i := 0; i < 10; i++ {
			p.Predict(0)
			p.Train(0, predictor.Taken)
		}

		Expect(p.History().Value()).To(Equal(uint32(3)))
		Expect(p.Weights(0)).To(Equal([]int32{1, 1, 1}))
		Expect(p.Predict(0)).To(Equal(predictor.Taken))
		Expect(p.LastScore()).To(Equal(int32(3)))
	})

	It("should always train on a misprediction", func() {
		p := predictor.NewPerceptronScheme(2, 2, 1, 0)
		for i := 0; i < 10; i++ {
			p.Predict(0)
			p.Train(0, predictor.Taken)
		}

		w := p.Weights(0)
		Expect(p.Predict(0)).To(Equal(predictor.Taken))
		p.Train(0, predictor.NotTaken)
		Expect(w).To(Equal([]int32{0, 0, 0}))
		Expect(p.History().Value()).To(Equal(uint32(2)))
	})

	It("should learn an always-not-taken branch", func() {
		p := predictor.NewPerceptronScheme(4, 4, 0, 0)
		for i := 0; i < 10; i++ {
			p.Predict(0x80)
			p.Train(0x80, predictor.NotTaken)
		}
		Expect(p.Predict(0x80)).To(Equal(predictor.NotTaken))
		Expect(p.LastScore()).To(BeNumerically("<", 0))
	})

	It("should let weights grow without a weight limit", func() {
		p := predictor.NewPerceptronScheme(2, 2, 1000, 0)
		for i := 0; i < 50; i++ {
			p.Predict(0)
			p.Train(0, predictor.Taken)
		}
		Expect(p.Weights(0)).To(Equal([]int32{48, 48, 48}))
	})

	It("should saturate weights at the weight limit", func() {
		p := predictor.NewPerceptronScheme(2, 2, 1000, 2)
		for i := 0; i < 50; i++ {
			p.Predict(0)
			p.Train(0, predictor.Taken)
		}
		Expect(p.Weights(0)).To(Equal([]int32{2, 2, 2}))
	})

	It("should train correctly without a preceding predict", func() {
		a := predictor.NewPerceptronScheme(3, 3, 0, 0)
		b := predictor.NewPerceptronScheme(3, 3, 0, 0)
		for i := uint32(0); i < 64; i++ {
			pc := i * 4
			outcome := predictor.OutcomeOf(i%3 == 0)
			a.Predict(pc)
			a.Train(pc, outcome)
			b.Train(pc, outcome)
		}
		for pc := uint32(0); pc < 16; pc++ {
			Expect(a.Weights(pc)).To(Equal(b.Weights(pc)))
		}
	})

	It("should zero weights on reset", func() {
		p := predictor.NewPerceptronScheme(2, 2, 0, 0)
		for i := 0; i < 10; i++ {
			p.Train(0, predictor.NotTaken)
		}
		p.Reset()
		Expect(p.History().Value()).To(Equal(uint32(0)))
		Expect(p.Weights(0)).To(Equal([]int32{0, 0, 0}))
		Expect(p.Predict(0)).To(Equal(predictor.Taken))
	})
})
