package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("SaturatingCounter", func() {
	It("should saturate at 3 when strengthened", func() {
		c := predictor.StronglyNotTaken
		for i := 0; i < 10; i++ {
			c.Strengthen()
			Expect(c.Value()).To(BeNumerically("<=", 3))
		}
		Expect(c).To(Equal(predictor.StronglyTaken))
	})

	It("should saturate at 0 when weakened", func() {
		c := predictor.StronglyTaken
		for i := 0; i < 10; i++ {
			c.Weaken()
		}
		Expect(c).To(Equal(predictor.StronglyNotTaken))
	})

	It("should stay within [0,3] for a mixed sequence", func() {
		c := predictor.WeaklyNotTaken
		ops := []bool{true, true, true, true, false, true, false, false, false, false, false, true}
		for _, up := range ops {
			if up {
				c.Strengthen()
			} else {
				c.Weaken()
			}
			Expect(c.Value()).To(BeNumerically(">=", 0))
			Expect(c.Value()).To(BeNumerically("<=", 3))
		}
		Expect(c).To(Equal(predictor.WeaklyNotTaken))
	})

	It("should predict taken only for 2 and 3", func() {
		Expect(predictor.StronglyNotTaken.Predict()).To(Equal(predictor.NotTaken))
		Expect(predictor.WeaklyNotTaken.Predict()).To(Equal(predictor.NotTaken))
		Expect(predictor.WeaklyTaken.Predict()).To(Equal(predictor.Taken))
		Expect(predictor.StronglyTaken.Predict()).To(Equal(predictor.Taken))
	})

	It("should require 2 opposite outcomes to change direction from strong", func() {
		c := predictor.StronglyTaken
		c.Update(predictor.NotTaken)
		Expect(c.Predict()).To(Equal(predictor.Taken))
		c.Update(predictor.NotTaken)
		Expect(c.Predict()).To(Equal(predictor.NotTaken))
	})
})

var _ = Describe("Outcome", func() {
	It("should convert from bool", func() {
		Expect(predictor.OutcomeOf(true)).To(Equal(predictor.Taken))
		Expect(predictor.OutcomeOf(false)).To(Equal(predictor.NotTaken))
	})

	It("should render names", func() {
		Expect(predictor.Taken.String()).To(Equal("TAKEN"))
		Expect(predictor.NotTaken.String()).To(Equal("NOT_TAKEN"))
	})
})
