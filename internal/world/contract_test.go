package world_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxsim/internal/world"
)

var _ = Describe("World", func() {
	var w *world.World

	BeforeEach(func() {
		w = world.New(0, 100, 100)
	})

	Describe("AddSquare", func() {
		It("leaves the body list unchanged when the new square overlaps", func() {
			Expect(w.AddSquare("a", false, 10, 10, 20, 1)).To(BeTrue())
			before := w.SquareProps()

			ok, err := w.AddSquare("b", true, 25, 25, 20, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(w.SquareProps()).To(Equal(before))
		})

		It("rejects movable bodies without a positive mass", func() {
			_, err := w.AddSquare("ghost", false, 0, 0, 5, 0)
			Expect(err).To(MatchError(world.ErrInvalidMass))
			Expect(w.Len()).To(BeZero())
		})

		It("accepts squares outside the visible area and culls them on the next step", func() {
			Expect(w.AddSquare("far", false, 500, 500, 5, 1)).To(BeTrue())
			stats := w.Update(0.1)
			Expect(stats.Removed).To(HaveLen(1))
			Expect(w.Len()).To(BeZero())
		})
	})

	Describe("forces", func() {
		BeforeEach(func() {
			w.AddForce(world.Force{Name: "only"})
		})

		It("mutates a single component in place", func() {
			Expect(w.SetForceY(0, 98)).To(Succeed())
			Expect(w.Forces()).To(Equal([]world.Force{{Name: "only", Y: 98}}))
		})

		It("returns a bounds error for an unknown index", func() {
			err := w.SetForceX(3, 1)
			Expect(err).To(MatchError(world.ErrForceIndex))
			var ie *world.ForceIndexError
			Expect(err).To(BeAssignableToTypeOf(ie))
		})
	})

	Describe("Update", func() {
		Context("with a floor and a falling ball", func() {
			BeforeEach(func() {
				w.AddSquare("floor", true, 0, 90, 100, 1)
				w.AddSquare("ball", false, 40, 0, 10, 1)
				w.AddForce(world.Force{Name: "gravity", Y: 98})
			})

			It("rests the ball on top of the floor", func() {
				for k := 1; k <= 50; k++ {
					w.Update(float64(k) * 0.1)
				}
				ball := w.Bodies()[1]
				Expect(ball.Y).To(Equal(80.0))
				Expect(ball.VY).To(BeZero())
			})

			It("never moves the floor", func() {
				floor := w.Bodies()[0]
				for k := 1; k <= 50; k++ {
					w.Update(float64(k) * 0.1)
					Expect(w.Bodies()[0]).To(Equal(floor))
				}
			})
		})

		It("is idempotent for a repeated timestamp", func() {
			w.AddSquare("a", false, 10, 10, 5, 1)
			w.AddForce(world.Force{Name: "wind", X: 3})
			w.Update(1)
			before := w.SquareProps()
			w.Update(1)
			Expect(w.SquareProps()).To(Equal(before))
		})

		It("terminates for a crowded scene", func() {
			for i := 0; i < 6; i++ {
				w.AddSquare("box", false, 40, float64(i)*10, 10, 1)
			}
			w.AddSquare("floor", true, 0, 60, 100, 1)
			w.AddForce(world.Force{Name: "gravity", Y: 500})

			for k := 1; k <= 20; k++ {
				stats := w.Update(float64(k) * 0.05)
				Expect(stats.MaxPasses).To(BeNumerically("<=", world.MaxResolvePasses))
			}
			for _, b := range w.Bodies() {
				Expect(math.IsNaN(b.Y)).To(BeFalse())
			}
		})

		It("removes bodies pushed past the right edge", func() {
			w.AddSquare("drifter", false, 80, 50, 10, 2)
			w.AddForce(world.Force{Name: "wind", X: 40})

			Eventually(func() int {
				w.Update(w.LastUpdate() + 0.5)
				return w.Len()
			}).Should(BeZero())
		})
	})
})
