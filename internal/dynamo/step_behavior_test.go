package dynamo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springnet/internal/dynamo"
)

var _ = Describe("Graph stepping", func() {
	var g *dynamo.Graph

	BeforeEach(func() {
		g = dynamo.New(dynamo.WithJitter(dynamo.NewRandJitter(1)))
		g.AddVertex(300, 200)
		g.AddVertex(360, 200)
		g.AddVertex(330, 250)
	})

	Context("with a pinned vertex", func() {
		It("never moves it, bit for bit", func() {
			pinned, err := g.Vertex(0)
			Expect(err).NotTo(HaveOccurred())
			pinned.Pinned = true
			x, y := pinned.X, pinned.Y

			stretched, _ := g.Vertex(2)
			stretched.Y = 320

			for i := 0; i < 500; i++ {
				g.Step()
				v, _ := g.Vertex(0)
				Expect(math.Float64bits(v.X)).To(Equal(math.Float64bits(x)))
				Expect(math.Float64bits(v.Y)).To(Equal(math.Float64bits(y)))
			}
		})
	})

	Context("without gravity", func() {
		BeforeEach(func() {
			g.Gravity = 0
		})

		It("starts with zero energy at rest", func() {
			g.Step()
			Expect(g.PotentialEnergy()).To(BeNumerically("~", 0, 1e-12))
			Expect(g.KineticEnergy()).To(BeNumerically("~", 0, 1e-12))
		})

		It("releases a stretched spring back towards equilibrium", func() {
			v, _ := g.Vertex(1)
			v.X += 8

			g.Step()
			initial := g.PotentialEnergy()
			Expect(initial).To(BeNumerically(">", 0))

			for i := 0; i < 3000; i++ {
				g.Step()
			}
			Expect(g.PotentialEnergy()).To(BeNumerically("<", initial*0.01))
			Expect(g.KineticEnergy()).To(BeNumerically("<", 1e-3))
			Expect(g.IsValid()).To(BeTrue())
		})

		It("tolerates position writes between steps", func() {
			for i := 0; i < 10; i++ {
				v, _ := g.Vertex(2)
				v.X += 40
				g.Step()
			}
			Expect(g.IsValid()).To(BeTrue())
			Expect(g.KineticEnergy()).To(BeNumerically(">", 0))
		})
	})

	Context("when vertices coincide", func() {
		It("does not produce NaN", func() {
			a, _ := g.Vertex(0)
			b, _ := g.Vertex(1)
			b.X, b.Y = a.X, a.Y
			for i := 0; i < 50; i++ {
				g.Step()
			}
			Expect(g.IsValid()).To(BeTrue())
		})
	})

	Describe("undo", func() {
		It("removes the newest vertex and its springs", func() {
			Expect(g.NumEdges()).To(Equal(3))
			g.RemoveLastVertex()
			Expect(g.NumVertices()).To(Equal(2))
			Expect(g.Edges()).To(ConsistOf(
				HaveField("End", dynamo.VertexID(1)),
			))
		})

		It("is a no-op once the graph is empty", func() {
			for i := 0; i < 5; i++ {
				g.RemoveLastVertex()
			}
			Expect(g.NumVertices()).To(BeZero())
			Expect(g.NumEdges()).To(BeZero())
		})
	})
})
