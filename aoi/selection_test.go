package aoi_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/opensarlab/asftool/aoi"
)

var _ = Describe("Extent", func() {
	It("accepts ordered corners within world bounds", func() {
		_, err := aoi.NewExtent(-100, -100, 100, 100)
		Expect(err).NotTo(HaveOccurred())
	})
	It("rejects mis-ordered corners", func() {
		_, err := aoi.NewExtent(100, -100, -100, 100)
		Expect(err).To(HaveOccurred())
		_, err = aoi.NewExtent(-100, 100, 100, -100)
		Expect(err).To(HaveOccurred())
	})
	It("rejects corners outside the EPSG:3857 world", func() {
		_, err := aoi.NewExtent(-20037509, 0, 100, 100)
		Expect(err).To(HaveOccurred())
		_, err = aoi.NewExtent(0, 0, 100, 19971869)
		Expect(err).To(HaveOccurred())
	})
	It("closes its polygon ring", func() {
		e, err := aoi.NewExtent(0, 0, 10, 20)
		Expect(err).NotTo(HaveOccurred())
		ring := e.Polygon()[0]
		Expect(ring).To(HaveLen(5))
		Expect(ring[0]).To(Equal(ring[4]))
	})
})

var _ = Describe("Selection", func() {
	var sel *aoi.Selection
	ctx := context.Background()

	BeforeEach(func() {
		extent, err := aoi.NewExtent(-1000, -1000, 1000, 1000)
		Expect(err).NotTo(HaveOccurred())
		sel = aoi.NewSelection(extent)
	})

	It("starts with nothing selected", func() {
		Expect(sel.State()).To(Equal(aoi.StateNew))
		Expect(sel.Subset().OK).To(BeFalse())
		b, err := json.Marshal(sel.Subset())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("[[null,null],[null,null]]"))
	})

	It("records a selected box verbatim", func() {
		sel.Display(ctx)
		sel.Apply(ctx, aoi.SelectEvent{X0: 0, Y0: 0, X1: 100, Y1: 100})
		Expect(sel.State()).To(Equal(aoi.StateSelected))
		sub := sel.Subset()
		Expect(sub.OK).To(BeTrue())
		Expect(sub.Coords).To(Equal([2][2]float64{{0, 0}, {100, 100}}))
		b, err := json.Marshal(sub)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("[[0,0],[100,100]]"))
	})

	It("keeps the corner order of the event", func() {
		sel.Apply(ctx, aoi.SelectEvent{X0: 100, Y0: 50, X1: -20, Y1: -80})
		Expect(sel.Subset().Coords).To(Equal([2][2]float64{{100, 50}, {-20, -80}}))
		ring := (*sel.SubsetPolygon())[0]
		Expect(ring[0]).To(Equal([2]float64{-20, -80}))
		Expect(ring[2]).To(Equal([2]float64{100, 50}))
	})

	It("clears the subset on reset", func() {
		sel.Apply(ctx, aoi.SelectEvent{X0: 0, Y0: 0, X1: 100, Y1: 100})
		sel.Reset(ctx)
		Expect(sel.State()).To(Equal(aoi.StateReset))
		Expect(sel.Subset().OK).To(BeFalse())
		Expect(sel.SubsetPolygon()).To(BeNil())
		b, err := json.Marshal(sel.Subset())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("[[null,null],[null,null]]"))
	})

	It("accepts a new box after a reset", func() {
		sel.Apply(ctx, aoi.SelectEvent{X0: 0, Y0: 0, X1: 1, Y1: 1})
		sel.Reset(ctx)
		sel.Apply(ctx, aoi.SelectEvent{X0: 2, Y0: 2, X1: 3, Y1: 3})
		Expect(sel.Subset().Coords).To(Equal([2][2]float64{{2, 2}, {3, 3}}))
	})
})
