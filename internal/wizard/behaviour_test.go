package wizard_test

import (
	"context"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/wizard"
)

type countingCreator struct {
	mu     sync.Mutex
	drafts []property.Draft
	photos [][]property.Photo
}

func (c *countingCreator) Create(_ context.Context, d property.Draft, photos []property.Photo) (*property.Created, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts = append(c.drafts, d)
	c.photos = append(c.photos, photos)
	return &property.Created{ID: "created-1"}, nil
}

func photoFiles(n, size int) []wizard.PhotoFile {
	out := make([]wizard.PhotoFile, n)
	for i := range out {
		out[i] = wizard.PhotoFile{Name: "p.jpg", ContentType: "image/jpeg", Data: make([]byte, size)}
	}
	return out
}

func fillStepOne(w *wizard.Wizard) {
	Expect(w.Update(func(d *property.Draft) {
		d.Name = "Harbour View"
		d.Type = property.TypeHouse
		d.Street = "7 Quay Rd"
		d.City = "Portsmouth"
		d.State = "Hampshire"
		d.Zip = "PO1 2AB"
		d.Country = "UK"
		d.Bedrooms = property.Int(3)
		d.Bathrooms = property.Int(2)
		d.MaxGuests = property.Int(6)
	})).To(Succeed())
}

var _ = Describe("Wizard", func() {
	var (
		creator *countingCreator
		store   *wizard.MemoryStore
		w       *wizard.Wizard
	)

	BeforeEach(func() {
		creator = &countingCreator{}
		store = wizard.NewMemoryStore()
		w = wizard.New(creator, wizard.WithPreviewStore(store))
	})

	AfterEach(func() {
		Expect(w.Close()).To(Succeed())
	})

	Describe("step validation", func() {
		DescribeTable("never advances past step 1 with an empty or out-of-range field",
			func(mutate func(d *property.Draft)) {
				fillStepOne(w)
				Expect(w.Update(mutate)).To(Succeed())

				err := w.Next()
				Expect(err).To(HaveOccurred())
				_, ok := property.AsValidationErrors(err)
				Expect(ok).To(BeTrue())
				Expect(w.Step()).To(Equal(wizard.StepBasicInfo))
			},
			Entry("empty name", func(d *property.Draft) { d.Name = "" }),
			Entry("name over 100 chars", func(d *property.Draft) { d.Name = strings.Repeat("n", 101) }),
			Entry("unknown type", func(d *property.Draft) { d.Type = "yurt" }),
			Entry("empty street", func(d *property.Draft) { d.Street = "" }),
			Entry("empty city", func(d *property.Draft) { d.City = "" }),
			Entry("empty state", func(d *property.Draft) { d.State = "" }),
			Entry("empty zip", func(d *property.Draft) { d.Zip = "" }),
			Entry("empty country", func(d *property.Draft) { d.Country = "" }),
			Entry("bedrooms below 0", func(d *property.Draft) { d.Bedrooms = property.Int(-1) }),
			Entry("bedrooms above 20", func(d *property.Draft) { d.Bedrooms = property.Int(21) }),
			Entry("bathrooms missing", func(d *property.Draft) { d.Bathrooms = nil }),
			Entry("max guests 0", func(d *property.Draft) { d.MaxGuests = property.Int(0) }),
			Entry("max guests 21", func(d *property.Draft) { d.MaxGuests = property.Int(21) }),
		)

		DescribeTable("advances to step 2 for valid step-1 input",
			func(name string, t property.Type, bedrooms, bathrooms, guests int) {
				fillStepOne(w)
				Expect(w.Update(func(d *property.Draft) {
					d.Name = name
					d.Type = t
					d.Bedrooms = property.Int(bedrooms)
					d.Bathrooms = property.Int(bathrooms)
					d.MaxGuests = property.Int(guests)
				})).To(Succeed())

				Expect(w.Next()).To(Succeed())
				Expect(w.Step()).To(Equal(wizard.StepDetails))
			},
			Entry("single char name, minimum capacity", "A", property.TypeStudio, 0, 0, 1),
			Entry("100 char name, maximum capacity", strings.Repeat("x", 100), property.TypeOffice, 20, 20, 20),
			Entry("typical apartment", "City Flat", property.TypeApartment, 2, 1, 4),
			Entry("other type", "Boat", property.TypeOther, 1, 1, 2),
		)

		It("never advances past step 3 with an invalid pricing field", func() {
			fillStepOne(w)
			Expect(w.Next()).To(Succeed())
			Expect(w.Next()).To(Succeed())

			for _, mutate := range []func(d *property.Draft){
				func(d *property.Draft) { d.BaseRate = nil },
				func(d *property.Draft) { d.BaseRate = property.Float(0) },
				func(d *property.Draft) { d.BaseRate = property.Float(100); d.MinNights = 0 },
				func(d *property.Draft) { d.MinNights = 1; d.CleaningFee = -1 },
			} {
				Expect(w.Update(mutate)).To(Succeed())
				Expect(w.Next()).NotTo(Succeed())
				Expect(w.Step()).To(Equal(wizard.StepPricing))
			}
		})

		It("keeps step-3 values when moving back from step 3 to step 2", func() {
			fillStepOne(w)
			Expect(w.Next()).To(Succeed())
			Expect(w.Next()).To(Succeed())
			Expect(w.SetBaseRate(210)).To(Succeed())
			Expect(w.SetCleaningFee(35)).To(Succeed())
			Expect(w.SetMinNights(2)).To(Succeed())

			Expect(w.Previous()).To(Succeed())
			Expect(w.Step()).To(Equal(wizard.StepDetails))

			d := w.Draft()
			Expect(*d.BaseRate).To(Equal(210.0))
			Expect(d.CleaningFee).To(Equal(35.0))
			Expect(d.MinNights).To(Equal(2))
		})
	})

	Describe("amenities", func() {
		It("returns to the prior set when an id is toggled twice", func() {
			_, err := w.ToggleAmenity("parking")
			Expect(err).NotTo(HaveOccurred())
			before := w.Draft().Amenities

			for _, a := range property.Amenities {
				_, err := w.ToggleAmenity(a.ID)
				Expect(err).NotTo(HaveOccurred())
				_, err = w.ToggleAmenity(a.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(w.Draft().Amenities.Equal(before)).To(BeTrue())
			}
		})
	})

	Describe("photos", func() {
		It("leaves the collection unchanged when 11 photos are added at once", func() {
			_, err := w.AddPhotos(photoFiles(11, 1<<20))

			var uerr *wizard.UploadError
			Expect(err).To(BeAssignableToTypeOf(uerr))
			Expect(err.(*wizard.UploadError).Kind).To(Equal(wizard.TooManyPhotos))
			Expect(w.Photos()).To(BeEmpty())
			Expect(store.Live()).To(BeZero())
		})

		It("rejects a single 6MB photo", func() {
			res, err := w.AddPhotos([]wizard.PhotoFile{{Name: "big.jpg", Data: make([]byte, 6<<20)}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Notices).To(HaveLen(1))
			Expect(res.Notices[0].Kind).To(Equal(wizard.OversizeFile))
			Expect(w.Photos()).To(BeEmpty())
		})

		It("shrinks by exactly one and releases the handle on remove", func() {
			res, err := w.AddPhotos(photoFiles(4, 64))
			Expect(err).NotTo(HaveOccurred())
			removed := res.Added[2].Preview

			Expect(w.RemovePhoto(2)).To(Succeed())
			Expect(w.Photos()).To(HaveLen(3))
			Expect(store.Live()).To(Equal(3))
			Expect(store.Release(removed)).To(MatchError(wizard.ErrUnknownHandle))
		})
	})

	Describe("submission", func() {
		It("makes a single creation call carrying every field once", func() {
			fillStepOne(w)
			Expect(w.Next()).To(Succeed())
			Expect(w.SetDescription("Sea views")).To(Succeed())
			_, err := w.ToggleAmenity("wifi")
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Next()).To(Succeed())
			Expect(w.SetBaseRate(150)).To(Succeed())
			Expect(w.SetMinNights(1)).To(Succeed())
			Expect(w.SetCleaningFee(0)).To(Succeed())
			Expect(w.Next()).To(Succeed())
			_, err = w.AddPhotos(photoFiles(2, 128))
			Expect(err).NotTo(HaveOccurred())

			created, err := w.Submit(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal("created-1"))

			Expect(creator.drafts).To(HaveLen(1))
			d := creator.drafts[0]
			Expect(d.Name).To(Equal("Harbour View"))
			Expect(d.Type).To(Equal(property.TypeHouse))
			Expect(d.Address()).To(Equal("7 Quay Rd, Portsmouth, Hampshire PO1 2AB, UK"))
			Expect(*d.Bedrooms).To(Equal(3))
			Expect(*d.Bathrooms).To(Equal(2))
			Expect(*d.MaxGuests).To(Equal(6))
			Expect(d.Description).To(Equal("Sea views"))
			Expect(d.Amenities.IDs()).To(Equal([]string{"wifi"}))
			Expect(*d.BaseRate).To(Equal(150.0))
			Expect(d.MinNights).To(Equal(1))
			Expect(d.CleaningFee).To(BeZero())
			Expect(d.MaxNights).To(BeNil())
			Expect(creator.photos[0]).To(HaveLen(2))

			Expect(w.Closed()).To(BeTrue())
			Expect(store.Live()).To(BeZero())
		})
	})
})
