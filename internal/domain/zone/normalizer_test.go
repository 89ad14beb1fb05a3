package zone_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/statcraft/zoneshift/internal/domain/model"
	zone "github.com/statcraft/zoneshift/internal/domain/zone"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer with default rule constants", t, func() {
		n := zone.New()
		pitch := model.Pitch{
			BatterID: 660271,
			PlateX:   0.35,
			PlateZ:   2.5,
			SZBot:    1.55,
			SZTop:    3.45,
		}

		Convey("When normalizing a 76-inch batter", func() {
			e, err := n.Normalize(pitch, 76)
			So(err, ShouldBeNil)

			Convey("Then positions and bounds convert to inches", func() {
				So(e.PlateXIn, ShouldAlmostEqual, 4.2, 1e-9)
				So(e.PlateZIn, ShouldAlmostEqual, 30.0, 1e-9)
				So(e.Legacy.Bottom, ShouldAlmostEqual, 18.6, 1e-9)
				So(e.Legacy.Top, ShouldAlmostEqual, 41.4, 1e-9)
			})

			Convey("And the proportional zone follows the height fractions", func() {
				So(e.Proportional.Bottom, ShouldAlmostEqual, 0.27*76, 1e-9)
				So(e.Proportional.Top, ShouldAlmostEqual, 0.535*76, 1e-9)
				// height = (0.535-0.27) * 76 = 20.14
				So(e.Proportional.Height, ShouldAlmostEqual, 20.14, 1e-9)
				So(e.Proportional.Area, ShouldAlmostEqual, 20.14*17, 1e-9)
			})

			Convey("And the legacy geometry is derived the same way", func() {
				So(e.Legacy.Height, ShouldAlmostEqual, e.Legacy.Top-e.Legacy.Bottom, 1e-9)
				So(e.Legacy.Area, ShouldAlmostEqual, e.Legacy.Height*17, 1e-9)
			})
		})

		Convey("When the proportional height is checked across statures", func() {
			for _, height := range []float64{66, 70, 72.5, 76, 81} {
				e, err := n.Normalize(pitch, height)
				So(err, ShouldBeNil)
				So(e.Proportional.Height, ShouldAlmostEqual, (0.535-0.27)*height, 1e-9)
			}
		})

		Convey("When a reported bound is missing", func() {
			p := pitch
			p.SZTop = math.NaN()
			_, err := n.Normalize(p, 76)

			Convey("Then the pitch is rejected", func() {
				So(errors.Is(err, zone.ErrMissingBounds), ShouldBeTrue)
			})
		})

		Convey("When the reported bounds are inverted", func() {
			p := pitch
			p.SZBot, p.SZTop = p.SZTop, p.SZBot
			_, err := n.Normalize(p, 76)

			Convey("Then the geometry is rejected, not classified as all-out", func() {
				So(errors.Is(err, zone.ErrMalformedZone), ShouldBeTrue)
			})
		})

		Convey("When the height is absent", func() {
			_, err := n.Normalize(pitch, 0)

			Convey("Then no placeholder height is used", func() {
				So(errors.Is(err, zone.ErrInvalidHeight), ShouldBeTrue)
			})
		})
	})

	Convey("Given a normalizer with alternative fractions", t, func() {
		n := zone.New(zone.WithFractions(0.3, 0.5), zone.WithPlateWidth(20))
		p := model.Pitch{SZBot: 1.5, SZTop: 3.5}

		Convey("Then the sensitivity constants are honored", func() {
			e, err := n.Normalize(p, 70)
			So(err, ShouldBeNil)
			So(e.Proportional.Bottom, ShouldAlmostEqual, 21.0, 1e-9)
			So(e.Proportional.Top, ShouldAlmostEqual, 35.0, 1e-9)
			So(e.Proportional.Area, ShouldAlmostEqual, 14.0*20, 1e-9)
		})
	})
}
