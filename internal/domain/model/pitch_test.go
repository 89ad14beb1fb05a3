package model_test

import (
	"math"
	"testing"

	model "github.com/statcraft/zoneshift/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPitch(t *testing.T) {
	convey.Convey("Given a Pitch struct", t, func() {
		convey.Convey("When building the plate appearance id", func() {
			p := model.Pitch{GamePK: 718781, AtBat: 42}

			convey.Convey("Then it combines game and at-bat", func() {
				convey.So(p.PlateAppearanceID(), convey.ShouldEqual, "718781-42")
			})
		})

		convey.Convey("When resolving the batting team", func() {
			p := model.Pitch{HomeTeam: "SEA", AwayTeam: "HOU"}

			convey.Convey("Then the away team bats in the top half", func() {
				p.InningTopBot = "Top"
				convey.So(p.BattingTeam(), convey.ShouldEqual, "HOU")
			})

			convey.Convey("And the home team bats in the bottom half", func() {
				p.InningTopBot = "Bot"
				convey.So(p.BattingTeam(), convey.ShouldEqual, "SEA")
			})
		})

		convey.Convey("When checking zone bounds", func() {
			convey.Convey("Then both bounds present reports true", func() {
				p := model.Pitch{SZBot: 1.5, SZTop: 3.4}
				convey.So(p.HasBounds(), convey.ShouldBeTrue)
			})

			convey.Convey("And a missing bound reports false", func() {
				p := model.Pitch{SZBot: math.NaN(), SZTop: 3.4}
				convey.So(p.HasBounds(), convey.ShouldBeFalse)

				p = model.Pitch{SZBot: 1.5, SZTop: math.NaN()}
				convey.So(p.HasBounds(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestTransition(t *testing.T) {
	convey.Convey("Given the transition categories", t, func() {
		convey.Convey("Then each has a stable export label", func() {
			convey.So(model.StillOut.String(), convey.ShouldEqual, "still_out")
			convey.So(model.StillIn.String(), convey.ShouldEqual, "still_in")
			convey.So(model.NewlyExcluded.String(), convey.ShouldEqual, "newly_excluded")
			convey.So(model.NewlyIncluded.String(), convey.ShouldEqual, "newly_included")
		})

		convey.Convey("And an out-of-range value maps to unknown", func() {
			convey.So(model.Transition(99).String(), convey.ShouldEqual, "unknown")
		})
	})
}
