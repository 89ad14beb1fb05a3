package export_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	export "github.com/statcraft/zoneshift/internal/adapters/export"
	model "github.com/statcraft/zoneshift/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() []model.ClassifiedPitch {
	return []model.ClassifiedPitch{
		{
			Enriched: model.Enriched{
				Pitch: model.Pitch{
					BatterID:      660271,
					GamePK:        718781,
					AtBat:         5,
					Description:   "hit_into_play",
					Event:         "single",
					EstimatedWOBA: 0.45,
					DeltaRunExp:   math.NaN(),
					ReleaseSpeed:  95.2,
					InningTopBot:  "Top",
					HomeTeam:      "SEA",
					AwayTeam:      "HOU",
					Extras:        map[string]string{"pitch_type": "FF", "zone": "5"},
				},
				BatterHeightIn: 76,
				PlateXIn:       1.2,
				PlateZIn:       30,
				Legacy:         model.Zone{Bottom: 18.6, Top: 41.4, Height: 22.8, Area: 387.6},
				Proportional:   model.Zone{Bottom: 20.52, Top: 40.66, Height: 20.14, Area: 342.38},
			},
			InLegacy:       true,
			InProportional: true,
			Transition:     model.StillIn,
		},
	}
}

func TestWrite(t *testing.T) {
	Convey("Given one classified pitch", t, func() {
		var buf bytes.Buffer
		So(export.Write(&buf, sample()), ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

		Convey("Then the header carries base then sorted extra columns", func() {
			So(len(lines), ShouldEqual, 2)
			So(lines[0], ShouldStartWith, "batter_id,game_pk,at_bat_number")
			So(lines[0], ShouldEndWith, "pitch_type,zone")
		})

		Convey("And derived fields are present at full precision", func() {
			So(lines[1], ShouldContainSubstring, "20.52")
			So(lines[1], ShouldContainSubstring, "20.14")
			So(lines[1], ShouldContainSubstring, "342.38")
			So(lines[1], ShouldContainSubstring, "still_in")
		})

		Convey("And missing metrics export as blanks, not NaN", func() {
			So(lines[1], ShouldNotContainSubstring, "NaN")
		})

		Convey("And opaque columns survive", func() {
			So(lines[1], ShouldEndWith, "FF,5")
		})
	})

	Convey("Given two identical runs", t, func() {
		var a, b bytes.Buffer
		So(export.Write(&a, sample()), ShouldBeNil)
		So(export.Write(&b, sample()), ShouldBeNil)

		Convey("Then output is byte-identical", func() {
			So(a.String(), ShouldEqual, b.String())
		})
	})

	Convey("Given a file destination in a missing directory", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "out.csv")
		So(export.WriteFile(path, sample()), ShouldBeNil)

		Convey("Then the file is created with content", func() {
			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "660271")
		})
	})
}
