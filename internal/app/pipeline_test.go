package app_test

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	reference "github.com/statcraft/zoneshift/internal/adapters/reference"
	source "github.com/statcraft/zoneshift/internal/adapters/source"
	app "github.com/statcraft/zoneshift/internal/app"
	model "github.com/statcraft/zoneshift/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const register = `key_mlbam,key_bbref,name_last,name_first
660271,ohtansh01,Ohtani,Shohei
592450,judgeaa01,Judge,Aaron
`

const heights = `key_bbref,height_in
ohtansh01,76
`

type stubFetcher struct {
	result source.Result
}

func (s *stubFetcher) Fetch(ctx context.Context, start, end time.Time) source.Result {
	return s.result
}

func pitch(batter int, szBot, szTop float64) model.Pitch {
	return model.Pitch{
		BatterID:      batter,
		GamePK:        718781,
		AtBat:         1,
		PlateX:        0,
		PlateZ:        2.5,
		SZBot:         szBot,
		SZTop:         szTop,
		Description:   "hit_into_play",
		EstimatedWOBA: 0.4,
		DeltaRunExp:   math.NaN(),
		ReleaseSpeed:  94,
	}
}

func newPipeline(t *testing.T, f app.Fetcher) *app.Pipeline {
	t.Helper()
	idents, err := reference.ReadIdentities(strings.NewReader(register))
	So(err, ShouldBeNil)
	bio, err := reference.ReadBiometrics(strings.NewReader(heights))
	So(err, ShouldBeNil)

	p, err := app.New(
		app.WithFetcher(f),
		app.WithIdentityTable(idents),
		app.WithBiometricTable(bio),
	)
	So(err, ShouldBeNil)
	return p
}

func TestPipelineRun(t *testing.T) {
	Convey("Given pitches exercising every drop stage", t, func() {
		fetcher := &stubFetcher{result: source.Result{
			Pitches: []model.Pitch{
				pitch(660271, 1.55, 3.45),          // fully enrichable
				pitch(660271, 1.55, math.NaN()),    // missing bound
				pitch(999, 1.55, 3.45),             // no identity
				pitch(592450, 1.55, 3.45),          // identity but no height
				pitch(660271, 3.45, 1.55),          // inverted bounds
			},
			Failures: []source.Failure{{Err: source.ErrBadStatus}},
		}}
		p := newPipeline(t, fetcher)

		Convey("When running the pipeline", func() {
			out, err := p.Run(context.Background(), time.Time{}, time.Time{})
			So(err, ShouldBeNil)

			Convey("Then only the fully enrichable pitch is classified", func() {
				So(len(out.Pitches), ShouldEqual, 1)
				cp := out.Pitches[0]
				So(cp.BatterID, ShouldEqual, 660271)
				So(cp.BatterHeightIn, ShouldEqual, 76.0)
				So(cp.InLegacy, ShouldBeTrue)
				So(cp.InProportional, ShouldBeTrue)
			})

			Convey("And every loss is accounted for", func() {
				a := out.Accounting
				So(a.Fetched, ShouldEqual, 5)
				So(a.ChunksFailed, ShouldEqual, 1)
				So(a.DroppedMissingBounds, ShouldEqual, 1)
				So(a.DroppedNoIdentity, ShouldEqual, 1)
				So(a.DroppedNoHeight, ShouldEqual, 1)
				So(a.DroppedMalformedZone, ShouldEqual, 1)
				So(a.Classified, ShouldEqual, 1)
				So(a.Fetched, ShouldEqual, a.Classified+a.Dropped())
			})

			Convey("And the accounting renders a readable summary", func() {
				s := out.Accounting.String()
				So(s, ShouldContainSubstring, "fetched=5")
				So(s, ShouldContainSubstring, "classified=1")
			})

			Convey("And a subject without a biometric match contributes zero rows", func() {
				for _, cp := range out.Pitches {
					So(cp.BatterID, ShouldNotEqual, 592450)
				}
			})
		})

		Convey("When running twice on identical input", func() {
			first, err := p.Run(context.Background(), time.Time{}, time.Time{})
			So(err, ShouldBeNil)
			second, err := p.Run(context.Background(), time.Time{}, time.Time{})
			So(err, ShouldBeNil)

			Convey("Then the enriched content is identical", func() {
				So(second.Pitches, ShouldResemble, first.Pitches)
			})
		})
	})

	Convey("Given a misconfigured pipeline", t, func() {
		Convey("Then a missing fetcher is rejected", func() {
			_, err := app.New()
			So(err, ShouldEqual, app.ErrNoFetcher)
		})

		Convey("And missing reference tables are rejected", func() {
			_, err := app.New(app.WithFetcher(&stubFetcher{}))
			So(err, ShouldEqual, app.ErrNoReference)
		})
	})
}
