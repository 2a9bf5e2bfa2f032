package scoring_test

import (
	"testing"

	scoring "github.com/kohrong/pronosticos-mma/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given the Wilson lower-bound score", t, func() {
		Convey("When the total is zero", func() {
			Convey("Then the score is exactly zero, regardless of hits", func() {
				So(scoring.Score(0, 0), ShouldEqual, 0)
				So(scoring.Score(5, 0), ShouldEqual, 0)
				So(scoring.ScoreAt(3, 0, 0.8), ShouldEqual, 0)
			})
		})

		Convey("When a predictor is 1 for 1", func() {
			s := scoring.Score(1, 1)

			Convey("Then the score is the published 95% lower bound", func() {
				So(s, ShouldAlmostEqual, 0.2065, 0.0005)
			})

			Convey("And it is strictly below the raw percentage", func() {
				So(s, ShouldBeLessThan, 1.0)
			})
		})

		Convey("When samples are small", func() {
			Convey("Then the score penalizes below the raw proportion", func() {
				for _, tc := range []struct{ hits, total int }{
					{1, 2}, {3, 4}, {7, 10}, {19, 25},
				} {
					raw := float64(tc.hits) / float64(tc.total)
					So(scoring.Score(tc.hits, tc.total), ShouldBeLessThan, raw)
				}
			})
		})

		Convey("When hits grow for a fixed total", func() {
			Convey("Then the score is monotonic", func() {
				for total := 1; total <= 30; total++ {
					prev := -1.0
					for hits := 0; hits <= total; hits++ {
						s := scoring.Score(hits, total)
						So(s, ShouldBeGreaterThanOrEqualTo, prev)
						prev = s
					}
				}
			})
		})

		Convey("When the sample is perfect and large", func() {
			Convey("Then the score approaches but never reaches 1", func() {
				s := scoring.Score(10000, 10000)
				So(s, ShouldBeGreaterThan, 0.999)
				So(s, ShouldBeLessThan, 1.0)
			})
		})

		Convey("When the predictor missed everything", func() {
			Convey("Then the score stays at zero with no negative residue", func() {
				for total := 1; total <= 50; total++ {
					s := scoring.Score(0, total)
					So(s, ShouldBeGreaterThanOrEqualTo, 0)
					So(s, ShouldBeLessThan, 0.05)
				}
			})
		})
	})
}

func TestScoreAt(t *testing.T) {
	Convey("Given the confidence-parameterised score", t, func() {
		Convey("When the confidence rises", func() {
			Convey("Then the lower bound drops", func() {
				loose := scoring.ScoreAt(8, 10, 0.80)
				def := scoring.ScoreAt(8, 10, 0.95)
				strict := scoring.ScoreAt(8, 10, 0.99)
				So(loose, ShouldBeGreaterThan, def)
				So(def, ShouldBeGreaterThan, strict)
			})
		})

		Convey("When the confidence equals the default", func() {
			Convey("Then ScoreAt matches Score", func() {
				So(scoring.ScoreAt(7, 10, scoring.DefaultConfidence), ShouldEqual, scoring.Score(7, 10))
			})
		})

		Convey("When the confidence is out of range", func() {
			Convey("Then it falls back to the default critical value", func() {
				So(scoring.ScoreAt(7, 10, 0), ShouldEqual, scoring.Score(7, 10))
				So(scoring.ScoreAt(7, 10, 1.5), ShouldEqual, scoring.Score(7, 10))
			})
		})

		Convey("When the confidence is 0.99", func() {
			Convey("Then the implied z matches the tables", func() {
				// Solve the 1/1 case for z: s = 1/(1+z^2) at p=1, n=1.
				s := scoring.ScoreAt(1, 1, 0.99)
				So(s, ShouldAlmostEqual, 0.13100, 0.0005) // z = 2.5758
			})
		})
	})
}
