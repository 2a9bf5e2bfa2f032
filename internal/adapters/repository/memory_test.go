package repository_test

import (
	"context"
	"testing"

	repository "github.com/kohrong/pronosticos-mma/internal/adapters/repository"
	"github.com/kohrong/pronosticos-mma/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStoreUpsert(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		row := model.Prediction{
			UserID:     "user1",
			UserName:   "Ana",
			EventID:    "UFC 300",
			FightIndex: 0,
			Fighter:    "pereira",
		}

		Convey("When a prediction is written for the first time", func() {
			stored, err := store.Upsert(ctx, row)
			So(err, ShouldBeNil)

			Convey("Then the row gets an id and a single row exists", func() {
				So(stored.ID, ShouldNotBeEmpty)
				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})

			Convey("And resubmitting the identical row changes nothing", func() {
				again, err := store.Upsert(ctx, row)
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, stored.ID)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})

			Convey("And resubmitting with another fighter overwrites in place", func() {
				row.Fighter = "hill"
				updated, err := store.Upsert(ctx, row)
				So(err, ShouldBeNil)
				So(updated.ID, ShouldEqual, stored.ID)
				So(updated.Fighter, ShouldEqual, "hill")

				rows, err := store.ListAll(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].Fighter, ShouldEqual, "hill")
			})

			Convey("And a different fight index makes a new row", func() {
				row.FightIndex = 1
				other, err := store.Upsert(ctx, row)
				So(err, ShouldBeNil)
				So(other.ID, ShouldNotEqual, stored.ID)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})
		})
	})
}

func TestMemoryStoreListing(t *testing.T) {
	Convey("Given a store with predictions from two users", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		seed := []model.Prediction{
			{UserID: "user2", EventID: "UFC 301", FightIndex: 1, Fighter: "b"},
			{UserID: "user1", EventID: "UFC 301", FightIndex: 0, Fighter: "a"},
			{UserID: "user1", EventID: "UFC 300", FightIndex: 2, Fighter: "c"},
			{UserID: "user1", EventID: "UFC 300", FightIndex: 0, Fighter: "d"},
		}
		for _, p := range seed {
			_, err := store.Upsert(ctx, p)
			So(err, ShouldBeNil)
		}

		Convey("When listing one user's rows", func() {
			rows, err := store.ListByUser(ctx, "user1")
			So(err, ShouldBeNil)

			Convey("Then they come back ordered by event then index", func() {
				So(len(rows), ShouldEqual, 3)
				So(rows[0].EventID, ShouldEqual, "UFC 300")
				So(rows[0].FightIndex, ShouldEqual, 0)
				So(rows[1].EventID, ShouldEqual, "UFC 300")
				So(rows[1].FightIndex, ShouldEqual, 2)
				So(rows[2].EventID, ShouldEqual, "UFC 301")
			})
		})

		Convey("When listing everything", func() {
			rows, err := store.ListAll(ctx)
			So(err, ShouldBeNil)

			Convey("Then first-insert order is preserved", func() {
				So(len(rows), ShouldEqual, 4)
				So(rows[0].UserID, ShouldEqual, "user2")
				So(rows[1].Fighter, ShouldEqual, "a")
				So(rows[2].Fighter, ShouldEqual, "c")
				So(rows[3].Fighter, ShouldEqual, "d")
			})

			Convey("And overwriting a row does not move it", func() {
				_, err := store.Upsert(ctx, model.Prediction{
					UserID: "user2", EventID: "UFC 301", FightIndex: 1, Fighter: "z",
				})
				So(err, ShouldBeNil)

				rows, err := store.ListAll(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 4)
				So(rows[0].UserID, ShouldEqual, "user2")
				So(rows[0].Fighter, ShouldEqual, "z")
			})
		})

		Convey("When the store is closed", func() {
			Convey("Then Close is a no-op", func() {
				So(store.Close(), ShouldBeNil)
			})
		})
	})
}
