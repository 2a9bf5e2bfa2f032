package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	api "github.com/kohrong/pronosticos-mma/internal/adapters/http/api"
	identity "github.com/kohrong/pronosticos-mma/internal/adapters/identity"
	repository "github.com/kohrong/pronosticos-mma/internal/adapters/repository"
	app "github.com/kohrong/pronosticos-mma/internal/app"
	"github.com/kohrong/pronosticos-mma/pkg/logger"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

const fixtureEvents = `{
  "eventos": [
    {
      "nombre": "UFC 250",
      "fecha": "2025-01-01",
      "peleas": [
        {
          "peleador1": "pereira",
          "peleador2": "hill",
          "ganador": "pereira",
          "pronosticos": {"special1": "pereira"}
        }
      ]
    },
    {
      "nombre": "UFC 300",
      "fecha": "2025-02-01",
      "peleas": [
        {
          "peleador1": "gaethje",
          "peleador2": "holloway",
          "ganador": null,
          "pronosticos": {}
        }
      ]
    }
  ]
}`

const fixtureFighters = `{
  "peleadores": {
    "pereira": {"nombre": "Alex Pereira", "apodo": "Poatan", "foto": "assets/pereira.jpg"},
    "hill": {"nombre": "Jamahal Hill"},
    "gaethje": {"nombre": "Justin Gaethje"},
    "holloway": {"nombre": "Max Holloway"}
  }
}`

const fixtureParticipants = `{
  "participantes": {
    "special1": {"nombre": "El Patron"}
  }
}`

// newTestRouter builds the full route table on top of a service backed
// by a temp-dir corpus and an in-memory store.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"pronosticos.json":   fixtureEvents,
		"peleadores.json":    fixtureFighters,
		"participantes.json": fixtureParticipants,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	svc := app.New(
		app.WithDataDir(dir),
		app.WithStore(repository.NewMemoryStore()),
		app.WithClock(func() time.Time { return fixedNow }),
	)
	ctx := context.Background()
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)

	router := mux.NewRouter()
	api.NewServer(svc, identity.NewJWTProvider(testSecret), svc).Register(ctx, router)
	return router
}

func bearerFor(t *testing.T, id, name string) string {
	t.Helper()
	token, err := identity.NewJWTProvider(testSecret).Token(identity.Identity{ID: id, Name: name}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func doJSON(router *mux.Router, method, path, auth, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestPredictionsEndpoint(t *testing.T) {
	Convey("Given the API router", t, func() {
		router := newTestRouter(t)
		auth := bearerFor(t, "user1", "Ana")

		Convey("When POSTing without credentials", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/predictions", "",
				`{"eventoId":"UFC 300","peleaIndex":0,"peleadorElegido":"gaethje"}`)

			Convey("Then the request is unauthorized", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
				So(body["code"], ShouldEqual, "unauthorized")
			})
		})

		Convey("When POSTing a malformed body", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/predictions", auth, `{nope`)

			Convey("Then the request is a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "invalid_input")
			})
		})

		Convey("When POSTing with the fight index missing", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/predictions", auth,
				`{"eventoId":"UFC 300","peleadorElegido":"gaethje"}`)

			Convey("Then the missing field is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "invalid_input")
			})
		})

		Convey("When POSTing against an unknown event", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/predictions", auth,
				`{"eventoId":"UFC 999","peleaIndex":0,"peleadorElegido":"gaethje"}`)

			Convey("Then the event is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When POSTing against an event that already started", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/predictions", auth,
				`{"eventoId":"UFC 250","peleaIndex":0,"peleadorElegido":"pereira"}`)

			Convey("Then the event is closed", func() {
				So(rec.Code, ShouldEqual, http.StatusForbidden)
				So(body["code"], ShouldEqual, "forbidden")
			})
		})

		Convey("When POSTing a valid pick, index zero included", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/predictions", auth,
				`{"eventoId":"UFC 300","peleaIndex":0,"peleadorElegido":"gaethje"}`)

			Convey("Then the stored row echoes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				pred, ok := body["prediction"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(pred["eventoId"], ShouldEqual, "UFC 300")
				So(pred["peleaIndex"], ShouldEqual, 0)
				So(pred["peleadorElegido"], ShouldEqual, "gaethje")
			})

			Convey("And GET returns exactly that row for the same user", func() {
				rec, body := doJSON(router, http.MethodGet, "/api/predictions", auth, "")
				So(rec.Code, ShouldEqual, http.StatusOK)

				rows, ok := body["predictions"].([]any)
				So(ok, ShouldBeTrue)
				So(len(rows), ShouldEqual, 1)
			})

			Convey("And another user sees none of it", func() {
				rec, body := doJSON(router, http.MethodGet, "/api/predictions", bearerFor(t, "user2", ""), "")
				So(rec.Code, ShouldEqual, http.StatusOK)

				rows, ok := body["predictions"].([]any)
				So(ok, ShouldBeTrue)
				So(len(rows), ShouldEqual, 0)
			})
		})

		Convey("When GETting without credentials", func() {
			rec, body := doJSON(router, http.MethodGet, "/api/predictions", "", "")

			Convey("Then the request is unauthorized", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
				So(body["code"], ShouldEqual, "unauthorized")
			})
		})
	})
}

func TestRankingEndpoint(t *testing.T) {
	Convey("Given the API router", t, func() {
		router := newTestRouter(t)

		Convey("When the ranking is requested", func() {
			rec, body := doJSON(router, http.MethodGet, "/api/ranking", "", "")

			Convey("Then it is public and carries the special's entry", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				entries, ok := body["ranking"].([]any)
				So(ok, ShouldBeTrue)
				So(len(entries), ShouldEqual, 1)

				first, ok := entries[0].(map[string]any)
				So(ok, ShouldBeTrue)
				So(first["id"], ShouldEqual, "special1")
				So(first["nombre"], ShouldEqual, "El Patron")
				So(first["aciertos"], ShouldEqual, 1)
				So(first["porcentaje"], ShouldEqual, 100)
				So(first["isSpecial"], ShouldEqual, true)
			})
		})
	})
}

func TestEventsEndpoint(t *testing.T) {
	Convey("Given the API router", t, func() {
		router := newTestRouter(t)

		Convey("When events are requested", func() {
			rec, body := doJSON(router, http.MethodGet, "/api/events", "", "")

			Convey("Then both events come back with their open flags", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				events, ok := body["eventos"].([]any)
				So(ok, ShouldBeTrue)
				So(len(events), ShouldEqual, 2)

				past, _ := events[0].(map[string]any)
				So(past["nombre"], ShouldEqual, "UFC 250")
				So(past["abierto"], ShouldEqual, false)

				upcoming, _ := events[1].(map[string]any)
				So(upcoming["nombre"], ShouldEqual, "UFC 300")
				So(upcoming["abierto"], ShouldEqual, true)
			})

			Convey("And fighters are resolved to display data", func() {
				events, _ := body["eventos"].([]any)
				past, _ := events[0].(map[string]any)
				fights, _ := past["peleas"].([]any)
				fight, _ := fights[0].(map[string]any)
				f1, _ := fight["peleador1"].(map[string]any)

				So(f1["id"], ShouldEqual, "pereira")
				So(f1["nombre"], ShouldEqual, "Alex Pereira")
				So(f1["apodo"], ShouldEqual, "Poatan")
				So(fight["ganador"], ShouldEqual, "pereira")
			})
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the API router", t, func() {
		router := newTestRouter(t)

		Convey("When the health endpoint is probed", func() {
			rec, _ := doJSON(router, http.MethodGet, "/healthz", "", "")

			Convey("Then it reports OK", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When stats are requested", func() {
			rec, body := doJSON(router, http.MethodGet, "/stats", "", "")

			Convey("Then the service figures come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body["started"], ShouldEqual, true)
				So(body["events"], ShouldEqual, 2)
			})
		})

		Convey("When the corpus reload is triggered", func() {
			rec, body := doJSON(router, http.MethodPost, "/api/admin/reload", "", "")

			Convey("Then the reload reports success", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, "reloaded")
			})
		})

		Convey("When the metrics endpoint is scraped", func() {
			rec, _ := doJSON(router, http.MethodGet, "/metrics", "", "")

			Convey("Then the exposition format is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
