package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/xuri/excelize/v2"

	api "github.com/hearlab/audex/internal/adapters/http/api"
	repository "github.com/hearlab/audex/internal/adapters/repository"
	model "github.com/hearlab/audex/internal/domain/model"
	explore "github.com/hearlab/audex/internal/explore"
	"github.com/hearlab/audex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fixtureStore serves a fixed snapshot without touching the filesystem.
type fixtureStore struct {
	snap repository.Snapshot
}

func (f *fixtureStore) Snapshot(_ context.Context) (repository.Snapshot, error) { return f.snap, nil }
func (f *fixtureStore) Reload(_ context.Context) (bool, error)                  { return false, nil }
func (f *fixtureStore) Count(_ context.Context) int                             { return len(f.snap.Records) }

func fixtureRecords() []model.AudiogramRecord {
	return []model.AudiogramRecord{
		{PatientID: "P001", Category: "Mild", HLTypeRight: "Conductive", HLTypeLeft: "Conductive",
			PTARight: 10, PTALeft: 20, SRTRight: 15, SRTLeft: 25, SDTRight: 8, SDTLeft: 18, WRSRight: 96, WRSLeft: 92},
		{PatientID: "P002", Category: "Moderate", HLTypeRight: "Sensorineural", HLTypeLeft: "Sensorineural",
			PTARight: 45, PTALeft: 50, SRTRight: 48, SRTLeft: 52, SDTRight: 40, SDTLeft: 42, WRSRight: 70, WRSLeft: 66},
		{PatientID: "P003", Category: "Severe", HLTypeRight: "Mixed", HLTypeLeft: "Mixed",
			PTARight: 75, PTALeft: 80, SRTRight: 78, SRTLeft: 82, SDTRight: 70, SDTLeft: 72, WRSRight: 40, WRSLeft: 36},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	svc := explore.New(explore.WithStore(&fixtureStore{
		snap: repository.Snapshot{Records: fixtureRecords(), Path: "fixture.csv"},
	}))
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test URL from httptest
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp
}

func TestMetaEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When requesting meta without a filter", func() {
			var meta struct {
				Categories []string `json:"categories"`
				HLTypes    []string `json:"hl_types"`
				PatientIDs []string `json:"patient_ids"`
			}
			resp := getJSON(t, server.URL+"/api/meta", &meta)

			Convey("Then all selection-control values are listed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(meta.Categories, ShouldResemble, []string{"Mild", "Moderate", "Severe"})
				So(meta.PatientIDs, ShouldHaveLength, 3)
				So(meta.HLTypes, ShouldContain, "Conductive")
			})

			Convey("Then a request ID is assigned", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When requesting meta for one category", func() {
			var meta struct {
				Categories []string `json:"categories"`
				PatientIDs []string `json:"patient_ids"`
			}
			resp := getJSON(t, server.URL+"/api/meta?categories=Severe", &meta)

			Convey("Then patients narrow but categories do not", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(meta.Categories, ShouldResemble, []string{"Mild", "Moderate", "Severe"})
				So(meta.PatientIDs, ShouldResemble, []string{"P003"})
			})
		})
	})
}

func TestRecordsEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When requesting all records", func() {
			var body struct {
				Table struct {
					Rows [][]string `json:"rows"`
				} `json:"table"`
				Truncated bool `json:"truncated"`
			}
			resp := getJSON(t, server.URL+"/api/records", &body)

			Convey("Then every row is returned untruncated", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Table.Rows, ShouldHaveLength, 3)
				So(body.Truncated, ShouldBeFalse)
			})
		})

		Convey("When the categories parameter is present but empty", func() {
			var body struct {
				Table struct {
					Rows [][]string `json:"rows"`
				} `json:"table"`
			}
			resp := getJSON(t, server.URL+"/api/records?categories=", &body)

			Convey("Then the table renders empty", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Table.Rows, ShouldBeEmpty)
			})
		})

		Convey("When posting instead of getting", func() {
			resp, err := http.Post(server.URL+"/api/records", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the route does not match", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSummaryEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When requesting the category summary", func() {
			var body struct {
				Groups []model.GroupSummary `json:"groups"`
				Chart  struct {
					Series []struct {
						Name string `json:"name"`
					} `json:"series"`
				} `json:"chart"`
			}
			resp := getJSON(t, server.URL+"/api/summary?metrics=PTA", &body)

			Convey("Then groups come back ascending with rounded means", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Groups, ShouldHaveLength, 3)
				So(body.Groups[0].Group, ShouldEqual, "Mild")
				So(body.Groups[0].Means["PTA_Right"], ShouldEqual, 10.0)
				So(body.Chart.Series, ShouldHaveLength, 2)
				So(body.Chart.Series[0].Name, ShouldEqual, "PTA_Right")
			})
		})

		Convey("When grouping by hearing-loss type", func() {
			var body struct {
				Groups []model.GroupSummary `json:"groups"`
			}
			resp := getJSON(t, server.URL+"/api/summary?group_by=hl_type&metrics=pta", &body)

			Convey("Then per-ear etiologies form the groups", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Groups, ShouldHaveLength, 3)
				So(body.Groups[0].Group, ShouldEqual, "Conductive")
				So(body.Groups[0].Means["PTA"], ShouldEqual, 15.0)
			})
		})

		Convey("When the grouping column is unknown", func() {
			resp := getJSON(t, server.URL+"/api/summary?group_by=severity", nil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a metric is unknown", func() {
			resp := getJSON(t, server.URL+"/api/summary?metrics=LOUDNESS", nil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRadarEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When requesting a patient radar", func() {
			var body struct {
				Chart struct {
					Series []struct {
						Label  string    `json:"label"`
						Values []float64 `json:"values"`
					} `json:"series"`
				} `json:"chart"`
				Fallback bool `json:"fallback"`
			}
			resp := getJSON(t, server.URL+"/api/radar?patient_id=P002", &body)

			Convey("Then one closed polygon is plotted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Fallback, ShouldBeFalse)
				So(body.Chart.Series, ShouldHaveLength, 1)
				So(body.Chart.Series[0].Label, ShouldEqual, "Patient P002")
				So(body.Chart.Series[0].Values, ShouldHaveLength, 7)
				So(body.Chart.Series[0].Values[0], ShouldEqual, body.Chart.Series[0].Values[6])
			})
		})

		Convey("When the requested patient left the filtered set", func() {
			var body struct {
				Chart struct {
					Series []struct {
						Label string `json:"label"`
					} `json:"series"`
				} `json:"chart"`
				Fallback bool `json:"fallback"`
			}
			resp := getJSON(t, server.URL+"/api/radar?categories=Mild&patient_id=P003", &body)

			Convey("Then the first available patient is plotted and flagged", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Fallback, ShouldBeTrue)
				So(body.Chart.Series[0].Label, ShouldEqual, "Patient P001")
			})
		})

		Convey("When requesting an isolated-metric radar", func() {
			var body struct {
				Chart struct {
					Series []struct {
						Values []float64 `json:"values"`
					} `json:"series"`
				} `json:"chart"`
			}
			resp := getJSON(t, server.URL+"/api/radar?patient_id=P001&mode=isolated&metric=SRT", &body)

			Convey("Then only the owning axes carry values", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				vals := body.Chart.Series[0].Values
				So(vals[0], ShouldEqual, 0)
				So(vals[2], ShouldEqual, 15.0)
				So(vals[3], ShouldEqual, 25.0)
			})
		})

		Convey("When the radar mode is unknown", func() {
			resp := getJSON(t, server.URL+"/api/radar?mode=sideways", nil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHeatmapEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When requesting the heatmap", func() {
			var body struct {
				RowLabels []string    `json:"rowLabels"`
				ColLabels []string    `json:"colLabels"`
				Values    [][]float64 `json:"values"`
				Colormap  string      `json:"colormap"`
			}
			resp := getJSON(t, server.URL+"/api/heatmap", &body)

			Convey("Then the groups by metrics matrix is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.RowLabels, ShouldResemble, []string{"Mild", "Moderate", "Severe"})
				So(body.ColLabels, ShouldHaveLength, 4)
				So(body.Values, ShouldHaveLength, 3)
				So(body.Colormap, ShouldEqual, "viridis")
			})
		})
	})
}

func TestExportEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When downloading the summary workbook", func() {
			resp, err := http.Get(server.URL + "/api/export/summary.xlsx?metrics=PTA")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a valid workbook streams back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "spreadsheetml")
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "summary.xlsx")

				var buf bytes.Buffer
				_, err := buf.ReadFrom(resp.Body)
				So(err, ShouldBeNil)
				f, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()

				rows, err := f.GetRows("Summary")
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 4)
				So(rows[0][0], ShouldEqual, "Group")
			})
		})
	})
}

func TestStatsAndHealthEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		server := newTestServer(t)

		Convey("When requesting stats", func() {
			var stats map[string]interface{}
			resp := getJSON(t, server.URL+"/stats", &stats)

			Convey("Then service state is reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(stats["started"], ShouldEqual, true)
				// JSON numbers decode as float64
				So(stats["records"], ShouldEqual, float64(3))
			})
		})

		Convey("When scraping health metrics", func() {
			resp, err := http.Get(server.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the Prometheus registry is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var buf bytes.Buffer
				_, err := buf.ReadFrom(resp.Body)
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "audex_explorer_explore_runs_total")
			})
		})
	})
}
