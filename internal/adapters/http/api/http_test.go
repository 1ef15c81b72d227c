package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/formline/internal/adapters/http/api"
	"github.com/okian/formline/internal/adapters/repository"
	service "github.com/okian/formline/internal/app"
	"github.com/okian/formline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func newTestMux() (*http.ServeMux, *service.Service) {
	svc := service.New(service.WithHistoryStore(repository.NewMemory()))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return mux, svc
}

func multipartBody(files map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			panic(err)
		}
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func validUpload() map[string]string {
	return map[string]string{
		"tips.csv": "Tip Website,Scrape Date,Track,Race,First Selection Name\n" +
			"punters.com,2024-05-01,Ballarat,Race 4,Fast Dan\n",
		"dwbfpricesauswin.csv": "event_dt,menu_hint,event_name,selection_name,bsp,win_lose\n" +
			"01/05/2024,Ballarat (AUS) 1st May,R4,Fast Dan,4.5,1\n",
	}
}

func TestHandleAnalyze(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, svc := newTestMux()
		defer svc.Stop()

		Convey("When a valid batch is posted to /analyze", func() {
			body, contentType := multipartBody(validUpload())
			req := httptest.NewRequest("POST", "/analyze", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the analytics payload comes back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					DailySummary []map[string]any          `json:"daily_summary"`
					Charts       map[string]map[string]any `json:"charts"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.DailySummary, ShouldHaveLength, 1)
				So(resp.Charts, ShouldContainKey, "cumulative_profit")
			})

			Convey("And the batch landed in the history", func() {
				req := httptest.NewRequest("GET", "/history", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Count int `json:"count"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Count, ShouldEqual, 1)
			})
		})

		Convey("When persist=false is requested", func() {
			body, contentType := multipartBody(validUpload())
			req := httptest.NewRequest("POST", "/analyze?persist=false", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then the history stays empty", func() {
				req := httptest.NewRequest("GET", "/history", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				var resp struct {
					Count int `json:"count"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Count, ShouldEqual, 0)
			})
		})

		Convey("When the batch has no tips file", func() {
			body, contentType := multipartBody(map[string]string{
				"dwbfpricesauswin.csv": "event_dt,menu_hint,event_name,selection_name,bsp,win_lose\n" +
					"01/05/2024,Ballarat (AUS) 1st May,R4,Fast Dan,4.5,1\n",
			})
			req := httptest.NewRequest("POST", "/analyze", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the upload is rejected with the failed precondition", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp struct {
					Code string `json:"code"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "missing_tips_source")
			})
		})

		Convey("When a file matches no known schema", func() {
			files := validUpload()
			files["mystery.csv"] = "foo,bar\n1,2\n"
			body, contentType := multipartBody(files)
			req := httptest.NewRequest("POST", "/analyze", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the error names the offending file", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "unrecognized_schema")
				So(resp.Message, ShouldContainSubstring, "mystery.csv")
			})
		})

		Convey("When the body is not multipart", func() {
			req := httptest.NewRequest("POST", "/analyze", bytes.NewBufferString("plain"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is wrong", func() {
			req := httptest.NewRequest("GET", "/analyze", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleHistory(t *testing.T) {
	Convey("Given a server with persisted bets", t, func() {
		mux, svc := newTestMux()
		defer svc.Stop()

		body, contentType := multipartBody(validUpload())
		req := httptest.NewRequest("POST", "/analyze", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(httptest.NewRecorder(), req)

		Convey("When the limit is not a number", func() {
			req := httptest.NewRequest("GET", "/history?limit=abc", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is negative", func() {
			req := httptest.NewRequest("GET", "/history?limit=-1", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			var resp struct {
				Code string `json:"code"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, "invalid_limit")
		})

		Convey("When history is cleared", func() {
			req := httptest.NewRequest("POST", "/clear-history", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			req = httptest.NewRequest("GET", "/history", http.NoBody)
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			var resp struct {
				Count int              `json:"count"`
				Bets  []map[string]any `json:"bets"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Count, ShouldEqual, 0)
			So(resp.Bets, ShouldNotBeNil)
		})
	})
}

func TestHandleStatsAndHealth(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, svc := newTestMux()
		defer svc.Stop()

		Convey("When /stats is requested", func() {
			req := httptest.NewRequest("GET", "/stats", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("When /healthz is scraped", func() {
			req := httptest.NewRequest("GET", "/healthz", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "formline_analyzer")
		})

		Convey("When /dashboard is requested", func() {
			req := httptest.NewRequest("GET", "/dashboard", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Formline")
		})
	})
}
