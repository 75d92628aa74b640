package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edalens/internal/config"
	"edalens/internal/container"
	"edalens/ui/middleware"
)

const salesCSV = "region,units,price\nnorth,10,2.5\nsouth,20,3.5\nnorth,30,4.5\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        "0",
			GinMode:     gin.TestMode,
			MaxUploadMB: 1,
		},
		Session: config.SessionConfig{TTL: time.Hour, SweepInterval: time.Minute},
		Analysis: config.AnalysisConfig{
			CorrelationThreshold: 0.5,
			SkewThreshold:        1,
			HighCardinality:      50,
			SkewColumns:          3,
			MaxChartColumns:      6,
			ChartsPerRow:         3,
			TopCategories:        10,
			PreviewRows:          5,
			ReportColumns:        3,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// client replays the session cookie the way a browser would
type client struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	c, err := container.New(testConfig(), nil)
	require.NoError(t, err)

	s, err := NewServer(Deps{
		Config:     c.Config,
		Assets:     os.DirFS(".."),
		Sessions:   c.Sessions,
		Uploads:    c.Uploads,
		Dashboards: c.Dashboards,
		Metrics:    c.Metrics,
	})
	require.NoError(t, err)
	return &client{t: t, server: s}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	rec := httptest.NewRecorder()
	cl.server.Handler().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cl.cookie = ck
		}
	}
	return rec
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) post(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodPost, path, nil))
}

func (cl *client) upload(name, body string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(cl.t, err)
	_, err = part.Write([]byte(body))
	require.NoError(cl.t, err)
	require.NoError(cl.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return cl.do(req)
}

func TestIndexWithoutUpload(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), EmptyMessage)
	assert.NotContains(t, rec.Body.String(), `role="tablist"`)
	require.NotNil(t, cl.cookie)
	assert.True(t, cl.cookie.HttpOnly)
}

func TestUploadThenDashboard(t *testing.T) {
	cl := newClient(t)
	cl.get("/")

	rec := cl.upload("sales.csv", salesCSV)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := cl.get("/")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "Successfully loaded 3 rows and 3 columns")
	assert.Contains(t, body, `role="tablist"`)
	assert.Contains(t, body, "Correlation Analysis")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Rows: 3, Columns: 3")
	assert.NotContains(t, body, EmptyMessage)
}

func TestUploadRejectsMalformedFile(t *testing.T) {
	cl := newClient(t)
	cl.get("/")
	cl.upload("sales.csv", salesCSV)

	rec := cl.upload("broken.csv", "a,b\n1,2\n1,2,3\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading file: Error tokenizing data. Expected 2 fields in line 3, saw 3")
	assert.NotContains(t, rec.Body.String(), `role="tablist"`)

	api := cl.get("/api/dashboard")
	assert.Equal(t, http.StatusUnprocessableEntity, api.Code)
}

func TestUploadWithoutFile(t *testing.T) {
	cl := newClient(t)
	cl.get("/")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "x"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := cl.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading file: no file was uploaded")
}

func TestUploadTooLarge(t *testing.T) {
	cl := newClient(t)
	cl.get("/")

	rec := cl.upload("big.csv", "a\n"+strings.Repeat("1\n", 600_000))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "file exceeds the 1 MB upload limit")
}

func TestReportDownload(t *testing.T) {
	cl := newClient(t)
	cl.get("/")
	cl.upload("sales.csv", salesCSV)

	rec := cl.post("/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="eda_report_\d{8}_\d{6}\.pdf"$`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestReportWithoutData(t *testing.T) {
	cl := newClient(t)
	cl.get("/")

	rec := cl.post("/report")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no dataset loaded")
}

func TestReset(t *testing.T) {
	cl := newClient(t)
	cl.get("/")
	cl.upload("sales.csv", salesCSV)

	rec := cl.post("/reset")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, cl.get("/").Body.String(), EmptyMessage)
}

func TestDashboardAPI(t *testing.T) {
	cl := newClient(t)
	cl.get("/")

	empty := cl.get("/api/dashboard")
	assert.Equal(t, http.StatusConflict, empty.Code)
	assert.JSONEq(t, `{"state":"empty","code":"NO_DATASET","error":"`+EmptyMessage+`"}`, empty.Body.String())

	cl.upload("sales.csv", salesCSV)
	rec := cl.get("/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		State       string `json:"state"`
		Fingerprint string `json:"fingerprint"`
		Dashboard   struct {
			FileName    string `json:"file_name"`
			Correlation struct {
				Pairs []struct {
					Feature1 string `json:"feature_1"`
				} `json:"strong_pairs"`
			} `json:"correlation"`
		} `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "loaded", body.State)
	assert.Len(t, body.Fingerprint, 64)
	assert.Equal(t, "sales.csv", body.Dashboard.FileName)
	assert.Len(t, body.Dashboard.Correlation.Pairs, 1)
	assert.NotContains(t, rec.Body.String(), "<svg")
}

func TestSessionsAreIsolated(t *testing.T) {
	alice := newClient(t)
	alice.get("/")
	alice.upload("sales.csv", salesCSV)

	bob := &client{t: t, server: alice.server}
	assert.Contains(t, bob.get("/").Body.String(), EmptyMessage)
	assert.Contains(t, alice.get("/").Body.String(), "Successfully loaded")
}

func TestProbes(t *testing.T) {
	cl := newClient(t)

	health := cl.get("/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"status":"ok"`)
	assert.Nil(t, cl.cookie)

	cl.get("/")
	cl.upload("sales.csv", salesCSV)
	m := cl.get("/metrics")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `edalens_uploads_total{outcome="loaded"} 1`)
}

func TestStaticAssets(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/static/css/eda.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, cl.cookie)
}
