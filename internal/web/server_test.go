package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataglance/internal/dataset"
	"github.com/KaramelBytes/dataglance/internal/render"
	"github.com/KaramelBytes/dataglance/internal/testutil"
)

const scenarioCSV = "a,b\n1,x\n2,y\n3,x\n"

// =============================================================================
// Test Setup Helpers
// =============================================================================

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
	srv    *Server
	logs   *testutil.Recorder
}

func newTestClient(t *testing.T, cfg Config) *testClient {
	t.Helper()
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	}
	if cfg.PreviewRows == 0 {
		cfg.PreviewRows = 5
	}
	logger, logs := testutil.NewRecordingLogger(t)
	cfg.Logger = logger
	cfg.Version = "test"
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testClient{t: t, base: ts.URL, client: client, srv: srv, logs: logs}
}

func (c *testClient) get(path string) (*http.Response, []byte) {
	c.t.Helper()
	resp, err := c.client.Get(c.base + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, body
}

func (c *testClient) upload(name string, content []byte) (*http.Response, []byte) {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(c.t, err)
	_, err = fw.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	resp, err := c.client.Post(c.base+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, body
}

func (c *testClient) post(path string) *http.Response {
	c.t.Helper()
	resp, err := c.client.Post(c.base+path, "application/x-www-form-urlencoded", nil)
	require.NoError(c.t, err)
	resp.Body.Close()
	return resp
}

// =============================================================================
// Page Tests
// =============================================================================

func TestIndexWithoutDataset(t *testing.T) {
	c := newTestClient(t, Config{})
	resp, body := c.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), noticeStart)
	assert.Contains(t, string(body), `action="/upload"`)
	assert.NotContains(t, string(body), "Summary Statistics")
}

func TestUploadScenario(t *testing.T) {
	c := newTestClient(t, Config{})

	resp, _ := c.upload("data.csv", []byte(scenarioCSV))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body := c.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := string(body)

	tests := []struct {
		name string
		want string
	}{
		{"success flash", noticeUploaded},
		{"shape", "(3, 2)"},
		{"count row", "<th>count</th><td>3</td><td>3</td>"},
		{"mean row", "<th>mean</th><td>2</td><td>n/a</td>"},
		{"heatmap", `src="/charts/heatmap.png"`},
		{"scatter notice", "Scatter plot unavailable"},
		{"bar image", `src="/charts/bar.png?column=b"`},
		{"bar count x", "<td>x</td><td>2</td>"},
		{"bar count y", "<td>y</td><td>1</td>"},
		{"download", `href="/download"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, page, tt.want)
		})
	}

	// Flashes are shown once.
	_, body = c.get("/")
	assert.NotContains(t, string(body), noticeUploaded)
}

func TestUploadBinaryStaysNoDataset(t *testing.T) {
	c := newTestClient(t, Config{})

	resp, body := c.upload("blob.csv", []byte{0x89, 'P', 'N', 'G', 0x00, 0x1a, 0xff, 0xfe})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), noticeUploadFailed)
	assert.Contains(t, string(body), noticeStart)
	assert.True(t, c.logs.Contains("upload rejected"), "rejection not logged")
	assert.True(t, c.logs.Contains("path=/upload status=400"), "request not logged")

	resp, _ = c.get("/download")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFailedUploadDropsPreviousDataset(t *testing.T) {
	c := newTestClient(t, Config{})
	resp, _ := c.upload("data.csv", []byte(scenarioCSV))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = c.upload("notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := c.get("/api/summary")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"success":false`)
}

func TestUploadTooLarge(t *testing.T) {
	c := newTestClient(t, Config{MaxUploadBytes: 64})
	resp, body := c.upload("big.csv", []byte("a\n"+strings.Repeat("1\n", 200)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), noticeUploadFailed)
}

func TestZeroRowFallbacks(t *testing.T) {
	c := newTestClient(t, Config{})
	resp, _ := c.upload("empty.csv", []byte("a,b\n"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := c.get("/")
	page := string(body)
	assert.Contains(t, page, "(0, 2)")
	assert.Contains(t, page, "<th>count</th><td>0</td><td>0</td>")
	assert.Contains(t, page, "No numeric columns found.")
	assert.Contains(t, page, "Bar chart unavailable: the dataset has no rows")
	assert.NotContains(t, page, "<img")

	resp, _ = c.get("/charts/bar.png?column=a")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInvalidSelectionIsInline(t *testing.T) {
	c := newTestClient(t, Config{})
	resp, _ := c.upload("d.csv", []byte("x,y,label\n1,2,a\n2,3,b\n3,5,a\n"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := c.get("/?x=nope&column=label")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := string(body)
	assert.Contains(t, page, `id="scatter-error"`)
	assert.Contains(t, page, "no such column")
	assert.Contains(t, page, `src="/charts/heatmap.png"`)
	assert.Contains(t, page, `src="/charts/bar.png?column=label"`)
}

func TestScatterWithoutCompletePairsShowsNotice(t *testing.T) {
	c := newTestClient(t, Config{})
	resp, _ := c.upload("d.csv", []byte("x,y\n1,\n,2\n"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := c.get("/")
	page := string(body)
	assert.Contains(t, page, "Scatter plot unavailable: no rows have both values present")
	assert.NotContains(t, page, `id="scatter"`)
	assert.NotContains(t, page, `id="scatter-error"`)
}

func TestManyCategoriesFoldIntoOther(t *testing.T) {
	c := newTestClient(t, Config{})
	var csv strings.Builder
	csv.WriteString("id\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&csv, "id-%d\n", i)
	}
	resp, _ := c.upload("ids.csv", []byte(csv.String()))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := c.get("/")
	page := string(body)
	rest := 100 - render.MaxBars
	assert.Contains(t, page, fmt.Sprintf(`<tr class="other"><td>other (%d values)</td><td>%d</td></tr>`, rest, rest))
	assert.NotContains(t, page, "<td>id-99</td>")

	resp, body = c.get("/charts/bar.png?column=id")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cfg, err := png.DecodeConfig(bytes.NewReader(body))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, render.MaxCanvas)
}

func TestResetReturnsToNoDataset(t *testing.T) {
	c := newTestClient(t, Config{})
	c.upload("d.csv", []byte(scenarioCSV))

	resp := c.post("/reset")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := c.get("/")
	assert.Contains(t, string(body), noticeStart)
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newTestClient(t, Config{})
	a.upload("d.csv", []byte(scenarioCSV))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	b := &testClient{t: t, base: a.base, client: &http.Client{Jar: jar}, srv: a.srv}
	resp, _ := b.get("/download")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// Chart and Download Tests
// =============================================================================

func TestChartEndpoints(t *testing.T) {
	c := newTestClient(t, Config{Chart: render.Options{Width: 320, Height: 240}})
	resp, _ := c.get("/charts/heatmap.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	c.upload("d.csv", []byte("x,y,label\n1,2,a\n2,3,b\n3,5,a\n"))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"scatter", "/charts/scatter.png?x=x&y=y", http.StatusOK},
		{"heatmap", "/charts/heatmap.png", http.StatusOK},
		{"bar", "/charts/bar.png?column=label", http.StatusOK},
		{"scatter bad column", "/charts/scatter.png?x=x&y=label", http.StatusBadRequest},
		{"bar numeric column", "/charts/bar.png?column=x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := c.get(tt.path)
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
			_, err := png.DecodeConfig(bytes.NewReader(body))
			assert.NoError(t, err)
		})
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	c := newTestClient(t, Config{})
	c.upload("d.csv", []byte(scenarioCSV))

	resp, body := c.get("/download")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="processed_data.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, scenarioCSV, string(body))

	resp, body = c.get("/download.xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxMIME, resp.Header.Get("Content-Type"))
	tbl, err := dataset.ReadXLSX("processed_data.xlsx", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
}

// =============================================================================
// API Tests
// =============================================================================

func TestAPISummary(t *testing.T) {
	c := newTestClient(t, Config{})
	c.upload("d.csv", []byte(scenarioCSV))

	resp, body := c.get("/api/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Shape          [2]int `json:"shape"`
			Classification struct {
				Numeric    []string `json:"numeric"`
				NonNumeric []string `json:"non_numeric"`
			} `json:"classification"`
			Summary struct {
				Summary []struct {
					Name  string                 `json:"name"`
					Stats map[string]interface{} `json:"stats"`
				} `json:"summary"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.Success)
	assert.Equal(t, [2]int{3, 2}, got.Data.Shape)
	assert.Equal(t, []string{"a"}, got.Data.Classification.Numeric)
	assert.Equal(t, []string{"b"}, got.Data.Classification.NonNumeric)
	require.Len(t, got.Data.Summary.Summary, 2)
	assert.Equal(t, 2.0, got.Data.Summary.Summary[0].Stats["mean"])
	assert.Nil(t, got.Data.Summary.Summary[1].Stats["mean"])
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, Config{})
	resp, body := c.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, "test", got["version"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&dataset.SelectionError{Column: "a", Reason: "no such column"}))
	assert.Equal(t, http.StatusConflict, statusFor(&render.UnavailableError{Chart: render.ChartBar, Reason: "r"}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestServeListenerShutsDownOnCancel(t *testing.T) {
	srv, err := NewServer(Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
