package httpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/compose"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/editor"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-test")

type testEnv struct {
	cfg *config.Config
	rt  *site.Runtime
	svc *storage.Service
	srv *Server
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	svc := storage.NewService(storage.NewMemoryStore(), storage.WithPublicURL("http://sites.example.com"))
	ctrl := editor.New(
		editor.WithStorage(svc),
		editor.WithResolver(assets.NewResolver(svc)),
		editor.WithRecorder(rec),
	)
	ctrl.Load(content.Submission{
		ID: "sub-1",
		Record: content.Record{
			BusinessName: "Harbor Bakery",
			Tagline:      "Fresh bread daily",
			About:        "We bake.",
			Styles:       content.DefaultStyles(),
		},
	})
	rt := site.New(site.Options{Controller: ctrl, Composer: compose.New(compose.WithRecorder(rec)), Recorder: rec})
	srv := New(cfg, rt, Options{Storage: svc, Registry: reg})
	return &testEnv{cfg: cfg, rt: rt, svc: svc, srv: srv}
}

func TestServer_Routes(t *testing.T) {
	env := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.rt.Start(ctx)

	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	tests := []struct {
		path   string
		status int
	}{
		{"/api/record", http.StatusOK},
		{"/api/styles", http.StatusOK},
		{"/preview", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/submissions", http.StatusNotFound},
		{"/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServer_NotFoundIsJSON(t *testing.T) {
	env := newEnv(t)
	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nowhere")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body ferrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Code)
}

func TestServer_MetricsDisabled(t *testing.T) {
	env := newEnv(t)
	off := false
	env.cfg.Monitoring.Metrics.Enabled = &off
	srv := New(env.cfg, env.rt, Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/objects/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_UploadResolvesThroughStorage(t *testing.T) {
	env := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.rt.Start(ctx)

	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/record/images/logo", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/png")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var up struct {
		Ref string `json:"ref"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	id := strings.TrimPrefix(up.Ref, content.DefaultRefScheme+":")
	require.NotEqual(t, up.Ref, id)

	// the stored object is served under /storage
	obj, err := http.Get(ts.URL + "/storage/objects/" + id)
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	_ = obj.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, obj.StatusCode)
	assert.Equal(t, pngBytes, data)

	// and the preview shows its resolved URL
	require.Eventually(t, func() bool {
		doc, _ := env.rt.Surface().Document()
		return strings.Contains(doc, env.svc.ObjectURL(id))
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, env.rt.Pending())
}

func TestServer_PreviewEventsStream(t *testing.T) {
	env := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.rt.Start(ctx)

	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/preview/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	_, hash := env.rt.Surface().Document()
	lines := make(chan string, 8)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if strings.HasPrefix(line, "data: ") {
				assert.Contains(t, line, hash)
				return
			}
		case <-deadline:
			t.Fatal("no event received")
		}
	}
}

func TestServer_StartStop(t *testing.T) {
	env := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, env.srv.Start(ctx))
	require.Error(t, env.srv.Start(ctx))
	addr := env.srv.Addr()
	require.NotNil(t, addr)

	resp, err := http.Get("http://" + addr.String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, env.srv.Stop(stopCtx))
}

func TestServer_StartFailsOnBusyAddr(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	require.NoError(t, env.srv.Start(ctx))
	defer func() { _ = env.srv.Stop(ctx) }()

	other := newEnv(t)
	other.cfg.Server.Addr = env.srv.Addr().String()
	err := other.srv.Start(ctx)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
}
