package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// newTestServer serves a Service under /storage and points its public URL at
// the test server.
func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *Service) {
	t.Helper()
	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	svc := NewService(NewMemoryStore(), append([]Option{WithPublicURL(srv.URL)}, opts...)...)
	r := chi.NewRouter()
	r.Mount("/storage", NewHandler(svc, nil))
	handler = r
	return srv, svc
}

func TestHTTP_UploadResolveRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	client := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	target, err := client.RequestUploadTarget(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(target, srv.URL+UploadsPath), target)

	id, err := client.Transfer(ctx, target, File{Name: "logo.png", Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, HashBytes(pngBytes), id)

	res, err := client.ResolveMany(ctx, []string{"missing", id})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, id, res[0].ID)
	assert.Equal(t, srv.URL+ObjectsPath+id, res[0].URL)

	resp, err := srv.Client().Get(res[0].URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, pngBytes, body)
}

func TestHTTP_UploadTargetsAreSingleUse(t *testing.T) {
	srv, _ := newTestServer(t)
	client := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	target, err := client.RequestUploadTarget(ctx)
	require.NoError(t, err)
	_, err = client.Transfer(ctx, target, File{ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	_, err = client.Transfer(ctx, target, File{ContentType: "image/png", Data: pngBytes})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestHTTP_UploadLimits(t *testing.T) {
	srv, _ := newTestServer(t, WithLimits(Limits{MaxBytes: 32, AllowedTypes: DefaultAllowedTypes}))
	client := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	target, err := client.RequestUploadTarget(ctx)
	require.NoError(t, err)
	_, err = client.Transfer(ctx, target, File{ContentType: "image/png", Data: append(append([]byte{}, pngBytes...), make([]byte, 64)...)})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	target, err = client.RequestUploadTarget(ctx)
	require.NoError(t, err)
	_, err = client.Transfer(ctx, target, File{ContentType: "text/plain", Data: []byte("hello")})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestHTTP_UnknownObjectIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + ObjectsPath + HashBytes([]byte("nope")))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTP_MalformedResolveIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Post(srv.URL+"/storage/resolve", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClient_TransportFailureIsRetryableNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, nil).ResolveMany(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, c.CanRetry())
}

func TestService_TransferInProcess(t *testing.T) {
	svc := NewService(NewMemoryStore(), WithPublicURL("https://assets.example.com/"))
	ctx := context.Background()

	target, err := svc.RequestUploadTarget(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(target, "https://assets.example.com/storage/uploads/"))

	id, err := svc.Transfer(ctx, target, File{Data: jpegBytes})
	require.NoError(t, err)
	obj, err := svc.Open(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)

	_, err = svc.Transfer(ctx, "https://assets.example.com/elsewhere/x", File{Data: jpegBytes})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestService_ExpiredTargetIsRejected(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryStore(), WithClock(func() time.Time { return now }), WithTokenTTL(time.Minute))
	ctx := context.Background()

	target, err := svc.RequestUploadTarget(ctx)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)

	_, err = svc.Transfer(ctx, target, File{Data: pngBytes})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestService_OpenMissing(t *testing.T) {
	svc := NewService(NewMemoryStore())
	_, err := svc.Open(context.Background(), "missing")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLimits_Check(t *testing.T) {
	l := DefaultLimits()

	ct, err := l.Check(File{ContentType: "application/octet-stream", Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = l.Check(File{ContentType: "IMAGE/WEBP; q=1", Data: []byte("RIFF....WEBPVP8 ")})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", ct)

	_, err = l.Check(File{Name: "empty.png"})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = l.Check(File{ContentType: "image/svg+xml", Data: []byte("<svg/>")})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
