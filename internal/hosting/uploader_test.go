package hosting

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify-labs/roomify-backend/internal/imaging"
)

func testHostingConfig() *Config {
	return &Config{
		Slug:    "roomify-abc",
		Host:    "roomify-abc.roomify.site",
		RootDir: "roomify-hosting",
	}
}

func pngDataURL(t *testing.T) (string, []byte) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), buf.Bytes()
}

func TestUploader_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("nil hosting or empty url yields nil", func(t *testing.T) {
		u := NewUploader(newFakeBackend(), imaging.NewConverter())
		assert.Nil(t, u.Upload(ctx, UploadRequest{URL: "data:image/png;base64,AA==", ProjectID: "1", Label: LabelSource}))
		assert.Nil(t, u.Upload(ctx, UploadRequest{Hosting: testHostingConfig(), ProjectID: "1", Label: LabelSource}))
	})

	t.Run("already hosted url is returned unchanged with no write", func(t *testing.T) {
		backend := newFakeBackend()
		u := NewUploader(backend, imaging.NewConverter())

		hosted := "https://roomify-abc.roomify.site/projects/42/source.png"
		res := u.Upload(ctx, UploadRequest{Hosting: testHostingConfig(), URL: hosted, ProjectID: "42", Label: LabelSource})
		require.NotNil(t, res)
		assert.Equal(t, hosted, res.URL)
		assert.Zero(t, backend.writeCount())
	})

	t.Run("data url lands at the deterministic path", func(t *testing.T) {
		backend := newFakeBackend()
		u := NewUploader(backend, imaging.NewConverter())

		dataURL, raw := pngDataURL(t)
		res := u.Upload(ctx, UploadRequest{Hosting: testHostingConfig(), URL: dataURL, ProjectID: "42", Label: LabelSource})
		require.NotNil(t, res)

		assert.True(t, strings.HasSuffix(res.URL, "/projects/42/source.png"), res.URL)
		assert.Equal(t, "https://roomify-abc.roomify.site/projects/42/source.png", res.URL)

		stored, ok := backend.writes["roomify-abc/roomify-hosting/projects/42/source.png"]
		require.True(t, ok, "expected write under roomify-hosting/projects/42/source.png")
		assert.Equal(t, raw, stored)
		assert.Equal(t, "image/png", backend.writeTypes["roomify-abc/roomify-hosting/projects/42/source.png"])
	})

	t.Run("re-upload overwrites the same path", func(t *testing.T) {
		backend := newFakeBackend()
		u := NewUploader(backend, imaging.NewConverter())

		dataURL, _ := pngDataURL(t)
		req := UploadRequest{Hosting: testHostingConfig(), URL: dataURL, ProjectID: "42", Label: LabelSource}
		require.NotNil(t, u.Upload(ctx, req))
		require.NotNil(t, u.Upload(ctx, req))
		assert.Equal(t, 1, backend.writeCount())
	})

	t.Run("rendered label is normalized to png", func(t *testing.T) {
		backend := newFakeBackend()
		u := NewUploader(backend, imaging.NewConverter())

		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, img, nil))
		dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

		res := u.Upload(ctx, UploadRequest{Hosting: testHostingConfig(), URL: dataURL, ProjectID: "7", Label: LabelRendered})
		require.NotNil(t, res)
		assert.True(t, strings.HasSuffix(res.URL, "/projects/7/rendered.png"), res.URL)
		assert.Equal(t, "image/png", backend.writeTypes["roomify-abc/roomify-hosting/projects/7/rendered.png"])
	})

	t.Run("write failure collapses to nil", func(t *testing.T) {
		backend := newFakeBackend()
		backend.failWrite = true
		u := NewUploader(backend, imaging.NewConverter())

		dataURL, _ := pngDataURL(t)
		assert.Nil(t, u.Upload(ctx, UploadRequest{Hosting: testHostingConfig(), URL: dataURL, ProjectID: "42", Label: LabelSource}))
	})

	t.Run("unresolvable source collapses to nil", func(t *testing.T) {
		u := NewUploader(newFakeBackend(), imaging.NewConverter())
		assert.Nil(t, u.Upload(ctx, UploadRequest{Hosting: testHostingConfig(), URL: "data:image/png;base64", ProjectID: "42", Label: LabelSource}))
	})
}
