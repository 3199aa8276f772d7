package imaging

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultContentType = "image/png"

// ErrMalformedDataURL is returned when a data URL is missing its separator
// or base64 marker.
var ErrMalformedDataURL = errors.New("malformed data URL")

// FetchError reports a non-2xx response while fetching a remote image.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

// Content is a resolved image: raw bytes plus a content type.
type Content struct {
	Bytes       []byte
	ContentType string
}

// Converter normalizes an image reference (inline data URL or remote URL)
// into binary content and a MIME type.
type Converter struct {
	httpClient *http.Client
}

func NewConverter() *Converter {
	return &Converter{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Resolve turns ref into binary content. Data URLs are decoded directly
// without a network call; anything else is fetched.
func (cv *Converter) Resolve(ctx context.Context, ref string) (*Content, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty image reference")
	}

	if strings.HasPrefix(ref, "data:") {
		mime, b64, err := SplitDataURL(ref)
		if err != nil {
			return nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decode data URL payload: %w", err)
		}
		return &Content{Bytes: raw, ContentType: mime}, nil
	}

	return cv.fetch(ctx, ref)
}

// ToDataURL resolves ref and re-encodes it as an inline data URL.
func (cv *Converter) ToDataURL(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "data:") {
		// Validate even when passing through unchanged.
		if _, _, err := SplitDataURL(ref); err != nil {
			return "", err
		}
		return ref, nil
	}

	content, err := cv.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}

	b64 := base64.StdEncoding.EncodeToString(content.Bytes)
	return "data:" + content.ContentType + ";base64," + b64, nil
}

func (cv *Converter) fetch(ctx context.Context, ref string) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := cv.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: ref, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = typeFromExtension(ref)
	}

	return &Content{Bytes: raw, ContentType: contentType}, nil
}

// SplitDataURL splits a data URL into its MIME type and base64 payload.
func SplitDataURL(dataURL string) (mime string, b64 string, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", ErrMalformedDataURL
	}

	comma := strings.Index(dataURL, ",")
	if comma < 0 {
		return "", "", ErrMalformedDataURL
	}

	header := dataURL[len("data:"):comma]
	if !strings.HasSuffix(header, ";base64") {
		return "", "", ErrMalformedDataURL
	}

	mime = strings.TrimSuffix(header, ";base64")
	if mime == "" {
		mime = defaultContentType
	}

	return mime, dataURL[comma+1:], nil
}

// ExtensionFor maps a content type to a file extension, falling back to the
// URL suffix and finally to "png".
func ExtensionFor(contentType, fallbackURL string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}

	if ext := extensionOf(fallbackURL); ext != "" {
		return ext
	}
	return "png"
}

func typeFromExtension(ref string) string {
	switch extensionOf(ref) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	}
	return defaultContentType
}

func extensionOf(ref string) string {
	if ref == "" {
		return ""
	}
	// Query strings and fragments are not part of the extension.
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	dot := strings.LastIndex(ref, ".")
	if dot < 0 || dot == len(ref)-1 {
		return ""
	}
	ext := strings.ToLower(ref[dot+1:])
	if strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
