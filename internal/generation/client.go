package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/roomify-labs/roomify-backend/config"
	"github.com/roomify-labs/roomify-backend/internal/imaging"
	"github.com/roomify-labs/roomify-backend/internal/logutil"
)

// ErrAllModelsFailed wraps the aggregated failure after every configured
// model has been tried.
var ErrAllModelsFailed = errors.New("all generation models failed")

// Options override parts of the first model configuration.
type Options struct {
	Prompt   string
	Model    string
	TestMode bool
}

// ImageResult is the handle returned by the generation driver.
type ImageResult struct {
	URL         string
	B64Data     string
	ContentType string
	Model       string
}

// Client converts a hosted 2D image into a 3D rendering through the
// generation driver, with ordered fallback across model configurations.
// Unlike the hosting helpers it surfaces errors: callers must distinguish
// "no attempt succeeded" from "nothing to show".
type Client struct {
	baseURL    string
	apiKey     string
	testMode   bool
	httpClient *http.Client
	limiter    *rate.Limiter
	converter  *imaging.Converter
	configs    []ModelConfig
}

func NewClient(cfg *config.GenerationConfig, converter *imaging.Converter) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		testMode: cfg.TestMode,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 2),
		converter: converter,
		configs:   DefaultModelConfigs(),
	}
}

type driverRequest struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Prompt     string `json:"prompt"`
	TestMode   bool   `json:"test_mode,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	InputImage string `json:"input_image,omitempty"` // raw base64 payload
	InputMime  string `json:"input_mime,omitempty"`
}

type driverResponse struct {
	Data []struct {
		URL         string `json:"url,omitempty"`
		B64JSON     string `json:"b64_json,omitempty"`
		ContentType string `json:"content_type,omitempty"`
	} `json:"data"`
}

// Generate3DView resolves imageURL, then tries each model configuration in
// order and returns the first successful result.
func (c *Client) Generate3DView(ctx context.Context, imageURL string, opts *Options) (*ImageResult, error) {
	logger := logutil.NewLogger(ctx)

	dataURL, err := c.converter.ToDataURL(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("resolve input image: %w", err)
	}
	mime, b64, err := imaging.SplitDataURL(dataURL)
	if err != nil {
		return nil, fmt.Errorf("split input image: %w", err)
	}

	prompt := DefaultPrompt
	if opts != nil && opts.Prompt != "" {
		prompt = opts.Prompt
	}

	var lastErr error
	attempts := 0

	for i, mc := range c.configs {
		model := mc.Model
		// Caller-supplied model only overrides the primary configuration.
		if i == 0 && opts != nil && opts.Model != "" {
			model = opts.Model
		}

		req := driverRequest{
			Provider: mc.Provider,
			Model:    model,
			Prompt:   prompt,
			TestMode: c.testMode || (opts != nil && opts.TestMode),
			Width:    mc.Width,
			Height:   mc.Height,
		}
		if mc.AcceptsImage {
			req.InputImage = b64
			req.InputMime = mime
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		attempts++
		result, err := c.invoke(ctx, &req)
		if err == nil {
			logger.LogInfof("generate_3d", "model %s/%s succeeded on attempt %d", mc.Provider, model, attempts)
			result.Model = model
			return result, nil
		}

		logger.LogWarnf("generate_3d", "model %s/%s failed: %v", mc.Provider, model, err)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: attempted %d models, last error: %v", ErrAllModelsFailed, attempts, lastErr)
}

func (c *Client) invoke(ctx context.Context, req *driverRequest) (*ImageResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("generation driver returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed driverResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("generation driver returned no images")
	}

	first := parsed.Data[0]
	return &ImageResult{
		URL:         first.URL,
		B64Data:     first.B64JSON,
		ContentType: first.ContentType,
	}, nil
}

// DataURL renders the result as a data URL when it carries inline content,
// falling back to the hosted URL.
func (r *ImageResult) DataURL() string {
	if r.B64Data == "" {
		return r.URL
	}
	ct := r.ContentType
	if ct == "" {
		ct = "image/png"
	}
	return "data:" + ct + ";base64," + r.B64Data
}
