// Package apiclient provides the HTTP adapter for the summarisation API.
// Clean Architecture: Adapter implementing ports.Backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 16 << 20

// Client implements ports.Backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.client.Timeout = d
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL must not be empty")
	}

	cl := &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Minute, // Whisper transcription is slow
		},
	}
	for _, o := range opts {
		o(cl)
	}
	return cl, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type urlRequest struct {
	URL string `json:"url"`
}

type askRequest struct {
	Question string `json:"question"`
}

// UploadTranscript sends the file as multipart form field "file".
func (c *Client) UploadTranscript(ctx context.Context, file *entities.TranscriptFile) (entities.MessageResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return entities.MessageResponse{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return entities.MessageResponse{}, fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return entities.MessageResponse{}, fmt.Errorf("closing multipart body: %w", err)
	}

	var out entities.MessageResponse
	err = c.do(ctx, http.MethodPost, "/upload-transcript", mw.FormDataContentType(), &body, &out, func() bool { return out.IsEmpty() })
	return out, err
}

// UploadYouTube posts {url} to /upload-youtube.
func (c *Client) UploadYouTube(ctx context.Context, url string) (entities.MessageResponse, error) {
	var out entities.MessageResponse
	err := c.postJSON(ctx, "/upload-youtube", urlRequest{URL: url}, &out, func() bool { return out.IsEmpty() })
	return out, err
}

// TranscribeYouTubeWhisper posts {url} to /transcribe-youtube-whisper.
func (c *Client) TranscribeYouTubeWhisper(ctx context.Context, url string) (entities.MessageResponse, error) {
	var out entities.MessageResponse
	err := c.postJSON(ctx, "/transcribe-youtube-whisper", urlRequest{URL: url}, &out, func() bool { return out.IsEmpty() })
	return out, err
}

// Ask posts {question} to /ask.
func (c *Client) Ask(ctx context.Context, question string) (entities.AskResponse, error) {
	var out entities.AskResponse
	err := c.postJSON(ctx, "/ask", askRequest{Question: question}, &out, func() bool { return out.IsEmpty() })
	return out, err
}

// ListDocuments fetches /documents.
func (c *Client) ListDocuments(ctx context.Context) (entities.DocumentsResponse, error) {
	var out entities.DocumentsResponse
	err := c.do(ctx, http.MethodGet, "/documents", "", nil, &out, func() bool { return out.IsEmpty() })
	return out, err
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any, empty func() bool) error {
	jsonData, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(jsonData), out, empty)
}

// do performs one request and decodes the JSON body into out.
// A non-2xx reply is accepted when its body carries one of the expected fields,
// since the API reports failures through "error".
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any, empty func() bool) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if err := json.Unmarshal(data, out); err != nil {
		if !ok {
			return statusError(method, path, resp.StatusCode)
		}
		return fmt.Errorf("decoding response: %w", err)
	}
	if !ok && empty() {
		return statusError(method, path, resp.StatusCode)
	}
	return nil
}

func statusError(method, path string, code int) error {
	return fmt.Errorf("http %s %s: status %d", method, path, code)
}
