package recognition

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// request is the wire format sent to the recognition service.
type request struct {
	Mode        string   `json:"mode"` // "text" or "qrcodes"
	Image       string   `json:"image"`
	Languages   []string `json:"languages,omitempty"`
	Orientation int      `json:"orientation,omitempty"`
}

// response is the wire format returned by the recognition service.
type response struct {
	Fragments []Fragment `json:"fragments,omitempty"`
	Payloads  []string   `json:"payloads,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// HTTPGateway calls a recognition service over HTTP with base64 PNG payloads.
type HTTPGateway struct {
	url    string
	client *http.Client
}

// NewHTTPGateway creates a gateway for the recognition service at url.
func NewHTTPGateway(url string) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		client: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// DetectText implements Gateway.
func (g *HTTPGateway) DetectText(img image.Image, opts TextOptions) (Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	resp, err := g.post(request{
		Mode:        "text",
		Image:       encodeImage(img),
		Languages:   opts.Languages,
		Orientation: opts.Orientation,
	})
	if err != nil {
		return nil, err
	}
	return Result(resp.Fragments), nil
}

// DetectQRCodes implements Gateway.
func (g *HTTPGateway) DetectQRCodes(img image.Image) ([]string, error) {
	resp, err := g.post(request{
		Mode:  "qrcodes",
		Image: encodeImage(img),
	})
	if err != nil {
		return nil, err
	}
	return resp.Payloads, nil
}

func (g *HTTPGateway) post(req request) (*response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	httpResp, err := g.client.Post(g.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return nil, fmt.Errorf("%w: service returned %d: %s", ErrRecognition, httpResp.StatusCode, bytes.TrimSpace(data))
	}

	var resp response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRecognition, resp.Error)
	}
	return &resp, nil
}

func encodeImage(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
