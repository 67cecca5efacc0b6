package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the sensor endpoint of the reference deployment, a phone
// on the local network exposing its accelerometer over HTTP.
const DefaultBaseURL = "http://192.168.1.12"

var channels = []string{"accX", "accY", "accZ"}

// HTTPSource fetches readings from a phyphox-style remote endpoint:
// GET <base>/get?accX&accY&accZ returns a JSON body with one buffer per
// channel; the first buffered sample is the instantaneous reading.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource returns an HTTPSource for the given base URL. The timeout
// bounds each fetch; it is the only thing standing between a stalled sensor
// and a stalled dispatch loop.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type channelBuffer struct {
	Buffer []float64 `json:"buffer"`
}

type getResponse struct {
	Buffer map[string]channelBuffer `json:"buffer"`
}

// Fetch retrieves one 3-channel reading. All failure modes wrap
// ErrUnavailable.
func (s *HTTPSource) Fetch(ctx context.Context) (Reading, error) {
	url := s.base + "/get?" + strings.Join(channels, "&")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	var body getResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Reading{}, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	var samples [3]float64
	for i, name := range channels {
		ch, ok := body.Buffer[name]
		if !ok || len(ch.Buffer) == 0 {
			return Reading{}, fmt.Errorf("%w: channel %s missing from response", ErrUnavailable, name)
		}
		samples[i] = ch.Buffer[0]
	}

	return Reading{AccX: samples[0], AccY: samples[1], AccZ: samples[2]}, nil
}
