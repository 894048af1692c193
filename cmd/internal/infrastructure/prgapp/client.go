package prgapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://apiba.prgapp.kz"

// requestTimeout bounds each upstream call; a timeout surfaces to the
// loader as a source-unavailable failure before any local write happens.
const requestTimeout = 30 * time.Second

// StatusError reports a non-success status from one of the upstream
// endpoints.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prgapp %s failed with status code: %d", e.Endpoint, e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the PRG public registry API. baseURL == ""
// selects the production endpoint; tests point it at a local fake.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// CompanyFullInfo fetches the nested company profile document for a BIN.
func (c *Client) CompanyFullInfo(ctx context.Context, bin string) (*CompanyInfo, error) {
	params := url.Values{}
	params.Set("id", bin)
	params.Set("lang", "ru")

	var info CompanyInfo
	if err := c.getJSON(ctx, "CompanyFullInfo", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GosZakupGraph fetches the procurement-activity document for a BIN.
func (c *Client) GosZakupGraph(ctx context.Context, bin string) (*ProcurementGraph, error) {
	params := url.Values{}
	params.Set("bin", bin)
	params.Set("lang", "ru")

	var graph ProcurementGraph
	if err := c.getJSON(ctx, "CompanyGosZakupGraph", params, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
