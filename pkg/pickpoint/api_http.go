package pickpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient over HTTP/JSON.
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional, overrides Timeout
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPAPIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// Login opens a session.
func (c *HTTPAPIClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, pathLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientPostamatList lists the points available to the account.
func (c *HTTPAPIClient) ClientPostamatList(ctx context.Context, req *AccountRequest) (*PointsResponse, error) {
	var out PointsResponse
	if err := c.postJSON(ctx, pathPostamatList, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalcTariff prices a delivery.
func (c *HTTPAPIClient) CalcTariff(ctx context.Context, req *CalcTariffRequest) (*CalcTariffResponse, error) {
	var out CalcTariffResponse
	if err := c.postJSON(ctx, pathCalcTariff, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateShipment registers sendings.
func (c *HTTPAPIClient) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error) {
	var out CreateShipmentResponse
	if err := c.postJSON(ctx, pathCreateShipment, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInvoice changes an existing invoice.
func (c *HTTPAPIClient) UpdateInvoice(ctx context.Context, req *UpdateInvoiceRequest) (*UpdateInvoiceResponse, error) {
	var out UpdateInvoiceResponse
	if err := c.postJSON(ctx, pathUpdateInvoice, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvoice cancels an invoice.
func (c *HTTPAPIClient) CancelInvoice(ctx context.Context, req *CancelInvoiceRequest) (*CancelInvoiceResponse, error) {
	var out CancelInvoiceResponse
	if err := c.postJSON(ctx, pathCancelInvoice, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackSending returns the states of one invoice.
func (c *HTTPAPIClient) TrackSending(ctx context.Context, req *TrackSendingRequest) (*TrackSendingResponse, error) {
	var out TrackSendingResponse
	if err := c.postJSON(ctx, pathTrackSending, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackSendings returns the state histories of several invoices.
func (c *HTTPAPIClient) TrackSendings(ctx context.Context, req *TrackSendingsRequest) (*TrackSendingsResponse, error) {
	var out TrackSendingsResponse
	if err := c.postJSON(ctx, pathTrackSendings, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStates returns the global status dictionary. GET /getstates
func (c *HTTPAPIClient) GetStates(ctx context.Context) (*StatesResponse, error) {
	var out StatesResponse
	if err := c.getJSON(ctx, pathGetStates, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MakeLabel renders labels for invoices.
func (c *HTTPAPIClient) MakeLabel(ctx context.Context, req *InvoicesRequest) (*RawResponse, error) {
	return c.postRaw(ctx, pathMakeLabel, req)
}

// MakeReestr builds a receipt for invoices and renders it.
func (c *HTTPAPIClient) MakeReestr(ctx context.Context, req *MakeReestrRequest) (*RawResponse, error) {
	return c.postRaw(ctx, pathMakeReestr, req)
}

// MakeReestrNumber builds receipts and returns their numbers.
func (c *HTTPAPIClient) MakeReestrNumber(ctx context.Context, req *InvoicesRequest) (*ReestrNumberResponse, error) {
	var out ReestrNumberResponse
	if err := c.postJSON(ctx, pathMakeReestrNumber, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReestr renders an existing receipt.
func (c *HTTPAPIClient) GetReestr(ctx context.Context, req *GetReestrRequest) (*RawResponse, error) {
	return c.postRaw(ctx, pathGetReestr, req)
}

// Courier registers a courier call.
func (c *HTTPAPIClient) Courier(ctx context.Context, req *CourierRequest) (*CourierResponse, error) {
	var out CourierResponse
	if err := c.postJSON(ctx, pathCourier, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CourierCancel cancels a courier call.
func (c *HTTPAPIClient) CourierCancel(ctx context.Context, req *CourierCancelRequest) (*CourierCancelResponse, error) {
	var out CourierCancelResponse
	if err := c.postJSON(ctx, pathCourierCancel, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CityList returns the city directory. GET /citylist
func (c *HTTPAPIClient) CityList(ctx context.Context) (*CityListResponse, error) {
	var out CityListResponse
	if err := c.getJSON(ctx, pathCityList, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetZone resolves delivery zones to a postamat.
func (c *HTTPAPIClient) GetZone(ctx context.Context, req *GetZoneRequest) (*GetZoneResponse, error) {
	var out GetZoneResponse
	if err := c.postJSON(ctx, pathGetZone, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// HTTP Helpers
// ============================================================================

func (c *HTTPAPIClient) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.decode(path, data.Body, out)
}

func (c *HTTPAPIClient) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.decode(path, data.Body, out)
}

func (c *HTTPAPIClient) postRaw(ctx context.Context, path string, body any) (*RawResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *HTTPAPIClient) decode(path string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return NewCallError(c.baseURL+path, "failed to decode response", 0).WithCause(err)
	}
	return nil
}

// do performs the request and reads the whole body. Only transport level
// problems are reported here; the provider answers business errors with 200.
func (c *HTTPAPIClient) do(ctx context.Context, method, path string, body any) (*RawResponse, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, NewCallError(url, "failed to marshal request body", 0).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, NewCallError(url, "failed to create request", 0).WithCause(err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "pickpoint-connector/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewCallError(url, "request failed", 0).WithCause(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewCallError(url, "failed to read response", 0).WithCause(err).WithStatusCode(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewCallError(url, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(data, 256)), 0).
			WithStatusCode(resp.StatusCode)
	}

	return &RawResponse{Body: data}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
