package pickpoint_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pickpoint/pkg/pickpoint"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeProvider struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeProvider) requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.seen...)
}

// newFakeProvider serves canned bodies per path and records requests.
func newFakeProvider(t *testing.T, bodies map[string]string) (*httptest.Server, *fakeProvider) {
	t.Helper()
	fake := &fakeProvider{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		fake.mu.Lock()
		fake.seen = append(fake.seen, rec)
		fake.mu.Unlock()

		body, ok := bodies[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.URL.Path == "/makelabel" {
			w.Header().Set("Content-Type", "application/pdf")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, fake
}

func newHTTPClient(srv *httptest.Server) *pickpoint.Client {
	cfg := testConfig
	cfg.Host = srv.URL
	api := pickpoint.NewHTTPAPIClient(pickpoint.HTTPAPIClientConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	return pickpoint.NewWithAPIClient(cfg, api, otelzap.New(zap.NewNop()), nil)
}

func TestHTTPAPIClient_CalculatePrices(t *testing.T) {
	srv, seen := newFakeProvider(t, map[string]string{
		"/login":      `{"SessionId":"sid-123","ErrorMessage":null}`,
		"/calctariff": `{"Services":[{"Name":"Delivery","Tariff":210.5,"NDS":35.08}],"DPMin":2,"DPMax":3,"Zone":1,"TariffType":"Standard","ErrorCode":0}`,
	})
	client := newHTTPClient(srv)

	price, err := client.CalculatePrices(context.Background(), &pickpoint.PriceRequest{
		Receiver: pickpoint.ReceiverDestination{PostamatNumber: "7801-002"},
	})

	require.NoError(t, err)
	assert.Equal(t, 210.5, price.Total())
	assert.Equal(t, "1", price.Zone)

	require.Len(t, seen.requests(), 2)
	login := seen.requests()[0]
	assert.Equal(t, http.MethodPost, login.Method)
	assert.Equal(t, "apitest", login.Body["Login"])

	calc := seen.requests()[1]
	assert.Equal(t, "/calctariff", calc.Path)
	assert.Equal(t, "sid-123", calc.Body["SessionId"])
	assert.Equal(t, "9990000112", calc.Body["IKN"])
	assert.Equal(t, "7801-002", calc.Body["PTNumber"])
}

func TestHTTPAPIClient_ErrorCodeAsString(t *testing.T) {
	srv, _ := newFakeProvider(t, map[string]string{
		"/login":      `{"SessionId":"sid-123"}`,
		"/calctariff": `{"ErrorCode":"7","ErrorMessage":"Tariff not found"}`,
	})
	client := newHTTPClient(srv)

	_, err := client.CalculatePrices(context.Background(), &pickpoint.PriceRequest{
		Receiver: pickpoint.ReceiverDestination{PostamatNumber: "7801-002"},
	})

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 7, callErr.Code)
	assert.Equal(t, srv.URL+"/calctariff", callErr.URL)
}

func TestHTTPAPIClient_GetStatesUsesGET(t *testing.T) {
	srv, seen := newFakeProvider(t, map[string]string{
		"/getstates": `[{"State":101,"StateText":"Registered"},{"State":111,"StateText":"Delivered"}]`,
		"/citylist":  `[{"Id":992,"Owner_Id":0,"Name":"Москва","NameEng":"Moscow","RegionName":"Москва"}]`,
	})
	client := newHTTPClient(srv)

	states, err := client.GetStates(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)

	cities, err := client.GetCities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, 992, cities[0].ID)

	for _, r := range seen.requests() {
		assert.Equal(t, http.MethodGet, r.Method, r.Path)
		assert.Nil(t, r.Body)
	}
}

func TestHTTPAPIClient_ListEndpointReturnsErrorObject(t *testing.T) {
	srv, _ := newFakeProvider(t, map[string]string{
		"/login":              `{"SessionId":"sid-123"}`,
		"/clientpostamatlist": `{"ErrorCode":-1,"ErrorMessage":"Session expired"}`,
	})
	client := newHTTPClient(srv)

	_, err := client.GetPoints(context.Background())

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, -1, callErr.Code)
	assert.Equal(t, "Session expired", callErr.Message)
}

func TestHTTPAPIClient_TrackSendings(t *testing.T) {
	srv, seen := newFakeProvider(t, map[string]string{
		"/login": `{"SessionId":"sid-123"}`,
		"/tracksendings": `{"Invoices":[{"InvoiceNumber":15000000001,"States":[
			{"State":101,"StateMessage":"Registered","ChangeDT":"2024-03-01T10:00:00"},
			{"State":102,"StateMessage":"Accepted","ChangeDT":"2024-03-02T10:00:00"},
			{"State":101,"StateMessage":"Registered","ChangeDT":"2024-03-03T10:00:00"}]}]}`,
	})
	client := newHTTPClient(srv)

	last, err := client.GetInvoicesLastStates(context.Background(), []string{"15000000001"})

	require.NoError(t, err)
	require.Contains(t, last, "15000000001")
	assert.Equal(t, 102, last["15000000001"].Code)
	assert.Equal(t, []any{"15000000001"}, seen.requests()[1].Body["Invoices"])
}

func TestHTTPAPIClient_PrintLabelReturnsRawBody(t *testing.T) {
	pdf := "%PDF-1.4\nbinary"
	srv, _ := newFakeProvider(t, map[string]string{
		"/login":     `{"SessionId":"sid-123"}`,
		"/makelabel": pdf,
	})
	client := newHTTPClient(srv)

	doc, err := client.PrintLabel(context.Background(), []string{"15000000001"})

	require.NoError(t, err)
	assert.Equal(t, pdf, string(doc))
}

func TestHTTPAPIClient_UnexpectedStatus(t *testing.T) {
	srv, _ := newFakeProvider(t, map[string]string{})
	client := newHTTPClient(srv)

	_, err := client.GetStates(context.Background())

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, http.StatusNotFound, callErr.StatusCode)
	assert.False(t, pickpoint.IsProviderError(err))
}

func TestHTTPAPIClient_InvalidJSON(t *testing.T) {
	srv, _ := newFakeProvider(t, map[string]string{
		"/getstates": `not json`,
	})
	client := newHTTPClient(srv)

	_, err := client.GetStates(context.Background())

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "failed to decode response", callErr.Message)
	assert.NotNil(t, callErr.Cause)
}

func TestHTTPAPIClient_CreateShipment(t *testing.T) {
	srv, seen := newFakeProvider(t, map[string]string{
		"/login":          `{"SessionId":"sid-123"}`,
		"/CreateShipment": `{"CreatedSendings":[{"EDTN":"any","InvoiceNumber":"15000000001","Barcode":200000000001}],"RejectedSendings":[]}`,
	})
	client := newHTTPClient(srv)

	inv := validInvoice()
	require.NoError(t, client.CreateShipmentWithInvoice(context.Background(), inv))

	assert.Equal(t, "15000000001", inv.InvoiceNumber)
	assert.Equal(t, "200000000001", inv.Barcode)

	body := seen.requests()[1].Body
	sendings, ok := body["Sendings"].([]any)
	require.True(t, ok)
	require.Len(t, sendings, 1)
	sending := sendings[0].(map[string]any)
	invoice := sending["Invoice"].(map[string]any)
	assert.Equal(t, "order-42", invoice["SenderCode"])
	assert.Equal(t, float64(10001), invoice["PostageType"])
}

func TestHTTPAPIClient_CourierErrorCode(t *testing.T) {
	srv, _ := newFakeProvider(t, map[string]string{
		"/login":         `{"SessionId":"sid-123"}`,
		"/courier":       `{"CourierRequestRegistred":false,"OrderNumber":0,"ErrorCode":-1023,"ErrorMessage":"bad city"}`,
		"/couriercancel": `{"OrderNumber":778899,"Canceled":false,"ErrorCode":77,"ErrorMessage":"already on the way"}`,
	})
	client := newHTTPClient(srv)

	call := &pickpoint.CourierCall{City: "Москва", Address: "ul. Lenina, 1", Date: time.Now()}
	err := client.CallCourier(context.Background(), call)

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, -1023, callErr.Code)
	assert.Equal(t, "bad city", callErr.Message)
	assert.Empty(t, call.OrderNumber)

	err = client.CancelCourier(context.Background(), "778899")

	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 77, callErr.Code)
	assert.Equal(t, "already on the way", callErr.Message)
}

func TestHTTPAPIClient_PrintLabelNonNumericErrorCode(t *testing.T) {
	srv, _ := newFakeProvider(t, map[string]string{
		"/login":     `{"SessionId":"sid-123"}`,
		"/makelabel": `{"ErrorCode":"abc","ErrorMessage":"bad invoice"}`,
	})
	client := newHTTPClient(srv)

	doc, err := client.PrintLabel(context.Background(), []string{"15000000001"})

	var callErr *pickpoint.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "bad invoice", callErr.Message)
	assert.True(t, pickpoint.IsProviderError(err))
	assert.Nil(t, doc)
}
