package pickpoint

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnLogin              func(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	OnClientPostamatList func(ctx context.Context, req *AccountRequest) (*PointsResponse, error)
	OnCalcTariff         func(ctx context.Context, req *CalcTariffRequest) (*CalcTariffResponse, error)
	OnCreateShipment     func(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error)
	OnUpdateInvoice      func(ctx context.Context, req *UpdateInvoiceRequest) (*UpdateInvoiceResponse, error)
	OnCancelInvoice      func(ctx context.Context, req *CancelInvoiceRequest) (*CancelInvoiceResponse, error)
	OnTrackSending       func(ctx context.Context, req *TrackSendingRequest) (*TrackSendingResponse, error)
	OnTrackSendings      func(ctx context.Context, req *TrackSendingsRequest) (*TrackSendingsResponse, error)
	OnGetStates          func(ctx context.Context) (*StatesResponse, error)
	OnMakeLabel          func(ctx context.Context, req *InvoicesRequest) (*RawResponse, error)
	OnMakeReestr         func(ctx context.Context, req *MakeReestrRequest) (*RawResponse, error)
	OnMakeReestrNumber   func(ctx context.Context, req *InvoicesRequest) (*ReestrNumberResponse, error)
	OnGetReestr          func(ctx context.Context, req *GetReestrRequest) (*RawResponse, error)
	OnCourier            func(ctx context.Context, req *CourierRequest) (*CourierResponse, error)
	OnCourierCancel      func(ctx context.Context, req *CourierCancelRequest) (*CourierCancelResponse, error)
	OnCityList           func(ctx context.Context) (*CityListResponse, error)
	OnGetZone            func(ctx context.Context, req *GetZoneRequest) (*GetZoneResponse, error)

	mu    sync.Mutex
	calls map[string]int
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Calls returns how many times the named method was invoked.
func (m *MockAPIClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (m *MockAPIClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MockAPIClient) enter(method string) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return fmt.Errorf("mock %s: simulated API error", method)
	}
	return nil
}

// Login returns a fresh session id.
func (m *MockAPIClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := m.enter("Login"); err != nil {
		return nil, err
	}
	if m.OnLogin != nil {
		return m.OnLogin(ctx, req)
	}
	return &LoginResponse{SessionID: uuid.New().String()}, nil
}

// ClientPostamatList returns two mock points.
func (m *MockAPIClient) ClientPostamatList(ctx context.Context, req *AccountRequest) (*PointsResponse, error) {
	if err := m.enter("ClientPostamatList"); err != nil {
		return nil, err
	}
	if m.OnClientPostamatList != nil {
		return m.OnClientPostamatList(ctx, req)
	}
	return &PointsResponse{Points: []WirePoint{
		{ID: 1, Number: "7701-001", Name: "Postamat Tverskaya", City: "Москва", Region: "Москва", Address: "ul. Tverskaya, 1", PostCode: "125009", Latitude: 55.757, Longitude: 37.613, WorkTime: "24/7", Status: 2},
		{ID: 2, Number: "7801-002", Name: "Postamat Nevsky", City: "Санкт-Петербург", Region: "Санкт-Петербург", Address: "Nevsky pr., 28", PostCode: "191186", Latitude: 59.935, Longitude: 30.327, WorkTime: "08:00-22:00", Status: 2},
	}}, nil
}

// CalcTariff returns a mock quote.
func (m *MockAPIClient) CalcTariff(ctx context.Context, req *CalcTariffRequest) (*CalcTariffResponse, error) {
	if err := m.enter("CalcTariff"); err != nil {
		return nil, err
	}
	if m.OnCalcTariff != nil {
		return m.OnCalcTariff(ctx, req)
	}
	return &CalcTariffResponse{
		Services: []WireService{
			{Name: "Delivery", Tariff: 250, NDS: 41.67},
			{Name: "Insurance", Tariff: 15, NDS: 2.5},
		},
		DPMin:         2,
		DPMax:         4,
		DPMinPriority: 1,
		DPMaxPriority: 2,
		Zone:          "1",
		TariffType:    "Standard",
	}, nil
}

// CreateShipment accepts every sending.
func (m *MockAPIClient) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error) {
	if err := m.enter("CreateShipment"); err != nil {
		return nil, err
	}
	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, req)
	}
	resp := &CreateShipmentResponse{}
	for i, s := range req.Sendings {
		n := time.Now().UnixNano()%1000000000 + int64(i)
		resp.CreatedSendings = append(resp.CreatedSendings, WireCreatedSending{
			EDTN:          s.EDTN,
			InvoiceNumber: Text(fmt.Sprintf("1%09d", n)),
			Barcode:       Text(fmt.Sprintf("2%012d", n)),
		})
	}
	return resp, nil
}

// UpdateInvoice reports success.
func (m *MockAPIClient) UpdateInvoice(ctx context.Context, req *UpdateInvoiceRequest) (*UpdateInvoiceResponse, error) {
	if err := m.enter("UpdateInvoice"); err != nil {
		return nil, err
	}
	if m.OnUpdateInvoice != nil {
		return m.OnUpdateInvoice(ctx, req)
	}
	ok := true
	return &UpdateInvoiceResponse{Result: &ok}, nil
}

// CancelInvoice reports success.
func (m *MockAPIClient) CancelInvoice(ctx context.Context, req *CancelInvoiceRequest) (*CancelInvoiceResponse, error) {
	if err := m.enter("CancelInvoice"); err != nil {
		return nil, err
	}
	if m.OnCancelInvoice != nil {
		return m.OnCancelInvoice(ctx, req)
	}
	return &CancelInvoiceResponse{Result: true}, nil
}

// TrackSending returns a single "registered" state.
func (m *MockAPIClient) TrackSending(ctx context.Context, req *TrackSendingRequest) (*TrackSendingResponse, error) {
	if err := m.enter("TrackSending"); err != nil {
		return nil, err
	}
	if m.OnTrackSending != nil {
		return m.OnTrackSending(ctx, req)
	}
	return &TrackSendingResponse{States: []WireState{
		{State: 101, StateMessage: "Registered", ChangeDT: time.Now().UTC().Format("2006-01-02T15:04:05")},
	}}, nil
}

// TrackSendings returns a two-step history for every invoice.
func (m *MockAPIClient) TrackSendings(ctx context.Context, req *TrackSendingsRequest) (*TrackSendingsResponse, error) {
	if err := m.enter("TrackSendings"); err != nil {
		return nil, err
	}
	if m.OnTrackSendings != nil {
		return m.OnTrackSendings(ctx, req)
	}
	now := time.Now().UTC()
	resp := &TrackSendingsResponse{}
	for _, number := range req.Invoices {
		resp.Invoices = append(resp.Invoices, WireInvoiceStates{
			InvoiceNumber: Text(number),
			States: []WireState{
				{State: 101, StateMessage: "Registered", ChangeDT: now.Add(-time.Hour).Format("2006-01-02T15:04:05")},
				{State: 102, StateMessage: "Accepted", ChangeDT: now.Format("2006-01-02T15:04:05")},
			},
		})
	}
	return resp, nil
}

// GetStates returns a short status dictionary.
func (m *MockAPIClient) GetStates(ctx context.Context) (*StatesResponse, error) {
	if err := m.enter("GetStates"); err != nil {
		return nil, err
	}
	if m.OnGetStates != nil {
		return m.OnGetStates(ctx)
	}
	return &StatesResponse{States: []WireState{
		{State: 101, StateText: "Registered"},
		{State: 102, StateText: "Accepted"},
		{State: 111, StateText: "Delivered"},
	}}, nil
}

// MakeLabel returns a stub PDF.
func (m *MockAPIClient) MakeLabel(ctx context.Context, req *InvoicesRequest) (*RawResponse, error) {
	if err := m.enter("MakeLabel"); err != nil {
		return nil, err
	}
	if m.OnMakeLabel != nil {
		return m.OnMakeLabel(ctx, req)
	}
	return mockPDF(), nil
}

// MakeReestr returns a stub PDF.
func (m *MockAPIClient) MakeReestr(ctx context.Context, req *MakeReestrRequest) (*RawResponse, error) {
	if err := m.enter("MakeReestr"); err != nil {
		return nil, err
	}
	if m.OnMakeReestr != nil {
		return m.OnMakeReestr(ctx, req)
	}
	return mockPDF(), nil
}

// MakeReestrNumber returns one receipt number.
func (m *MockAPIClient) MakeReestrNumber(ctx context.Context, req *InvoicesRequest) (*ReestrNumberResponse, error) {
	if err := m.enter("MakeReestrNumber"); err != nil {
		return nil, err
	}
	if m.OnMakeReestrNumber != nil {
		return m.OnMakeReestrNumber(ctx, req)
	}
	return &ReestrNumberResponse{Numbers: []Text{Text(fmt.Sprintf("R%d", time.Now().UnixNano()%1000000))}}, nil
}

// GetReestr returns a stub PDF.
func (m *MockAPIClient) GetReestr(ctx context.Context, req *GetReestrRequest) (*RawResponse, error) {
	if err := m.enter("GetReestr"); err != nil {
		return nil, err
	}
	if m.OnGetReestr != nil {
		return m.OnGetReestr(ctx, req)
	}
	return mockPDF(), nil
}

// Courier registers the call.
func (m *MockAPIClient) Courier(ctx context.Context, req *CourierRequest) (*CourierResponse, error) {
	if err := m.enter("Courier"); err != nil {
		return nil, err
	}
	if m.OnCourier != nil {
		return m.OnCourier(ctx, req)
	}
	return &CourierResponse{
		CourierRequestRegistred: true,
		OrderNumber:             Text(fmt.Sprintf("%d", 100000+time.Now().UnixNano()%900000)),
	}, nil
}

// CourierCancel cancels the call.
func (m *MockAPIClient) CourierCancel(ctx context.Context, req *CourierCancelRequest) (*CourierCancelResponse, error) {
	if err := m.enter("CourierCancel"); err != nil {
		return nil, err
	}
	if m.OnCourierCancel != nil {
		return m.OnCourierCancel(ctx, req)
	}
	return &CourierCancelResponse{OrderNumber: Text(req.OrderNumber), Canceled: true}, nil
}

// CityList returns a short city directory.
func (m *MockAPIClient) CityList(ctx context.Context) (*CityListResponse, error) {
	if err := m.enter("CityList"); err != nil {
		return nil, err
	}
	if m.OnCityList != nil {
		return m.OnCityList(ctx)
	}
	return &CityListResponse{Cities: []WireCityEntry{
		{ID: 992, Name: "Москва", NameEng: "Moscow", RegionName: "Москва"},
		{ID: 993, Name: "Санкт-Петербург", NameEng: "Saint Petersburg", RegionName: "Санкт-Петербург"},
	}}, nil
}

// GetZone returns a standard and a priority zone.
func (m *MockAPIClient) GetZone(ctx context.Context, req *GetZoneRequest) (*GetZoneResponse, error) {
	if err := m.enter("GetZone"); err != nil {
		return nil, err
	}
	if m.OnGetZone != nil {
		return m.OnGetZone(ctx, req)
	}
	return &GetZoneResponse{Zones: []WireZone{
		{DeliveryMode: "Priority", Zone: "0", FromCity: req.FromCity, ToPT: req.ToPT, DeliveryMin: 1, DeliveryMax: 1, Koeff: 1.5},
		{DeliveryMode: standardZoneMode, Zone: "1", FromCity: req.FromCity, ToPT: req.ToPT, DeliveryMin: 2, DeliveryMax: 3, Koeff: 1},
	}}, nil
}

func mockPDF() *RawResponse {
	return &RawResponse{Body: []byte("%PDF-1.4\n%mock\n")}
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
