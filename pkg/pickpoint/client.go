// Package pickpoint provides integration with the PickPoint parcel locker API.
package pickpoint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	providerName = "pickpoint"
	tracerName   = "github.com/tournevent/pickpoint/pkg/pickpoint"
)

// Config holds PickPoint credentials and connector defaults.
type Config struct {
	Host     string
	Login    string
	Password string
	IKN      string

	// Sender and Package are used when a call does not supply its own.
	Sender  SenderDestination
	Package PackageSize

	SessionTTL time.Duration
	Timeout    time.Duration
	UseMock    bool
}

func (c Config) endpoint(path string) string {
	return strings.TrimRight(c.Host, "/") + path
}

// Option configures a Client.
type Option func(*Client)

// WithTokenCache stores session tokens in cache between calls.
func WithTokenCache(cache TokenCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// Client is the PickPoint connector.
// It maps domain values onto wire requests, delegates the calls to the
// underlying APIClient (mock or HTTP) and classifies the answers.
type Client struct {
	config    Config
	apiClient APIClient
	session   *Session
	cache     TokenCache
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new PickPoint client.
// If cfg.UseMock is true, it uses a mock API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer, opts ...Option) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.Host,
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer, opts...)
}

// NewWithAPIClient creates a new PickPoint client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer, opts ...Option) *Client {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	c := &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = NewSession(apiClient, cfg, c.cache, logger)
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Session returns the session manager used by the client.
func (c *Client) Session() *Session {
	return c.session
}

// GetPoints lists the postamats available to the account.
func (c *Client) GetPoints(ctx context.Context) (points []Point, err error) {
	ctx, span := c.start(ctx, "GetPoints")
	defer func() { c.finish(ctx, span, "GetPoints", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathPostamatList)
	resp, err := c.apiClient.ClientPostamatList(ctx, &AccountRequest{SessionID: sid, IKN: c.config.IKN})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	points = make([]Point, len(resp.Points))
	for i, p := range resp.Points {
		points[i] = pointFromWire(p)
	}
	return points, nil
}

// CalculatePrices prices a delivery to req.Receiver.
func (c *Client) CalculatePrices(ctx context.Context, req *PriceRequest) (price *TariffPrice, err error) {
	if req == nil || req.Receiver.PostamatNumber == "" {
		return nil, &ValidationError{Field: "Receiver.PostamatNumber", Reason: "is required", Kind: ErrInvalidPriceRequest}
	}

	ctx, span := c.start(ctx, "CalculatePrices", attribute.String("postamat", req.Receiver.PostamatNumber))
	defer func() { c.finish(ctx, span, "CalculatePrices", err) }()

	sender := c.config.Sender
	if req.Sender != nil {
		sender = *req.Sender
	}
	size := c.config.Package
	if req.Package != nil {
		size = *req.Package
	}
	if err := size.Validate(); err != nil {
		return nil, err
	}

	c.logger.Ctx(ctx).Info("Calculating PickPoint tariff",
		zap.String("from_city", sender.City),
		zap.String("to_postamat", req.Receiver.PostamatNumber),
		zap.Float64("weight", size.Weight),
	)

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathCalcTariff)
	resp, err := c.apiClient.CalcTariff(ctx, &CalcTariffRequest{
		SessionID:  sid,
		IKN:        c.config.IKN,
		FromCity:   sender.City,
		FromRegion: sender.Region,
		ToCity:     req.Receiver.City,
		ToRegion:   req.Receiver.Region,
		PTNumber:   req.Receiver.PostamatNumber,
		Length:     size.Length,
		Depth:      size.Depth,
		Width:      size.Width,
		Weight:     size.Weight,
	})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	return tariffFromWire(resp), nil
}

// CreateShipment validates inv and registers it as a single sending.
// Nothing is sent when validation fails.
func (c *Client) CreateShipment(ctx context.Context, inv *Invoice) (created *CreatedShipment, err error) {
	ctx, span := c.start(ctx, "CreateShipment")
	defer func() { c.finish(ctx, span, "CreateShipment", err) }()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	c.logger.Ctx(ctx).Info("Creating PickPoint shipment",
		zap.String("sender_code", inv.SenderCode),
		zap.String("postamat", inv.PostamatNumber),
	)

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	edtn := uuid.New().String()
	endpoint := c.config.endpoint(pathCreateShipment)
	resp, err := c.apiClient.CreateShipment(ctx, &CreateShipmentRequest{
		SessionID: sid,
		Sendings: []WireSending{{
			EDTN:    edtn,
			IKN:     c.config.IKN,
			Invoice: c.invoiceToWire(inv),
		}},
	})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	sending := resp.CreatedSendings[0]
	for _, s := range resp.CreatedSendings {
		if s.EDTN == edtn {
			sending = s
			break
		}
	}

	span.SetAttributes(attribute.String("invoice", string(sending.InvoiceNumber)))
	return &CreatedShipment{
		EDTN:          sending.EDTN,
		InvoiceNumber: string(sending.InvoiceNumber),
		Barcode:       string(sending.Barcode),
	}, nil
}

// CreateShipmentWithInvoice creates the shipment and applies the
// provider-assigned invoice number and barcode to inv.
func (c *Client) CreateShipmentWithInvoice(ctx context.Context, inv *Invoice) error {
	created, err := c.CreateShipment(ctx, inv)
	if err != nil {
		return err
	}
	inv.ApplyCreated(*created)
	return nil
}

// UpdateShipment sends the current field values of an existing invoice.
func (c *Client) UpdateShipment(ctx context.Context, inv *Invoice) (err error) {
	ctx, span := c.start(ctx, "UpdateShipment")
	defer func() { c.finish(ctx, span, "UpdateShipment", err) }()

	if err := inv.Validate(); err != nil {
		return err
	}
	if inv.InvoiceNumber == "" {
		return &ValidationError{Field: "InvoiceNumber", Reason: "is required", Kind: ErrInvalidInvoice}
	}
	span.SetAttributes(attribute.String("invoice", inv.InvoiceNumber))

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.config.endpoint(pathUpdateInvoice)
	resp, err := c.apiClient.UpdateInvoice(ctx, &UpdateInvoiceRequest{
		SessionID:     sid,
		InvoiceNumber: inv.InvoiceNumber,
		WireInvoice:   c.invoiceToWire(inv),
	})
	return check(endpoint, resp, err)
}

// CancelShipment cancels an invoice.
func (c *Client) CancelShipment(ctx context.Context, invoiceNumber string) (err error) {
	ctx, span := c.start(ctx, "CancelShipment", attribute.String("invoice", invoiceNumber))
	defer func() { c.finish(ctx, span, "CancelShipment", err) }()

	c.logger.Ctx(ctx).Info("Cancelling PickPoint shipment", zap.String("invoice", invoiceNumber))

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.config.endpoint(pathCancelInvoice)
	resp, err := c.apiClient.CancelInvoice(ctx, &CancelInvoiceRequest{
		SessionID:     sid,
		IKN:           c.config.IKN,
		InvoiceNumber: invoiceNumber,
	})
	return check(endpoint, resp, err)
}

// GetState returns the current state of an invoice. The provider answers
// with a list; its first element is used and an empty list yields the zero
// State.
func (c *Client) GetState(ctx context.Context, invoiceNumber string) (state State, err error) {
	ctx, span := c.start(ctx, "GetState", attribute.String("invoice", invoiceNumber))
	defer func() { c.finish(ctx, span, "GetState", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return State{}, err
	}

	endpoint := c.config.endpoint(pathTrackSending)
	resp, err := c.apiClient.TrackSending(ctx, &TrackSendingRequest{SessionID: sid, InvoiceNumber: invoiceNumber})
	if err := check(endpoint, resp, err); err != nil {
		return State{}, err
	}

	if len(resp.States) == 0 {
		return State{}, nil
	}
	return stateFromWire(resp.States[0]), nil
}

// GetStates returns the provider's status dictionary.
func (c *Client) GetStates(ctx context.Context) (states []State, err error) {
	ctx, span := c.start(ctx, "GetStates")
	defer func() { c.finish(ctx, span, "GetStates", err) }()

	endpoint := c.config.endpoint(pathGetStates)
	resp, err := c.apiClient.GetStates(ctx)
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}
	return statesFromWire(resp.States), nil
}

// GetInvoicesTrackHistory returns the raw state history of each invoice.
func (c *Client) GetInvoicesTrackHistory(ctx context.Context, invoices []string) (tracks []InvoiceTrack, err error) {
	ctx, span := c.start(ctx, "GetInvoicesTrackHistory", attribute.Int("invoice_count", len(invoices)))
	defer func() { c.finish(ctx, span, "GetInvoicesTrackHistory", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathTrackSendings)
	resp, err := c.apiClient.TrackSendings(ctx, &TrackSendingsRequest{SessionID: sid, Invoices: invoices})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	tracks = make([]InvoiceTrack, len(resp.Invoices))
	for i, inv := range resp.Invoices {
		tracks[i] = InvoiceTrack{
			InvoiceNumber: string(inv.InvoiceNumber),
			States:        statesFromWire(inv.States),
		}
	}
	return tracks, nil
}

// GetInvoicesHistory returns the de-duplicated history of each invoice,
// keyed by invoice number.
func (c *Client) GetInvoicesHistory(ctx context.Context, invoices []string) (map[string]History, error) {
	tracks, err := c.GetInvoicesTrackHistory(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return HistoriesFromTracks(tracks), nil
}

// GetInvoicesLastStates returns the last state of each invoice history.
// Invoices without any state are omitted.
func (c *Client) GetInvoicesLastStates(ctx context.Context, invoices []string) (map[string]State, error) {
	histories, err := c.GetInvoicesHistory(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return LastStates(histories), nil
}

// HistoriesFromTracks de-duplicates raw tracks. Tracks repeating an invoice
// number are merged in order.
func HistoriesFromTracks(tracks []InvoiceTrack) map[string]History {
	merged := make(map[string][]State, len(tracks))
	order := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := merged[t.InvoiceNumber]; !ok {
			order = append(order, t.InvoiceNumber)
		}
		merged[t.InvoiceNumber] = append(merged[t.InvoiceNumber], t.States...)
	}
	histories := make(map[string]History, len(order))
	for _, number := range order {
		histories[number] = NewHistory(merged[number])
	}
	return histories
}

// LastStates takes the positionally last entry of every history.
func LastStates(histories map[string]History) map[string]State {
	last := make(map[string]State, len(histories))
	for number, h := range histories {
		if s, ok := h.Last(); ok {
			last[number] = s
		}
	}
	return last
}

// PrintLabel renders labels for invoices and returns the raw document.
func (c *Client) PrintLabel(ctx context.Context, invoices []string) (doc []byte, err error) {
	ctx, span := c.start(ctx, "PrintLabel", attribute.Int("invoice_count", len(invoices)))
	defer func() { c.finish(ctx, span, "PrintLabel", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathMakeLabel)
	resp, err := c.apiClient.MakeLabel(ctx, &InvoicesRequest{SessionID: sid, Invoices: invoices})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// PrintReceipt renders an existing receipt (reestr).
func (c *Client) PrintReceipt(ctx context.Context, receiptNumber string) (doc []byte, err error) {
	ctx, span := c.start(ctx, "PrintReceipt", attribute.String("receipt", receiptNumber))
	defer func() { c.finish(ctx, span, "PrintReceipt", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathGetReestr)
	resp, err := c.apiClient.GetReestr(ctx, &GetReestrRequest{SessionID: sid, ReestrNumber: receiptNumber})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// MakeReceipt groups invoices into receipts and returns their numbers.
func (c *Client) MakeReceipt(ctx context.Context, invoices []string) (numbers []string, err error) {
	ctx, span := c.start(ctx, "MakeReceipt", attribute.Int("invoice_count", len(invoices)))
	defer func() { c.finish(ctx, span, "MakeReceipt", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathMakeReestrNumber)
	resp, err := c.apiClient.MakeReestrNumber(ctx, &InvoicesRequest{SessionID: sid, Invoices: invoices})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	numbers = make([]string, len(resp.Numbers))
	for i, n := range resp.Numbers {
		numbers[i] = string(n)
	}
	return numbers, nil
}

// MakeReceiptAndPrint builds a receipt from the sender city and renders it.
func (c *Client) MakeReceiptAndPrint(ctx context.Context, invoices []string) (doc []byte, err error) {
	ctx, span := c.start(ctx, "MakeReceiptAndPrint", attribute.Int("invoice_count", len(invoices)))
	defer func() { c.finish(ctx, span, "MakeReceiptAndPrint", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathMakeReestr)
	resp, err := c.apiClient.MakeReestr(ctx, &MakeReestrRequest{
		SessionID:  sid,
		Invoices:   invoices,
		CityName:   c.config.Sender.City,
		RegionName: c.config.Sender.Region,
	})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// CallCourier registers a courier pickup and records the order number on call.
func (c *Client) CallCourier(ctx context.Context, call *CourierCall) (err error) {
	ctx, span := c.start(ctx, "CallCourier")
	defer func() { c.finish(ctx, span, "CallCourier", err) }()

	if err := call.Validate(); err != nil {
		return err
	}

	c.logger.Ctx(ctx).Info("Calling PickPoint courier",
		zap.String("city", call.City),
		zap.Time("date", call.Date),
		zap.Int("invoice_count", call.InvoiceCount),
	)

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.config.endpoint(pathCourier)
	resp, err := c.apiClient.Courier(ctx, &CourierRequest{
		SessionID: sid,
		IKN:       c.config.IKN,
		City:      call.City,
		CityID:    call.CityID,
		Address:   call.Address,
		FIO:       call.ContactName,
		Phone:     call.Phone,
		Date:      call.Date.Format(courierDateLayout),
		TimeStart: int(call.WindowStart / time.Minute),
		TimeEnd:   int(call.WindowEnd / time.Minute),
		Number:    call.InvoiceCount,
		Weight:    call.Weight,
		Comment:   call.Comment,
	})
	if err := check(endpoint, resp, err); err != nil {
		return err
	}

	call.ApplyRegistered(string(resp.OrderNumber))
	span.SetAttributes(attribute.String("courier_order", call.OrderNumber))
	return nil
}

// CancelCourier cancels a registered courier call.
func (c *Client) CancelCourier(ctx context.Context, orderNumber string) (err error) {
	ctx, span := c.start(ctx, "CancelCourier", attribute.String("courier_order", orderNumber))
	defer func() { c.finish(ctx, span, "CancelCourier", err) }()

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.config.endpoint(pathCourierCancel)
	resp, err := c.apiClient.CourierCancel(ctx, &CourierCancelRequest{SessionID: sid, OrderNumber: orderNumber})
	return check(endpoint, resp, err)
}

// GetCities returns the provider's city directory.
func (c *Client) GetCities(ctx context.Context) (cities []City, err error) {
	ctx, span := c.start(ctx, "GetCities")
	defer func() { c.finish(ctx, span, "GetCities", err) }()

	endpoint := c.config.endpoint(pathCityList)
	resp, err := c.apiClient.CityList(ctx)
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	cities = make([]City, len(resp.Cities))
	for i, w := range resp.Cities {
		cities[i] = City{
			ID:         w.ID,
			OwnerID:    w.OwnerID,
			Name:       w.Name,
			NameEng:    w.NameEng,
			RegionName: w.RegionName,
		}
	}
	return cities, nil
}

// GetZone resolves the delivery zone from sender to a postamat. The
// "Standard" zone is preferred, otherwise the first one returned is used.
// A nil sender falls back to the connector default.
func (c *Client) GetZone(ctx context.Context, postamatNumber string, sender *SenderDestination) (zone *Zone, err error) {
	ctx, span := c.start(ctx, "GetZone", attribute.String("postamat", postamatNumber))
	defer func() { c.finish(ctx, span, "GetZone", err) }()

	from := c.config.Sender
	if sender != nil {
		from = *sender
	}

	sid, err := c.session.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.endpoint(pathGetZone)
	resp, err := c.apiClient.GetZone(ctx, &GetZoneRequest{
		SessionID:  sid,
		FromCity:   from.City,
		FromRegion: from.Region,
		ToPT:       postamatNumber,
	})
	if err := check(endpoint, resp, err); err != nil {
		return nil, err
	}

	z, ok := pickZone(resp.Zones)
	if !ok {
		return nil, fmt.Errorf("%w: postamat %s", ErrZoneNotFound, postamatNumber)
	}
	return &z, nil
}

// ============================================================================
// Helpers
// ============================================================================

const courierDateLayout = "2006.01.02"

// check folds a transport error and the payload classification into one
// error carrying the endpoint.
func check(endpoint string, resp failer, err error) error {
	if err != nil {
		return asCallError(endpoint, err)
	}
	return classify(endpoint, resp)
}

func (c *Client) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("provider", providerName))
	return c.tracer.Start(ctx, "pickpoint."+op, trace.WithAttributes(attrs...))
}

func (c *Client) finish(ctx context.Context, span trace.Span, op string, err error) {
	defer span.End()
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Ctx(ctx).Error("PickPoint API error", zap.String("operation", op), zap.Error(err))
}

func pickZone(zones []WireZone) (Zone, bool) {
	if len(zones) == 0 {
		return Zone{}, false
	}
	chosen := zones[0]
	for _, z := range zones {
		if z.DeliveryMode == standardZoneMode {
			chosen = z
			break
		}
	}
	return Zone{
		DeliveryMode: chosen.DeliveryMode,
		Zone:         string(chosen.Zone),
		FromCity:     chosen.FromCity,
		ToCity:       chosen.ToCity,
		ToPT:         chosen.ToPT,
		ToRegion:     chosen.ToRegion,
		DeliveryMin:  int(chosen.DeliveryMin),
		DeliveryMax:  int(chosen.DeliveryMax),
		Coefficient:  chosen.Koeff,
	}, true
}

func tariffFromWire(resp *CalcTariffResponse) *TariffPrice {
	services := make([]TariffService, len(resp.Services))
	for i, s := range resp.Services {
		services[i] = TariffService{
			Name:     s.Name,
			Tariff:   s.Tariff,
			VAT:      s.NDS,
			Discount: s.Discount,
		}
	}
	return &TariffPrice{
		Services:         services,
		PriceMin:         resp.DPMin,
		PriceMax:         resp.DPMax,
		PriorityPriceMin: resp.DPMinPriority,
		PriorityPriceMax: resp.DPMaxPriority,
		Zone:             string(resp.Zone),
		ErrorMessage:     resp.ErrorMessage,
		ErrorCode:        int(resp.ErrorCode),
		TariffType:       resp.TariffType,
	}
}

func pointFromWire(p WirePoint) Point {
	return Point{
		ID:        p.ID,
		Number:    p.Number,
		Name:      p.Name,
		City:      p.City,
		Region:    p.Region,
		Address:   p.Address,
		PostCode:  string(p.PostCode),
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		WorkTime:  p.WorkTime,
		Status:    p.Status,
	}
}

func (c *Client) invoiceToWire(inv *Invoice) WireInvoice {
	postageType := inv.PostageType
	if postageType == 0 {
		postageType = PostageStandard
	}
	gettingType := inv.GettingType
	if gettingType == 0 {
		gettingType = GettingWindow
	}
	deliveryMode := inv.DeliveryMode
	if deliveryMode == 0 {
		deliveryMode = DeliveryStandard
	}
	payType := inv.PayType
	if payType == 0 {
		payType = 1
	}

	sender := inv.SenderCity
	if sender == nil && c.config.Sender.City != "" {
		sender = &c.config.Sender
	}

	w := WireInvoice{
		SenderCode:             inv.SenderCode,
		Description:            inv.Description,
		RecipientName:          inv.RecipientName,
		PostamatNumber:         inv.PostamatNumber,
		MobilePhone:            inv.MobilePhone,
		Email:                  inv.Email,
		PostageType:            int(postageType),
		GettingType:            int(gettingType),
		PayType:                payType,
		Sum:                    inv.Sum,
		PrepaymentSum:          inv.PrepaymentSum,
		InsuareValue:           inv.InsuranceValue,
		DeliveryVat:            inv.DeliveryVat,
		DeliveryFee:            inv.DeliveryFee,
		DeliveryMode:           int(deliveryMode),
		ClientReturnAddress:    addressToWire(inv.ClientReturnAddress),
		UnclaimedReturnAddress: addressToWire(inv.UnclaimedReturnAddress),
	}
	if sender != nil {
		w.SenderCity = &WireCity{CityName: sender.City, RegionName: sender.Region}
	}

	place := WirePlace{
		BarCode: inv.ScanCode,
		Width:   inv.Package.Width,
		Height:  inv.Package.Length,
		Depth:   inv.Package.Depth,
		Weight:  inv.Package.Weight,
	}
	for i, p := range inv.Products {
		place.SubEncloses = append(place.SubEncloses, WireSubEnclose{
			Line:        i + 1,
			ProductCode: p.ProductCode,
			GoodsCode:   p.GoodsCode,
			Name:        p.Name,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Vat:         p.Vat,
		})
	}
	w.Places = []WirePlace{place}
	return w
}

func addressToWire(a *Address) *WireAddress {
	if a == nil {
		return nil
	}
	return &WireAddress{
		CityName:     a.CityName,
		RegionName:   a.RegionName,
		Address:      a.Address,
		FIO:          a.FIO,
		PostCode:     a.PostCode,
		Organisation: a.Organisation,
		PhoneNumber:  a.PhoneNumber,
		Comment:      a.Comment,
	}
}
