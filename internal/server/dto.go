package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

// Request bodies

type destinationInput struct {
	City           string `json:"city"`
	Region         string `json:"region"`
	PostamatNumber string `json:"postamatNumber"`
}

type packageInput struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Depth  float64 `json:"depth"`
	Weight float64 `json:"weight"`
}

type tariffInput struct {
	Receiver destinationInput  `json:"receiver"`
	Sender   *destinationInput `json:"sender,omitempty"`
	Package  *packageInput     `json:"package,omitempty"`
}

type addressInput struct {
	City         string `json:"city"`
	Region       string `json:"region"`
	Address      string `json:"address"`
	FIO          string `json:"fio"`
	PostCode     string `json:"postCode"`
	Organisation string `json:"organisation,omitempty"`
	Phone        string `json:"phone"`
	Comment      string `json:"comment,omitempty"`
}

type productInput struct {
	ProductCode string  `json:"productCode"`
	GoodsCode   string  `json:"goodsCode"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Vat         float64 `json:"vat"`
}

type invoiceInput struct {
	SenderCode     string `json:"senderCode"`
	Description    string `json:"description"`
	RecipientName  string `json:"recipientName"`
	MobilePhone    string `json:"mobilePhone"`
	Email          string `json:"email,omitempty"`
	PostamatNumber string `json:"postamatNumber"`

	PostageType  int `json:"postageType,omitempty"`
	GettingType  int `json:"gettingType,omitempty"`
	PayType      int `json:"payType,omitempty"`
	DeliveryMode int `json:"deliveryMode,omitempty"`

	Sum            float64 `json:"sum"`
	PrepaymentSum  float64 `json:"prepaymentSum"`
	InsuranceValue float64 `json:"insuranceValue"`
	DeliveryVat    float64 `json:"deliveryVat"`
	DeliveryFee    float64 `json:"deliveryFee"`

	SenderCity             *destinationInput `json:"senderCity,omitempty"`
	ClientReturnAddress    *addressInput     `json:"clientReturnAddress,omitempty"`
	UnclaimedReturnAddress *addressInput     `json:"unclaimedReturnAddress,omitempty"`

	Package  packageInput   `json:"package"`
	Products []productInput `json:"products,omitempty"`
	ScanCode string         `json:"scanCode,omitempty"`
}

type invoicesInput struct {
	Invoices []string `json:"invoices"`
}

type receiptInput struct {
	Invoices []string `json:"invoices"`
	Print    bool     `json:"print"`
}

type courierInput struct {
	City         string  `json:"city"`
	CityID       int     `json:"cityId,omitempty"`
	Address      string  `json:"address"`
	ContactName  string  `json:"contactName"`
	Phone        string  `json:"phone"`
	Date         string  `json:"date"`        // 2006-01-02
	WindowStart  string  `json:"windowStart"` // 15:04
	WindowEnd    string  `json:"windowEnd"`
	InvoiceCount int     `json:"invoiceCount"`
	Weight       float64 `json:"weight"`
	Comment      string  `json:"comment,omitempty"`
}

// Response bodies

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

type stateResponse struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Time    *time.Time `json:"time,omitempty"`
}

type tariffResponse struct {
	Services         []serviceResponse `json:"services"`
	Total            float64           `json:"total"`
	PriceMin         float64           `json:"priceMin"`
	PriceMax         float64           `json:"priceMax"`
	PriorityPriceMin float64           `json:"priorityPriceMin"`
	PriorityPriceMax float64           `json:"priorityPriceMax"`
	Zone             string            `json:"zone"`
	TariffType       string            `json:"tariffType"`
}

type serviceResponse struct {
	Name     string  `json:"name"`
	Tariff   float64 `json:"tariff"`
	VAT      float64 `json:"vat"`
	Discount float64 `json:"discount"`
}

type shipmentResponse struct {
	EDTN          string `json:"edtn"`
	InvoiceNumber string `json:"invoiceNumber"`
	Barcode       string `json:"barcode"`
}

type pointResponse struct {
	ID        int     `json:"id"`
	Number    string  `json:"number"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Address   string  `json:"address"`
	PostCode  string  `json:"postCode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	WorkTime  string  `json:"workTime"`
	Status    int     `json:"status"`
}

type cityResponse struct {
	ID         int    `json:"id"`
	OwnerID    int    `json:"ownerId"`
	Name       string `json:"name"`
	NameEng    string `json:"nameEng"`
	RegionName string `json:"regionName"`
}

type zoneResponse struct {
	DeliveryMode string  `json:"deliveryMode"`
	Zone         string  `json:"zone"`
	FromCity     string  `json:"fromCity"`
	ToCity       string  `json:"toCity"`
	ToPT         string  `json:"toPT"`
	ToRegion     string  `json:"toRegion"`
	DeliveryMin  int     `json:"deliveryMin"`
	DeliveryMax  int     `json:"deliveryMax"`
	Coefficient  float64 `json:"coefficient"`
}

type regionResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// badRequestError marks a body that could not be decoded.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "invalid request body: " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &badRequestError{err: err}
	}
	return nil
}

func destinationToSender(d *destinationInput) *pickpoint.SenderDestination {
	if d == nil {
		return nil
	}
	return &pickpoint.SenderDestination{City: d.City, Region: d.Region, PostamatNumber: d.PostamatNumber}
}

func packageToModel(p packageInput) pickpoint.PackageSize {
	return pickpoint.PackageSize{Width: p.Width, Length: p.Length, Depth: p.Depth, Weight: p.Weight}
}

func tariffInputToModel(in tariffInput) *pickpoint.PriceRequest {
	req := &pickpoint.PriceRequest{
		Receiver: pickpoint.ReceiverDestination{
			City:           in.Receiver.City,
			Region:         in.Receiver.Region,
			PostamatNumber: in.Receiver.PostamatNumber,
		},
		Sender: destinationToSender(in.Sender),
	}
	if in.Package != nil {
		size := packageToModel(*in.Package)
		req.Package = &size
	}
	return req
}

func addressToModel(a *addressInput) *pickpoint.Address {
	if a == nil {
		return nil
	}
	return &pickpoint.Address{
		CityName:     a.City,
		RegionName:   a.Region,
		Address:      a.Address,
		FIO:          a.FIO,
		PostCode:     a.PostCode,
		Organisation: a.Organisation,
		PhoneNumber:  a.Phone,
		Comment:      a.Comment,
	}
}

func invoiceInputToModel(in invoiceInput) *pickpoint.Invoice {
	inv := &pickpoint.Invoice{
		SenderCode:             in.SenderCode,
		Description:            in.Description,
		RecipientName:          in.RecipientName,
		MobilePhone:            in.MobilePhone,
		Email:                  in.Email,
		PostamatNumber:         in.PostamatNumber,
		PostageType:            pickpoint.PostageType(in.PostageType),
		GettingType:            pickpoint.GettingType(in.GettingType),
		PayType:                in.PayType,
		DeliveryMode:           pickpoint.DeliveryMode(in.DeliveryMode),
		Sum:                    in.Sum,
		PrepaymentSum:          in.PrepaymentSum,
		InsuranceValue:         in.InsuranceValue,
		DeliveryVat:            in.DeliveryVat,
		DeliveryFee:            in.DeliveryFee,
		SenderCity:             destinationToSender(in.SenderCity),
		ClientReturnAddress:    addressToModel(in.ClientReturnAddress),
		UnclaimedReturnAddress: addressToModel(in.UnclaimedReturnAddress),
		Package:                packageToModel(in.Package),
		ScanCode:               in.ScanCode,
	}
	for _, p := range in.Products {
		inv.Products = append(inv.Products, pickpoint.Product{
			ProductCode: p.ProductCode,
			GoodsCode:   p.GoodsCode,
			Name:        p.Name,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Vat:         p.Vat,
		})
	}
	return inv
}

// courierInputToModel parses the date and time window. Malformed values are
// reported as validation errors of the courier call.
func courierInputToModel(in courierInput) (*pickpoint.CourierCall, error) {
	call := &pickpoint.CourierCall{
		City:         in.City,
		CityID:       in.CityID,
		Address:      in.Address,
		ContactName:  in.ContactName,
		Phone:        in.Phone,
		InvoiceCount: in.InvoiceCount,
		Weight:       in.Weight,
		Comment:      in.Comment,
	}

	if in.Date != "" {
		date, err := time.Parse(time.DateOnly, in.Date)
		if err != nil {
			return nil, &pickpoint.ValidationError{Field: "Date", Reason: "must be YYYY-MM-DD", Kind: pickpoint.ErrInvalidCourierCall}
		}
		call.Date = date
	}

	var err error
	if call.WindowStart, err = parseClock("WindowStart", in.WindowStart); err != nil {
		return nil, err
	}
	if call.WindowEnd, err = parseClock("WindowEnd", in.WindowEnd); err != nil {
		return nil, err
	}
	return call, nil
}

func parseClock(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, &pickpoint.ValidationError{Field: field, Reason: "must be HH:MM", Kind: pickpoint.ErrInvalidCourierCall}
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func stateToResponse(s pickpoint.State) stateResponse {
	return stateResponse{Code: s.Code, Message: s.Message, Time: s.Time}
}

func statesToResponse(states []pickpoint.State) []stateResponse {
	out := make([]stateResponse, len(states))
	for i, s := range states {
		out[i] = stateToResponse(s)
	}
	return out
}

func tariffToResponse(p *pickpoint.TariffPrice) tariffResponse {
	services := make([]serviceResponse, len(p.Services))
	for i, s := range p.Services {
		services[i] = serviceResponse{Name: s.Name, Tariff: s.Tariff, VAT: s.VAT, Discount: s.Discount}
	}
	return tariffResponse{
		Services:         services,
		Total:            p.Total(),
		PriceMin:         p.PriceMin,
		PriceMax:         p.PriceMax,
		PriorityPriceMin: p.PriorityPriceMin,
		PriorityPriceMax: p.PriorityPriceMax,
		Zone:             p.Zone,
		TariffType:       p.TariffType,
	}
}

func pointsToResponse(points []pickpoint.Point) []pointResponse {
	out := make([]pointResponse, len(points))
	for i, p := range points {
		out[i] = pointResponse{
			ID:        p.ID,
			Number:    p.Number,
			Name:      p.Name,
			City:      p.City,
			Region:    p.Region,
			Address:   p.Address,
			PostCode:  p.PostCode,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			WorkTime:  p.WorkTime,
			Status:    p.Status,
		}
	}
	return out
}

func citiesToResponse(cities []pickpoint.City) []cityResponse {
	out := make([]cityResponse, len(cities))
	for i, c := range cities {
		out[i] = cityResponse{ID: c.ID, OwnerID: c.OwnerID, Name: c.Name, NameEng: c.NameEng, RegionName: c.RegionName}
	}
	return out
}

func zoneToResponse(z *pickpoint.Zone) zoneResponse {
	return zoneResponse{
		DeliveryMode: z.DeliveryMode,
		Zone:         z.Zone,
		FromCity:     z.FromCity,
		ToCity:       z.ToCity,
		ToPT:         z.ToPT,
		ToRegion:     z.ToRegion,
		DeliveryMin:  z.DeliveryMin,
		DeliveryMax:  z.DeliveryMax,
		Coefficient:  z.Coefficient,
	}
}

// errorKind names the class of err for metrics and logs.
func errorKind(err error) string {
	var (
		badReq    *badRequestError
		valErr    *pickpoint.ValidationError
		lookupErr *pickpoint.LookupError
		callErr   *pickpoint.CallError
	)
	switch {
	case errors.As(err, &badReq):
		return "bad_request"
	case errors.As(err, &valErr):
		return "validation"
	case errors.As(err, &lookupErr), errors.Is(err, pickpoint.ErrZoneNotFound):
		return "not_found"
	case errors.As(err, &callErr):
		if pickpoint.IsProviderError(err) {
			return "provider"
		}
		return "transport"
	default:
		return "internal"
	}
}

func statusFor(kind string) int {
	switch kind {
	case "bad_request", "validation":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "provider", "transport":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var callErr *pickpoint.CallError
	if errors.As(err, &callErr) {
		resp.Code = callErr.Code
	}
	writeJSON(w, statusFor(errorKind(err)), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDocument serves a provider document. Labels are PDF, receipts may
// be plain text, so the type is sniffed from the body.
func writeDocument(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", http.DetectContentType(doc))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
