package pickpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// APIClient defines the PickPoint endpoints used by the connector.
// Implementations only move bytes and decode them; provider-side failures
// embedded in the payload are classified by Client.
type APIClient interface {
	// Login opens a session.
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	// ClientPostamatList lists the points available to the account.
	ClientPostamatList(ctx context.Context, req *AccountRequest) (*PointsResponse, error)

	// CalcTariff prices a delivery.
	CalcTariff(ctx context.Context, req *CalcTariffRequest) (*CalcTariffResponse, error)

	// CreateShipment registers sendings.
	CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error)

	// UpdateInvoice changes an existing invoice.
	UpdateInvoice(ctx context.Context, req *UpdateInvoiceRequest) (*UpdateInvoiceResponse, error)

	// CancelInvoice cancels an invoice.
	CancelInvoice(ctx context.Context, req *CancelInvoiceRequest) (*CancelInvoiceResponse, error)

	// TrackSending returns the states of one invoice.
	TrackSending(ctx context.Context, req *TrackSendingRequest) (*TrackSendingResponse, error)

	// TrackSendings returns the state histories of several invoices.
	TrackSendings(ctx context.Context, req *TrackSendingsRequest) (*TrackSendingsResponse, error)

	// GetStates returns the global status dictionary.
	GetStates(ctx context.Context) (*StatesResponse, error)

	// MakeLabel renders labels for invoices.
	MakeLabel(ctx context.Context, req *InvoicesRequest) (*RawResponse, error)

	// MakeReestr builds a receipt for invoices and renders it.
	MakeReestr(ctx context.Context, req *MakeReestrRequest) (*RawResponse, error)

	// MakeReestrNumber builds receipts and returns their numbers.
	MakeReestrNumber(ctx context.Context, req *InvoicesRequest) (*ReestrNumberResponse, error)

	// GetReestr renders an existing receipt.
	GetReestr(ctx context.Context, req *GetReestrRequest) (*RawResponse, error)

	// Courier registers a courier call.
	Courier(ctx context.Context, req *CourierRequest) (*CourierResponse, error)

	// CourierCancel cancels a courier call.
	CourierCancel(ctx context.Context, req *CourierCancelRequest) (*CourierCancelResponse, error)

	// CityList returns the city directory.
	CityList(ctx context.Context) (*CityListResponse, error)

	// GetZone resolves delivery zones to a postamat.
	GetZone(ctx context.Context, req *GetZoneRequest) (*GetZoneResponse, error)
}

// Endpoint paths.
const (
	pathLogin            = "/login"
	pathPostamatList     = "/clientpostamatlist"
	pathCalcTariff       = "/calctariff"
	pathCreateShipment   = "/CreateShipment"
	pathUpdateInvoice    = "/updateInvoice"
	pathCancelInvoice    = "/cancelInvoice"
	pathTrackSending     = "/tracksending"
	pathTrackSendings    = "/tracksendings"
	pathGetStates        = "/getstates"
	pathMakeLabel        = "/makelabel"
	pathMakeReestr       = "/makereestr"
	pathMakeReestrNumber = "/makereestrnumber"
	pathGetReestr        = "/getreestr"
	pathCourier          = "/courier"
	pathCourierCancel    = "/couriercancel"
	pathCityList         = "/citylist"
	pathGetZone          = "/getzone"
)

// ============================================================================
// Lenient scalar types
// ============================================================================

// Code is an integer the provider sends either as a number or a string.
type Code int

// UnmarshalJSON accepts 12, "12", "" and null.
func (c *Code) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*c = Code(n)
	return nil
}

// Text is a string the provider sometimes sends as a number.
type Text string

// UnmarshalJSON accepts "abc", 123 and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

// ============================================================================
// Error envelope
// ============================================================================

// ErrorFields is the top-level error envelope shared by most responses.
type ErrorFields struct {
	ErrorCode    Code   `json:"ErrorCode,omitempty"`
	ErrorMessage string `json:"ErrorMessage,omitempty"`
}

func (e ErrorFields) failure() (string, int, bool) {
	if e.ErrorCode != 0 {
		return e.ErrorMessage, int(e.ErrorCode), true
	}
	return "", 0, false
}

// decodeListOrError decodes an array body into list, or an object body
// into the error envelope. The provider answers list endpoints with an
// object only when it reports an error.
func decodeListOrError(b []byte, list any, errs *ErrorFields) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(trimmed, errs)
	}
	return json.Unmarshal(trimmed, list)
}

// ============================================================================
// Requests and responses
// ============================================================================

// LoginRequest is the /login body.
type LoginRequest struct {
	Login    string `json:"Login"`
	Password string `json:"Password"`
}

// LoginResponse is the /login answer.
type LoginResponse struct {
	SessionID string `json:"SessionId"`
	ErrorFields
}

func (r *LoginResponse) failure() (string, int, bool) {
	if msg, code, failed := r.ErrorFields.failure(); failed {
		return msg, code, true
	}
	if r.SessionID == "" {
		msg := r.ErrorMessage
		if msg == "" {
			msg = ErrAuthenticationFailed.Error()
		}
		return msg, 0, true
	}
	return "", 0, false
}

// AccountRequest carries only the session and account identifier.
type AccountRequest struct {
	SessionID string `json:"SessionId"`
	IKN       string `json:"IKN"`
}

// WirePoint is a point as returned by /clientpostamatlist.
type WirePoint struct {
	ID        int     `json:"Id"`
	Number    string  `json:"Number"`
	Name      string  `json:"Name"`
	City      string  `json:"CitiName"`
	Region    string  `json:"Region"`
	Address   string  `json:"Address"`
	PostCode  Text    `json:"PostCode"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
	WorkTime  string  `json:"WorkTime"`
	Status    int     `json:"Status"`
}

// PointsResponse is the /clientpostamatlist answer.
type PointsResponse struct {
	Points []WirePoint
	ErrorFields
}

// UnmarshalJSON decodes either the point array or an error object.
func (r *PointsResponse) UnmarshalJSON(b []byte) error {
	return decodeListOrError(b, &r.Points, &r.ErrorFields)
}

// CalcTariffRequest is the /calctariff body.
type CalcTariffRequest struct {
	SessionID  string  `json:"SessionId"`
	IKN        string  `json:"IKN"`
	FromCity   string  `json:"FromCity"`
	FromRegion string  `json:"FromRegion,omitempty"`
	ToCity     string  `json:"ToCity,omitempty"`
	ToRegion   string  `json:"ToRegion,omitempty"`
	PTNumber   string  `json:"PTNumber"`
	Length     float64 `json:"Length"`
	Depth      float64 `json:"Depth"`
	Width      float64 `json:"Width"`
	Weight     float64 `json:"Weight,omitempty"`
}

// WireService is a priced service line.
type WireService struct {
	Name     string  `json:"Name"`
	Tariff   float64 `json:"Tariff"`
	NDS      float64 `json:"NDS"`
	Discount float64 `json:"Discount"`
}

// CalcTariffResponse is the /calctariff answer.
type CalcTariffResponse struct {
	Services      []WireService `json:"Services"`
	DPMin         float64       `json:"DPMin"`
	DPMax         float64       `json:"DPMax"`
	DPMinPriority float64       `json:"DPMinPriority"`
	DPMaxPriority float64       `json:"DPMaxPriority"`
	Zone          Text          `json:"Zone"`
	TariffType    string        `json:"TariffType"`
	ErrorFields
}

// CreateShipmentRequest is the /CreateShipment body.
type CreateShipmentRequest struct {
	SessionID string        `json:"SessionId"`
	Sendings  []WireSending `json:"Sendings"`
}

// WireSending is one sending of a CreateShipment request.
type WireSending struct {
	EDTN    string      `json:"EDTN"`
	IKN     string      `json:"IKN"`
	Invoice WireInvoice `json:"Invoice"`
}

// WireInvoice is the invoice body shared by create and update.
type WireInvoice struct {
	SenderCode             string       `json:"SenderCode"`
	Description            string       `json:"Description"`
	RecipientName          string       `json:"RecipientName"`
	PostamatNumber         string       `json:"PostamatNumber"`
	MobilePhone            string       `json:"MobilePhone"`
	Email                  string       `json:"Email,omitempty"`
	PostageType            int          `json:"PostageType"`
	GettingType            int          `json:"GettingType"`
	PayType                int          `json:"PayType"`
	Sum                    float64      `json:"Sum"`
	PrepaymentSum          float64      `json:"PrepaymentSum"`
	InsuareValue           float64      `json:"InsuareValue"`
	DeliveryVat            float64      `json:"DeliveryVat"`
	DeliveryFee            float64      `json:"DeliveryFee"`
	DeliveryMode           int          `json:"DeliveryMode"`
	SenderCity             *WireCity    `json:"SenderCity,omitempty"`
	ClientReturnAddress    *WireAddress `json:"ClientReturnAddress,omitempty"`
	UnclaimedReturnAddress *WireAddress `json:"UnclaimedReturnAddress,omitempty"`
	Places                 []WirePlace  `json:"Places"`
}

// WireCity names a city and its region.
type WireCity struct {
	CityName   string `json:"CityName"`
	RegionName string `json:"RegionName"`
}

// WireAddress is a return address.
type WireAddress struct {
	CityName     string `json:"CityName"`
	RegionName   string `json:"RegionName"`
	Address      string `json:"Address"`
	FIO          string `json:"FIO"`
	PostCode     string `json:"PostCode"`
	Organisation string `json:"Organisation,omitempty"`
	PhoneNumber  string `json:"PhoneNumber"`
	Comment      string `json:"Comment,omitempty"`
}

// WirePlace is one physical parcel.
type WirePlace struct {
	BarCode     string           `json:"BarCode,omitempty"`
	Width       float64          `json:"Width"`
	Height      float64          `json:"Height"`
	Depth       float64          `json:"Depth"`
	Weight      float64          `json:"Weight"`
	SubEncloses []WireSubEnclose `json:"SubEncloses,omitempty"`
}

// WireSubEnclose is one product inside a place.
type WireSubEnclose struct {
	Line        int     `json:"Line"`
	ProductCode string  `json:"ProductCode"`
	GoodsCode   string  `json:"GoodsCode"`
	Name        string  `json:"Name"`
	Price       float64 `json:"Price"`
	Quantity    int     `json:"Quantity"`
	Vat         float64 `json:"Vat"`
}

// WireCreatedSending is an accepted sending.
type WireCreatedSending struct {
	EDTN          string `json:"EDTN"`
	InvoiceNumber Text   `json:"InvoiceNumber"`
	Barcode       Text   `json:"Barcode"`
}

// WireRejectedSending is a refused sending.
type WireRejectedSending struct {
	EDTN         string `json:"EDTN"`
	ErrorCode    Code   `json:"ErrorCode"`
	ErrorMessage string `json:"ErrorMessage"`
}

// CreateShipmentResponse is the /CreateShipment answer.
type CreateShipmentResponse struct {
	CreatedSendings  []WireCreatedSending  `json:"CreatedSendings"`
	RejectedSendings []WireRejectedSending `json:"RejectedSendings"`
	ErrorFields
}

func (r *CreateShipmentResponse) failure() (string, int, bool) {
	if msg, code, failed := r.ErrorFields.failure(); failed {
		return msg, code, true
	}
	if len(r.RejectedSendings) > 0 {
		rejected := r.RejectedSendings[0]
		return rejected.ErrorMessage, int(rejected.ErrorCode), true
	}
	if len(r.CreatedSendings) == 0 {
		return "no sending created", 0, true
	}
	return "", 0, false
}

// UpdateInvoiceRequest is the /updateInvoice body.
type UpdateInvoiceRequest struct {
	SessionID     string `json:"SessionId"`
	InvoiceNumber string `json:"InvoiceNumber"`
	WireInvoice
}

// UpdateInvoiceResponse is the /updateInvoice answer.
type UpdateInvoiceResponse struct {
	Result *bool `json:"Result,omitempty"`
	ErrorFields
}

func (r *UpdateInvoiceResponse) failure() (string, int, bool) {
	if msg, code, failed := r.ErrorFields.failure(); failed {
		return msg, code, true
	}
	if r.Result != nil && !*r.Result {
		return r.ErrorMessage, 0, true
	}
	return "", 0, false
}

// CancelInvoiceRequest is the /cancelInvoice body.
type CancelInvoiceRequest struct {
	SessionID     string `json:"SessionId"`
	IKN           string `json:"IKN"`
	InvoiceNumber string `json:"InvoiceNumber"`
}

// CancelInvoiceResponse is the /cancelInvoice answer.
type CancelInvoiceResponse struct {
	Result bool   `json:"Result"`
	Error  string `json:"Error"`
	ErrorFields
}

func (r *CancelInvoiceResponse) failure() (string, int, bool) {
	msg := r.ErrorMessage
	if msg == "" {
		msg = r.Error
	}
	if r.ErrorCode != 0 {
		return msg, int(r.ErrorCode), true
	}
	if !r.Result {
		return msg, 0, true
	}
	return "", 0, false
}

// TrackSendingRequest is the /tracksending body.
type TrackSendingRequest struct {
	SessionID     string `json:"SessionId"`
	InvoiceNumber string `json:"InvoiceNumber"`
}

// WireState is one status point.
type WireState struct {
	State        int    `json:"State"`
	StateMessage string `json:"StateMessage"`
	StateText    string `json:"StateText"`
	ChangeDT     string `json:"ChangeDT"`
}

// TrackSendingResponse is the /tracksending answer.
type TrackSendingResponse struct {
	States []WireState
	ErrorFields
}

// UnmarshalJSON decodes either the state array or an error object.
func (r *TrackSendingResponse) UnmarshalJSON(b []byte) error {
	return decodeListOrError(b, &r.States, &r.ErrorFields)
}

// TrackSendingsRequest is the /tracksendings body.
type TrackSendingsRequest struct {
	SessionID string   `json:"SessionId"`
	Invoices  []string `json:"Invoices"`
}

// WireInvoiceStates is the history of one invoice.
type WireInvoiceStates struct {
	InvoiceNumber Text        `json:"InvoiceNumber"`
	States        []WireState `json:"States"`
}

// TrackSendingsResponse is the /tracksendings answer.
type TrackSendingsResponse struct {
	Invoices []WireInvoiceStates `json:"Invoices"`
	ErrorFields
}

// StatesResponse is the /getstates answer.
type StatesResponse struct {
	States []WireState
	ErrorFields
}

// UnmarshalJSON decodes either the state array or an error object.
func (r *StatesResponse) UnmarshalJSON(b []byte) error {
	return decodeListOrError(b, &r.States, &r.ErrorFields)
}

// InvoicesRequest carries a list of invoice numbers.
type InvoicesRequest struct {
	SessionID string   `json:"SessionId"`
	Invoices  []string `json:"Invoices"`
}

// MakeReestrRequest is the /makereestr body.
type MakeReestrRequest struct {
	SessionID  string   `json:"SessionId"`
	Invoices   []string `json:"Invoices"`
	CityName   string   `json:"CityName,omitempty"`
	RegionName string   `json:"RegionName,omitempty"`
}

// GetReestrRequest is the /getreestr body.
type GetReestrRequest struct {
	SessionID    string `json:"SessionId"`
	ReestrNumber string `json:"ReestrNumber"`
}

// ReestrNumberResponse is the /makereestrnumber answer.
type ReestrNumberResponse struct {
	Numbers []Text `json:"Numbers"`
	ErrorFields
}

// RawResponse is a non-JSON body (PDF, text) returned by print endpoints.
type RawResponse struct {
	Body []byte
}

// failure inspects the body for an embedded JSON error object. It never
// alters Body, which is returned to the caller as-is. Any object carrying
// an ErrorCode, ErrorMessage or Error value is a failure, whatever the
// value types, and a body that opens like an object but does not decode
// is one too.
func (r *RawResponse) failure() (string, int, bool) {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return "empty response body", 0, true
	}
	if trimmed[0] != '{' {
		return "", 0, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return "malformed JSON body: " + err.Error(), 0, true
	}

	var msg string
	for _, key := range []string{"ErrorMessage", "Error"} {
		if msg = rawText(fields[key]); msg != "" {
			break
		}
	}

	code := 0
	if raw, ok := fields["ErrorCode"]; ok {
		var c Code
		if err := c.UnmarshalJSON(raw); err != nil {
			if msg == "" {
				msg = "error code " + string(raw)
			}
		} else {
			code = int(c)
		}
	}

	if code != 0 || msg != "" {
		return msg, code, true
	}
	return "", 0, false
}

// rawText renders a raw JSON scalar as text. null, false and "" are empty.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var t Text
	if err := t.UnmarshalJSON(raw); err != nil {
		return string(raw)
	}
	if t == "false" {
		return ""
	}
	return string(t)
}

// CourierRequest is the /courier body.
type CourierRequest struct {
	SessionID string  `json:"SessionId"`
	IKN       string  `json:"IKN"`
	City      string  `json:"City"`
	CityID    int     `json:"City_id,omitempty"`
	Address   string  `json:"Address"`
	FIO       string  `json:"FIO"`
	Phone     string  `json:"Phone"`
	Date      string  `json:"Date"`
	TimeStart int     `json:"TimeStart"`
	TimeEnd   int     `json:"TimeEnd"`
	Number    int     `json:"Number"`
	Weight    float64 `json:"Weight"`
	Comment   string  `json:"Comment,omitempty"`
}

// CourierResponse is the /courier answer.
type CourierResponse struct {
	CourierRequestRegistred bool `json:"CourierRequestRegistred"`
	OrderNumber             Text `json:"OrderNumber"`
	ErrorFields
}

func (r *CourierResponse) failure() (string, int, bool) {
	if msg, code, failed := r.ErrorFields.failure(); failed {
		return msg, code, true
	}
	if !r.CourierRequestRegistred || r.OrderNumber == "" || r.OrderNumber == "0" {
		msg := r.ErrorMessage
		if msg == "" {
			msg = "courier request not registered"
		}
		return msg, 0, true
	}
	return "", 0, false
}

// CourierCancelRequest is the /couriercancel body.
type CourierCancelRequest struct {
	SessionID   string `json:"SessionId"`
	OrderNumber string `json:"OrderNumber"`
}

// CourierCancelResponse is the /couriercancel answer.
type CourierCancelResponse struct {
	OrderNumber Text `json:"OrderNumber"`
	Canceled    bool `json:"Canceled"`
	ErrorFields
}

func (r *CourierCancelResponse) failure() (string, int, bool) {
	if msg, code, failed := r.ErrorFields.failure(); failed {
		return msg, code, true
	}
	if !r.Canceled {
		msg := r.ErrorMessage
		if msg == "" {
			msg = "courier call not canceled"
		}
		return msg, 0, true
	}
	return "", 0, false
}

// WireCityEntry is a city as returned by /citylist.
type WireCityEntry struct {
	ID         int    `json:"Id"`
	OwnerID    int    `json:"Owner_Id"`
	Name       string `json:"Name"`
	NameEng    string `json:"NameEng"`
	RegionName string `json:"RegionName"`
}

// CityListResponse is the /citylist answer.
type CityListResponse struct {
	Cities []WireCityEntry
	ErrorFields
}

// UnmarshalJSON decodes either the city array or an error object.
func (r *CityListResponse) UnmarshalJSON(b []byte) error {
	return decodeListOrError(b, &r.Cities, &r.ErrorFields)
}

// GetZoneRequest is the /getzone body.
type GetZoneRequest struct {
	SessionID  string `json:"SessionId"`
	FromCity   string `json:"FromCity"`
	FromRegion string `json:"FromRegion,omitempty"`
	ToPT       string `json:"ToPT"`
}

// WireZone is one zone entry.
type WireZone struct {
	DeliveryMode string  `json:"DeliveryMode"`
	Zone         Text    `json:"Zone"`
	FromCity     string  `json:"FromCity"`
	ToCity       string  `json:"ToCity"`
	ToPT         string  `json:"ToPT"`
	ToRegion     string  `json:"ToRegion"`
	DeliveryMin  Code    `json:"DeliveryMin"`
	DeliveryMax  Code    `json:"DeliveryMax"`
	Koeff        float64 `json:"Koeff"`
}

// GetZoneResponse is the /getzone answer.
type GetZoneResponse struct {
	Zones []WireZone `json:"Zones"`
	Error string     `json:"Error"`
	ErrorFields
}

func (r *GetZoneResponse) failure() (string, int, bool) {
	if msg, code, failed := r.ErrorFields.failure(); failed {
		return msg, code, true
	}
	if r.Error != "" {
		return r.Error, 0, true
	}
	return "", 0, false
}
