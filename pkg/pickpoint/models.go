package pickpoint

import (
	"strings"
	"time"
)

// PostageType is the provider's shipment payment kind.
type PostageType int

const (
	PostageStandard       PostageType = 10001 // prepaid
	PostageCashOnDelivery PostageType = 10003
)

// GettingType describes how the parcel reaches PickPoint from the sender.
type GettingType int

const (
	GettingCourier  GettingType = 101
	GettingWindow   GettingType = 102
	GettingPostamat GettingType = 103
	GettingApt      GettingType = 104
)

// DeliveryMode is the delivery speed.
type DeliveryMode int

const (
	DeliveryStandard DeliveryMode = 1
	DeliveryPriority DeliveryMode = 2
)

// standardZoneMode is the zone label preferred by GetZone.
const standardZoneMode = "Standard"

// SenderDestination is where shipments originate.
type SenderDestination struct {
	City           string
	Region         string
	PostamatNumber string
}

// ReceiverDestination is where a shipment is delivered.
type ReceiverDestination struct {
	City           string
	Region         string
	PostamatNumber string
}

// PackageSize holds package dimensions (cm) and weight (kg).
// Zero means the dimension is unknown.
type PackageSize struct {
	Width  float64
	Length float64
	Depth  float64
	Weight float64
}

// Validate checks that no dimension is negative.
func (p PackageSize) Validate() error {
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"Width", p.Width},
		{"Length", p.Length},
		{"Depth", p.Depth},
		{"Weight", p.Weight},
	} {
		if d.value < 0 {
			return &ValidationError{Field: "Package." + d.name, Reason: "must not be negative", Kind: ErrInvalidPackage}
		}
	}
	return nil
}

// Address is a return address attached to an invoice.
type Address struct {
	CityName     string
	RegionName   string
	Address      string
	FIO          string
	PostCode     string
	Organisation string
	PhoneNumber  string
	Comment      string
}

// Product is one line of the parcel contents.
type Product struct {
	ProductCode string
	GoodsCode   string
	Name        string
	Price       float64
	Quantity    int
	Vat         float64
}

// Invoice is a PickPoint shipment order. InvoiceNumber and Barcode are
// assigned by the provider and are only set through ApplyCreated.
type Invoice struct {
	SenderCode     string
	Description    string
	RecipientName  string
	MobilePhone    string
	Email          string
	PostamatNumber string

	PostageType  PostageType
	GettingType  GettingType
	PayType      int
	DeliveryMode DeliveryMode

	Sum            float64
	PrepaymentSum  float64
	InsuranceValue float64
	DeliveryVat    float64
	DeliveryFee    float64

	SenderCity             *SenderDestination
	ClientReturnAddress    *Address
	UnclaimedReturnAddress *Address

	Package  PackageSize
	Products []Product
	ScanCode string

	InvoiceNumber string
	Barcode       string
}

// Validate checks the fields PickPoint requires to accept a shipment.
func (inv *Invoice) Validate() error {
	if inv == nil {
		return &ValidationError{Field: "Invoice", Reason: "is required", Kind: ErrInvalidInvoice}
	}
	required := []struct {
		name  string
		value string
	}{
		{"SenderCode", inv.SenderCode},
		{"Description", inv.Description},
		{"RecipientName", inv.RecipientName},
		{"MobilePhone", inv.MobilePhone},
		{"PostamatNumber", inv.PostamatNumber},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Reason: "is required", Kind: ErrInvalidInvoice}
		}
	}
	return inv.Package.Validate()
}

// ApplyCreated copies the provider-assigned fields onto the invoice.
func (inv *Invoice) ApplyCreated(created CreatedShipment) {
	inv.InvoiceNumber = created.InvoiceNumber
	inv.Barcode = created.Barcode
}

// CreatedShipment holds what PickPoint assigns to an accepted sending.
type CreatedShipment struct {
	EDTN          string
	InvoiceNumber string
	Barcode       string
}

// TariffService is one priced service of a tariff quote.
type TariffService struct {
	Name     string
	Tariff   float64
	VAT      float64
	Discount float64
}

// TariffPrice is the result of a price calculation.
type TariffPrice struct {
	Services         []TariffService
	PriceMin         float64
	PriceMax         float64
	PriorityPriceMin float64
	PriorityPriceMax float64
	Zone             string
	ErrorMessage     string
	ErrorCode        int
	TariffType       string
}

// Total returns the sum of all service tariffs.
func (t *TariffPrice) Total() float64 {
	var total float64
	for _, s := range t.Services {
		total += s.Tariff
	}
	return total
}

// PriceRequest is the input to CalculatePrices. Nil Sender or Package fall
// back to the connector defaults.
type PriceRequest struct {
	Receiver ReceiverDestination
	Sender   *SenderDestination
	Package  *PackageSize
}

// State is one tracked status point of a shipment.
type State struct {
	Code    int
	Message string
	Time    *time.Time
}

// InvoiceTrack is the raw state history of one invoice, as returned.
type InvoiceTrack struct {
	InvoiceNumber string
	States        []State
}

// CourierCall is a request for a courier pickup. OrderNumber is set only
// through ApplyRegistered once PickPoint confirms the registration.
type CourierCall struct {
	City         string
	CityID       int
	Address      string
	ContactName  string
	Phone        string
	Date         time.Time
	WindowStart  time.Duration // offset from midnight
	WindowEnd    time.Duration
	InvoiceCount int
	Weight       float64
	Comment      string

	OrderNumber string
}

// Validate checks the fields PickPoint requires for a courier request.
func (c *CourierCall) Validate() error {
	if c == nil {
		return &ValidationError{Field: "CourierCall", Reason: "is required", Kind: ErrInvalidCourierCall}
	}
	switch {
	case strings.TrimSpace(c.City) == "":
		return &ValidationError{Field: "City", Reason: "is required", Kind: ErrInvalidCourierCall}
	case strings.TrimSpace(c.Address) == "":
		return &ValidationError{Field: "Address", Reason: "is required", Kind: ErrInvalidCourierCall}
	case c.Date.IsZero():
		return &ValidationError{Field: "Date", Reason: "is required", Kind: ErrInvalidCourierCall}
	case c.WindowEnd < c.WindowStart:
		return &ValidationError{Field: "WindowEnd", Reason: "must not precede WindowStart", Kind: ErrInvalidCourierCall}
	case c.Weight < 0:
		return &ValidationError{Field: "Weight", Reason: "must not be negative", Kind: ErrInvalidCourierCall}
	}
	return nil
}

// ApplyRegistered records the order number PickPoint assigned.
func (c *CourierCall) ApplyRegistered(orderNumber string) {
	c.OrderNumber = orderNumber
}

// Zone is a delivery zone between the sender city and a postamat.
type Zone struct {
	DeliveryMode string
	Zone         string
	FromCity     string
	ToCity       string
	ToPT         string
	ToRegion     string
	DeliveryMin  int
	DeliveryMax  int
	Coefficient  float64
}

// City is an entry of the provider's city directory.
type City struct {
	ID         int
	OwnerID    int
	Name       string
	NameEng    string
	RegionName string
}

// Point is a postamat or pickup point available to the account.
type Point struct {
	ID        int
	Number    string
	Name      string
	City      string
	Region    string
	Address   string
	PostCode  string
	Latitude  float64
	Longitude float64
	WorkTime  string
	Status    int
}
