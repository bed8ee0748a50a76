package pickpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_Validate(t *testing.T) {
	valid := func() *Invoice {
		return &Invoice{
			SenderCode:     "order-1",
			Description:    "Shoes",
			RecipientName:  "Anna",
			MobilePhone:    "+79000000000",
			PostamatNumber: "7701-001",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		field  string
		mutate func(*Invoice)
	}{
		{"SenderCode", func(i *Invoice) { i.SenderCode = "" }},
		{"Description", func(i *Invoice) { i.Description = "  " }},
		{"RecipientName", func(i *Invoice) { i.RecipientName = "" }},
		{"MobilePhone", func(i *Invoice) { i.MobilePhone = "" }},
		{"PostamatNumber", func(i *Invoice) { i.PostamatNumber = "" }},
		{"Package.Depth", func(i *Invoice) { i.Package.Depth = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			inv := valid()
			tt.mutate(inv)

			var valErr *ValidationError
			require.ErrorAs(t, inv.Validate(), &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestPackageSize_Validate(t *testing.T) {
	assert.NoError(t, PackageSize{}.Validate())
	assert.ErrorIs(t, PackageSize{Weight: -0.1}.Validate(), ErrInvalidPackage)
}

func TestCourierCall_Validate(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, (&CourierCall{City: "Москва", Address: "Lenina 1", Date: date}).Validate())
	assert.ErrorIs(t, (*CourierCall)(nil).Validate(), ErrInvalidCourierCall)
	assert.ErrorIs(t, (&CourierCall{City: "Москва", Address: "Lenina 1"}).Validate(), ErrInvalidCourierCall)
	assert.ErrorIs(t, (&CourierCall{
		City: "Москва", Address: "Lenina 1", Date: date,
		WindowStart: 12 * time.Hour, WindowEnd: 10 * time.Hour,
	}).Validate(), ErrInvalidCourierCall)
}

func TestTariffPrice_Total(t *testing.T) {
	p := &TariffPrice{Services: []TariffService{{Tariff: 100.5}, {Tariff: 20}}}
	assert.Equal(t, 120.5, p.Total())
	assert.Zero(t, (&TariffPrice{}).Total())
}
