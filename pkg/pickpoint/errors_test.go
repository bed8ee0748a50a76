package pickpoint

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallError_Error(t *testing.T) {
	err := NewCallError("https://host/login", "Wrong password", 1)
	assert.Equal(t, "pickpoint call https://host/login failed (1): Wrong password", err.Error())

	cause := errors.New("connection refused")
	err = NewCallError("https://host/login", "request failed", 0).WithCause(cause)
	assert.Equal(t, "pickpoint call https://host/login failed (0): request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestCallError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewCallError("u", "m", 7))

	assert.ErrorIs(t, err, &CallError{Code: 7})
	assert.NotErrorIs(t, err, &CallError{Code: 8})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "MobilePhone", Reason: "is required", Kind: ErrInvalidInvoice}

	assert.Equal(t, "invalid invoice: MobilePhone is required", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInvoice)
	assert.False(t, IsProviderError(err))
}

func TestLookupError(t *testing.T) {
	err := &LookupError{Code: "RU-XXX"}

	assert.ErrorIs(t, err, ErrUnknownRegion)
	assert.Contains(t, err.Error(), `"RU-XXX"`)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		resp     failer
		wantCode int
		wantMsg  string
		wantErr  bool
	}{
		{"zero code", &CalcTariffResponse{}, 0, "", false},
		{"non-zero code", &CalcTariffResponse{ErrorFields: ErrorFields{ErrorCode: 3, ErrorMessage: "bad"}}, 3, "bad", true},
		{"negative code", &PointsResponse{ErrorFields: ErrorFields{ErrorCode: -1}}, -1, "", true},
		{"login without session", &LoginResponse{}, 0, "authentication failed", true},
		{"login ok", &LoginResponse{SessionID: "sid"}, 0, "", false},
		{"update result false", &UpdateInvoiceResponse{Result: new(bool)}, 0, "", true},
		{"update without result", &UpdateInvoiceResponse{}, 0, "", false},
		{"cancel not done", &CancelInvoiceResponse{Error: "closed"}, 0, "closed", true},
		{"courier order zero", &CourierResponse{CourierRequestRegistred: true, OrderNumber: "0"}, 0, "courier request not registered", true},
		{"courier cancel failed", &CourierCancelResponse{ErrorFields: ErrorFields{ErrorMessage: "late"}}, 0, "late", true},
		{"courier error code", &CourierResponse{ErrorFields: ErrorFields{ErrorCode: -1023, ErrorMessage: "bad city"}}, -1023, "bad city", true},
		{"courier cancel error code", &CourierCancelResponse{ErrorFields: ErrorFields{ErrorCode: 77, ErrorMessage: "nope"}}, 77, "nope", true},
		{"zone error text", &GetZoneResponse{Error: "no route"}, 0, "no route", true},
		{"typed nil response", (*GetZoneResponse)(nil), 0, "empty response", true},
		{"untyped nil response", nil, 0, "empty response", true},
		{"empty shipment answer", &CreateShipmentResponse{}, 0, "no sending created", true},
		{"raw pdf", &RawResponse{Body: []byte("%PDF-1.4")}, 0, "", false},
		{"raw empty", &RawResponse{}, 0, "empty response body", true},
		{"raw json error", &RawResponse{Body: []byte(`{"Error":"Invoice not found"}`)}, 0, "Invoice not found", true},
		{"raw json other", &RawResponse{Body: []byte(`{"Ok":true}`)}, 0, "", false},
		{"raw json zero code", &RawResponse{Body: []byte(`{"ErrorCode":0,"ErrorMessage":null,"Error":false}`)}, 0, "", false},
		{"raw json string code", &RawResponse{Body: []byte(`{"ErrorCode":"5","ErrorMessage":"expired"}`)}, 5, "expired", true},
		{"raw json non-numeric code", &RawResponse{Body: []byte(`{"ErrorCode":"abc","ErrorMessage":"bad invoice"}`)}, 0, "bad invoice", true},
		{"raw json bare non-numeric code", &RawResponse{Body: []byte(`{"ErrorCode":"abc"}`)}, 0, `error code "abc"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("https://host/x", tt.resp)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var callErr *CallError
			require.ErrorAs(t, err, &callErr)
			assert.Equal(t, tt.wantCode, callErr.Code)
			assert.Equal(t, tt.wantMsg, callErr.Message)
			assert.Equal(t, "https://host/x", callErr.URL)
		})
	}
}

func TestClassify_RawMalformedObject(t *testing.T) {
	err := classify("https://host/makelabel", &RawResponse{Body: []byte(`{"ErrorMessage":`)})

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.True(t, strings.HasPrefix(callErr.Message, "malformed JSON body"), callErr.Message)
}

func TestAsCallError(t *testing.T) {
	assert.NoError(t, asCallError("u", nil))

	existing := NewCallError("original", "m", 1)
	assert.Same(t, existing, asCallError("other", existing))

	err := asCallError("https://host/login", errors.New("boom"))
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "https://host/login", callErr.URL)
	assert.False(t, IsProviderError(err))
}

func TestIsProviderError_StatusCode(t *testing.T) {
	assert.True(t, IsProviderError(NewCallError("u", "m", 1)))
	assert.False(t, IsProviderError(NewCallError("u", "m", 0).WithStatusCode(502)))
	assert.False(t, IsProviderError(errors.New("plain")))
}
