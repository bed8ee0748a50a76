package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

func (s *Server) getPoints(w http.ResponseWriter, r *http.Request) error {
	points, err := s.client.GetPoints(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, pointsToResponse(points))
	return nil
}

func (s *Server) calculatePrices(w http.ResponseWriter, r *http.Request) error {
	var in tariffInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	price, err := s.client.CalculatePrices(r.Context(), tariffInputToModel(in))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, tariffToResponse(price))
	return nil
}

func (s *Server) createShipment(w http.ResponseWriter, r *http.Request) error {
	var in invoiceInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	created, err := s.client.CreateShipment(r.Context(), invoiceInputToModel(in))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, shipmentResponse{
		EDTN:          created.EDTN,
		InvoiceNumber: created.InvoiceNumber,
		Barcode:       created.Barcode,
	})
	return nil
}

func (s *Server) updateShipment(w http.ResponseWriter, r *http.Request) error {
	var in invoiceInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	inv := invoiceInputToModel(in)
	inv.InvoiceNumber = chi.URLParam(r, "invoice")
	if err := s.client.UpdateShipment(r.Context(), inv); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) cancelShipment(w http.ResponseWriter, r *http.Request) error {
	if err := s.client.CancelShipment(r.Context(), chi.URLParam(r, "invoice")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) error {
	state, err := s.client.GetState(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateToResponse(state))
	return nil
}

func (s *Server) getStates(w http.ResponseWriter, r *http.Request) error {
	states, err := s.client.GetStates(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, statesToResponse(states))
	return nil
}

func (s *Server) trackingHistory(w http.ResponseWriter, r *http.Request) error {
	var in invoicesInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	histories, err := s.client.GetInvoicesHistory(r.Context(), in.Invoices)
	if err != nil {
		return err
	}
	out := make(map[string][]stateResponse, len(histories))
	for number, h := range histories {
		out[number] = statesToResponse(h.States())
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) trackingLast(w http.ResponseWriter, r *http.Request) error {
	var in invoicesInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	last, err := s.client.GetInvoicesLastStates(r.Context(), in.Invoices)
	if err != nil {
		return err
	}
	out := make(map[string]stateResponse, len(last))
	for number, state := range last {
		out[number] = stateToResponse(state)
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) printLabel(w http.ResponseWriter, r *http.Request) error {
	var in invoicesInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	doc, err := s.client.PrintLabel(r.Context(), in.Invoices)
	if err != nil {
		return err
	}
	writeDocument(w, doc)
	return nil
}

func (s *Server) makeReceipt(w http.ResponseWriter, r *http.Request) error {
	var in receiptInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	if in.Print {
		doc, err := s.client.MakeReceiptAndPrint(r.Context(), in.Invoices)
		if err != nil {
			return err
		}
		writeDocument(w, doc)
		return nil
	}
	numbers, err := s.client.MakeReceipt(r.Context(), in.Invoices)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string][]string{"numbers": numbers})
	return nil
}

func (s *Server) printReceipt(w http.ResponseWriter, r *http.Request) error {
	doc, err := s.client.PrintReceipt(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		return err
	}
	writeDocument(w, doc)
	return nil
}

func (s *Server) callCourier(w http.ResponseWriter, r *http.Request) error {
	var in courierInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	call, err := courierInputToModel(in)
	if err != nil {
		return err
	}
	if err := s.client.CallCourier(r.Context(), call); err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]string{"orderNumber": call.OrderNumber})
	return nil
}

func (s *Server) cancelCourier(w http.ResponseWriter, r *http.Request) error {
	if err := s.client.CancelCourier(r.Context(), chi.URLParam(r, "order")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) getCities(w http.ResponseWriter, r *http.Request) error {
	cities, err := s.client.GetCities(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, citiesToResponse(cities))
	return nil
}

// getZone takes an optional sender from the fromCity/fromRegion query.
func (s *Server) getZone(w http.ResponseWriter, r *http.Request) error {
	var sender *pickpoint.SenderDestination
	if city := r.URL.Query().Get("fromCity"); city != "" {
		sender = &pickpoint.SenderDestination{City: city, Region: r.URL.Query().Get("fromRegion")}
	}
	zone, err := s.client.GetZone(r.Context(), chi.URLParam(r, "postamat"), sender)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, zoneToResponse(zone))
	return nil
}

func (s *Server) getRegion(w http.ResponseWriter, r *http.Request) error {
	code := chi.URLParam(r, "code")
	name, err := pickpoint.MapIsoToRegionName(code)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, regionResponse{Code: code, Name: name})
	return nil
}
