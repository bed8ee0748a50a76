package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/tournevent/pickpoint/internal/telemetry"
	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

// Connector is the part of pickpoint.Client the bridge exposes.
type Connector interface {
	GetPoints(ctx context.Context) ([]pickpoint.Point, error)
	CalculatePrices(ctx context.Context, req *pickpoint.PriceRequest) (*pickpoint.TariffPrice, error)
	CreateShipment(ctx context.Context, inv *pickpoint.Invoice) (*pickpoint.CreatedShipment, error)
	UpdateShipment(ctx context.Context, inv *pickpoint.Invoice) error
	CancelShipment(ctx context.Context, invoiceNumber string) error
	GetState(ctx context.Context, invoiceNumber string) (pickpoint.State, error)
	GetStates(ctx context.Context) ([]pickpoint.State, error)
	GetInvoicesHistory(ctx context.Context, invoices []string) (map[string]pickpoint.History, error)
	GetInvoicesLastStates(ctx context.Context, invoices []string) (map[string]pickpoint.State, error)
	PrintLabel(ctx context.Context, invoices []string) ([]byte, error)
	PrintReceipt(ctx context.Context, receiptNumber string) ([]byte, error)
	MakeReceipt(ctx context.Context, invoices []string) ([]string, error)
	MakeReceiptAndPrint(ctx context.Context, invoices []string) ([]byte, error)
	CallCourier(ctx context.Context, call *pickpoint.CourierCall) error
	CancelCourier(ctx context.Context, orderNumber string) error
	GetCities(ctx context.Context) ([]pickpoint.City, error)
	GetZone(ctx context.Context, postamatNumber string, sender *pickpoint.SenderDestination) (*pickpoint.Zone, error)
}

var _ Connector = (*pickpoint.Client)(nil)

// Server is the HTTP bridge in front of the PickPoint connector.
type Server struct {
	port     int
	client   Connector
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance. Metrics are registered on a registry
// owned by the server and served on /metrics.
func New(cfg Config, client Connector, logger *otelzap.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Server{
		port:     cfg.Port,
		client:   client,
		logger:   logger,
		metrics:  telemetry.NewMetrics(registry),
		registry: registry,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Get("/points", s.handle("GetPoints", s.getPoints))
	r.Post("/tariffs", s.handle("CalculatePrices", s.calculatePrices))

	r.Route("/shipments", func(r chi.Router) {
		r.Post("/", s.handle("CreateShipment", s.createShipment))
		r.Put("/{invoice}", s.handle("UpdateShipment", s.updateShipment))
		r.Delete("/{invoice}", s.handle("CancelShipment", s.cancelShipment))
		r.Get("/{invoice}/state", s.handle("GetState", s.getState))
	})
	r.Get("/states", s.handle("GetStates", s.getStates))
	r.Post("/tracking/history", s.handle("GetInvoicesHistory", s.trackingHistory))
	r.Post("/tracking/last", s.handle("GetInvoicesLastStates", s.trackingLast))

	r.Post("/labels", s.handle("PrintLabel", s.printLabel))
	r.Post("/receipts", s.handle("MakeReceipt", s.makeReceipt))
	r.Get("/receipts/{number}", s.handle("PrintReceipt", s.printReceipt))

	r.Post("/couriers", s.handle("CallCourier", s.callCourier))
	r.Delete("/couriers/{order}", s.handle("CancelCourier", s.cancelCourier))

	r.Get("/cities", s.handle("GetCities", s.getCities))
	r.Get("/zones/{postamat}", s.handle("GetZone", s.getZone))
	r.Get("/regions/{code}", s.handle("MapIsoToRegionName", s.getRegion))

	return r
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle records metrics for op and renders any returned error.
func (s *Server) handle(op string, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		err := fn(w, r)

		status := "ok"
		if err != nil {
			status = "error"
			kind := errorKind(err)
			s.metrics.RecordError(op, kind)
			s.logger.Ctx(r.Context()).Warn("Request failed",
				zap.String("operation", op),
				zap.String("error_type", kind),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			writeError(w, err)
		}
		s.metrics.RecordRequest(op, status, time.Since(start).Seconds())
	}
}
