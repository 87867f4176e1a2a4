// Package httpapi exposes the verification and audit operations over JSON/HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"assetverify/internal/bootstrap/logging"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/usecase/audit"
	"assetverify/internal/usecase/verification"
)

const requestIDHeader = "X-Request-ID"

type VerificationService interface {
	StartCycle(ctx context.Context, input verification.StartCycleInput) (domainverification.Cycle, error)
	CloseCycle(ctx context.Context, input verification.CloseCycleInput) (domainverification.Cycle, error)
	GetActiveCycle(ctx context.Context) (domainverification.Cycle, bool, error)
	ListCycles(ctx context.Context) ([]domainverification.Cycle, error)
	SubmitBatch(ctx context.Context, input verification.SubmitBatchInput) ([]domainverification.Record, error)
	GetEmployeeVerificationDetail(ctx context.Context, employeeID string, cycleID uint64) (verification.EmployeeDetail, error)
	GetVerificationSummary(ctx context.Context, cycleID uint64) (verification.CycleRollup, error)
}

type AuditService interface {
	Compile(ctx context.Context) (audit.Report, error)
	LastReport(ctx context.Context) (audit.Report, bool, error)
}

type handler struct {
	verification VerificationService
	audit        AuditService
	validate     *validator.Validate
}

// NewRouter wires the routes. A nil audit service leaves /audit unmounted.
func NewRouter(verificationSvc VerificationService, auditSvc AuditService) http.Handler {
	h := &handler{
		verification: verificationSvc,
		audit:        auditSvc,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}

	r := chi.NewRouter()
	r.Use(requestContext)
	r.Use(middleware.Recoverer)

	r.Route("/cycles", func(r chi.Router) {
		r.Get("/", h.listCycles)
		r.Post("/", h.startCycle)
		r.Get("/active", h.activeCycle)
		r.Post("/{id}/close", h.closeCycle)
		r.Post("/{id}/submissions", h.submit)
	})
	r.Post("/submissions", h.submit)
	r.Get("/employees/{id}/verification", h.employeeDetail)
	r.Get("/summary", h.summary)
	if auditSvc != nil {
		r.Get("/audit", h.compileAudit)
		r.Get("/audit/last", h.lastAudit)
	}
	return r
}

// requestContext tags the request context with a request id and logs completion.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithAttrs(ctx, slog.String("component", "httpapi"))

		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.Debug(ctx, "http request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(started)),
		)
	})
}
