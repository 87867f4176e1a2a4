package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/verification"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (h *handler) startCycle(w http.ResponseWriter, r *http.Request) {
	var req startCycleRequest
	if !h.decode(w, r, &req) {
		return
	}
	cycle, err := h.verification.StartCycle(r.Context(), verification.StartCycleInput{
		Title:     req.Title,
		CreatedBy: req.CreatedBy,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCycleDTO(cycle))
}

func (h *handler) closeCycle(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req closeCycleRequest
	if !h.decode(w, r, &req) {
		return
	}
	cycle, err := h.verification.CloseCycle(r.Context(), verification.CloseCycleInput{
		CycleID:  cycleID,
		ClosedBy: req.ClosedBy,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleDTO(cycle))
}

func (h *handler) listCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.verification.ListCycles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]cycleDTO, 0, len(cycles))
	for _, cycle := range cycles {
		out = append(out, toCycleDTO(cycle))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) activeCycle(w http.ResponseWriter, r *http.Request) {
	cycle, found, err := h.verification.GetActiveCycle(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no verification cycle is active", Kind: string(errs.KindNotFound)})
		return
	}
	writeJSON(w, http.StatusOK, toCycleDTO(cycle))
}

// submit serves both /cycles/{id}/submissions and /submissions (active cycle).
func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var cycleID uint64
	if chi.URLParam(r, "id") != "" {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		cycleID = id
	}
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}

	entries := make([]verification.SubmitEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, verification.SubmitEntry{
			AssetID:        entry.AssetID,
			EnteredAssetID: entry.EnteredAssetID,
			Notes:          entry.Notes,
		})
	}
	records, err := h.verification.SubmitBatch(r.Context(), verification.SubmitBatchInput{
		CycleID:    cycleID,
		EmployeeID: req.EmployeeID,
		Entries:    entries,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]recordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordDTO(record))
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *handler) employeeDetail(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := queryCycle(w, r)
	if !ok {
		return
	}
	detail, err := h.verification.GetEmployeeVerificationDetail(r.Context(), chi.URLParam(r, "id"), cycleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailDTO(detail))
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := queryCycle(w, r)
	if !ok {
		return
	}
	rollup, err := h.verification.GetVerificationSummary(r.Context(), cycleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(rollup))
}

func (h *handler) compileAudit(w http.ResponseWriter, r *http.Request) {
	report, err := h.audit.Compile(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) lastAudit(w http.ResponseWriter, r *http.Request) {
	report, found, err := h.audit.LastReport(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no audit report has been compiled", Kind: string(errs.KindNotFound)})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// decode reads a JSON body into dst and validates it; it writes the 400 itself.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: string(errs.KindValidation)})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err), Kind: string(errs.KindValidation)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, field.Field()+" failed "+field.Tag())
	}
	return strings.Join(msgs, "; ")
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid cycle id " + strconv.Quote(raw), Kind: string(errs.KindValidation)})
		return 0, false
	}
	return id, true
}

// queryCycle parses ?cycle=; absent means the default cycle (0).
func queryCycle(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("cycle"))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid cycle query " + strconv.Quote(raw), Kind: string(errs.KindValidation)})
		return 0, false
	}
	return id, true
}

func statusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidState, errs.KindCycleClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "http request failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
