/*
handlers.go - HTTP API handlers for the ACM eligibility engine

PURPOSE:
  Exposes the calculation engine and its configuration via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  engine, the registry and the monitor.

ENDPOINTS:
  Public:
    POST   /api/calculate                 Calculate one training event
    GET    /api/rates                     Published rate table
    GET    /api/docs                      Published document wording
    GET    /api/version                   Edition stamp
    GET    /api/pdf/{type}                Uploaded ACM guide or table

  Admin (X-Admin-Password header or JSON "password"):
    POST   /api/admin/login               Check the password
    POST   /api/admin/rates               Replace the rate table
    POST   /api/admin/docs                Replace the document table
    POST   /api/admin/version             Replace the edition stamp
    POST   /api/admin/upload/{type}       Upload the guide or table PDF
    GET    /api/admin/revisions           Configuration history
    GET    /api/admin/monitor             Watched document state
    POST   /api/admin/monitor/run         Run a document check now

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: Live configuration and revision history
  - Engine:   Reads the registry's published snapshot
  - Store:    Reference PDFs and monitor state
  - Monitor:  Optional; monitor endpoints answer 503 without it

ERROR HANDLING:
  Errors are returned as JSON {"error", "code", "details"}:
  - 400 invalid_input:  Malformed event, details name the field
  - 400 invalid_config: Rejected admin document
  - 401 unauthorized:   Missing or wrong admin password
  - 404 not_found:      Unknown scenario or PDF not uploaded
  - 422 blocked:        Participant cap exceeded, details carry the cap
  - 422 no_scenario:    No cost-matrix row for the combination
  - 500 internal:       Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Canned training events
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/h2non/filetype"
	"github.com/samber/lo"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/eligibility"
	"github.com/warp/acm-engine/factory"
	"github.com/warp/acm-engine/logging"
	"github.com/warp/acm-engine/monitor"
	"github.com/warp/acm-engine/registry"
	"github.com/warp/acm-engine/store/sqlite"
)

const (
	// MaxUploadSize is the largest reference PDF accepted.
	MaxUploadSize = 20 << 20
	maxBodySize   = 1 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	Registry      *registry.Registry
	Engine        *eligibility.Engine
	Monitor       *monitor.Monitor
	AdminPassword string

	factory  *factory.ConfigFactory
	validate *validator.Validate
	log      *logging.Logger
}

// NewHandler creates a handler over a loaded registry. mon may be nil.
func NewHandler(store *sqlite.Store, reg *registry.Registry, mon *monitor.Monitor, adminPassword string, log *logging.Logger) *Handler {
	return &Handler{
		Store:         store,
		Registry:      reg,
		Engine:        eligibility.New(reg.Holder()),
		Monitor:       mon,
		AdminPassword: adminPassword,
		factory:       factory.New(),
		validate:      newValidator(),
		log:           logging.Or(log),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate evaluates one training event.
// POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeFailure(w, err)
		return
	}

	var opts []eligibility.Option
	if len(req.Rates) > 0 {
		rates, err := h.factory.ParseRates(req.Rates)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		opts = append(opts, eligibility.WithRates(rates))
	}

	in := req.ToInput()
	res, err := h.Engine.Calculate(in, opts...)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CalculateResponse{Input: in, Result: res})
}

// =============================================================================
// PUBLISHED CONFIGURATION
// =============================================================================

// GetRates returns the published rate table.
// GET /api/rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Rates)
}

// GetDocs returns the published document wording.
// GET /api/docs
func (h *Handler) GetDocs(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Documents)
}

// GetVersion returns the edition stamp.
// GET /api/version
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, VersionDTO{Edition: snap.Edition, Label: snap.Edition.Label()})
}

// GetPDF serves an uploaded reference document.
// GET /api/pdf/{type}
func (h *Handler) GetPDF(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if kind != registry.DocGuide && kind != registry.DocTable {
		writeError(w, http.StatusNotFound, "not_found", "Unknown document type", nil)
		return
	}

	doc, err := h.Store.GetReferenceDocument(r.Context(), kind)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "not_found", "PDF not yet uploaded", nil)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	w.Header().Set("ETag", strconv.Quote(doc.SHA256))
	http.ServeContent(w, r, doc.Filename, doc.UploadedAt, bytes.NewReader(doc.Content))
}

func (h *Handler) snapshot(w http.ResponseWriter) (*acm.Snapshot, bool) {
	snap := h.Registry.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", acm.ErrNoSnapshot.Error(), nil)
		return nil, false
	}
	return snap, true
}

// =============================================================================
// ADMIN
// =============================================================================

// Login checks the admin password.
// POST /api/admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decode(r, &req); err != nil || !h.passwordMatches(req.Password) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid password", nil)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// ReplaceRates publishes a new rate table.
// POST /api/admin/rates
func (h *Handler) ReplaceRates(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, h.Registry.ReplaceRates)
}

// ReplaceDocs publishes a new document table.
// POST /api/admin/docs
func (h *Handler) ReplaceDocs(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, h.Registry.ReplaceDocuments)
}

// ReplaceVersion publishes a new edition stamp.
// POST /api/admin/version
func (h *Handler) ReplaceVersion(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, h.Registry.ReplaceEdition)
}

type replaceFunc func(ctx context.Context, body []byte, author string) (*acm.Snapshot, error)

func (h *Handler) replace(w http.ResponseWriter, r *http.Request, apply replaceFunc) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body", err)
		return
	}
	snap, err := apply(r.Context(), body, "admin")
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Edition: snap.Edition.Label()})
}

// UploadPDF stores a reference document and stamps the edition.
// POST /api/admin/upload/{type}
func (h *Handler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if kind != registry.DocGuide && kind != registry.DocTable {
		writeError(w, http.StatusBadRequest, "invalid_input", "Document type must be guide or table", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "File exceeds 20 MB", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_input", "No file uploaded", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Failed to read upload", err)
		return
	}
	if len(content) > MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "File exceeds 20 MB", nil)
		return
	}
	if !filetype.Is(content, "pdf") {
		writeError(w, http.StatusBadRequest, "invalid_input", "Only PDF files are allowed", nil)
		return
	}

	doc, err := h.Store.SaveReferenceDocument(r.Context(), sqlite.ReferenceDocument{
		Kind:     kind,
		Filename: "acm-" + kind + ".pdf",
		Content:  content,
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	snap, err := h.Registry.MarkUploaded(r.Context(), kind, doc.UploadedAt)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.log.Infof("[API] Uploaded %s (%d bytes, sha256 %s)", doc.Filename, len(content), doc.SHA256)
	writeJSON(w, http.StatusOK, SuccessResponse{
		Success:  true,
		Edition:  snap.Edition.Label(),
		Filename: doc.Filename,
		SHA256:   doc.SHA256,
	})
}

// ListRevisions returns configuration history, newest first.
// GET /api/admin/revisions?kind=rates&limit=20&body=true
func (h *Handler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := sqlite.RevisionKind(q.Get("kind"))
	if kind != "" && !lo.Contains([]sqlite.RevisionKind{sqlite.RevisionRates, sqlite.RevisionDocuments, sqlite.RevisionEdition}, kind) {
		writeError(w, http.StatusBadRequest, "invalid_input", "Unknown revision kind", nil)
		return
	}
	limit := 50
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_input", "limit must be a positive integer", err)
			return
		}
		limit = n
	}
	withBody := q.Get("body") == "true"

	revs, err := h.Registry.Revisions(r.Context(), kind, limit)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	dtos := lo.Map(revs, func(rev sqlite.Revision, _ int) RevisionDTO {
		dto := RevisionDTO{
			ID:        rev.ID,
			Kind:      string(rev.Kind),
			Author:    rev.Author,
			CreatedAt: rev.CreatedAt.Format(time.RFC3339),
		}
		if withBody {
			dto.Body = json.RawMessage(rev.Body)
		}
		return dto
	})
	writeJSON(w, http.StatusOK, map[string]any{"revisions": dtos})
}

// GetMonitor returns what the monitor last saw.
// GET /api/admin/monitor
func (h *Handler) GetMonitor(w http.ResponseWriter, r *http.Request) {
	states, err := h.Store.ListMonitorStates(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	resp := map[string]any{"states": toMonitorStateDTOs(states)}
	if h.Monitor != nil {
		resp["enabled"] = h.Monitor.Enabled
		resp["interval"] = h.Monitor.Interval.String()
		resp["documents"] = h.Monitor.Documents
	}
	writeJSON(w, http.StatusOK, resp)
}

// RunMonitor runs a document check now. It alerts like a scheduled check.
// POST /api/admin/monitor/run
func (h *Handler) RunMonitor(w http.ResponseWriter, r *http.Request) {
	if h.Monitor == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "Monitor is not configured", nil)
		return
	}
	report, err := h.Monitor.Check(r.Context(), false)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MonitorRunResponse{
		CheckedAt: report.CheckedAt.Format(time.RFC3339),
		States:    toMonitorStateDTOs(report.States),
		Alerts:    lo.Ternary(report.Alerts == nil, []monitor.Alert{}, report.Alerts),
	})
}

func toMonitorStateDTOs(states []sqlite.MonitorState) []MonitorStateDTO {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	dtos := make([]MonitorStateDTO, 0, len(states))
	for _, st := range states {
		dtos = append(dtos, MonitorStateDTO{
			Key:         st.Key,
			URL:         st.URL,
			Hash:        st.Hash,
			LastChecked: format(st.LastChecked),
			LastChanged: format(st.LastChanged),
			LastError:   st.LastError,
		})
	}
	return dtos
}

// =============================================================================
// AUTH
// =============================================================================

// RequireAdmin rejects requests without the admin password. The password
// is read from X-Admin-Password or, for JSON bodies, a "password" field;
// the body is restored for the handler.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pw := r.Header.Get("X-Admin-Password")
		if pw == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") && r.Body != nil {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
			if err == nil {
				var probe struct {
					Password string `json:"password"`
				}
				if json.Unmarshal(body, &probe) == nil {
					pw = probe.Password
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
		}
		if !h.passwordMatches(pw) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid password", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) passwordMatches(pw string) bool {
	if h.AdminPassword == "" || pw == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pw), []byte(h.AdminPassword)) == 1
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into dst and runs struct validation.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst); err != nil {
		return &acm.ValidationError{Field: "body", Reason: err.Error()}
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return toValidationError(verrs[0])
		}
		return err
	}
	return nil
}

// toValidationError maps a struct validation failure to the engine's
// error type. The namespace "CalculateRequest.host.pax" becomes "host.pax".
func toValidationError(fe validator.FieldError) *acm.ValidationError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	reason := fe.Tag()
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "oneof":
		reason = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		reason = "must be at least " + fe.Param()
	case "lte", "max":
		reason = "must be at most " + fe.Param()
	}
	return &acm.ValidationError{Field: field, Reason: reason}
}

// writeFailure maps an error to its status code.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var verr *acm.ValidationError
	var blocked *acm.BlockedError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_input", verr.Error(),
			FieldErrorDTO{Field: verr.Field, Reason: verr.Reason})
	case errors.As(err, &blocked):
		writeError(w, http.StatusUnprocessableEntity, "blocked", blocked.Error(),
			BlockedDTO{Category: string(blocked.Category), Cap: blocked.Cap, TotalPax: blocked.TotalPax})
	case errors.Is(err, acm.ErrNoScenario):
		writeError(w, http.StatusUnprocessableEntity, "no_scenario", err.Error(), nil)
	case errors.Is(err, acm.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "invalid_config", "Configuration rejected", strings.Split(err.Error(), "\n"))
	case errors.Is(err, acm.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
	default:
		h.log.Errorf("[API] %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "Internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	resp := ErrorResponse{Error: message, Code: code}
	if err, ok := details.(error); ok {
		resp.Details = err.Error()
	} else if details != nil {
		resp.Details = details
	}
	writeJSON(w, status, resp)
}
