package handler

import (
	"net/http"
	"strings"

	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
	"rdhub/pkg/platform/httputil"
	"rdhub/pkg/requestcontext"
)

// Source names accepted by the reload endpoint.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// ReloadRequest asks for the active dataset to be replaced.
type ReloadRequest struct {
	Family string `json:"family"`
	Source string `json:"source"`         // csv or postgres
	Path   string `json:"path,omitempty"` // CSV path; ignored for postgres
}

func (r ReloadRequest) Validate() error {
	if _, err := domain.ParseFamily(r.Family); err != nil {
		return err
	}
	switch r.Source {
	case SourceCSV:
		if strings.TrimSpace(r.Path) == "" {
			return dErrors.New(dErrors.CodeBadRequest, "path is required for csv source")
		}
	case SourcePostgres:
	default:
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown source: %q", r.Source)
	}
	return nil
}

// handleReload swaps in a freshly loaded dataset. In-flight queries keep the
// session they started with; new queries see the new data immediately.
func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ReloadRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.reloader.Reload(ctx, req)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "dataset reload failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.holder.Swap(session)
	h.logger.InfoContext(ctx, "dataset reloaded",
		"request_id", requestID,
		"subject", requestcontext.Subject(ctx),
		"session_id", session.ID().String(),
		"family", session.Frame().Family(),
		"records", session.Frame().Len(),
		"rejections", len(session.Rejections()),
		"fingerprint", session.Frame().Fingerprint(),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"session_id":          session.ID().String(),
		"family":              session.Frame().Family(),
		"records":             session.Frame().Len(),
		"rejections":          len(session.Rejections()),
		"dataset_fingerprint": session.Frame().Fingerprint(),
	})
}
