package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/formline/internal/adapters/ingest"
	service "github.com/okian/formline/internal/app"
	"github.com/okian/formline/internal/domain/classify"
)

// AnalyzeHandler handles upload-and-analyze requests.
type AnalyzeHandler struct {
	deps Dependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// HandleAnalyze handles POST /analyze requests. The body is a multipart form
// whose file parts are the uploaded exports. By default the batch is merged
// into the durable history and the analytics cover the whole history; pass
// persist=false to analyze the batch alone.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	persist := true
	if raw := r.URL.Query().Get("persist"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		persist = v
	}

	files, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	resp, err := h.deps.Analyze(r.Context(), files, persist)
	if err != nil {
		status, code := classifyAnalyzeError(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// readUpload collects every file part of the multipart body in order.
func readUpload(r *http.Request) ([]ingest.File, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	var files []ingest.File
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if part.FileName() == "" {
			continue
		}
		content, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, ingest.File{Name: part.FileName(), Content: content})
	}
	return files, nil
}

// classifyAnalyzeError maps pipeline failures to HTTP statuses. Precondition
// failures are the client's to fix; anything else is a server fault.
func classifyAnalyzeError(err error) (int, string) {
	switch {
	case errors.Is(err, classify.ErrUnrecognizedSchema):
		return http.StatusBadRequest, "unrecognized_schema"
	case errors.Is(err, classify.ErrMissingTipsSource):
		return http.StatusBadRequest, "missing_tips_source"
	case errors.Is(err, ingest.ErrEmptyFile):
		return http.StatusBadRequest, "empty_file"
	case errors.Is(err, service.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "upload_too_large"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
