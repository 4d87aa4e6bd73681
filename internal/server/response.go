package server

import (
	"encoding/json"
	"errors"
	"net/http"

	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/pipeline"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// writeError maps err to a status code and writes the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{Code: code, Error: gerrors.UserMessage(err)})
}

// statusFor derives the HTTP status from the outermost error code.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, string(gerrors.ErrCodeInvalidInput)
	}

	code := gerrors.GetCode(err)
	switch code {
	case gerrors.ErrCodeMalformedTree, gerrors.ErrCodeInconsistentAtomSeed:
		return http.StatusUnprocessableEntity, string(code)
	case gerrors.ErrCodeInvalidInput, gerrors.ErrCodeInvalidFormat, gerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest, string(code)
	case gerrors.ErrCodeUnknownNode, gerrors.ErrCodeNotFound, gerrors.ErrCodeFileNotFound:
		return http.StatusNotFound, string(code)
	case "":
		return http.StatusInternalServerError, string(gerrors.ErrCodeInternal)
	}
	return http.StatusInternalServerError, string(code)
}

// writeArtifact writes a rendered artifact with the content type of its
// format.
func writeArtifact(w http.ResponseWriter, format string, data []byte, cached bool) {
	w.Header().Set("Content-Type", contentType(format))
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatText:
		return "text/plain; charset=utf-8"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	}
	return treeio.Format(format).ContentType()
}
