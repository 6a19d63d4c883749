package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
)

type errorResponse struct {
	Code    kerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as JSON. Errors
// without a code are logged and reported as INTERNAL_ERROR without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	code := kerrors.GetCode(err)
	status := statusFor(code)
	msg := kerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "route", routePattern(r), "err", err)
		if code == "" || code == kerrors.ErrCodeInternal {
			code, msg = kerrors.ErrCodeInternal, "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify attaches codes to the family package's sentinel errors.
func classify(err error) error {
	if kerrors.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, family.ErrUnknownPerson):
		return kerrors.Wrap(kerrors.ErrCodeUnknownPerson, err, "%s", err.Error())
	case errors.Is(err, family.ErrRelationNotFound):
		return kerrors.Wrap(kerrors.ErrCodeUnknownRelation, err, "%s", err.Error())
	case errors.Is(err, family.ErrSelfRelation),
		errors.Is(err, family.ErrInvalidPersonID),
		errors.Is(err, family.ErrUnknownRelationType),
		errors.Is(err, family.ErrInvalidGender):
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "%s", err.Error())
	case errors.Is(err, family.ErrDuplicatePersonID), errors.Is(err, family.ErrRootDeletion):
		return kerrors.Wrap(kerrors.ErrCodeConflict, err, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return kerrors.Wrap(kerrors.ErrCodeInternal, err, "request canceled")
	}
	return err
}

func statusFor(code kerrors.Code) int {
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(string(code), "UNKNOWN_"), code == kerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == kerrors.ErrCodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
