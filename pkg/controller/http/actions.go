package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
	"github.com/seamark-lab/quartermaster/pkg/utils/errutil"
	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
)

const maxRequestBody = 4 << 20 // uploads ride base64-encoded in the payload

// executeHandler runs the dispatch pipeline. The HTTP status follows the
// result's error code; the body is always the full ExecuteResult so clients
// parse one shape regardless of outcome.
func executeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := auth.TokenFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized, "")
			return
		}

		var req model.ExecuteRequest
		if err := decodeBody(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest,
				types.ErrCodeValidationFailed.String())
			return
		}
		if req.Action == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("action is required"),
				http.StatusBadRequest, types.ErrCodeValidationFailed.String())
			return
		}

		result := uc.ExecuteAction(r.Context(), tok, &req)

		status := http.StatusOK
		if !result.OK() {
			status = result.ErrorCode.HTTPStatus()
		}
		writeJSON(w, r, status, result)
	}
}

// previewHandler describes what an execution would do, read-only
func previewHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := auth.TokenFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized, "")
			return
		}

		var req model.ExecuteRequest
		if err := decodeBody(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest,
				types.ErrCodeValidationFailed.String())
			return
		}
		req.Action = types.ActionID(chi.URLParam(r, "action_id"))

		preview, err := uc.Preview(r.Context(), tok, &req)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrUnknownAction):
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest,
					types.ErrCodeUnknownActionFailed.String())
			case errors.Is(err, usecase.ErrActionForbidden):
				errutil.HandleHTTP(r.Context(), w, err, http.StatusForbidden,
					types.ErrCodeInsufficientPermissions.String())
			default:
				// Internal detail stays in the log, not the response
				_ = errutil.Handle(r.Context(), err, "preview failed")
				errutil.HandleHTTP(r.Context(), w, goerr.New("failed to build preview"),
					http.StatusInternalServerError, types.ErrCodeInternalFailed.String())
			}
			return
		}

		writeJSON(w, r, http.StatusOK, preview)
	}
}

// listActionsHandler serves the catalog filtered to the acting role
func listActionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Actions []*model.ActionSuggestion `json:"actions"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := auth.TokenFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized, "")
			return
		}

		writeJSON(w, r, http.StatusOK, response{
			Actions: uc.Registry().SuggestionsFor(tok.Role),
		})
	}
}

func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(r.Context()).Error("failed to write response", "error", err)
	}
}
