package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
)

// Handle logs the error with its goerr context and returns it unchanged.
// Every error that crosses a component boundary should pass through here so
// that stack traces and attached values are not lost.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}

// HandleHTTP logs the error and writes a JSON error body with the given
// status code. The body shape matches the action execution result contract:
// {"status":"error","message":...,"error_code":...}.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, errorCode string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error_code", errorCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error_code", errorCode,
			"error", err.Error(),
		)
	}

	body := map[string]string{
		"status":  "error",
		"message": err.Error(),
	}
	if errorCode != "" {
		body["error_code"] = errorCode
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		logger.Error("failed to write error response", "error", encErr.Error())
	}
}
