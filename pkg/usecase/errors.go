package usecase

import (
	"errors"
	"fmt"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/repository/firestore"
	"github.com/seamark-lab/quartermaster/pkg/repository/memory"
)

// isNotFound reports whether the error is a missing-entity error from either
// repository backend
func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

// errResult builds an error-status execution result with a formatted message
func errResult(code types.ErrorCode, format string, args ...any) *model.ExecuteResult {
	return &model.ExecuteResult{
		Status:    types.ExecStatusError,
		Message:   fmt.Sprintf(format, args...),
		ErrorCode: code,
	}
}

// okResult builds a success result with a formatted message
func okResult(result map[string]any, format string, args ...any) *model.ExecuteResult {
	return &model.ExecuteResult{
		Status:  types.ExecStatusSuccess,
		Message: fmt.Sprintf(format, args...),
		Result:  result,
	}
}
