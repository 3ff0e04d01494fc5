package firestore

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// isNotFound reports whether the firestore error is a missing-document error
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
