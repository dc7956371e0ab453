package search

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// StatusCode returns the HTTP status of a service error, or 0 when err did
// not come from a service response.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the service
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsForbidden reports whether err is a 403 from the service, which in
// practice means a query key was used where an admin key is required.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
