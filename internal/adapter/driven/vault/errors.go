package vault

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/vault/api"

	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, api.ErrSecretNotFound) {
		return true
	}
	var apiErr *api.ResponseError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// isCheckAndSetMismatch reports whether a write was rejected because the
// check-and-set version did not match, i.e. the secret already exists.
func isCheckAndSetMismatch(err error) bool {
	var apiErr *api.ResponseError
	if errors.As(err, &apiErr) {
		errMessage := strings.Join(apiErr.Errors, ",")
		return apiErr.StatusCode == http.StatusBadRequest && strings.Contains(errMessage, "check-and-set")
	}
	return false
}

// unavailable wraps any remaining failure (transport, 5xx, permission denied,
// sealed vault) as a store I/O error.
func unavailable(op, accountID string, err error) error {
	var apiErr *api.ResponseError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w: permission denied: %w", op, accountID, driven.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, accountID, driven.ErrStoreUnavailable, err)
}
