package application

import (
	"errors"

	"github.com/bnema/fyp-cli/internal/domain"
)

var classifiedKinds = []error{
	domain.ErrUnauthenticated,
	domain.ErrInvalidCredentials,
	domain.ErrRateLimited,
	domain.ErrSessionExpired,
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrInvalidRequest,
	domain.ErrForbidden,
	domain.ErrNetworkOrUnknown,
}

// classify guarantees err matches one of the domain error kinds, defaulting to ErrNetworkOrUnknown.
func classify(err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range classifiedKinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	return &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Err: err}
}

func invalidRequest(err error) error {
	return &domain.APIError{Kind: domain.ErrInvalidRequest, Message: err.Error()}
}
