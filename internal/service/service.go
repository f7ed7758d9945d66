// Package service holds the business operations behind the HTTP handlers.
// Every mutation runs inside repository.Store.WithTx after validation.
package service

import (
	"errors"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
)

// Clock returns the current time; tests replace it to move through expiries
type Clock func() time.Time

// notFound maps repository.ErrNotFound to the typed not-found error for what
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrNotFound(what)
	}
	return err
}
