package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jwalitptl/clinic-registry/internal/repository"
)

// translateError tags driver errors with the repository sentinel they belong to.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", repository.ErrDuplicateKey, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	return mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}
