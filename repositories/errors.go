package repositories

import (
	"errors"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the application taxonomy.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(resource + " already exists")
	default:
		return apperrors.Internal(err)
	}
}
