package repository

import (
	"errors"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

// translate maps gorm's translated driver errors to the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repo.ErrReferenced
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
