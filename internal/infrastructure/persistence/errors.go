package persistence

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// constraintErrors maps translated constraint violations to domain errors.
// A nil field leaves that violation untouched.
type constraintErrors struct {
	duplicate  error
	foreignKey error
}

// translate maps constraint violations to the domain error of the calling
// repository. PostgreSQL errors arrive translated by GORM; go-sqlite3 foreign
// key failures do not, so they are matched on the extended result code.
func (c constraintErrors) translate(err error) error {
	if err == nil {
		return nil
	}
	if c.duplicate != nil && isDuplicateKey(err) {
		return c.duplicate
	}
	if c.foreignKey != nil && isForeignKeyViolation(err) {
		return c.foreignKey
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
