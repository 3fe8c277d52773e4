package license

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	licenseerrors "github.com/sgthedux/sgth-sub001/internal/license/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return licenseerrors.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation; the only unique index is the radicado.
		if pgErr.Code == "23505" {
			return licenseerrors.ErrRadicadoConflict
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "radicado") {
		return licenseerrors.ErrRadicadoConflict
	}

	return err
}
