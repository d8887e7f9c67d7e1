package repositories

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	domainerrors "artmarket.backoffice/internal/domain/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	collectionSymbolContractIndex = "idx_collection_symbol_contract"
)

// translateWriteError maps driver constraint failures to typed domain errors.
// Unrecognised errors are returned unchanged.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.RecordNotFound("enregistrement introuvable")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return uniqueConflict(pqErr.Constraint + " " + pqErr.Detail)
		case pqForeignKeyViolation:
			return domainerrors.ForeignKeyViolation("artiste ou smart contract introuvable")
		}
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return uniqueConflict(err.Error())
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domainerrors.ForeignKeyViolation("artiste ou smart contract introuvable")
	}

	// sqlite reports constraints only through the message text
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"):
		return uniqueConflict(msg)
	case strings.Contains(msg, "foreign key constraint failed"):
		return domainerrors.ForeignKeyViolation("artiste ou smart contract introuvable")
	}
	return err
}

func uniqueConflict(detail string) error {
	detail = strings.ToLower(detail)
	switch {
	case strings.Contains(detail, collectionSymbolContractIndex), strings.Contains(detail, "smart_contract_id"):
		return domainerrors.SymbolContractConflict("ce symbole est déjà utilisé pour ce smart contract")
	case strings.Contains(detail, "symbol"):
		return domainerrors.SymbolConflict("ce symbole est déjà utilisé")
	}
	return domainerrors.Conflict("cet enregistrement existe déjà")
}
