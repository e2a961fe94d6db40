package store

import (
	"content-restriction/internal/domain/access"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store backs the access oracles and the restriction metadata with gorm.
//
// Oracle methods never fail: lookup errors are logged and degrade to the safe
// default ("no capability", "no purchase", "unknown product").
type Store struct {
	db      *gorm.DB
	log     *zap.Logger
	baseURL string
}

var (
	_ access.IdentityOracle = (*Store)(nil)
	_ access.CatalogOracle  = (*Store)(nil)
)

// New returns a Store. baseURL is the public site root used for permalinks.
func New(db *gorm.DB, log *zap.Logger, baseURL string) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log, baseURL: baseURL}
}
