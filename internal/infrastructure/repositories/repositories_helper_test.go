package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createArtistTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE artists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createSmartContractTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE smart_contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		chain_id TEXT NOT NULL,
		contract_address TEXT NOT NULL,
		abi TEXT,
		is_active BOOLEAN DEFAULT 1,
		description TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		UNIQUE (chain_id, contract_address)
	);`)
}

// createCollectionTables builds the collection schema. symbolOnly swaps the
// composite unique index for a unique symbol column.
func createCollectionTables(t *testing.T, db *gorm.DB, symbolOnly bool) {
	createArtistTable(t, db)
	createSmartContractTable(t, db)

	unique := `UNIQUE (symbol, smart_contract_id)`
	if symbolOnly {
		unique = `UNIQUE (symbol)`
	}
	mustExec(t, db, `CREATE TABLE collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		contract_address TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		transaction_hash TEXT,
		artist_id INTEGER NOT NULL REFERENCES artists(id),
		smart_contract_id INTEGER NOT NULL REFERENCES smart_contracts(id),
		created_at DATETIME,
		updated_at DATETIME,
		`+unique+`
	);`)
}

func seedOwners(t *testing.T, db *gorm.DB) (artistID, contractID int64) {
	mustExec(t, db, `INSERT INTO artists (id, name, created_at) VALUES (1, 'Camille', ?)`, time.Now())
	mustExec(t, db, `INSERT INTO smart_contracts (id, name, chain_id, contract_address, is_active, created_at, updated_at)
		VALUES (1, 'ArtistFactory', 'eip155:11155111', '0x00000000000000000000000000000000000000f1', 1, ?, ?)`, time.Now(), time.Now())
	mustExec(t, db, `INSERT INTO smart_contracts (id, name, chain_id, contract_address, is_active, created_at, updated_at)
		VALUES (2, 'ArtistFactoryV2', 'eip155:11155111', '0x00000000000000000000000000000000000000f2', 1, ?, ?)`, time.Now(), time.Now())
	return 1, 1
}
