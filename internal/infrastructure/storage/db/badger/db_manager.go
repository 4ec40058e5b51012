package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

// DbManager holds the badgerhold store backing the trade repository.
type DbManager struct {
	Store *badgerhold.Store
}

// NewDbManager opens (or creates if not exists) the badger store on disk in
// a dedicated trades directory under the given base data dir.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	tradeDb, err := createDb(filepath.Join(baseDbDir, "trades"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening trades db: %w", err)
	}

	return &DbManager{Store: tradeDb}, nil
}

type repoManager struct {
	db              *DbManager
	tradeRepository domain.TradeRepository
}

// NewRepoManager returns a badger-backed storage backend rooted at the
// given data directory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	db, err := NewDbManager(baseDbDir, logger)
	if err != nil {
		return nil, err
	}

	return &repoManager{
		db:              db,
		tradeRepository: NewTradeRepositoryImpl(db),
	}, nil
}

func (m *repoManager) TradeRepository() domain.TradeRepository {
	return m.tradeRepository
}

func (m *repoManager) Close() error {
	return m.db.Store.Close()
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
