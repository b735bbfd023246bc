package storage

import (
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v3"
)

// FogIdentifier is the one setting the device persists across power
// cycles (§6: "exactly one value survives power cycles").
type FogIdentifier uint8

const (
	FogNone FogIdentifier = iota
	FogMobMain
	FogMobTest
	FogSignalMain
	FogSignalTest
)

func (f FogIdentifier) String() string {
	switch f {
	case FogNone:
		return "none"
	case FogMobMain:
		return "mob-main"
	case FogMobTest:
		return "mob-test"
	case FogSignalMain:
		return "signal-main"
	case FogSignalTest:
		return "signal-test"
	default:
		return "unknown"
	}
}

// Settings wraps BadgerDB as the device's single persisted-state
// store: one fog identifier byte per account index, nothing else.
type Settings struct {
	db *badger.DB
}

// Open opens or creates the settings store at path.
func Open(path string) (*Settings, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Settings{db: db}, nil
}

// Close closes the store.
func (s *Settings) Close() error {
	return s.db.Close()
}

// SetFogIdentifier records the fog identifier for an account index.
func (s *Settings) SetFogIdentifier(accountIndex uint32, fog FogIdentifier) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(fogKey(accountIndex), []byte{byte(fog)})
	})
}

// GetFogIdentifier retrieves the fog identifier for an account index,
// defaulting to FogNone if nothing has been set.
func (s *Settings) GetFogIdentifier(accountIndex uint32) (FogIdentifier, error) {
	var fog FogIdentifier

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(fogKey(accountIndex))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				fog = FogNone
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 1 {
				return errors.New("storage: invalid fog identifier record")
			}
			fog = FogIdentifier(val[0])
			return nil
		})
	})

	return fog, err
}

func fogKey(accountIndex uint32) []byte {
	key := make([]byte, 5)
	key[0] = 'f' // fog-identifier prefix
	binary.LittleEndian.PutUint32(key[1:], accountIndex)
	return key
}
