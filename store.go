package votecount

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Lord-Y/votecount/logger"
	bolt "go.etcd.io/bbolt"
)

// NewBoltStorage opens or creates the database located in options.DataDir
func NewBoltStorage(options BoltOptions) (*BoltStore, error) {
	var (
		db  *bolt.DB
		err error
	)
	if options.DataDir == "" {
		return nil, ErrDataDirRequired
	}
	if options.Options == nil {
		options.Options = bolt.DefaultOptions
	}
	if options.Logger == nil {
		options.Logger = logger.NewLogger()
	}
	dbdir := filepath.Join(options.DataDir, "db")
	if err := createDirectoryIfNotExist(dbdir, 0750); err != nil {
		return nil, fmt.Errorf("fail to create directory %s: %w", dbdir, err)
	}
	if db, err = bolt.Open(filepath.Join(dbdir, dbFileName), 0600, options.Options); err != nil {
		return nil, err
	}

	store := &BoltStore{
		dataDir: options.DataDir,
		db:      db,
		logger:  options.Logger,
	}

	if !options.Options.ReadOnly {
		if err := store.initializeBuckets(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return store, nil
}

// createDirectoryIfNotExist permits to create directory
// with provided permissions
func createDirectoryIfNotExist(d string, perm fs.FileMode) error {
	if _, err := os.Stat(d); os.IsNotExist(err) {
		if err := os.MkdirAll(d, perm); err != nil {
			return err
		}
		return nil
	}
	return nil
}

// initializeBuckets will initialize all buckets
// required by votecount
func (b *BoltStore) initializeBuckets() error {
	tx, err := b.db.Begin(true)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, name := range bucketNames {
		if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close will close bolt database
func (b *BoltStore) Close() error {
	return b.db.Close()
}

// StoreTabulation stores tabulation metadata
func (b *BoltStore) StoreTabulation(record TabulationRecord) error {
	value, err := encodeTabulationRecord(record)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTabulationsName)).Put([]byte(record.TabulationID), value)
	})
}

// GetTabulation fetches tabulation metadata
func (b *BoltStore) GetTabulation(tabulationID string) (TabulationRecord, error) {
	var record TabulationRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(bucketTabulationsName)).Get([]byte(tabulationID))
		if value == nil {
			return ErrRecordNotFound
		}
		var err error
		record, err = decodeTabulationRecord(value)
		return err
	})
	return record, err
}

// StoreRound stores a round record in the sub bucket of its tabulation
func (b *BoltStore) StoreRound(record RoundRecord) error {
	value, err := encodeRoundRecord(record)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.Bucket([]byte(bucketRoundsName)).CreateBucketIfNotExists([]byte(record.TabulationID))
		if err != nil {
			return err
		}
		return bucket.Put(encodeUint64ToBytes(record.Round), value)
	})
}

// GetRound fetches a single round of the tabulation
func (b *BoltStore) GetRound(tabulationID string, round uint64) (RoundRecord, error) {
	var record RoundRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRoundsName)).Bucket([]byte(tabulationID))
		if bucket == nil {
			return ErrRecordNotFound
		}
		value := bucket.Get(encodeUint64ToBytes(round))
		if value == nil {
			return ErrRecordNotFound
		}
		var err error
		record, err = decodeRoundRecord(value)
		return err
	})
	return record, err
}

// GetRounds returns every round of the tabulation in order
func (b *BoltStore) GetRounds(tabulationID string) ([]RoundRecord, error) {
	var records []RoundRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRoundsName)).Bucket([]byte(tabulationID))
		if bucket == nil {
			return ErrRecordNotFound
		}
		return bucket.ForEach(func(_, v []byte) error {
			record, err := decodeRoundRecord(v)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	return records, err
}

// StoreResult stores the final result of a tabulation
func (b *BoltStore) StoreResult(record RoundRecord) error {
	value, err := encodeRoundRecord(record)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketResultsName)).Put([]byte(record.TabulationID), value)
	})
}

// GetResult fetches the final result of a tabulation
func (b *BoltStore) GetResult(tabulationID string) (RoundRecord, error) {
	var record RoundRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(bucketResultsName)).Get([]byte(tabulationID))
		if value == nil {
			return ErrRecordNotFound
		}
		var err error
		record, err = decodeRoundRecord(value)
		return err
	})
	return record, err
}

// Notify persists tabulation events. Errors are logged and kept
// so that they can be retrieved with Err
func (b *BoltStore) Notify(event Event) {
	var err error
	switch e := event.(type) {
	case TabulationBeginEvent:
		err = b.StoreTabulation(TabulationRecord{
			TabulationID: e.TabulationID,
			Method:       e.Method,
			Seats:        e.Seats,
			Ballots:      len(e.Ballots),
		})
	case RoundCompleteEvent:
		err = b.StoreRound(RoundRecord{
			TabulationID:    e.TabulationID,
			Round:           uint64(e.Round),
			Note:            e.Note,
			CandidateStates: e.CandidateStates,
		})
	case TabulationCompleteEvent:
		err = b.StoreResult(RoundRecord{
			TabulationID:    e.TabulationID,
			Round:           uint64(e.Rounds),
			Note:            e.Note,
			CandidateStates: e.CandidateStates,
		})
	default:
		return
	}
	if err != nil {
		b.logger.Error().Err(err).
			Str("event", event.Kind().String()).
			Msgf("Fail to persist event")
		b.mu.Lock()
		b.lastErr = err
		b.mu.Unlock()
	}
}

// Err returns the last error raised while notified
func (b *BoltStore) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}
