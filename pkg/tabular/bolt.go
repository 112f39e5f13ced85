package tabular

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// BoltStore keeps every table as one bucket in a single local file. Rows are
// gob-encoded under big-endian sequence keys, so cursor order is append order.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the store file. The open times out rather than
// blocking forever on a file another process holds.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening store file %q", path)
	}
	return &BoltStore{db: db}, nil
}

func seqKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}

func (s *BoltStore) Append(ctx context.Context, table string, row Row) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return errors.Wrapf(err, "creating bucket %q", table)
		}
		seq, err := b.NextSequence()
		if err != nil {
			return errors.Wrapf(err, "sequence for %q", table)
		}
		var val bytes.Buffer
		if err := gob.NewEncoder(&val).Encode(row); err != nil {
			return errors.Wrapf(err, "encoding row for %q", table)
		}
		return b.Put(seqKey(seq), val.Bytes())
	})
}

func (s *BoltStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	var rows []Row
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var row Row
			if err := gob.NewDecoder(bytes.NewBuffer(v)).Decode(&row); err != nil {
				return errors.Wrapf(err, "decoding row of length %d in %q", len(v), table)
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BoltStore) DeleteRow(ctx context.Context, table string, index int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		if b == nil {
			return errors.Errorf("table %q is empty, no row %d", table, index)
		}
		c := b.Cursor()
		i := 0
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if i == index {
				return b.Delete(k)
			}
			i++
		}
		return errors.Errorf("row %d out of range for table %q (%d rows)", index, table, i)
	})
}

func (s *BoltStore) Close() error { return s.db.Close() }
