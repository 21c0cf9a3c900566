// Package modlog keeps an append-only audit of file mutations in a
// bbolt database. Records are never rewritten, only appended.
package modlog

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("modifications")

// Record is a single logged file operation.
type Record struct {
	Timestamp string   `json:"timestamp"`
	Action    string   `json:"action"`
	Sources   []string `json:"sources"`
	Dest      string   `json:"dest,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// Log is an append-only mutation log backed by bbolt.
type Log struct {
	db *bolt.DB
}

// Open opens (or creates) the log database at path.
func Open(path string) (*Log, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open modification log: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create log bucket: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append stores one operation record under the next sequence number.
func (l *Log) Append(action string, sources []string, dest string, errs []string) error {
	record := Record{
		Timestamp: time.Now().Format(time.RFC3339),
		Action:    action,
		Sources:   sources,
		Dest:      dest,
		Errors:    errs,
	}

	data, err := encode(record)
	if err != nil {
		return err
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(sequenceKey(seq), data)
	})
}

// Recent returns up to n most recent records, newest first.
func (l *Log) Recent(n int) ([]Record, error) {
	records := make([]Record, 0, n)

	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			record, err := decode(v)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// sequenceKey renders a sequence number as a sortable big-endian key.
func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func encode(record Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (Record, error) {
	var record Record
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&record)
	return record, err
}
