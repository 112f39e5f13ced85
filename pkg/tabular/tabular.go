// Package tabular is the ledger store contract: named tables of positional
// string rows, supporting append, read-all and delete-by-index. Updates are
// composed by callers as delete+append; there is no in-place write. Adapters
// exist for Bolt (single local file), DynamoDB and an in-memory map.
package tabular

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Row is one table row in column order.
type Row []string

// Store is the durable tabular backend. Tables are created lazily on first
// append; reading an absent table yields no rows and no error.
type Store interface {
	Append(ctx context.Context, table string, row Row) error
	ReadAll(ctx context.Context, table string) ([]Row, error)
	// DeleteRow removes the row at the given zero-based position in
	// append order. Rows after it shift down by one.
	DeleteRow(ctx context.Context, table string, index int) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string // bolt | dynamo | memory
	BoltPath    string
	DynamoTable string
	Region      string
	Endpoint    string // custom endpoint for local DynamoDB
}

// NewStore builds the configured backend.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "bolt":
		return OpenBolt(opts.BoltPath)
	case "dynamo", "dynamodb":
		return NewDynamo(ctx, opts.DynamoTable, opts.Region, opts.Endpoint)
	case "memory":
		return NewMemory(), nil
	}
	return nil, errors.Errorf("unknown store backend %q", opts.Backend)
}
