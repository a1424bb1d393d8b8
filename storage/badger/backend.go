package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/975125089bb/flutter-app/storage"
)

// checkpointValueLogSize keeps value log files small; a checkpoint holds a
// few thousand short keys.
const checkpointValueLogSize = 16 << 20

// Backend owns the Badger database handle used by the checkpoint repository.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter routes Badger's printf-style logging to slog. Badger's info
// chatter (table loads, compactions) is demoted to debug so it does not
// interleave with the progress line.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Errorf(msg string, items ...any) {
	a.logger.Error(format(msg, items))
}

func (a *slogAdapter) Warningf(msg string, items ...any) {
	a.logger.Warn(format(msg, items))
}

func (a *slogAdapter) Infof(msg string, items ...any) {
	a.logger.Debug(format(msg, items))
}

func (a *slogAdapter) Debugf(msg string, items ...any) {
	a.logger.Debug(format(msg, items))
}

func format(msg string, items []any) string {
	return strings.TrimRight(fmt.Sprintf(msg, items...), "\n")
}

// OpenBackend opens (creating if needed) the database directory at path, or
// an in-memory database when inMemory is set. Writes are synced to disk
// before a commit returns.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path).
			WithSyncWrites(true).
			WithValueLogFileSize(checkpointValueLogSize)
	}

	logger := slog.Default().With("component", "badger")
	opts = opts.
		WithLogger(&slogAdapter{logger: logger}).
		WithCompression(options.None).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint database %s: %w", path, err)
	}

	return &Backend{
		db:     db,
		logger: logger,
	}, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, storage.ErrNotDirectory)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction that is discarded afterwards. Write
// transactions must be committed by fn.
func (b *Backend) WithTx(ctx context.Context, fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
