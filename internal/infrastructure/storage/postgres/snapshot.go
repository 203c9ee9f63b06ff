package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"fifostock/pkg/logger"
)

// SnapshotVersion identifies the export format. Bump on breaking changes.
const SnapshotVersion = 1

// Snapshot is a point-in-time export of the full ledger state.
// Rows are exported as raw JSON so the format does not depend on
// domain model evolution.
type Snapshot struct {
	Version   int               `json:"version"`
	TakenAt   time.Time         `json:"taken_at"`
	Tables    map[string]int    `json:"tables"`
	Products  []json.RawMessage `json:"products"`
	Lots      []json.RawMessage `json:"purchase_lots"`
	Sales     []json.RawMessage `json:"sales"`
	Movements []json.RawMessage `json:"stock_movements"`
}

// SnapshotService exports the ledger as a zstd-compressed JSON document.
// Used for scheduled backups and the admin export endpoint.
type SnapshotService struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(txManager *TxManager) (*SnapshotService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &SnapshotService{
		txManager: txManager,
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// Export reads all ledger tables inside one read-only transaction and
// returns the compressed snapshot bytes. The single transaction keeps
// the exported tables mutually consistent.
func (s *SnapshotService) Export(ctx context.Context) ([]byte, error) {
	snap := &Snapshot{
		Version: SnapshotVersion,
		TakenAt: time.Now().UTC(),
		Tables:  make(map[string]int),
	}

	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if snap.Products, err = s.exportTable(ctx, "products", "code"); err != nil {
			return err
		}
		if snap.Lots, err = s.exportTable(ctx, "purchase_lots", "occurred_at, id"); err != nil {
			return err
		}
		if snap.Sales, err = s.exportTable(ctx, "sales", "occurred_at, id"); err != nil {
			return err
		}
		if snap.Movements, err = s.exportTable(ctx, "stock_movements", "created_at, id"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap.Tables["products"] = len(snap.Products)
	snap.Tables["purchase_lots"] = len(snap.Lots)
	snap.Tables["sales"] = len(snap.Sales)
	snap.Tables["stock_movements"] = len(snap.Movements)

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	compressed := s.encoder.EncodeAll(raw, nil)

	logger.Info(ctx, "ledger snapshot exported",
		"raw_bytes", len(raw),
		"compressed_bytes", len(compressed),
		"tables", snap.Tables,
	)

	return compressed, nil
}

// Decode decompresses and parses snapshot bytes produced by Export.
func (s *SnapshotService) Decode(data []byte) (*Snapshot, error) {
	raw, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	return &snap, nil
}

// exportTable serializes every row of a table to JSON using Postgres'
// own row_to_json, so column types marshal the same way they are stored.
func (s *SnapshotService) exportTable(ctx context.Context, table, orderBy string) ([]json.RawMessage, error) {
	querier := s.txManager.GetQuerier(ctx)

	sql := fmt.Sprintf("SELECT row_to_json(t) FROM (SELECT * FROM %s ORDER BY %s) t", table, orderBy)

	var rows []json.RawMessage
	if err := pgxscan.Select(ctx, querier, &rows, sql); err != nil {
		return nil, fmt.Errorf("export %s: %w", table, err)
	}

	return rows, nil
}
