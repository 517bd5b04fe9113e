package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"persona-rag/internal/config"
	"persona-rag/internal/models"
)

// chunkRow is the pgvector-backed table layout. The embedding column type
// is emitted by createTableSQL because its dimensionality is configured,
// not fixed.
type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull"`
	Source        string    `bun:"source"`
	Category      string    `bun:"category"`
	StartIndex    int       `bun:"start_index"`
	Distance      float32   `bun:"distance,scanonly"`
}

// createTableSQL builds the chunks DDL with the configured pgvector
// dimension. Inserts fail if vectors of a different length arrive, which
// catches an embedding model/store mismatch at ingest time.
func createTableSQL(vectorSize int) string {
	return fmt.Sprintf(`CREATE TABLE chunks (
	id BIGSERIAL PRIMARY KEY,
	content TEXT NOT NULL,
	embedding vector(%d) NOT NULL,
	source TEXT,
	category TEXT,
	start_index BIGINT
)`, vectorSize)
}

// PostgresStore keeps chunks in a Postgres table with a pgvector embedding
// column, ordered by the `<->` distance operator at query time.
type PostgresStore struct {
	db         *bun.DB
	vectorSize int
}

// NewPostgresStore connects to the configured Postgres instance.
func NewPostgresStore(storeCfg *config.StoreConfig) (*PostgresStore, error) {
	dsn := storeCfg.PostgresDSN + "?sslmode=disable"
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(storeCfg.PostgresKey)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if storeCfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &PostgresStore{db: db, vectorSize: storeCfg.VectorSize}, nil
}

// Rebuild drops and recreates the chunks table, then inserts everything.
// Not transactional; see the interface note.
func (s *PostgresStore) Rebuild(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	rows, err := toRows(chunks, vectors)
	if err != nil {
		return err
	}

	if _, err := s.db.NewDropTable().Model((*chunkRow)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop chunks table: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, createTableSQL(s.vectorSize)); err != nil {
		return fmt.Errorf("failed to create chunks table: %v", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert chunks: %v", err)
	}
	log.Info().Int("chunks", len(rows)).Msg("rebuilt chunks table")
	return nil
}

// Append inserts chunks into the existing table.
func (s *PostgresStore) Append(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	rows, err := toRows(chunks, vectors)
	if err != nil {
		return err
	}
	if err := s.Ready(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert chunks: %v", err)
	}
	return nil
}

// Search returns the k nearest chunks by pgvector distance, nearest first.
func (s *PostgresStore) Search(ctx context.Context, queryVector []float32, k int) ([]models.SearchResult, error) {
	if err := s.Ready(ctx); err != nil {
		return nil, err
	}

	var rows []chunkRow
	err := s.db.NewSelect().
		Model(&rows).
		Column("content", "source", "category", "start_index").
		ColumnExpr("embedding <-> ? AS distance", queryVector).
		OrderExpr("embedding <-> ?", queryVector).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %v", err)
	}

	out := make([]models.SearchResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.SearchResult{
			Chunk: models.Chunk{
				Content:    row.Content,
				Source:     row.Source,
				Category:   models.Category(row.Category),
				StartIndex: row.StartIndex,
			},
			Distance: row.Distance,
		})
	}
	return out, nil
}

// Count returns the number of stored chunks.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*chunkRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: chunks table: %v", models.ErrCollectionNotFound, err)
	}
	return count, nil
}

// Ready probes the chunks table.
func (s *PostgresStore) Ready(ctx context.Context) error {
	if _, err := s.db.NewSelect().Model((*chunkRow)(nil)).Count(ctx); err != nil {
		return fmt.Errorf("%w: chunks table missing, run a rebuild first: %v", models.ErrCollectionNotFound, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func toRows(chunks []models.Chunk, vectors [][]float32) ([]chunkRow, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	rows := make([]chunkRow, 0, len(chunks))
	for i, chunk := range chunks {
		rows = append(rows, chunkRow{
			Content:    chunk.Content,
			Embedding:  vectors[i],
			Source:     chunk.Source,
			Category:   string(chunk.Category),
			StartIndex: chunk.StartIndex,
		})
	}
	return rows, nil
}
