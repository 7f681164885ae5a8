package store

import (
	"context"
	"database/sql"
	"log/slog"

	"studyrag/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type DBStorer interface {
	SaveDocument(context.Context, types.Document) error
	GetDocumentByID(context.Context, uuid.UUID) (*types.Document, error)
	SaveChunk(context.Context, types.Chunk) error
	DeleteChunksByDocID(context.Context, uuid.UUID) error
	Search(context.Context, []float32, int) ([]types.Chunk, error)
	ListBoards(context.Context) ([]string, error)
	MetadataSummary(context.Context) (map[string][]string, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

func (p *PostgresStore) GetDocumentByID(ctx context.Context, docID uuid.UUID) (*types.Document, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, subject, class_name, chapter, board, topics,
		       source, source_path, created_at, updated_at, version
		FROM documents WHERE id = $1`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, sql.ErrNoRows
	}

	doc := &types.Document{}
	if err := rows.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Metadata.Subject,
		&doc.Metadata.Class,
		&doc.Metadata.Chapter,
		&doc.Metadata.Board,
		&doc.Metadata.Topics,
		&doc.Source,
		&doc.SourcePath,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.Version); err != nil {
		return nil, err
	}
	doc.Metadata = doc.Metadata.WithDerived()
	return doc, nil
}

func (p *PostgresStore) SaveDocument(ctx context.Context, doc types.Document) error {
	query := `INSERT INTO documents (id, title, subject, class_name, chapter, board, topics,
			source, source_path, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			subject = EXCLUDED.subject,
			class_name = EXCLUDED.class_name,
			chapter = EXCLUDED.chapter,
			board = EXCLUDED.board,
			topics = EXCLUDED.topics,
			source = EXCLUDED.source,
			source_path = EXCLUDED.source_path,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version
			`
	_, err := p.pool.Exec(
		ctx,
		query,
		doc.ID,
		doc.Title,
		doc.Metadata.Subject,
		doc.Metadata.Class,
		doc.Metadata.Chapter,
		doc.Metadata.Board,
		doc.Metadata.Topics,
		doc.Source,
		doc.SourcePath,
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.Version,
	)

	return err
}

func (p *PostgresStore) DeleteChunksByDocID(ctx context.Context, docID uuid.UUID) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM chunks WHERE doc_id = $1", docID)
	return err
}

func (p *PostgresStore) SaveChunk(ctx context.Context, c types.Chunk) error {
	query := `
    INSERT INTO chunks (id, doc_id, position, total, heading, content,
		word_count, char_count,
		subject, class_name, chapter, board, region, curriculum_type, topics,
		embedding)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `
	_, err := p.pool.Exec(ctx, query,
		c.ID, c.DocID, c.Index, c.Total, c.Heading, c.Content,
		c.WordCount, c.CharCount,
		c.Metadata.Subject, c.Metadata.Class, c.Metadata.Chapter,
		c.Metadata.Board, c.Metadata.Region, c.Metadata.CurriculumType,
		c.Metadata.Topics,
		pgvector.NewVector(c.Embedding),
	)
	return err
}

// Search returns the chunks nearest to the query vector by cosine distance,
// most similar first. Distance is reported as a similarity score in [0,1].
func (p *PostgresStore) Search(ctx context.Context, queryVec []float32, limit int) ([]types.Chunk, error) {
	if len(queryVec) == 0 {
		return nil, sql.ErrNoRows
	}

	vector := pgvector.NewVector(queryVec)

	query := `
		SELECT c.id, c.doc_id, c.position, c.total, c.heading, c.content,
		       c.word_count, c.char_count,
		       c.subject, c.class_name, c.chapter, c.board,
		       c.region, c.curriculum_type, c.topics,
		       1 - (c.embedding <=> $1) AS similarity
		FROM chunks c
		WHERE c.embedding IS NOT NULL
		ORDER BY c.embedding <=> $1
		LIMIT $2
	`
	rows, err := p.pool.Query(ctx, query, vector, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []types.Chunk
	for rows.Next() {
		var chunk types.Chunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocID,
			&chunk.Index,
			&chunk.Total,
			&chunk.Heading,
			&chunk.Content,
			&chunk.WordCount,
			&chunk.CharCount,
			&chunk.Metadata.Subject,
			&chunk.Metadata.Class,
			&chunk.Metadata.Chapter,
			&chunk.Metadata.Board,
			&chunk.Metadata.Region,
			&chunk.Metadata.CurriculumType,
			&chunk.Metadata.Topics,
			&chunk.Distance)
		if err != nil {
			return nil, err
		}

		slog.Debug("search hit", "doc", chunk.DocID, "index", chunk.Index, "similarity", chunk.Distance)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// ListBoards returns the distinct boards present in the index.
func (p *PostgresStore) ListBoards(ctx context.Context) ([]string, error) {
	return p.distinctColumn(ctx, "board")
}

// MetadataSummary reports the distinct values of every curriculum metadata
// field in the index.
func (p *PostgresStore) MetadataSummary(ctx context.Context) (map[string][]string, error) {
	summary := make(map[string][]string)

	columns := map[string]string{
		"boards":           "board",
		"classes":          "class_name",
		"subjects":         "subject",
		"curriculum_types": "curriculum_type",
		"regions":          "region",
	}

	for key, column := range columns {
		values, err := p.distinctColumn(ctx, column)
		if err != nil {
			return nil, err
		}
		summary[key] = values
	}

	return summary, nil
}

func (p *PostgresStore) distinctColumn(ctx context.Context, column string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT DISTINCT "+column+" FROM chunks WHERE "+column+" <> '' ORDER BY "+column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (p *PostgresStore) createTables(ctx context.Context) error {

	query := `
	CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		subject TEXT,
		class_name TEXT,
		chapter TEXT,
		board TEXT,
		topics TEXT[],
		source TEXT,
		source_path TEXT,
		created_at TIMESTAMP WITH TIME ZONE,
		updated_at TIMESTAMP WITH TIME ZONE,
		version INTEGER DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_id ON documents(id);

    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS chunks (
        id UUID PRIMARY KEY,
        doc_id UUID NOT NULL,
        position INT NOT NULL,
        total INT NOT NULL,
        heading TEXT,
        content TEXT NOT NULL,
        word_count INT,
        char_count INT,
        subject TEXT,
        class_name TEXT,
        chapter TEXT,
        board TEXT,
        region TEXT,
        curriculum_type TEXT,
        topics TEXT[],
        embedding vector(768)
    );

	CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	-- filter columns used by curriculum-aware retrieval
	CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
	CREATE INDEX IF NOT EXISTS idx_chunks_board ON chunks(board);
	CREATE INDEX IF NOT EXISTS idx_chunks_class ON chunks(class_name);
	CREATE INDEX IF NOT EXISTS idx_chunks_subject ON chunks(subject);
    `
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createTables(ctx)
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		slog.Info("postgres connection pool closed")
	}
	return nil
}
