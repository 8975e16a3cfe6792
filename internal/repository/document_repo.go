package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// DocumentSearcher expone la búsqueda semántica sobre el índice de documentos.
type DocumentSearcher interface {
	Search(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]string, error)
}

// PgDocumentRepository busca fragmentos del manual de usuario precomputados
// en una tabla con columna vectorial (extensión pgvector).
type PgDocumentRepository struct {
	pool *pgxpool.Pool
}

func NewPgDocumentRepository(pool *pgxpool.Pool) *PgDocumentRepository {
	return &PgDocumentRepository{pool: pool}
}

func (r *PgDocumentRepository) Search(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]string, error) {
	if k <= 0 {
		k = 3
	}
	const query = `
		SELECT content
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, queryEmbedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		texts = append(texts, content)
	}
	return texts, rows.Err()
}

var _ DocumentSearcher = (*PgDocumentRepository)(nil)
