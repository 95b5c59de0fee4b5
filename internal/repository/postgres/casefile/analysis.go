package casefile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	models "caseflow/internal/domain/models/casefile"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	"caseflow/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAnalysisRepository implements AnalysisRepository.
type PostgresAnalysisRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(config *postgres.RepositoryConfig) cfRepo.AnalysisRepository {
	return &PostgresAnalysisRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByDocument returns the analysis for a document, or nil when none
// exists. Absence is not an error: classification degrades to document
// metadata only.
func (r *PostgresAnalysisRepository) GetByDocument(ctx context.Context, documentID string) (*models.DocumentAnalysis, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, content, created_at
		FROM %s
		WHERE document_id = $1
	`, r.tables.Analyses)

	var analysis models.DocumentAnalysis
	var content []byte
	err := r.pool.QueryRow(ctx, query, documentID).Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&content,
		&analysis.CreatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	if err := json.Unmarshal(content, &analysis.Content); err != nil {
		return nil, fmt.Errorf("decode analysis content: %w", err)
	}

	return &analysis, nil
}

// Upsert stores an analysis, replacing any previous one for the document
func (r *PostgresAnalysisRepository) Upsert(ctx context.Context, analysis *models.DocumentAnalysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}

	content, err := json.Marshal(analysis.Content)
	if err != nil {
		return fmt.Errorf("encode analysis content: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id)
		DO UPDATE SET content = EXCLUDED.content, created_at = EXCLUDED.created_at
	`, r.tables.Analyses)

	if _, err := r.pool.Exec(ctx, query, analysis.ID, analysis.DocumentID, content, analysis.CreatedAt); err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}

	return nil
}
