package casefile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
	"caseflow/internal/domain/repositories"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	"caseflow/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocumentRepository implements DocumentRepository over the shared
// document/folder table.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) cfRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = "id, user_id, title, is_folder, folder_type, parent_folder_id, metadata, ai_processing_status, created_at, updated_at"

// db returns the transaction bound to ctx when one is active, otherwise
// the pool. Lets service-level transactions span multiple repo calls.
func (r *PostgresDocumentRepository) db(ctx context.Context) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Create inserts a new row (document or folder)
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, title, is_folder, folder_type, parent_folder_id, metadata, ai_processing_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Documents)

	_, err := r.db(ctx).Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.IsFolder,
		doc.FolderType,
		doc.ParentFolderID,
		doc.Metadata,
		doc.AIProcessingStatus,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("document '%s': %w", doc.Title, domain.ErrConflict)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a row by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, documentColumns, r.tables.Documents)

	doc, err := r.scanOne(r.db(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update rewrites mutable fields
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, folder_type = $2, parent_folder_id = $3, metadata = $4, ai_processing_status = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Documents)

	result, err := r.db(ctx).Exec(ctx, query,
		doc.Title,
		doc.FolderType,
		doc.ParentFolderID,
		doc.Metadata,
		doc.AIProcessingStatus,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	result, err := r.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns the whole collection in creation order
func (r *PostgresDocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s ORDER BY created_at ASC
	`, documentColumns, r.tables.Documents)

	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListChildren lists rows whose parent is folderID (nil = root level)
func (r *PostgresDocumentRepository) ListChildren(ctx context.Context, folderID *string) ([]models.Document, error) {
	var query string
	var args []any

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE parent_folder_id IS NULL
			ORDER BY is_folder DESC, title ASC
		`, documentColumns, r.tables.Documents)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE parent_folder_id = $1
			ORDER BY is_folder DESC, title ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, *folderID)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// SetParentFolder updates only parent_folder_id (the move mutation)
func (r *PostgresDocumentRepository) SetParentFolder(ctx context.Context, documentID string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET parent_folder_id = $1, updated_at = now() WHERE id = $2
	`, r.tables.Documents)

	result, err := r.db(ctx).Exec(ctx, query, folderID, documentID)
	if err != nil {
		// The target folder may have been deleted between the
		// recommendation and the move.
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("target folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("move document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	return nil
}

// ReparentChildren moves every child of fromID under toID
func (r *PostgresDocumentRepository) ReparentChildren(ctx context.Context, fromID, toID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET parent_folder_id = $1, updated_at = now() WHERE parent_folder_id = $2
	`, r.tables.Documents)

	_, err := r.db(ctx).Exec(ctx, query, toID, fromID)
	if err != nil {
		return fmt.Errorf("reparent children: %w", err)
	}

	return nil
}

// SetProcessingStatus updates only ai_processing_status
func (r *PostgresDocumentRepository) SetProcessingStatus(ctx context.Context, documentID, status string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET ai_processing_status = $1, updated_at = now() WHERE id = $2
	`, r.tables.Documents)

	result, err := r.db(ctx).Exec(ctx, query, status, documentID)
	if err != nil {
		return fmt.Errorf("set processing status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	return nil
}

// SearchByTitle returns non-folder rows matching the query
func (r *PostgresDocumentRepository) SearchByTitle(ctx context.Context, query string) ([]models.Document, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE is_folder = false AND title ILIKE $1
		ORDER BY created_at DESC
	`, documentColumns, r.tables.Documents)

	pattern := "%" + escapeLike(query) + "%"

	rows, err := r.db(ctx).Query(ctx, sql, pattern)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// escapeLike escapes LIKE metacharacters in user-supplied search terms
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *PostgresDocumentRepository) scanOne(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.IsFolder,
		&doc.FolderType,
		&doc.ParentFolderID,
		&doc.Metadata,
		&doc.AIProcessingStatus,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *PostgresDocumentRepository) scanAll(rows pgx.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		doc, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
