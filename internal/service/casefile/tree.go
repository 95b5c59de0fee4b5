package casefile

import (
	"context"
	"log/slog"

	models "caseflow/internal/domain/models/casefile"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	cfSvc "caseflow/internal/domain/services/casefile"
)

type treeService struct {
	repo   cfRepo.DocumentRepository
	logger *slog.Logger
}

// NewTreeService creates the tree projection service
func NewTreeService(repo cfRepo.DocumentRepository, logger *slog.Logger) cfSvc.TreeService {
	return &treeService{repo: repo, logger: logger}
}

// BuildTree loads the whole collection once and assembles nested
// FolderStructure trees for every root-level folder.
func (s *treeService) BuildTree(ctx context.Context) ([]models.FolderStructure, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return buildForest(rows, nil), nil
}

// ClientFolders returns only root-level folders typed "client", with
// their nested children. This is the projection the recommendation
// engine matches client names against.
func (s *treeService) ClientFolders(ctx context.Context) ([]models.FolderStructure, error) {
	forest, err := s.BuildTree(ctx)
	if err != nil {
		return nil, err
	}

	var clients []models.FolderStructure
	for _, folder := range forest {
		if folder.Type == models.FolderTypeClient {
			clients = append(clients, folder)
		}
	}
	return clients, nil
}

// buildForest assembles the folder trees under parentID from the flat
// row list. Rows arrive in creation order and children keep that order.
// A cycle in parent references would recurse forever here; cycles are
// prevented at mutation time, not re-validated on read.
func buildForest(rows []models.Document, parentID *string) []models.FolderStructure {
	var forest []models.FolderStructure
	for i := range rows {
		row := &rows[i]
		if !row.IsFolder || !sameParent(row.ParentFolderID, parentID) {
			continue
		}
		forest = append(forest, models.FolderStructure{
			ID:       row.ID,
			Name:     row.Title,
			Type:     row.FolderType,
			Children: buildForest(rows, &row.ID),
		})
	}
	return forest
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
