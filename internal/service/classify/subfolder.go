package classify

import (
	"strings"

	"caseflow/internal/domain/models/casefile"
)

// SubfolderMatch is the targeting decision for a classified document
// inside a client folder.
type SubfolderMatch struct {
	// TargetFolderID is the folder the document should move into. When no
	// matching subfolder exists this is the client folder itself.
	TargetFolderID string

	// FolderPath is the human-readable path, client folder first.
	FolderPath []string

	// SuggestedSubfolderName is non-empty when no matching subfolder was
	// found: the caller should prompt subfolder creation rather than
	// silently filing into the client root.
	SuggestedSubfolderName string
}

// FindAppropriateSubfolder decides which subfolder of a client folder a
// classified document belongs to. Only the client folder's immediate
// children are searched - one level of nesting is a deliberate behavior
// choice, not an accident. A child matches by declared type or by
// case-insensitive name substring of the wanted subfolder name.
func (c *Classifier) FindAppropriateSubfolder(clientFolder *casefile.FolderStructure, isForm47, isForm76, isFinancial bool) SubfolderMatch {
	var wantedType string
	switch {
	case isForm47 || isForm76:
		wantedType = casefile.FolderTypeForm
	case isFinancial:
		wantedType = casefile.FolderTypeFinancial
	default:
		wantedType = casefile.FolderTypeGeneral
	}
	wantedName := c.rules.Subfolders[wantedType].Name

	for i := range clientFolder.Children {
		child := &clientFolder.Children[i]
		if child.Type == wantedType ||
			strings.Contains(strings.ToLower(child.Name), strings.ToLower(wantedName)) {
			return SubfolderMatch{
				TargetFolderID: child.ID,
				FolderPath:     []string{clientFolder.Name, child.Name},
			}
		}
	}

	return SubfolderMatch{
		TargetFolderID:         clientFolder.ID,
		FolderPath:             []string{clientFolder.Name},
		SuggestedSubfolderName: wantedName,
	}
}
