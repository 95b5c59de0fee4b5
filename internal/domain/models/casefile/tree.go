package casefile

// FolderStructure is the tree-shaped projection of folder rows in the
// shared collection. Consumers walk one level of nesting (a client folder
// and its typed subfolders); deeper levels are carried but not searched
// by the recommendation logic.
type FolderStructure struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Children []FolderStructure `json:"children"`
}
