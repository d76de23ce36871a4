package domain

// BatchEntryStatus classifies one (workspace, artifact) pair against the
// local inventory. Entries are session-scoped and never persisted.
type BatchEntryStatus string

const (
	BatchStatusLocal   BatchEntryStatus = "local"
	BatchStatusMissing BatchEntryStatus = "missing"
	BatchStatusError   BatchEntryStatus = "error"
)

// BatchEntry pairs an artifact reference with its reconciled status.
type BatchEntry struct {
	WorkspaceID   string           `json:"workspace_id"`
	ArtifactID    string           `json:"dataset_id"`
	WorkspaceName string           `json:"workspace_name,omitempty"`
	ArtifactName  string           `json:"dataset_name,omitempty"`
	Status        BatchEntryStatus `json:"status"`
	HasBackup     bool             `json:"has_backup"`
	FolderPath    string           `json:"folder_path,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// Key returns the identity a batch entry is matched and reported by.
func (e BatchEntry) Key() InventoryKey {
	return InventoryKey{WorkspaceID: e.WorkspaceID, ArtifactID: e.ArtifactID}
}

// InventoryKey identifies an artifact across local and remote inventories.
type InventoryKey struct {
	WorkspaceID string
	ArtifactID  string
}

// BatchOperation selects the per-item action a batch run performs.
type BatchOperation string

const (
	BatchOpDownload BatchOperation = "download"
	BatchOpDeploy   BatchOperation = "deploy"
	BatchOpReplace  BatchOperation = "update-keywords"
	BatchOpRevert   BatchOperation = "revert"
)

// BatchItemResult is the outcome of one item in a batch. Results are keyed by
// item identity, never by loop position, since workers complete out of order.
type BatchItemResult struct {
	WorkspaceID  string         `json:"workspace_id"`
	ArtifactID   string         `json:"dataset_id"`
	Status       string         `json:"status"` // success | failed
	Error        string         `json:"error,omitempty"`
	FilesUpdated int            `json:"files_updated,omitempty"`
	Replacements map[string]int `json:"replacements,omitempty"`
}

// BatchSummary aggregates a whole batch run.
// Invariant: Successful + Failed == Total == len(Results).
type BatchSummary struct {
	Total               int               `json:"total"`
	Successful          int               `json:"successful"`
	Failed              int               `json:"failed"`
	Results             []BatchItemResult `json:"results"`
	ReplacementsSummary map[string]int    `json:"replacements_summary,omitempty"`
}
