package domain

// Mapping is one (old, new) server-name substitution. Mappings travel as an
// ordered list, never a map: when two mappings could match overlapping text,
// the earlier one wins, so order is part of the contract.
type Mapping struct {
	Old string `json:"old_server"`
	New string `json:"new_server"`
}

// ReplacementStatus classifies a keyword replacement run.
type ReplacementStatus string

const (
	ReplacementUpdated   ReplacementStatus = "updated"
	ReplacementNoChanges ReplacementStatus = "no_changes"
	ReplacementFailed    ReplacementStatus = "failed"
)

// ReplacementStats reports a keyword replacement run. Replacements holds one
// entry per mapping that matched at least once, accumulated across all files;
// zero-match mappings are omitted.
type ReplacementStats struct {
	Status       ReplacementStatus `json:"status"`
	FilesUpdated int               `json:"files_updated"`
	Replacements map[string]int    `json:"replacements"`
	Error        string            `json:"error,omitempty"`
}
