package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fabric-artifact-manager/internal/core/domain"
)

// RowError annotates a rejected CSV row with its 1-based row number. Bad rows
// are reported individually; they never abort the import.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseBulkCSV reads (workspace, dataset) pairs for a bulk operation. The
// header must include workspace_id and dataset_id columns (case-insensitive);
// workspace_name/workspace and dataset_name/model_name are optional aliases.
// Duplicate (workspace_id, dataset_id) pairs keep the first occurrence.
func ParseBulkCSV(r io.Reader) ([]domain.BatchEntry, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	wsIDCol, wsIDOk := columns["workspace_id"]
	dsIDCol, dsIDOk := columns["dataset_id"]
	if !wsIDOk || !dsIDOk {
		return nil, nil, domain.ErrMissingCSVColumn
	}

	wsNameCol := firstColumn(columns, "workspace_name", "workspace")
	dsNameCol := firstColumn(columns, "dataset_name", "model_name")

	var (
		entries   []domain.BatchEntry
		rowErrors []RowError
		seen      = map[domain.InventoryKey]bool{}
	)

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
			continue
		}

		workspaceID := fieldAt(record, wsIDCol)
		datasetID := fieldAt(record, dsIDCol)
		if workspaceID == "" || datasetID == "" {
			rowErrors = append(rowErrors, RowError{
				Row:     row,
				Message: "workspace_id and dataset_id are required",
			})
			continue
		}

		key := domain.InventoryKey{WorkspaceID: workspaceID, ArtifactID: datasetID}
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, domain.BatchEntry{
			WorkspaceID:   workspaceID,
			ArtifactID:    datasetID,
			WorkspaceName: fieldAt(record, wsNameCol),
			ArtifactName:  fieldAt(record, dsNameCol),
			Status:        domain.BatchStatusMissing,
		})
	}

	return entries, rowErrors, nil
}

func firstColumn(columns map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := columns[name]; ok {
			return i
		}
	}
	return -1
}

func fieldAt(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
