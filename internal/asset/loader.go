package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// LoadIndexFile reads an asset index from disk. YAML and JSON files hold a flat
// mapping of name to handle; XLSX files hold name and handle in the first two
// columns of the first sheet, below a header row.
func LoadIndexFile(path string) (*Index, error) {
	var (
		entries map[string]model.AssetHandle
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		entries, err = readMappingFile(path)
	case ".xlsx":
		entries, err = ReadIndexXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported asset index format: %s", path)
	}
	if err != nil {
		return nil, err
	}

	idx := NewIndex(entries)
	logger.Info("Asset index loaded", map[string]interface{}{
		"path":    path,
		"entries": idx.Len(),
	})
	return idx, nil
}

// readMappingFile parses YAML, which also covers JSON documents.
func readMappingFile(path string) (map[string]model.AssetHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset index: %w", err)
	}

	entries := map[string]model.AssetHandle{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse asset index %s: %w", path, err)
	}
	return entries, nil
}

// ReadIndexXLSX reads name/handle rows from the first sheet. Rows with a blank
// name or a non-numeric handle are skipped.
func ReadIndexXLSX(path string) (map[string]model.AssetHandle, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	entries := map[string]model.AssetHandle{}
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			skipped++
			continue
		}
		name := strings.TrimSpace(row[0])
		handle, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if name == "" || err != nil {
			skipped++
			continue
		}
		entries[name] = model.AssetHandle(handle)
	}

	if skipped > 0 {
		logger.Warn("Skipped invalid asset index rows", map[string]interface{}{
			"path":    path,
			"skipped": skipped,
		})
	}
	return entries, nil
}

// WriteIndexYAML writes entries as a sorted YAML mapping.
func WriteIndexYAML(path string, entries map[string]model.AssetHandle) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode asset index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write asset index: %w", err)
	}
	return nil
}
