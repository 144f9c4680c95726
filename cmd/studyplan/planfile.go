package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Nahnamehran/study-planner/models"
)

// loadRecord reads a plan file written by generate.
func loadRecord(path string) (*models.PlanRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	var record models.PlanRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}
	if record.Plan.Variant != models.VariantFullDay && record.Plan.Variant != models.VariantMultiDay {
		return nil, fmt.Errorf("plan file %s has unknown variant %q", path, record.Plan.Variant)
	}
	return &record, nil
}

// saveRecord writes through a temp file so a crash never leaves half a plan behind.
func saveRecord(path string, record *models.PlanRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace plan file: %w", err)
	}
	return nil
}
