package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestScanRecord_OmitsEmptyScanFields(t *testing.T) {
	record := ScanRecord{
		ID:        7,
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		RunID:     "b3f1c2de-0000-4000-8000-000000000000",
		ToolName:  "masscan_help",
		InputJSON: `{}`,
		Success:   true,
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	for _, key := range []string{"target", "port", "command", "outcome", "output_text", "error_message", "session_id"} {
		if _, ok := fields[key]; ok {
			t.Errorf("expected %q to be omitted, got %v", key, fields[key])
		}
	}
	for _, key := range []string{"id", "run_id", "tool_name", "exit_code", "duration_ms", "success"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected %q to be present", key)
		}
	}
}

func TestScanRecord_ScanFields(t *testing.T) {
	record := ScanRecord{
		ToolName: "masscan_execute",
		Target:   "10.0.0.0/8",
		Port:     "1-1000",
		Command:  "masscan -p1-1000 10.0.0.0/8",
		Outcome:  "non_zero_exit",
		ExitCode: 1,
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if fields["target"] != "10.0.0.0/8" {
		t.Errorf("expected target 10.0.0.0/8, got %v", fields["target"])
	}
	if fields["outcome"] != "non_zero_exit" {
		t.Errorf("expected outcome non_zero_exit, got %v", fields["outcome"])
	}
	if fields["exit_code"].(float64) != 1 {
		t.Errorf("expected exit_code 1, got %v", fields["exit_code"])
	}
}
