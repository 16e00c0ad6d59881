package validate

import (
	"context"
	"errors"
	"testing"

	"chatline/internal/config"
	"chatline/internal/scripts"
)

type mockHistory struct {
	records map[string][]string
	err     error
}

func (m *mockHistory) Load(ctx context.Context, sender string) ([]string, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	keys, ok := m.records[sender]
	return keys, ok, nil
}

func fullTables() *config.Tables {
	return &config.Tables{
		Author: map[string]string{"AM_1": "Hi", "AM_3_Y": "Great", "AM_3_N": "Oh"},
		Player: map[string]string{"PM_2_Y": "Yes", "PM_2_N": "No"},
	}
}

func codes(report *Report) map[string]int {
	out := make(map[string]int)
	for _, issue := range report.Issues {
		out[issue.Code]++
	}
	return out
}

func TestRunCleanScript(t *testing.T) {
	set := []scripts.Script{{Sender: "Alice", Keys: []string{"AM_1", "PC_2", "AC_3"}}}

	report, err := Run(context.Background(), set, fullTables(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
}

func TestRunScriptIssues(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		tables   *config.Tables
		code     string
		severity Severity
	}{
		{name: "invalid key", keys: []string{"XX_1"}, tables: fullTables(), code: codeInvalidKey, severity: SeverityError},
		{name: "duplicate key", keys: []string{"AM_1", "AM_1"}, tables: fullTables(), code: codeDuplicateKey, severity: SeverityWarn},
		{name: "conditional without answer", keys: []string{"AM_1", "AC_3"}, tables: fullTables(), code: codeUnresolvable, severity: SeverityWarn},
		{name: "conditional after plain player line", keys: []string{"PM_2_Y", "PM_9", "AC_3"}, tables: fullTables(), code: codeUnresolvable, severity: SeverityWarn},
		{name: "choice suffix", keys: []string{"PC_2_Y"}, tables: fullTables(), code: codeChoiceSuffix, severity: SeverityWarn},
		{name: "conditional suffix", keys: []string{"PC_2", "AC_3_N"}, tables: fullTables(), code: codeChoiceSuffix, severity: SeverityWarn},
		{name: "missing text", keys: []string{"AM_7"}, tables: fullTables(), code: codeMissingText, severity: SeverityWarn},
		{name: "missing table", keys: []string{"AM_1", "PM_2_Y"}, tables: &config.Tables{Author: map[string]string{"AM_1": "Hi"}}, code: codeMissingTable, severity: SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := []scripts.Script{{Sender: "Alice", Keys: tt.keys, SourceFile: "alice.md"}}
			report, err := Run(context.Background(), set, tt.tables, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			var found *Issue
			for i := range report.Issues {
				if report.Issues[i].Code == tt.code {
					found = &report.Issues[i]
					break
				}
			}
			if found == nil {
				t.Fatalf("expected %s issue, got %+v", tt.code, report.Issues)
			}
			if found.Severity != tt.severity {
				t.Fatalf("expected severity %s, got %s", tt.severity, found.Severity)
			}
			if found.Sender != "Alice" || found.FilePath != "alice.md" {
				t.Fatalf("issue missing location: %+v", found)
			}
		})
	}
}

func TestRunMissingTableReportedOnce(t *testing.T) {
	set := []scripts.Script{{Sender: "Alice", Keys: []string{"PM_1", "PM_2", "PC_3"}}}
	report, err := Run(context.Background(), set, &config.Tables{Author: map[string]string{}}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := codes(report)[codeMissingTable]; got != 1 {
		t.Fatalf("expected one missing table issue, got %d", got)
	}
	if got := codes(report)[codeMissingText]; got != 0 {
		t.Fatalf("missing tables should not also report missing text, got %d", got)
	}
}

func TestRunStoredHistory(t *testing.T) {
	set := []scripts.Script{{Sender: "Alice", Keys: []string{"AM_1", "PC_2"}}}
	history := &mockHistory{records: map[string][]string{
		"Alice": {"AM_1", "PM_2_N", "AM_old"},
	}}

	report, err := Run(context.Background(), set, fullTables(), history)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := codes(report)
	if got[codeStaleHistory] != 1 {
		t.Fatalf("expected one stale history issue, got %+v", report.Issues)
	}
	if got[codeHistoryPastScript] != 1 {
		t.Fatalf("expected history past script issue, got %+v", report.Issues)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), nil, nil, nil); err == nil {
		t.Fatalf("expected error without tables")
	}

	set := []scripts.Script{{Sender: "Alice", Keys: []string{"AM_1"}}}
	_, err := Run(context.Background(), set, fullTables(), &mockHistory{err: errors.New("boom")})
	if err == nil {
		t.Fatalf("expected history error to surface")
	}
}
