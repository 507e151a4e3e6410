//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payday/internal/core"
	"payday/internal/cycle"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_AppendExpense(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := Config{
		SpreadsheetID:      os.Getenv("GOOGLE_SPREADSHEET_ID"),
		SheetName:          os.Getenv("GOOGLE_SHEET_NAME"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
	}
	if cfg.SpreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	if cfg.ServiceAccountFile == "" && cfg.ServiceAccountJSON == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewFromConfig(ctx, cfg)
	require.NoError(t, err, "create client")

	e := core.Expense{Date: core.DateOf(time.Now()), Category: core.Other, Amount: core.Money{Cents: 1}}
	ref, err := client.AppendExpense(ctx, e, cycle.For(e.Date).Start)
	require.NoError(t, err, "append expense")
	assert.Contains(t, ref, "!", "expected A1 range reference")
	t.Logf("Appended test row at %s", ref)
}
