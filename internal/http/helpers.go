package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/message"

	"payday/internal/core"
)

// displayDateLayout renders dates as "27 Sep 2024".
const displayDateLayout = "02 Jan 2006"

// formatAmount renders m in whole units with thousands grouping, prefixed by
// the currency symbol. Negative amounts get a leading minus.
func formatAmount(p *message.Printer, currency string, m core.Money) string {
	units := m.Units()
	if units < 0 {
		return "-" + currency + p.Sprintf("%d", -units)
	}
	return currency + p.Sprintf("%d", units)
}

// formatDecimal renders m as a plain decimal suitable for an input value.
func formatDecimal(m core.Money) string {
	if m.Cents%100 == 0 {
		return fmt.Sprintf("%d", m.Cents/100)
	}
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}

func formatDate(d core.Date) string {
	return d.Format(displayDateLayout)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// barWidth scales amount against max into a 0-100 percentage, keeping
// small non-zero values visible.
func barWidth(amount, max int64) int {
	if max <= 0 || amount <= 0 {
		return 0
	}
	width := int((amount*100 + max/2) / max)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
