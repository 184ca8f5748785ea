package services

import (
	"fmt"
	"math/rand"
	"time"
)

// NewQuoteID generates an imported-quote id, e.g. CQ-20260115093041-421.
// The random suffix keeps ids unique when two imports land in the same
// second.
func NewQuoteID(now time.Time) string {
	return fmt.Sprintf("CQ-%s-%d", now.Format("20060102150405"), rand.Intn(1000))
}

// NewInvoiceID generates an invoice id, e.g. INV-20260115093041.
func NewInvoiceID(now time.Time) string {
	return fmt.Sprintf("INV-%s", now.Format("20060102150405"))
}

// DocumentFileName builds the stored file name for a generated PDF,
// e.g. 【見積書】外壁改修工事_20260115.pdf.
func DocumentFileName(docLabel, subject string, now time.Time) string {
	return fmt.Sprintf("【%s】%s_%s.pdf", docLabel, sanitizeFileName(subject), now.Format("20060102"))
}

// sanitizeFileName removes characters that are unsafe for file names.
func sanitizeFileName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', '?', '%', '*', ':', '|', '"', '<', '>':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
