package utils

import (
	"fmt"
	"math/rand"
)

const (
	CodePrefixSalesOrder  = "SO"
	CodePrefixProcurement = "PO"
	CodePrefixShipment    = "SHIP"
	CodePrefixInvoice     = "INV-M"
)

// GenerateDocumentCode builds codes like "SO-W03-482": prefix, zero-padded
// week, 3-digit random suffix in [100, 899]. Callers retry on the rare
// unique-constraint collision.
func GenerateDocumentCode(prefix string, week int) string {
	return fmt.Sprintf("%s-W%02d-%03d", prefix, week, 100+rand.Intn(800))
}

// FormatEntryNumber builds journal entry numbers like "JE-0007".
func FormatEntryNumber(seq int) string {
	return fmt.Sprintf("JE-%04d", seq)
}
