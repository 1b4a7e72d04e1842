package testsupport

import (
	"testing"

	"orchive/internal/config"
	"orchive/internal/ledger"
)

// MustOpenLedger opens the ledger configured on cfg and closes it when the test ends.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}
