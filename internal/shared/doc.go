// Package shared holds helpers used by more than one package of the ledger
// tooling. It carries no domain logic of its own.
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler for asserting on structured log output
//	- Ledger fixtures for building small, hand-crafted transaction tables
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    rows := testutil.SampleTransactions()
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
