// Package generator synthesises labeled bank transaction ledgers for fraud
// analysis, plus a small retail sales dataset used by the EDA tooling.
//
// # Ledger generation
//
// Generate builds a table of rowCount transactions from a single seeded
// random stream. Base columns are drawn one column at a time in a fixed
// order (customers, dates, amounts, categories, locations, sources, hours),
// then three fraud injection passes run in order on the same stream:
//
//	1. high amount      ceil(2% of rows), amount x U[5,10)
//	2. suspect customer 30% of the rows of the first five customers, location rewritten
//	3. late night       10% of the rows whose hour is 2, 3 or 4
//
// A row is fraudulent when any pass selected it. Passes only ever set the
// label, never clear it. Which passes touched a row is recorded in
// domain.Transaction.Patterns; that bitmask is not part of the persisted schema.
//
// The same (seed, rowCount) pair always yields the same table. Generate does
// no I/O and no logging; callers own persistence and observability.
//
// # Usage
//
//	table, err := generator.Generate(42, 5000)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(table.Len(), table.FraudCount())
package generator
