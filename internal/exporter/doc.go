// Package exporter persists generated datasets and reads them back.
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// appends, atomic replacement and an optional UTF-8 BOM for Excel.
//
// LedgerWriter: Writes a generated table in the 9-column ledger schema
// (`TransactionID,CustomerID,Date,Amount,Category,Location,Source,IsFraud,Hour`),
// without a BOM, through a temp file renamed into place.
//
// ReadLedger / DecodeLedger: Parse a ledger file back into transactions,
// rejecting files whose header drifted from the schema.
//
// WorkbookExporter: Writes the ledger and its summary as an xlsx workbook.
//
// Manifest: A JSON fingerprint (blake2b-256) of a written ledger file.
//
// Example usage:
//
//	lw := exporter.NewLedgerWriter(paths, logger)
//	data, err := lw.WriteLedger(paths.LedgerCSV, table)
//	if err != nil {
//	    return err
//	}
//	manifest := exporter.NewManifest(table.Seed(), table.Rows(), data)
//	err = exporter.WriteManifest(paths.ManifestJSON, manifest)
package exporter
