// Package dataprocessing turns a generated or loaded ledger into derived
// datasets and reports.
//
// # Components
//
//  1. Summarizer: exploratory statistics (fraud rate overall and by hour,
//     fraud locations, amount distributions for normal and fraudulent rows,
//     category and source counts) with JSON output.
//  2. BuildLite: a class-rebalanced subset keeping every fraud and a seeded
//     sample of normal rows.
//  3. EncodeFeatures: the numeric matrix and labels a classifier trains on,
//     with label encoders for the categorical columns.
//
// # Usage
//
//	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.DefaultSummarizerConfig())
//	summary := summarizer.Summarize(ctx, rows)
//	if err := summarizer.WriteJSON(ctx, paths.SummaryJSON, summary); err != nil {
//	    return err
//	}
//
//	lite, err := dataprocessing.BuildLite(rows, dataprocessing.DefaultLiteNegatives, 42)
//
// Every function here is deterministic in its inputs; none of them mutate rows.
package dataprocessing
