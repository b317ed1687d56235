// Package files provides file system operations and discovery utilities
// for generated datasets.
//
// WriteAtomic and WriteFileAtomic replace a file by writing a temp file in
// the same directory and renaming it into place, so readers never observe a
// partially written artifact.
//
// Manager resolves paths against the configured layout (data directory by
// default, reports/ and logs/ prefixes mapped to their directories).
//
// Discovery lists the artifacts present in a directory.
//
//	manager := files.NewManager(paths, logger)
//	if manager.FileExists(config.LedgerFileName) {
//	    // load it
//	}
//
//	datasets, err := files.NewDiscovery(paths.BaseDir).FindDatasets(paths.DataDir)
package files
