package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/expedientes/constants"
)

// IngestDirectory walks root, skips hidden entries if requested, and hands
// every document with an allowed extension to proc. Per-file failures are
// recorded and the walk continues; a cancelled ctx stops it.
func IngestDirectory(ctx context.Context, proc FileProcessor, root string, skipHidden bool) ([]Result, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []Result
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, Result{SourcePath: path, Status: constants.JobStatusFailed, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := proc.ProcessPath(ctx, path)
		if err != nil {
			r.SourcePath = path
			r.Status = constants.JobStatusFailed
			r.Err = err.Error()
		}
		results = append(results, r)
		stats.add(r)
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
