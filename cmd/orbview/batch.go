// cmd/orbview/batch.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/orbview/orbview/pkg/log"
	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/scope"
	"github.com/orbview/orbview/pkg/util"
)

// renderBatch renders every parameter JSON file in dir to an SVG of the
// same name, concurrently. A failure in one file stops the batch.
func renderBatch(dir string, width, height int, opts scope.Options, lg *log.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	entries = util.FilterSlice(entries, func(e os.DirEntry) bool {
		return !e.IsDir() && strings.HasSuffix(e.Name(), ".json")
	})

	var eg errgroup.Group
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		eg.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var params orbit.OrbitalParameters
			if err := json.Unmarshal(b, &params); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			scene := scope.BuildScene(params, [2]float32{float32(width), float32(height)}, opts)
			out := strings.TrimSuffix(path, ".json") + ".svg"
			return renderSceneSVG(scene, out, lg)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	lg.Infof("batch rendered %d files in %s", len(entries), dir)
	return nil
}
