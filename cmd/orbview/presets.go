// cmd/orbview/presets.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/orbview/orbview/pkg/orbit"
)

// Presets are named parameter sets stored as a single JSON file in the
// user's config directory. The "default" preset is built in and cannot be
// overwritten.

func presetsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "Orbview", "presets.json"), nil
}

func readPresets() (map[string]orbit.OrbitalParameters, error) {
	path, err := presetsPath()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]orbit.OrbitalParameters), nil
	} else if err != nil {
		return nil, err
	}

	var presets map[string]orbit.OrbitalParameters
	if err := json.Unmarshal(b, &presets); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return presets, nil
}

func fetchPreset(name string) (orbit.OrbitalParameters, error) {
	if name == "default" {
		return orbit.DefaultParameters(), nil
	}

	presets, err := readPresets()
	if err != nil {
		return orbit.OrbitalParameters{}, err
	}
	params, ok := presets[name]
	if !ok {
		return params, fmt.Errorf("%s: unknown preset", name)
	}
	return params, nil
}

func storePreset(name string, params orbit.OrbitalParameters) error {
	if name == "default" {
		return errors.New("cannot overwrite the built-in default preset")
	}

	presets, err := readPresets()
	if err != nil {
		return err
	}
	presets[name] = params

	path, err := presetsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(presets, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func presetNames() ([]string, error) {
	presets, err := readPresets()
	if err != nil {
		return nil, err
	}

	names := []string{"default"}
	for n := range presets {
		names = append(names, n)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
