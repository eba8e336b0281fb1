// pkg/scope/snapshot.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scope

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Scene snapshots are msgpack-encoded and zstd-compressed. They carry a
// built scene between processes so that a snapshot can be re-rendered
// without recomputing any geometry.

// EncodeScene writes the scene to w in snapshot format.
func EncodeScene(w io.Writer, s *Scene) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(s); err != nil {
		zw.Close()
		return fmt.Errorf("encoding scene: %w", err)
	}
	return zw.Close()
}

// DecodeScene reads a scene in snapshot format from r.
func DecodeScene(r io.Reader) (*Scene, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer zr.Close()

	var s Scene
	if err := msgpack.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return &s, nil
}

// WriteScene writes the scene snapshot to the file at path.
func WriteScene(path string, s *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeScene(f, s); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ReadScene reads a scene snapshot from the file at path.
func ReadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := DecodeScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
