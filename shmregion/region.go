// Package shmregion backs a counters registry's metadata and values regions
// with real OS shared memory, so a writer process and any number of reader
// processes can map the same two byte ranges without passing bytes through
// a socket or RPC.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package shmregion

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Region is a byte slice backed by an mmap'd file, plus the handle needed to
// unmap and close it.
type Region struct {
	Bytes []byte

	file *os.File
}

// Pair is the two regions a counters.Manager or counters.ForeachMetadata
// call needs: metadata and values.
type Pair struct {
	Metadata Region
	Values   Region
}

// Create creates (or truncates) the backing files at metadataPath and
// valuesPath to metadataLen and valuesLen bytes respectively, and maps both
// read-write, MAP_SHARED. Intended for the single writer process.
func Create(metadataPath string, metadataLen int, valuesPath string, valuesLen int) (Pair, error) {
	meta, err := createAndMap(metadataPath, metadataLen, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return Pair{}, fmt.Errorf("shmregion: create metadata region: %w", err)
	}

	values, err := createAndMap(valuesPath, valuesLen, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		_ = meta.Close()
		return Pair{}, fmt.Errorf("shmregion: create values region: %w", err)
	}

	return Pair{Metadata: meta, Values: values}, nil
}

// Open maps existing backing files at metadataPath and valuesPath
// read-only, MAP_SHARED. Intended for reader processes: a read-only mapping
// means a reader can never corrupt the writer's region by mistake.
func Open(metadataPath, valuesPath string) (Pair, error) {
	meta, err := openAndMap(metadataPath, unix.PROT_READ)
	if err != nil {
		return Pair{}, fmt.Errorf("shmregion: open metadata region: %w", err)
	}

	values, err := openAndMap(valuesPath, unix.PROT_READ)
	if err != nil {
		_ = meta.Close()
		return Pair{}, fmt.Errorf("shmregion: open values region: %w", err)
	}

	return Pair{Metadata: meta, Values: values}, nil
}

// Close unmaps and closes both regions. Safe to call once; a second call
// returns an error from the OS, which callers may ignore.
func (p Pair) Close() error {
	errMeta := p.Metadata.Close()
	errValues := p.Values.Close()
	if errMeta != nil {
		return errMeta
	}
	return errValues
}

// Close unmaps r's memory and closes the backing file descriptor.
func (r Region) Close() error {
	if r.Bytes != nil {
		if err := unix.Munmap(r.Bytes); err != nil {
			return fmt.Errorf("shmregion: munmap: %w", err)
		}
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func createAndMap(path string, length int, prot int) (Region, error) {
	if length <= 0 {
		return Region{}, fmt.Errorf("length must be positive, got %d", length)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return Region{}, err
	}

	if err := f.Truncate(int64(length)); err != nil {
		_ = f.Close()
		return Region{}, err
	}

	b, err := unix.Mmap(int(f.Fd()), 0, length, prot, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return Region{}, err
	}

	return Region{Bytes: b, file: f}, nil
}

func openAndMap(path string, prot int) (Region, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return Region{}, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Region{}, err
	}

	b, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), prot, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return Region{}, err
	}

	return Region{Bytes: b, file: f}, nil
}
