// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/sha256"
	"math/big"
)

// inPartition reports whether name falls into the given partition. The
// assignment hashes the full name so it is stable across runs and machines.
func inPartition(name string, partition, numPartitions int) bool {
	sum := sha256.Sum256([]byte(name))
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, big.NewInt(int64(numPartitions))).Int64() == int64(partition)
}

func filterPartition(names []string, partition, numPartitions int) []string {
	var out []string
	for _, name := range names {
		if inPartition(name, partition, numPartitions) {
			out = append(out, name)
		}
	}
	return out
}
