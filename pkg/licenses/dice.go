// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package licenses

// diceSimilarity computes the Sørensen-Dice coefficient over character
// bigrams: 2*|A∩B| / (|A|+|B|) with multiset intersection.
func diceSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	bigrams := make(map[string]int)
	for i := 0; i+2 <= len(a); i++ {
		bigrams[a[i:i+2]]++
	}
	var shared int
	for i := 0; i+2 <= len(b); i++ {
		if bigrams[b[i:i+2]] > 0 {
			bigrams[b[i:i+2]]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(a)+len(b)-2)
}
