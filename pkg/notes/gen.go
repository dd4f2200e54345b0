// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

//go:build ignore

// Regenerates codes.go from notes.csv.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"go/format"
	"os"
	"sort"
)

func main() {
	f, err := os.Open("notes.csv")
	if err != nil {
		panic(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		panic(err)
	}
	var codes []string
	for _, row := range rows[1:] {
		codes = append(codes, row[0])
	}
	sort.Strings(codes)
	var buf bytes.Buffer
	buf.WriteString("// Copyright 2025 The OpenSource Score Authors\n")
	buf.WriteString("// SPDX-License-Identifier: Apache-2.0\n\n")
	buf.WriteString("// Code generated by \"go run gen.go\"; DO NOT EDIT.\n\n")
	buf.WriteString("package notes\n\nconst (\n")
	for _, c := range codes {
		fmt.Fprintf(&buf, "\t%s Code = %q\n", c, c)
	}
	buf.WriteString(")\n")
	src, err := format.Source(buf.Bytes())
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile("codes.go", src, 0o644); err != nil {
		panic(err)
	}
}
