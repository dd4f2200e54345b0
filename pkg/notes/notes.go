// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package notes defines the catalog of findings emitted by the scoring
// pipeline. The catalog is data-driven: notes.csv is the contract and is
// embedded at build time, while codes.go gives each code a compile-time
// symbol. Loading fails loudly on any inconsistency between the two.
package notes

import (
	_ "embed"
	"encoding/csv"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
)

//go:embed notes.csv
var rawCatalog []byte

// Code identifies a single note. It serializes as its string value.
type Code string

// Group gates which sub-scores a note contributes to.
type Group string

const (
	GroupAny      Group = "Any"
	GroupHealth   Group = "Health"
	GroupLegal    Group = "Legal"
	GroupMaturity Group = "Maturity"
	GroupSecurity Group = "Security"
)

// Groups lists every valid group in catalog order.
var Groups = []Group{GroupAny, GroupHealth, GroupLegal, GroupMaturity, GroupSecurity}

// Category is a severity label attached to a note.
type Category string

const (
	Healthy       Category = "Healthy"
	Mature        Category = "Mature"
	CautionNeeded Category = "Caution Needed"
	ModerateRisk  Category = "Moderate Risk"
	HighRisk      Category = "High Risk"
	Experimental  Category = "Experimental"
	Stale         Category = "Stale"
	Legacy        Category = "Legacy"
	Unknown       Category = "Unknown"
	Placeholder   Category = "Placeholder"
)

// Categories is the severity order. A sub-score's value is the maximum
// category of its notes under this ordering.
var Categories = []Category{
	Healthy,
	Mature,
	CautionNeeded,
	ModerateRisk,
	HighRisk,
	Experimental,
	Stale,
	Legacy,
	Unknown,
	Placeholder,
}

var categoryRank = func() map[Category]int {
	m := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		m[c] = i
	}
	return m
}()

// Max returns the more severe of two categories.
func Max(a, b Category) Category {
	if categoryRank[b] > categoryRank[a] {
		return b
	}
	return a
}

// Descr is one row of the catalog.
type Descr struct {
	Code        Code     `csv:"code" json:"code"`
	Group       Group    `csv:"group" json:"group"`
	Category    Category `csv:"category" json:"category"`
	Description string   `csv:"description" json:"description"`
	OSSRisk     string   `csv:"oss_risk,omitempty" json:"oss_risk,omitempty"`
}

// Catalog maps every known note code to its description.
var Catalog map[Code]Descr

func init() {
	var err error
	Catalog, err = parseCatalog(rawCatalog)
	if err != nil {
		panic(errors.Wrap(err, "loading note catalog"))
	}
}

func parseCatalog(raw []byte) (map[Code]Descr, error) {
	groups := make(map[Group]bool, len(Groups))
	for _, g := range Groups {
		groups[g] = true
	}
	dec, err := csvutil.NewDecoder(csv.NewReader(strings.NewReader(string(raw))))
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	var rows []Descr
	if err := dec.Decode(&rows); err != nil {
		return nil, errors.Wrap(err, "decoding rows")
	}
	catalog := make(map[Code]Descr, len(rows))
	for _, d := range rows {
		if d.Code == "" {
			return nil, errors.New("empty note code")
		}
		if _, dup := catalog[d.Code]; dup {
			return nil, errors.Errorf("duplicate note code %q", d.Code)
		}
		if !groups[d.Group] {
			return nil, errors.Errorf("note %q: unknown group %q", d.Code, d.Group)
		}
		if _, ok := categoryRank[d.Category]; !ok {
			return nil, errors.Errorf("note %q: unknown category %q", d.Code, d.Category)
		}
		catalog[d.Code] = d
	}
	return catalog, nil
}

// Describe returns the catalog row for a code and whether it is known.
func Describe(c Code) (Descr, bool) {
	d, ok := Catalog[c]
	return d, ok
}

// MustDescribe returns the catalog row for a code, panicking on unknown
// codes. Rules use this so that a code referenced by a rule but absent from
// the catalog fails at first use rather than producing a silent gap.
func MustDescribe(c Code) Descr {
	d, ok := Catalog[c]
	if !ok {
		panic(errors.Errorf("note code %q not present in catalog", c))
	}
	return d
}

// Codes returns all catalog codes, sorted.
func Codes() []Code {
	out := make([]Code, 0, len(Catalog))
	for c := range Catalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
