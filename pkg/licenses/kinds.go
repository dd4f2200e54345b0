// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package licenses

import "strings"

// kindMap folds SPDX identifiers and the display names registries declare
// into license families. Unknown names pass through unchanged.
var kindMap = map[string]string{
	// Registry display names.
	"BSD License":                          "BSD",
	"MIT License":                          "MIT",
	"ISC License (ISCL)":                   "ISC",
	"Apache Software License":              "Apache",
	"Mozilla Public License 2.0 (MPL 2.0)": "MPL",
	"The Unlicense (Unlicense)":            "UNLICENSE",

	"GNU General Public License v2 (GPLv2)":                   "GPL",
	"GNU General Public License v3 (GPLv3)":                   "GPL",
	"GNU Lesser General Public License v2 or later (LGPLv2+)": "LGPL",
	"GNU Lesser General Public License v3 (LGPLv3)":           "LGPL",
	"GNU Affero General Public License v3":                    "AGPL",
	"GNU Affero General Public License v3 or later (AGPLv3+)": "AGPL",
	"Eclipse Public License 2.0 (EPL-2.0)":                    "EPL",
	"European Union Public Licence 1.2 (EUPL 1.2)":            "EUPL",
	"Python Software Foundation License":                      "PSF",
	"Zope Public License":                                     "ZPL",

	// SPDX identifiers.
	"0BSD":               "BSD",
	"BSD-2-Clause":       "BSD",
	"BSD-3-Clause":       "BSD",
	"BSD-3-Clause-Clear": "BSD",
	"BSD-4-Clause":       "BSD",
	"MIT":                "MIT",
	"MIT-0":              "MIT",
	"X11":                "MIT",
	"ISC":                "ISC",
	"Apache-1.1":         "Apache",
	"Apache-2.0":         "Apache",
	"GPL-1.0-only":       "GPL",
	"GPL-2.0-only":       "GPL",
	"GPL-2.0-or-later":   "GPL",
	"GPL-3.0-only":       "GPL",
	"GPL-3.0-or-later":   "GPL",
	"LGPL-2.0-only":      "LGPL",
	"LGPL-2.1-only":      "LGPL",
	"LGPL-2.1-or-later":  "LGPL",
	"LGPL-3.0-only":      "LGPL",
	"LGPL-3.0-or-later":  "LGPL",
	"AGPL-1.0":           "AGPL",
	"AGPL-3.0-only":      "AGPL",
	"AGPL-3.0-or-later":  "AGPL",
	"MPL-1.1":            "MPL",
	"MPL-2.0":            "MPL",
	"EPL-1.0":            "EPL",
	"EPL-2.0":            "EPL",
	"EUPL-1.2":           "EUPL",
	"Unlicense":          "UNLICENSE",
	"WTFPL":              "WTFPL",
	"Zlib":               "ZLIB",
	"CC0-1.0":            "CC0",
	"CC-BY-4.0":          "CC-BY",
	"CC-BY-SA-4.0":       "CC-BY-SA",
	"Artistic-2.0":       "ARTISTIC",
	"CDDL-1.0":           "CDDL",
	"OSL-3.0":            "OSL",
	"PSF-2.0":            "PSF",
	"CAL-1.0":            "CAL",
}

// CommonKind maps a declared license name or SPDX identifier to its license
// family, passing unrecognized names through unchanged.
func CommonKind(name string) string {
	name = strings.TrimSpace(name)
	if kind, ok := kindMap[name]; ok {
		return kind
	}
	return name
}
