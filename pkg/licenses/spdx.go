// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package licenses

// Restriction tags attached to identified licenses.
const (
	RestrictionDerivativeWorkCopyleft = "derivative-work-copyleft"
	RestrictionNetworkCopyleft        = "network-copyleft"
	RestrictionPatentGrant            = "patent-grant"
	RestrictionCommercial             = "commercial-restrictions"
	RestrictionUserDataAccess         = "user-data-access"
	RestrictionCryptographicAutonomy  = "cryptographic-autonomy"
	RestrictionWeakCopyleft           = "weak-copyleft"
)

type spdxInfo struct {
	OSIApproved  bool
	Restrictions []string
}

// spdxMeta records OSI approval and restriction tags per SPDX identifier.
// Identifiers absent here are still reported, just without metadata.
var spdxMeta = map[string]spdxInfo{
	"MIT":          {OSIApproved: true},
	"MIT-0":        {OSIApproved: true},
	"0BSD":         {OSIApproved: true},
	"BSD-2-Clause": {OSIApproved: true},
	"BSD-3-Clause": {OSIApproved: true},
	"BSD-4-Clause": {},
	"ISC":          {OSIApproved: true},
	"Zlib":         {OSIApproved: true},
	"Unlicense":    {OSIApproved: true},
	"WTFPL":        {},
	"CC0-1.0":      {},
	"Apache-2.0":   {OSIApproved: true, Restrictions: []string{RestrictionPatentGrant}},
	"MPL-2.0":      {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft, RestrictionPatentGrant}},
	"MPL-1.1":      {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"EPL-1.0":      {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"EPL-2.0":      {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft, RestrictionPatentGrant}},
	"LGPL-2.0-only":     {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"LGPL-2.1-only":     {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"LGPL-2.1-or-later": {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"LGPL-3.0-only":     {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"LGPL-3.0-or-later": {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
	"GPL-2.0-only":      {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft}},
	"GPL-2.0-or-later":  {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft}},
	"GPL-3.0-only":      {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionPatentGrant}},
	"GPL-3.0-or-later":  {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionPatentGrant}},
	"AGPL-3.0-only":     {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionNetworkCopyleft, RestrictionPatentGrant}},
	"AGPL-3.0-or-later": {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionNetworkCopyleft, RestrictionPatentGrant}},
	"EUPL-1.2":          {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionNetworkCopyleft}},
	"OSL-3.0":           {OSIApproved: true, Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionNetworkCopyleft, RestrictionPatentGrant}},
	"SSPL-1.0":          {Restrictions: []string{RestrictionDerivativeWorkCopyleft, RestrictionNetworkCopyleft, RestrictionUserDataAccess}},
	"BUSL-1.1":          {Restrictions: []string{RestrictionCommercial}},
	"CC-BY-NC-4.0":      {Restrictions: []string{RestrictionCommercial}},
	"CAL-1.0":           {OSIApproved: true, Restrictions: []string{RestrictionNetworkCopyleft, RestrictionCryptographicAutonomy, RestrictionUserDataAccess, RestrictionPatentGrant}},
	"Artistic-2.0":      {OSIApproved: true},
	"PSF-2.0":           {},
	"CDDL-1.0":          {OSIApproved: true, Restrictions: []string{RestrictionWeakCopyleft}},
}
