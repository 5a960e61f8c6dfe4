package domain

import "strings"

// MasterKind names a master list served by the listing API.
type MasterKind string

const (
	KindProjects    MasterKind = "projects"
	KindZones       MasterKind = "zones"
	KindBlocks      MasterKind = "blocks"
	KindUnits       MasterKind = "units"
	KindFurnishings MasterKind = "furnishings"
	KindStatuses    MasterKind = "statuses"
	KindCurrencies  MasterKind = "currencies"
	KindDeposits    MasterKind = "deposits"
	KindPayments    MasterKind = "payments"
	KindFeeTaxes    MasterKind = "feeTaxes"
	KindLegalDocs   MasterKind = "legalDocs"
)

var HierarchyKinds = []MasterKind{KindProjects, KindZones, KindBlocks}

var OptionKinds = []MasterKind{
	KindUnits, KindFurnishings, KindStatuses, KindCurrencies,
	KindDeposits, KindPayments, KindFeeTaxes, KindLegalDocs,
}

func AllMasterKinds() []MasterKind {
	return append(append([]MasterKind(nil), HierarchyKinds...), OptionKinds...)
}

func ParseMasterKind(s string) (MasterKind, bool) {
	for _, k := range AllMasterKinds() {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Level maps hierarchy kinds to their level.
func (k MasterKind) Level() (Level, bool) {
	switch k {
	case KindProjects:
		return LevelProject, true
	case KindZones:
		return LevelZone, true
	case KindBlocks:
		return LevelBlock, true
	}
	return 0, false
}

// Option is an entry of a non-hierarchical master list (units, currencies, ...).
type Option struct {
	ID     string         `json:"id"`
	Code   string         `json:"code,omitempty"`
	Name   LocalizedValue `json:"name"`
	Status string         `json:"status"`
}

func (o Option) Active() bool { return strings.EqualFold(o.Status, StatusActive) }

// ActiveOptions filters to status == Active, keeping order.
func ActiveOptions(in []Option) []Option {
	out := make([]Option, 0, len(in))
	for _, o := range in {
		if o.Active() {
			out = append(out, o)
		}
	}
	return out
}
