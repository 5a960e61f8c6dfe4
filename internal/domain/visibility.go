package domain

// Section namespaces visibility flags as they appear on the wire.
type Section string

const (
	SectionListingInformation  Section = "listingInformationVisibility"
	SectionPropertyInformation Section = "propertyInformationVisibility"
	SectionFinancial           Section = "financialVisibility"
)

var Sections = []Section{SectionListingInformation, SectionPropertyInformation, SectionFinancial}

func (s Section) Valid() bool {
	for _, k := range Sections {
		if s == k {
			return true
		}
	}
	return false
}

// VisibilityMap holds "hide on public page" flags. A flag is metadata only:
// it never clears or removes the field value it refers to.
type VisibilityMap map[Section]map[string]bool

// Get defaults to false (visible) when the flag was never set.
func (m VisibilityMap) Get(section Section, field string) bool {
	return m[section][field]
}

// Set returns an updated copy; other flags are untouched.
func (m VisibilityMap) Set(section Section, field string, hidden bool) VisibilityMap {
	out := m.Clone()
	if out[section] == nil {
		out[section] = map[string]bool{}
	}
	out[section][field] = hidden
	return out
}

// Flags returns the section's flags, never nil.
func (m VisibilityMap) Flags(section Section) map[string]bool {
	out := make(map[string]bool, len(m[section]))
	for k, v := range m[section] {
		out[k] = v
	}
	return out
}

func (m VisibilityMap) Clone() VisibilityMap {
	out := make(VisibilityMap, len(Sections))
	for _, s := range Sections {
		out[s] = map[string]bool{}
	}
	for s, flags := range m {
		cp := make(map[string]bool, len(flags))
		for k, v := range flags {
			cp[k] = v
		}
		out[s] = cp
	}
	return out
}
