package app

import (
	"strconv"
	"strings"

	"listing_console/internal/domain"
)

/********** alias registries (single source of truth) **********/

var masterAliases = map[string][]string{
	"id":     {"_id", "id", "value"},
	"name":   {"name", "label", "title"},
	"code":   {"code", "currencyCode", "shortName", "symbolCode"},
	"status": {"status", "state"},
	// zones reference their project as "property" in the API
	"project": {"property", "project", "projectId", "propertyId"},
	"zone":    {"zone", "zoneId"},
}

// legacy records carry some fields at the root or under older names
var wireAliases = map[string][]string{
	"propertyId":      {"listingInformation.listingInformationPropertyId", "propertyId"},
	"transactionType": {"listingInformation.listingInformationTransactionType", "transactionType"},
	"propertyNo":      {"listingInformation.listingInformationPropertyNo", "listingInformation.listingInformationPropertyNumber", "propertyNo"},
	"title":           {"listingInformation.listingInformationPropertyTitle", "listingInformation.listingInformationTitle"},
	"projectId":       {"listingInformation.listingInformationProjectId", "listingInformation.listingInformationProjectCommunity", "listingInformation.listingInformationProject"},
	"projectName":     {"listingInformation.listingInformationProjectName", "listingInformation.listingInformationProjectCommunity.name", "listingInformation.listingInformationProject.name"},
	"zoneId":          {"listingInformation.listingInformationZoneId", "listingInformation.listingInformationZoneSubArea", "listingInformation.listingInformationZone"},
	"zoneName":        {"listingInformation.listingInformationZoneName", "listingInformation.listingInformationZoneSubArea.name", "listingInformation.listingInformationZone.name"},
	"blockId":         {"listingInformation.listingInformationBlockId", "listingInformation.listingInformationBlock"},
	"blockName":       {"listingInformation.listingInformationBlockName", "listingInformation.listingInformationBlock.name"},
	"utilities":       {"propertyUtility", "utilities"},
	"status":          {"status", "listingStatus"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "". Numbers are rendered, since
// property numbers and ids sometimes arrive as JSON numbers.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	if s := firstStr(m, aliases[key]...); s != "" {
		return &s
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// toLocalized reads {en, vi}. A bare string is a single-language legacy
// value and lands on en.
func toLocalized(v any) (domain.LocalizedValue, bool) {
	switch t := v.(type) {
	case map[string]any:
		en, _ := t["en"].(string)
		vi, _ := t["vi"].(string)
		return domain.L(en, vi), true
	case string:
		return domain.L(t, ""), t != ""
	}
	return domain.LocalizedValue{}, false
}

func lookupLocalized(m map[string]any, paths ...string) domain.LocalizedValue {
	for _, p := range paths {
		if lv, ok := toLocalized(lookupAny(m, p)); ok && !lv.IsEmpty() {
			return lv
		}
	}
	return domain.LocalizedValue{}
}

func lookupLocalizedList(m map[string]any, path string) domain.LocalizedList {
	obj, _ := lookupAny(m, path).(map[string]any)
	return domain.LocalizedList{
		EN: stringsOf(obj["en"]),
		VI: stringsOf(obj["vi"]),
	}
}

func stringsOf(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case string:
		// comma-joined keyword strings from older records
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// getFloatFlexible: number from several paths (float64/int/string like "1,000,000").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			f := coerceNumber(v)
			return &f
		}
	}
	return nil
}

func lookupFloat(m map[string]any, paths ...string) float64 {
	if f := getFloatFlexible(m, paths...); f != nil {
		return *f
	}
	return 0
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if u, ok := t["src"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

// lookupFlags reads a visibility object; non-bool values are dropped.
func lookupFlags(m map[string]any, path string) map[string]bool {
	out := map[string]bool{}
	obj, _ := lookupAny(m, path).(map[string]any)
	for k, v := range obj {
		switch b := v.(type) {
		case bool:
			out[k] = b
		case string:
			out[k] = strings.EqualFold(b, "true")
		}
	}
	return out
}

// refID resolves a reference given as an id string or as an {_id|id} object.
func refID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return firstStr(t, masterAliases["id"]...)
	}
	return ""
}

func firstRefID(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if id := refID(lookupAny(m, p)); id != "" {
			return id
		}
	}
	return ""
}

/********** wire record mapper **********/

// ParseWire gives a loosely typed API record its explicit shape. It never
// fails: missing or malformed paths become empty values.
func ParseWire(raw map[string]any) domain.WireListing {
	if raw == nil {
		raw = map[string]any{}
	}
	var w domain.WireListing
	w.ID = firstStr(raw, "_id", "id")

	li := &w.ListingInformation
	li.PropertyID = firstStr(raw, wireAliases["propertyId"]...)
	li.TransactionType = lookupLocalized(raw, wireAliases["transactionType"]...)
	li.PropertyNo = firstStr(raw, wireAliases["propertyNo"]...)
	li.PropertyTitle = lookupLocalized(raw, wireAliases["title"]...)
	li.ProjectID = firstRefID(raw, wireAliases["projectId"]...)
	li.ProjectName = lookupLocalized(raw, wireAliases["projectName"]...)
	li.ZoneID = firstRefID(raw, wireAliases["zoneId"]...)
	li.ZoneName = lookupLocalized(raw, wireAliases["zoneName"]...)
	li.BlockID = firstRefID(raw, wireAliases["blockId"]...)
	li.BlockName = lookupLocalized(raw, wireAliases["blockName"]...)
	li.AvailabilityStatus = lookupLocalized(raw, "listingInformation.listingInformationAvailabilityStatus")
	li.DateListed = lookupStr(raw, "listingInformation.listingInformationDateListed")
	li.AvailableFrom = lookupStr(raw, "listingInformation.listingInformationAvailableFrom")
	li.Visibility = lookupFlags(raw, "listingInformation.listingInformationVisibility")

	pi := &w.PropertyInformation
	pi.UnitType = lookupLocalized(raw, "propertyInformation.propertyInformationUnitType", "propertyInformation.propertyInformationUnit")
	pi.UnitSize = lookupFloat(raw, "propertyInformation.propertyInformationUnitSize")
	pi.Bedrooms = lookupFloat(raw, "propertyInformation.propertyInformationBedrooms")
	pi.Bathrooms = lookupFloat(raw, "propertyInformation.propertyInformationBathrooms")
	pi.Floors = lookupLocalized(raw, "propertyInformation.propertyInformationFloors", "propertyInformation.propertyInformationFloorRange")
	pi.Furnishing = lookupLocalized(raw, "propertyInformation.propertyInformationFurnishing")
	pi.View = lookupLocalized(raw, "propertyInformation.propertyInformationView")
	pi.Address = lookupLocalized(raw, "propertyInformation.propertyInformationAddress")
	pi.Description = lookupLocalized(raw, "propertyInformation.propertyInformationDescription")
	pi.Visibility = lookupFlags(raw, "propertyInformation.propertyInformationVisibility")

	fd := &w.FinancialDetails
	fd.Currency = firstStr(raw, "financialDetails.financialDetailsCurrency", "financialDetails.financialDetailsCurrency.code")
	fd.Price = lookupFloat(raw, "financialDetails.financialDetailsPrice")
	fd.Deposit = lookupLocalized(raw, "financialDetails.financialDetailsDeposit")
	fd.PaymentTerm = lookupLocalized(raw, "financialDetails.financialDetailsPaymentTerm")
	fd.FeeTax = lookupLocalized(raw, "financialDetails.financialDetailsFeeTax")
	fd.LegalDoc = lookupLocalized(raw, "financialDetails.financialDetailsLegalDoc")
	fd.AgentFee = lookupFloat(raw, "financialDetails.financialDetailsAgentFee")
	fd.LeasePrice = lookupFloat(raw, "financialDetails.financialDetailsLeasePrice")
	fd.ContractLength = lookupLocalized(raw, "financialDetails.financialDetailsContractLength")
	fd.AgentPaymentAgenda = lookupLocalized(raw, "financialDetails.financialDetailsAgentPaymentAgenda")
	fd.PricePerNight = lookupFloat(raw, "financialDetails.financialDetailsPricePerNight")
	fd.CheckIn = lookupStr(raw, "financialDetails.financialDetailsCheckIn")
	fd.CheckOut = lookupStr(raw, "financialDetails.financialDetailsCheckOut")
	fd.Visibility = lookupFlags(raw, "financialDetails.financialVisibility")

	cm := &w.ContactManagement
	cm.OwnerName = lookupStr(raw, "contactManagement.contactManagementOwnerName")
	cm.OwnerPhone = lookupStr(raw, "contactManagement.contactManagementOwnerPhone")
	cm.OwnerEmail = lookupStr(raw, "contactManagement.contactManagementOwnerEmail")
	cm.Notes = lookupLocalized(raw, "contactManagement.contactManagementNotes")
	cm.Source = lookupLocalized(raw, "contactManagement.contactManagementSource")

	seo := &w.SeoInformation
	seo.MetaTitle = lookupLocalized(raw, "seoInformation.seoInformationMetaTitle")
	seo.MetaDescription = lookupLocalized(raw, "seoInformation.seoInformationMetaDescription")
	seo.MetaKeywords = lookupLocalizedList(raw, "seoInformation.seoInformationMetaKeywords")
	seo.Slug = lookupLocalized(raw, "seoInformation.seoInformationSlug")
	seo.CanonicalURL = lookupStr(raw, "seoInformation.seoInformationCanonicalUrl")
	seo.OGTitle = lookupLocalized(raw, "seoInformation.seoInformationOgTitle")
	seo.OGDescription = lookupLocalized(raw, "seoInformation.seoInformationOgDescription")
	seo.OGImage = lookupStr(raw, "seoInformation.seoInformationOgImage")

	w.ImagesVideos = domain.WireMedia{
		PropertyImages: firstSliceStrings(raw, "imagesVideos.imagesVideosPropertyImages"),
		PropertyVideos: firstSliceStrings(raw, "imagesVideos.imagesVideosPropertyVideos"),
		FloorPlans:     firstSliceStrings(raw, "imagesVideos.imagesVideosFloorPlans"),
	}

	w.PropertyUtility = []domain.WireUtility{}
	for _, p := range wireAliases["utilities"] {
		items, ok := lookupAny(raw, p).([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			w.PropertyUtility = append(w.PropertyUtility, domain.WireUtility{
				Name: lookupLocalized(obj, "propertyUtilityName", "name"),
				Icon: firstStr(obj, "propertyUtilityIcon", "icon"),
			})
		}
		break
	}

	if st, err := domain.ParseStatus(firstStr(raw, wireAliases["status"]...)); err == nil {
		w.Status = st
	}
	return w
}

/********** master list mappers **********/

func mapHierarchyEntity(level domain.Level, r map[string]any) domain.HierarchyEntity {
	e := domain.HierarchyEntity{
		ID:     deref(firstNonEmptyAlias(r, masterAliases, "id")),
		Name:   lookupLocalized(r, masterAliases["name"]...),
		Status: mapStatus(r),
	}
	switch level {
	case domain.LevelZone:
		e.ParentID = firstRefID(r, masterAliases["project"]...)
	case domain.LevelBlock:
		e.ParentID = firstRefID(r, masterAliases["zone"]...)
	}
	return e
}

func mapOption(r map[string]any) domain.Option {
	return domain.Option{
		ID:     deref(firstNonEmptyAlias(r, masterAliases, "id")),
		Code:   deref(firstNonEmptyAlias(r, masterAliases, "code")),
		Name:   lookupLocalized(r, masterAliases["name"]...),
		Status: mapStatus(r),
	}
}

// status is a plain string or a localized {en, vi} pair
func mapStatus(r map[string]any) string {
	if s := deref(firstNonEmptyAlias(r, masterAliases, "status")); s != "" {
		return s
	}
	return lookupLocalized(r, masterAliases["status"]...).Get(domain.LangEN, domain.LangVI)
}

func mapHierarchy(level domain.Level, in []map[string]any) []domain.HierarchyEntity {
	out := make([]domain.HierarchyEntity, 0, len(in))
	for _, r := range in {
		if e := mapHierarchyEntity(level, r); e.ID != "" {
			out = append(out, e)
		}
	}
	return out
}

func mapOptions(in []map[string]any) []domain.Option {
	out := make([]domain.Option, 0, len(in))
	for _, r := range in {
		if o := mapOption(r); o.ID != "" {
			out = append(out, o)
		}
	}
	return out
}
