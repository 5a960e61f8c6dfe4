package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Variant is the listing transaction type. Downstream code switches on the
// tag; raw labels only go through ParseVariant/NormalizeVariant.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantSale
	VariantLease
	VariantHomeStay
)

func (v Variant) String() string {
	switch v {
	case VariantSale:
		return "Sale"
	case VariantLease:
		return "Lease"
	case VariantHomeStay:
		return "HomeStay"
	}
	return "Unknown"
}

func (v Variant) Valid() bool { return v >= VariantSale && v <= VariantHomeStay }

// Label is the canonical bilingual wire label.
func (v Variant) Label() LocalizedValue {
	switch v {
	case VariantSale:
		return L("Sale", "Bán")
	case VariantLease:
		return L("Lease", "Cho thuê")
	case VariantHomeStay:
		return L("Home Stay", "Homestay")
	}
	return LocalizedValue{}
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

var variantSynonyms = map[string]Variant{
	"sale":      VariantSale,
	"bán":       VariantSale,
	"lease":     VariantLease,
	"cho thuê":  VariantLease,
	"homestay":  VariantHomeStay,
	"home stay": VariantHomeStay,
}

// foldLabel applies NFC, Unicode case folding and whitespace collapsing, so
// "BÁN", a decomposed "Bán" and " home  stay " all hit the synonym table.
func foldLabel(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

func matchVariant(s string) (Variant, bool) {
	if strings.TrimSpace(s) == "" {
		return VariantUnknown, false
	}
	v, ok := variantSynonyms[foldLabel(s)]
	if ok {
		return v, true
	}
	// "Home-Stay"
	v, ok = variantSynonyms[strings.ReplaceAll(foldLabel(s), "-", " ")]
	return v, ok
}

// ParseVariant resolves a raw transaction type. Objects prefer en, then vi;
// an en side that does not match falls through to vi. Plain strings are
// matched directly. Unmatched input is ErrUnknownVariant.
func ParseVariant(raw any) (Variant, error) {
	var candidates []string
	switch t := raw.(type) {
	case Variant:
		if t.Valid() {
			return t, nil
		}
	case string:
		candidates = []string{t}
	case LocalizedValue:
		candidates = []string{t.EN, t.VI}
	case *LocalizedValue:
		if t != nil {
			candidates = []string{t.EN, t.VI}
		}
	case map[string]any:
		en, _ := t["en"].(string)
		vi, _ := t["vi"].(string)
		candidates = []string{en, vi}
	}
	for _, c := range candidates {
		if v, ok := matchVariant(c); ok {
			return v, nil
		}
	}
	return VariantUnknown, fmt.Errorf("%w: %s", ErrUnknownVariant, describeRaw(raw))
}

// NormalizeVariant is the form-layer resolution: unmatched input shows as Sale.
// Payload construction must use ParseVariant instead.
func NormalizeVariant(raw any) Variant {
	v, err := ParseVariant(raw)
	if err != nil {
		return VariantSale
	}
	return v
}

func describeRaw(raw any) string {
	switch t := raw.(type) {
	case nil:
		return "<empty>"
	case string:
		return fmt.Sprintf("%q", t)
	case LocalizedValue:
		return fmt.Sprintf("{en:%q vi:%q}", t.EN, t.VI)
	}
	return fmt.Sprintf("%v", raw)
}

// FinancialField names a financial sub-field of the draft.
type FinancialField string

const (
	FieldPrice              FinancialField = "price"
	FieldDeposit            FinancialField = "deposit"
	FieldPaymentTerm        FinancialField = "paymentTerm"
	FieldFeeTax             FinancialField = "feeTax"
	FieldLegalDoc           FinancialField = "legalDoc"
	FieldAgentFee           FinancialField = "agentFee"
	FieldLeasePrice         FinancialField = "leasePrice"
	FieldContractLength     FinancialField = "contractLength"
	FieldAgentPaymentAgenda FinancialField = "agentPaymentAgenda"
	FieldPricePerNight      FinancialField = "pricePerNight"
	FieldCheckIn            FinancialField = "checkIn"
	FieldCheckOut           FinancialField = "checkOut"
)

var variantFields = map[Variant][]FinancialField{
	VariantSale:     {FieldPrice, FieldDeposit, FieldPaymentTerm, FieldFeeTax, FieldLegalDoc, FieldAgentFee},
	VariantLease:    {FieldLeasePrice, FieldContractLength, FieldDeposit, FieldPaymentTerm, FieldAgentFee, FieldAgentPaymentAgenda},
	VariantHomeStay: {FieldPricePerNight, FieldCheckIn, FieldCheckOut, FieldDeposit, FieldPaymentTerm},
}

var variantRequired = map[Variant][]FinancialField{
	VariantSale:     {FieldPrice},
	VariantLease:    {FieldLeasePrice, FieldContractLength},
	VariantHomeStay: {FieldPricePerNight},
}

// FieldsFor returns the ordered financial fields rendered for v. Fields outside
// the set stay in the draft so switching variants loses nothing.
func FieldsFor(v Variant) []FinancialField {
	return append([]FinancialField(nil), variantFields[v]...)
}

func RequiredFieldsFor(v Variant) []FinancialField {
	return append([]FinancialField(nil), variantRequired[v]...)
}
