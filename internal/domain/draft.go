package domain

import (
	"fmt"
	"strings"
)

type ListingStatus string

const (
	StatusDraft     ListingStatus = "Draft"
	StatusPending   ListingStatus = "Pending"
	StatusPublished ListingStatus = "Published"
)

func ParseStatus(s string) (ListingStatus, error) {
	for _, st := range []ListingStatus{StatusDraft, StatusPending, StatusPublished} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type MediaKind string

const (
	MediaImages     MediaKind = "images"
	MediaVideos     MediaKind = "videos"
	MediaFloorPlans MediaKind = "floorPlans"
)

func ParseMediaKind(s string) (MediaKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "images", "image", "propertyimages":
		return MediaImages, true
	case "videos", "video", "propertyvideos":
		return MediaVideos, true
	case "floorplans", "floorplan", "floor-plans":
		return MediaFloorPlans, true
	}
	return "", false
}

// MediaItem holds a stored URL; IsServerFile is false for pasted external links.
type MediaItem struct {
	URL          string `json:"url"`
	IsServerFile bool   `json:"isServerFile"`
}

type Media struct {
	Images     []MediaItem `json:"images"`
	Videos     []MediaItem `json:"videos"`
	FloorPlans []MediaItem `json:"floorPlans"`
}

func (m Media) Items(kind MediaKind) []MediaItem {
	switch kind {
	case MediaImages:
		return m.Images
	case MediaVideos:
		return m.Videos
	case MediaFloorPlans:
		return m.FloorPlans
	}
	return nil
}

// WithItems returns m with kind's sequence replaced.
func (m Media) WithItems(kind MediaKind, items []MediaItem) Media {
	switch kind {
	case MediaImages:
		m.Images = items
	case MediaVideos:
		m.Videos = items
	case MediaFloorPlans:
		m.FloorPlans = items
	}
	return m
}

type Utility struct {
	Name LocalizedValue `json:"name"`
	Icon string         `json:"icon"`
}

type CurrencyOption struct {
	Code   string         `json:"code"`
	Name   LocalizedValue `json:"name"`
	Symbol string         `json:"symbol,omitempty"`
}

type ListingInfo struct {
	PropertyNumber     string         `json:"propertyNumber"`
	Title              LocalizedValue `json:"title"`
	AvailabilityStatus LocalizedValue `json:"availabilityStatus"`
	DateListed         string         `json:"dateListed"`
	AvailableFrom      string         `json:"availableFrom"`
}

// PropertyInfo numeric fields hold raw form input; ToWire coerces them.
type PropertyInfo struct {
	UnitType    LocalizedValue `json:"unitType"`
	UnitSize    string         `json:"unitSize"`
	Bedrooms    string         `json:"bedrooms"`
	Bathrooms   string         `json:"bathrooms"`
	FloorRange  LocalizedValue `json:"floorRange"`
	Furnishing  LocalizedValue `json:"furnishing"`
	View        LocalizedValue `json:"view"`
	Address     LocalizedValue `json:"address"`
	Description LocalizedValue `json:"description"`
}

// Financial holds the fields of every variant at once.
type Financial struct {
	Currency           CurrencyOption `json:"currency"`
	Price              string         `json:"price"`
	Deposit            LocalizedValue `json:"deposit"`
	PaymentTerm        LocalizedValue `json:"paymentTerm"`
	FeeTax             LocalizedValue `json:"feeTax"`
	LegalDoc           LocalizedValue `json:"legalDoc"`
	AgentFee           string         `json:"agentFee"`
	LeasePrice         string         `json:"leasePrice"`
	ContractLength     LocalizedValue `json:"contractLength"`
	AgentPaymentAgenda LocalizedValue `json:"agentPaymentAgenda"`
	PricePerNight      string         `json:"pricePerNight"`
	CheckIn            string         `json:"checkIn"`
	CheckOut           string         `json:"checkOut"`
}

// Text returns the display text of a financial field, en first.
func (f Financial) Text(field FinancialField) string {
	switch field {
	case FieldPrice:
		return f.Price
	case FieldDeposit:
		return f.Deposit.Get(LangEN, LangVI)
	case FieldPaymentTerm:
		return f.PaymentTerm.Get(LangEN, LangVI)
	case FieldFeeTax:
		return f.FeeTax.Get(LangEN, LangVI)
	case FieldLegalDoc:
		return f.LegalDoc.Get(LangEN, LangVI)
	case FieldAgentFee:
		return f.AgentFee
	case FieldLeasePrice:
		return f.LeasePrice
	case FieldContractLength:
		return f.ContractLength.Get(LangEN, LangVI)
	case FieldAgentPaymentAgenda:
		return f.AgentPaymentAgenda.Get(LangEN, LangVI)
	case FieldPricePerNight:
		return f.PricePerNight
	case FieldCheckIn:
		return f.CheckIn
	case FieldCheckOut:
		return f.CheckOut
	}
	return ""
}

type Contact struct {
	OwnerName  string         `json:"ownerName"`
	OwnerPhone string         `json:"ownerPhone"`
	OwnerEmail string         `json:"ownerEmail"`
	Notes      LocalizedValue `json:"notes"`
	Source     LocalizedValue `json:"source"`
}

type SEO struct {
	MetaTitle       LocalizedValue `json:"metaTitle"`
	MetaDescription LocalizedValue `json:"metaDescription"`
	Keywords        LocalizedList  `json:"keywords"`
	Slug            LocalizedValue `json:"slug"`
	CanonicalURL    string         `json:"canonicalUrl"`
	OGTitle         LocalizedValue `json:"ogTitle"`
	OGDescription   LocalizedValue `json:"ogDescription"`
	OGImage         string         `json:"ogImage"`
}

// ListingDraft is the form-state root of one wizard session.
type ListingDraft struct {
	ListingID            string             `json:"listingId,omitempty"`
	PropertyID           string             `json:"propertyId"`
	TransactionType      Variant            `json:"transactionType"`
	TransactionTypeLabel LocalizedValue     `json:"transactionTypeLabel"`
	Status               ListingStatus      `json:"status,omitempty"`
	Hierarchy            HierarchySelection `json:"hierarchy"`
	Listing              ListingInfo        `json:"listing"`
	Property             PropertyInfo       `json:"property"`
	Financial            Financial          `json:"financial"`
	Contact              Contact            `json:"contact"`
	SEO                  SEO                `json:"seo"`
	Utilities            []Utility          `json:"utilities"`
	Media                Media              `json:"media"`
	Visibility           VisibilityMap      `json:"visibility"`
}

// NewDraft is the empty create-mode draft.
func NewDraft() ListingDraft {
	d := ListingDraft{
		TransactionType:      VariantSale,
		TransactionTypeLabel: VariantSale.Label(),
	}
	return d.Clone()
}

// Clone deep-copies every slice and map, never leaving them nil.
func (d ListingDraft) Clone() ListingDraft {
	out := d
	out.SEO.Keywords = d.SEO.Keywords.Clone()
	out.Utilities = make([]Utility, len(d.Utilities))
	copy(out.Utilities, d.Utilities)
	out.Media = Media{
		Images:     cloneMedia(d.Media.Images),
		Videos:     cloneMedia(d.Media.Videos),
		FloorPlans: cloneMedia(d.Media.FloorPlans),
	}
	out.Visibility = d.Visibility.Clone()
	return out
}

func cloneMedia(in []MediaItem) []MediaItem {
	out := make([]MediaItem, len(in))
	copy(out, in)
	return out
}
