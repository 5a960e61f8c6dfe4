package app

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"listing_console/internal/domain"
)

var numberNoise = strings.NewReplacer(",", "", " ", "", "_", "", "\u00a0", "")

// coerceNumber turns form input such as "1,000,000" into a number.
// Non-numeric input is 0.
func coerceNumber(s string) float64 {
	s = numberNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func formatNumber(f float64) string {
	return decimal.NewFromFloat(f).String()
}

// ToForm flattens a wire record into a draft. It is total: every absent part
// of w becomes the field's empty value.
func ToForm(w domain.WireListing) domain.ListingDraft {
	li, pi, fd := w.ListingInformation, w.PropertyInformation, w.FinancialDetails

	d := domain.ListingDraft{
		ListingID:            w.ID,
		PropertyID:           li.PropertyID,
		TransactionType:      domain.NormalizeVariant(li.TransactionType),
		TransactionTypeLabel: li.TransactionType,
		Status:               w.Status,
		Hierarchy: domain.HierarchySelection{
			ProjectID:   li.ProjectID,
			ProjectName: li.ProjectName,
			ZoneID:      li.ZoneID,
			ZoneName:    li.ZoneName,
			BlockID:     li.BlockID,
			BlockName:   li.BlockName,
		},
		Listing: domain.ListingInfo{
			PropertyNumber:     li.PropertyNo,
			Title:              li.PropertyTitle,
			AvailabilityStatus: li.AvailabilityStatus,
			DateListed:         li.DateListed,
			AvailableFrom:      li.AvailableFrom,
		},
		Property: domain.PropertyInfo{
			UnitType:    pi.UnitType,
			UnitSize:    formatNumber(pi.UnitSize),
			Bedrooms:    formatNumber(pi.Bedrooms),
			Bathrooms:   formatNumber(pi.Bathrooms),
			FloorRange:  pi.Floors,
			Furnishing:  pi.Furnishing,
			View:        pi.View,
			Address:     pi.Address,
			Description: pi.Description,
		},
		Financial: domain.Financial{
			Currency:           domain.CurrencyOption{Code: fd.Currency},
			Price:              formatNumber(fd.Price),
			Deposit:            fd.Deposit,
			PaymentTerm:        fd.PaymentTerm,
			FeeTax:             fd.FeeTax,
			LegalDoc:           fd.LegalDoc,
			AgentFee:           formatNumber(fd.AgentFee),
			LeasePrice:         formatNumber(fd.LeasePrice),
			ContractLength:     fd.ContractLength,
			AgentPaymentAgenda: fd.AgentPaymentAgenda,
			PricePerNight:      formatNumber(fd.PricePerNight),
			CheckIn:            fd.CheckIn,
			CheckOut:           fd.CheckOut,
		},
		Contact: domain.Contact{
			OwnerName:  w.ContactManagement.OwnerName,
			OwnerPhone: w.ContactManagement.OwnerPhone,
			OwnerEmail: w.ContactManagement.OwnerEmail,
			Notes:      w.ContactManagement.Notes,
			Source:     w.ContactManagement.Source,
		},
		SEO: domain.SEO{
			MetaTitle:       w.SeoInformation.MetaTitle,
			MetaDescription: w.SeoInformation.MetaDescription,
			Keywords:        w.SeoInformation.MetaKeywords,
			Slug:            w.SeoInformation.Slug,
			CanonicalURL:    w.SeoInformation.CanonicalURL,
			OGTitle:         w.SeoInformation.OGTitle,
			OGDescription:   w.SeoInformation.OGDescription,
			OGImage:         w.SeoInformation.OGImage,
		},
		Media: domain.Media{
			Images:     serverMedia(w.ImagesVideos.PropertyImages),
			Videos:     serverMedia(w.ImagesVideos.PropertyVideos),
			FloorPlans: serverMedia(w.ImagesVideos.FloorPlans),
		},
		Visibility: domain.VisibilityMap{
			domain.SectionListingInformation:  li.Visibility,
			domain.SectionPropertyInformation: pi.Visibility,
			domain.SectionFinancial:           fd.Visibility,
		},
	}
	for _, u := range w.PropertyUtility {
		d.Utilities = append(d.Utilities, domain.Utility{Name: u.Name, Icon: u.Icon})
	}
	// Clone normalizes nil slices and maps to empty ones.
	return d.Clone()
}

func serverMedia(urls []string) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.MediaItem{URL: u, IsServerFile: true})
	}
	return out
}

func mediaURLs(items []domain.MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.URL)
	}
	return out
}

// wireVariantLabel resolves the label written to the wire. The persisted
// payload never guesses: an unrecognized label is an error.
func wireVariantLabel(d domain.ListingDraft) (domain.LocalizedValue, error) {
	if !d.TransactionType.Valid() {
		return domain.LocalizedValue{}, fmt.Errorf("%w: %s", domain.ErrUnknownVariant, d.TransactionType)
	}
	label := d.TransactionTypeLabel
	if label.IsEmpty() {
		return d.TransactionType.Label(), nil
	}
	v, err := domain.ParseVariant(label)
	if err != nil {
		return domain.LocalizedValue{}, err
	}
	if v != d.TransactionType {
		return d.TransactionType.Label(), nil
	}
	return label.ReconcileForSave(), nil
}

// ToWire re-nests the draft into the wire schema with status set. Every draft
// field is written, including financial fields the active variant does not
// render.
func ToWire(d domain.ListingDraft, status domain.ListingStatus) (domain.WireListing, error) {
	st, err := domain.ParseStatus(string(status))
	if err != nil {
		return domain.WireListing{}, err
	}
	label, err := wireVariantLabel(d)
	if err != nil {
		return domain.WireListing{}, err
	}
	d = d.Clone()
	h, f := d.Hierarchy, d.Financial

	w := domain.WireListing{
		ID: d.ListingID,
		ListingInformation: domain.WireListingInfo{
			PropertyID:         d.PropertyID,
			TransactionType:    label,
			PropertyNo:         strings.TrimSpace(d.Listing.PropertyNumber),
			PropertyTitle:      d.Listing.Title.ReconcileForSave(),
			ProjectID:          h.ProjectID,
			ProjectName:        h.ProjectName.ReconcileForSave(),
			ZoneID:             h.ZoneID,
			ZoneName:           h.ZoneName.ReconcileForSave(),
			BlockID:            h.BlockID,
			BlockName:          h.BlockName.ReconcileForSave(),
			AvailabilityStatus: d.Listing.AvailabilityStatus.ReconcileForSave(),
			DateListed:         d.Listing.DateListed,
			AvailableFrom:      d.Listing.AvailableFrom,
			Visibility:         d.Visibility.Flags(domain.SectionListingInformation),
		},
		PropertyInformation: domain.WirePropertyInfo{
			UnitType:    d.Property.UnitType.ReconcileForSave(),
			UnitSize:    coerceNumber(d.Property.UnitSize),
			Bedrooms:    coerceNumber(d.Property.Bedrooms),
			Bathrooms:   coerceNumber(d.Property.Bathrooms),
			Floors:      d.Property.FloorRange.ReconcileForSave(),
			Furnishing:  d.Property.Furnishing.ReconcileForSave(),
			View:        d.Property.View.ReconcileForSave(),
			Address:     d.Property.Address.ReconcileForSave(),
			Description: d.Property.Description.ReconcileForSave(),
			Visibility:  d.Visibility.Flags(domain.SectionPropertyInformation),
		},
		FinancialDetails: domain.WireFinancial{
			Currency:           strings.TrimSpace(f.Currency.Code),
			Price:              coerceNumber(f.Price),
			Deposit:            f.Deposit.ReconcileForSave(),
			PaymentTerm:        f.PaymentTerm.ReconcileForSave(),
			FeeTax:             f.FeeTax.ReconcileForSave(),
			LegalDoc:           f.LegalDoc.ReconcileForSave(),
			AgentFee:           coerceNumber(f.AgentFee),
			LeasePrice:         coerceNumber(f.LeasePrice),
			ContractLength:     f.ContractLength.ReconcileForSave(),
			AgentPaymentAgenda: f.AgentPaymentAgenda.ReconcileForSave(),
			PricePerNight:      coerceNumber(f.PricePerNight),
			CheckIn:            f.CheckIn,
			CheckOut:           f.CheckOut,
			Visibility:         d.Visibility.Flags(domain.SectionFinancial),
		},
		ContactManagement: domain.WireContact{
			OwnerName:  d.Contact.OwnerName,
			OwnerPhone: d.Contact.OwnerPhone,
			OwnerEmail: d.Contact.OwnerEmail,
			Notes:      d.Contact.Notes.ReconcileForSave(),
			Source:     d.Contact.Source.ReconcileForSave(),
		},
		SeoInformation: domain.WireSEO{
			MetaTitle:       d.SEO.MetaTitle.ReconcileForSave(),
			MetaDescription: d.SEO.MetaDescription.ReconcileForSave(),
			MetaKeywords:    d.SEO.Keywords.ReconcileForSave(),
			Slug:            d.SEO.Slug.ReconcileForSave(),
			CanonicalURL:    d.SEO.CanonicalURL,
			OGTitle:         d.SEO.OGTitle.ReconcileForSave(),
			OGDescription:   d.SEO.OGDescription.ReconcileForSave(),
			OGImage:         d.SEO.OGImage,
		},
		ImagesVideos: domain.WireMedia{
			PropertyImages: mediaURLs(d.Media.Images),
			PropertyVideos: mediaURLs(d.Media.Videos),
			FloorPlans:     mediaURLs(d.Media.FloorPlans),
		},
		PropertyUtility: make([]domain.WireUtility, 0, len(d.Utilities)),
		Status:          st,
	}
	for _, u := range d.Utilities {
		w.PropertyUtility = append(w.PropertyUtility, domain.WireUtility{
			Name: u.Name.ReconcileForSave(),
			Icon: u.Icon,
		})
	}
	return w, nil
}
