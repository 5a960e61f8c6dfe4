package domain

// Wire schema exchanged with the external listing API. Bilingual fields are
// {en, vi}; media are plain URL arrays; numbers are JSON numbers.

type WireListing struct {
	ID                  string           `json:"_id,omitempty"`
	ListingInformation  WireListingInfo  `json:"listingInformation"`
	PropertyInformation WirePropertyInfo `json:"propertyInformation"`
	FinancialDetails    WireFinancial    `json:"financialDetails"`
	ContactManagement   WireContact      `json:"contactManagement"`
	SeoInformation      WireSEO          `json:"seoInformation"`
	ImagesVideos        WireMedia        `json:"imagesVideos"`
	PropertyUtility     []WireUtility    `json:"propertyUtility"`
	Status              ListingStatus    `json:"status,omitempty"`
}

type WireListingInfo struct {
	PropertyID         string          `json:"listingInformationPropertyId"`
	TransactionType    LocalizedValue  `json:"listingInformationTransactionType"`
	PropertyNo         string          `json:"listingInformationPropertyNo"`
	PropertyTitle      LocalizedValue  `json:"listingInformationPropertyTitle"`
	ProjectID          string          `json:"listingInformationProjectId"`
	ProjectName        LocalizedValue  `json:"listingInformationProjectName"`
	ZoneID             string          `json:"listingInformationZoneId"`
	ZoneName           LocalizedValue  `json:"listingInformationZoneName"`
	BlockID            string          `json:"listingInformationBlockId"`
	BlockName          LocalizedValue  `json:"listingInformationBlockName"`
	AvailabilityStatus LocalizedValue  `json:"listingInformationAvailabilityStatus"`
	DateListed         string          `json:"listingInformationDateListed"`
	AvailableFrom      string          `json:"listingInformationAvailableFrom"`
	Visibility         map[string]bool `json:"listingInformationVisibility"`
}

type WirePropertyInfo struct {
	UnitType    LocalizedValue  `json:"propertyInformationUnitType"`
	UnitSize    float64         `json:"propertyInformationUnitSize"`
	Bedrooms    float64         `json:"propertyInformationBedrooms"`
	Bathrooms   float64         `json:"propertyInformationBathrooms"`
	Floors      LocalizedValue  `json:"propertyInformationFloors"`
	Furnishing  LocalizedValue  `json:"propertyInformationFurnishing"`
	View        LocalizedValue  `json:"propertyInformationView"`
	Address     LocalizedValue  `json:"propertyInformationAddress"`
	Description LocalizedValue  `json:"propertyInformationDescription"`
	Visibility  map[string]bool `json:"propertyInformationVisibility"`
}

type WireFinancial struct {
	Currency           string          `json:"financialDetailsCurrency"`
	Price              float64         `json:"financialDetailsPrice"`
	Deposit            LocalizedValue  `json:"financialDetailsDeposit"`
	PaymentTerm        LocalizedValue  `json:"financialDetailsPaymentTerm"`
	FeeTax             LocalizedValue  `json:"financialDetailsFeeTax"`
	LegalDoc           LocalizedValue  `json:"financialDetailsLegalDoc"`
	AgentFee           float64         `json:"financialDetailsAgentFee"`
	LeasePrice         float64         `json:"financialDetailsLeasePrice"`
	ContractLength     LocalizedValue  `json:"financialDetailsContractLength"`
	AgentPaymentAgenda LocalizedValue  `json:"financialDetailsAgentPaymentAgenda"`
	PricePerNight      float64         `json:"financialDetailsPricePerNight"`
	CheckIn            string          `json:"financialDetailsCheckIn"`
	CheckOut           string          `json:"financialDetailsCheckOut"`
	Visibility         map[string]bool `json:"financialVisibility"`
}

type WireContact struct {
	OwnerName  string         `json:"contactManagementOwnerName"`
	OwnerPhone string         `json:"contactManagementOwnerPhone"`
	OwnerEmail string         `json:"contactManagementOwnerEmail"`
	Notes      LocalizedValue `json:"contactManagementNotes"`
	Source     LocalizedValue `json:"contactManagementSource"`
}

type WireSEO struct {
	MetaTitle       LocalizedValue `json:"seoInformationMetaTitle"`
	MetaDescription LocalizedValue `json:"seoInformationMetaDescription"`
	MetaKeywords    LocalizedList  `json:"seoInformationMetaKeywords"`
	Slug            LocalizedValue `json:"seoInformationSlug"`
	CanonicalURL    string         `json:"seoInformationCanonicalUrl"`
	OGTitle         LocalizedValue `json:"seoInformationOgTitle"`
	OGDescription   LocalizedValue `json:"seoInformationOgDescription"`
	OGImage         string         `json:"seoInformationOgImage"`
}

type WireMedia struct {
	PropertyImages []string `json:"imagesVideosPropertyImages"`
	PropertyVideos []string `json:"imagesVideosPropertyVideos"`
	FloorPlans     []string `json:"imagesVideosFloorPlans"`
}

type WireUtility struct {
	Name LocalizedValue `json:"propertyUtilityName"`
	Icon string         `json:"propertyUtilityIcon"`
}
