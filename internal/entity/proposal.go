package entity

// Proposal is a parsed sourcing analysis. It is never mutated after parsing.
// Every leaf is optional and tolerant of the wrong JSON type: numbers read
// as 0, text as "", lists as empty and nested objects as their zero value.
type Proposal struct {
	ProductName          Text                  `json:"productName"`
	ProductDescription   Text                  `json:"productDescription"`
	MinimumOrderQuantity Number                `json:"minimumOrderQuantity"`
	LeadTime             Text                  `json:"leadTime"`
	SampleAvailability   Flag                  `json:"sampleAvailability"`
	Specs                Specs                 `json:"specs"`
	DemandAnalysis       DemandAnalysis        `json:"demandAnalysis"`
	FactoryBids          List[FactoryBid]      `json:"factoryBids"`
	PackagingOptions     List[PackagingOption] `json:"packagingOptions"`
	PackagingDetails     PackagingDetails      `json:"packagingDetails"`
	NexyAdvantage        List[Advantage]       `json:"nexyAdvantage"`
	DDPPriceTiers        List[PriceTier]       `json:"ddpPriceTiers"`
	LogisticsAssumptions LogisticsAssumptions  `json:"logisticsAssumptions"`
	DDPCostBreakdown     CostBreakdown         `json:"ddpCostBreakdown"`
	ComplianceChecks     List[ComplianceCheck] `json:"complianceChecks"`
	Sources              Sources               `json:"sources"`
}

type Specs struct {
	Dimensions   Text     `json:"dimensions"`
	Weight       Text     `json:"weight"`
	CoreMaterial Text     `json:"coreMaterial"`
	Features     TextList `json:"features"`
}

type DemandAnalysis struct {
	USMarketDemand       Text     `json:"usMarketDemand"`
	CompetitionLevel     Text     `json:"competitionLevel"`
	GenAIInsight         Text     `json:"genAiInsight"`
	MarketSize           Text     `json:"marketSize"`
	CompetitorBenchmarks TextList `json:"competitorBenchmarks"`
	SalesForecast        Text     `json:"salesForecast"`
}

type TrustIndicator struct {
	Name      Text `json:"name"`
	Available Flag `json:"available"`
}

// FactoryBid is an EXW quote from one factory.
type FactoryBid struct {
	Name            Text                 `json:"name"`
	Price           Number               `json:"price"`
	Specialty       Text                 `json:"specialty"`
	Risk            Text                 `json:"risk"`
	RiskSummary     Text                 `json:"riskSummary"`
	Sustainability  Text                 `json:"sustainability"`
	Certifications  TextList             `json:"certifications"`
	TrustIndicators List[TrustIndicator] `json:"trustIndicators"`
	SourceURL       Text                 `json:"sourceUrl"`
}

type PackagingOption struct {
	Name         Text   `json:"name"`
	Description  Text   `json:"description"`
	PricePerUnit Number `json:"pricePerUnit"`
}

type PackagingDetails struct {
	UnitsPerCarton   Number `json:"unitsPerCarton"`
	CartonDimensions Text   `json:"cartonDimensions"`
	CartonWeight     Text   `json:"cartonWeight"`
}

type Advantage struct {
	Title       Text `json:"title"`
	Description Text `json:"description"`
}

// PriceTier is one DDP volume price point.
type PriceTier struct {
	Quantity     Number `json:"quantity"`
	PricePerUnit Number `json:"pricePerUnit"`
}

func (t PriceTier) Qty() int { return t.Quantity.Int() }

type LogisticsAssumptions struct {
	ExportCountry   Text `json:"exportCountry"`
	Incoterm        Text `json:"incoterm"`
	PortOfLoading   Text `json:"portOfLoading"`
	PortOfDischarge Text `json:"portOfDischarge"`
	ShippingMode    Text `json:"shippingMode"`
	CartonEstimate  Text `json:"cartonEstimate"`
}

// CostBreakdown is the per-unit DDP cost split at the reference tier.
// Numeric fields are nullable; nil reads as 0.
type CostBreakdown struct {
	HTSCode          Text    `json:"htsCode"`
	FactoryPrice     *Number `json:"factoryPrice"`
	EstimatedFreight *Number `json:"estimatedFreight"`
	MFNDuty          *Number `json:"mfnDuty"`
	Section301Duty   *Number `json:"section301Duty"`
	MPF              *Number `json:"mpf"`
	HMF              *Number `json:"hmf"`
	BrokerageAndISF  *Number `json:"brokerageAndIsf"`
	NexyFee          *Number `json:"nexyFee"`
}

type ComplianceCheck struct {
	Name       Text `json:"name"`
	Details    Text `json:"details"`
	Applicable Flag `json:"applicable"`
}

type Sources struct {
	Tariff     TextList `json:"tariff"`
	Demand     TextList `json:"demand"`
	Compliance TextList `json:"compliance"`
}

// TierFor returns the tier quoted for exactly qty units.
func (p Proposal) TierFor(qty int) (PriceTier, bool) {
	for _, t := range p.DDPPriceTiers {
		if t.Qty() == qty {
			return t, true
		}
	}
	return PriceTier{}, false
}

func (s *Specs) UnmarshalJSON(b []byte) error {
	type plain Specs
	return decodeObject(b, (*plain)(s))
}

func (d *DemandAnalysis) UnmarshalJSON(b []byte) error {
	type plain DemandAnalysis
	return decodeObject(b, (*plain)(d))
}

func (d *PackagingDetails) UnmarshalJSON(b []byte) error {
	type plain PackagingDetails
	return decodeObject(b, (*plain)(d))
}

func (l *LogisticsAssumptions) UnmarshalJSON(b []byte) error {
	type plain LogisticsAssumptions
	return decodeObject(b, (*plain)(l))
}

func (c *CostBreakdown) UnmarshalJSON(b []byte) error {
	type plain CostBreakdown
	return decodeObject(b, (*plain)(c))
}

func (s *Sources) UnmarshalJSON(b []byte) error {
	type plain Sources
	return decodeObject(b, (*plain)(s))
}
