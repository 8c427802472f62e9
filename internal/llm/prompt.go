package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
)

// AnalysisSystemPrompt instructs the model to return only a fenced proposal JSON object.
const AnalysisSystemPrompt = "You are an AI Sourcing Data Analyst for a company called Nexy.ai. " +
	"Your ONLY job is to find the data requested and return it as a SINGLE, VALID JSON object wrapped in a ```json ... ``` markdown block.\n" +
	"Do NOT write any prose or explanations.\n\n" +
	"Find the following, being as specific as possible:\n\n" +
	"1. Product Info: a detailed 'productName', a one-sentence 'productDescription', 'minimumOrderQuantity' (number), " +
	"'leadTime' (e.g. \"30-45 days\") and 'sampleAvailability' (boolean). Include 'specs' (dimensions, weight, 'coreMaterial', 'features').\n" +
	"2. Demand Analysis: US market demand, competition level, GenAI insight, a quantifiable 'marketSize', competitor benchmarks and a sales forecast.\n" +
	"3. Factory Bids: AT LEAST 3 factory (EXW) bids. If the user provides a preferred export country, ALL bids MUST be from that country. " +
	"Include name, price, specialty, risk, a detailed 'riskSummary', sustainability notes, product 'certifications' and a 'trustIndicators' checklist.\n" +
	"4. Packaging: TWO distinct 'packagingOptions' with 'name', 'description' and estimated 'pricePerUnit', and " +
	"'packagingDetails' with 'unitsPerCarton', 'cartonDimensions' and 'cartonWeight'.\n" +
	"5. Nexy.ai Advantage: 3 key service advantages.\n" +
	"6. Logistics Assumptions: 'exportCountry' MUST match the user's preferred export country if provided. Include 'incoterm', ports and 'shippingMode'.\n" +
	"7. DDP Price & Breakdown: 'ddpPriceTiers' for 500, 1,000 and 5,000 units, and a 'ddpCostBreakdown' based on the 1000-unit tier " +
	"with 'htsCode', 'factoryPrice', 'estimatedFreight', 'mfnDuty', 'section301Duty' (0 unless the export country is China), 'mpf', 'hmf', " +
	"'brokerageAndIsf' and 'nexyFee'.\n" +
	"8. Compliance Checks: each with 'name', 'details' and 'applicable'.\n" +
	"9. Sources: direct URLs grouped as 'tariff', 'demand' and 'compliance'.\n\n" +
	"[CRITICAL] If a piece of data is not found, return null or an empty array []. Your entire response MUST be only the JSON structure.\n\n" +
	"Return data in this exact format:\n\n```json\n" + analysisExample + "\n```"

const analysisExample = `{
  "productName": "Fabric-Wrapped Plastic Comb Headband",
  "productDescription": "A classic comb-style headband with a plastic core wrapped in fabric.",
  "minimumOrderQuantity": 500,
  "leadTime": "25-35 days",
  "sampleAvailability": true,
  "specs": {"dimensions": "14cm x 12cm x 2.5cm", "weight": "25g", "coreMaterial": "ABS Plastic", "features": ["Anti-slip interior teeth"]},
  "demandAnalysis": {"usMarketDemand": "High", "competitionLevel": "Very High", "genAiInsight": "Eco-friendly materials are key differentiators.", "marketSize": "$31.6B in 2023", "competitorBenchmarks": ["Brand A: $8.99"], "salesForecast": "Steady with Q3/Q4 growth."},
  "factoryBids": [{"name": "Factory A (Guangdong, China)", "price": 0.32, "specialty": "Fashion Accessories", "risk": "Low", "riskSummary": "Stable bid, 5+ years in business.", "sustainability": "Offers recycled fabric options. ISO 9001 certified.", "certifications": ["OEKO-TEX"], "trustIndicators": [{"name": "In-house mold making", "available": true}], "sourceUrl": "https://alibaba.com/link-to-factory-a"}],
  "packagingOptions": [{"name": "Standard Polybag", "description": "Basic clear bag.", "pricePerUnit": 0.03}, {"name": "Custom Backer Card", "description": "Recycled cardstock.", "pricePerUnit": 0.12}],
  "packagingDetails": {"unitsPerCarton": 250, "cartonDimensions": "50cm x 40cm x 35cm", "cartonWeight": "7.5 kg"},
  "nexyAdvantage": [{"title": "2-Week Express Sample", "description": "Validate quality before committing."}],
  "ddpPriceTiers": [{"quantity": 500, "pricePerUnit": 1.25}, {"quantity": 1000, "pricePerUnit": 0.98}, {"quantity": 5000, "pricePerUnit": 0.82}],
  "logisticsAssumptions": {"exportCountry": "China", "incoterm": "EXW", "portOfLoading": "Shenzhen (Yantian)", "portOfDischarge": "Los Angeles (LAX)", "shippingMode": "Ocean LCL", "cartonEstimate": "Est. 0.5 CBM for 1,000 units"},
  "ddpCostBreakdown": {"htsCode": "9615.11.4000", "factoryPrice": 0.32, "estimatedFreight": 0.40, "mfnDuty": 0.02, "section301Duty": 0.02, "mpf": 0.03, "hmf": 0.00, "brokerageAndIsf": 0.03, "nexyFee": 0.16},
  "complianceChecks": [{"name": "CPSIA Compliance", "details": "Required if marketed to children under 12.", "applicable": true}],
  "sources": {"tariff": ["https://hts.usitc.gov/"], "demand": ["https://www.grandviewresearch.com/industry-analysis/hair-accessories-market"]}
}`

// BuildAnalysisUserText renders the user turn sent alongside the images.
func BuildAnalysisUserText(req AnalysisRequest) string {
	details := strings.TrimSpace(req.UserDetails)
	if details == "" {
		details = "None. Analyze the image only."
	}
	priority := req.PriorityHint
	if priority == "" {
		priority = constants.PriorityMedium
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User-provided details: \"%s\"", details)
	if country := strings.TrimSpace(req.ExportCountryHint); country != "" {
		fmt.Fprintf(&b, "\n\n[IMPORTANT] The user has specified a preferred export country: \"%s\". "+
			"All factory bids, logistics, and duties must be specific to this country.", country)
	}
	fmt.Fprintf(&b, "\n\n[PRIORITY] The user has set the priority for this analysis to: \"%s\". Adapt your analysis accordingly.", string(priority))
	return b.String()
}

const ScoringSystemPrompt = "You are an expert AI photo analyst. Your task is to evaluate the quality of a product image " +
	"for e-commerce and sourcing purposes. Your response MUST be a single, valid JSON object matching the provided schema, " +
	"with no additional text or explanations."

const ScoringPrompt = `Analyze the provided product image. Focus on factors critical for a sourcing request:
- Clarity & Focus: Is the product sharp and in focus?
- Lighting: Is the lighting even, without harsh shadows or glare?
- Background: Is the background simple and non-distracting?
- Completeness: Does the image show the entire product clearly?

Based on your analysis, return a JSON object with:
1. qualityScore: An integer score from 0 to 100.
2. qualityRating: A rating string from the set: "Poor", "Fair", "Good", "Excellent".
3. feedback: A single, concise, and actionable sentence suggesting the most impactful improvement. If the rating is "Excellent", the feedback should be "Image is clear and well-lit."`
