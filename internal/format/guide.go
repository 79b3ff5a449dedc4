package format

import "strings"

const locationGuide = `Location Search Guide:

There are two different ways to search for investors by location:

1. COUNTRY OF INVESTMENT (country parameter):
   - Matches the "Countries of investment" field
   - Shows where the investor makes investments
   - Country aliases are equivalent: "USA", "US", "United States" and
     "America" all find the same investors, as do "UK", "United Kingdom",
     "England" and "Great Britain"
   - Example: "Find VCs in USA" or "Angel investors in UK"

2. GLOBAL HQ LOCATION (hq_location parameter):
   - Matches the "Global HQ" field, e.g. "San Francisco, CA, USA"
   - Shows where the investor's headquarters is located
   - Any part of the address works: city, state or country
   - Example: "Investors headquartered in San Francisco" or "VCs in New York"

Tips:
- Use "country" for broad geographic investment areas
- Use "hq_location" for specific city/state searches
- Known country names use the alias table; anything else is matched as
  case-insensitive text
- Country searches are more precise, HQ searches are more flexible`

const referenceGuide = `Understanding VC Investor Data:

Fields:
- Investor name: the firm or network name
- Website: the investor's website
- Global HQ: headquarters address
- Countries of investment: where the investor deploys capital (may list several)
- Stage of investment: rounds the investor participates in (may list several)
- Investment thesis: free-form description of the investor's focus
- Investor type: the kind of investor (see below)
- First cheque minimum / maximum: typical size of a first investment

Investor Types:
- Angel network: Individual investors who invest their own money
- VC (Venture Capital): Professional investment firms
- PE (Private Equity): Firms that invest in more mature companies
- CVC (Corporate Venture Capital): Investment arms of large corporations
- Family office: Private wealth managers investing for a family
- Accelerator / Incubator: Programs that invest alongside support

Investment Stages:
- Pre-seed: Very early stage, often just an idea
- Seed: Early stage with some traction
- Series A: First significant institutional round
- Series B: Growth stage with proven business model
- Series C+: Later stage funding for scaling
- Growth: Large rounds for established companies

First Cheque Ranges:
- Indicate the typical investment size range for each investor
- Amounts such as "$50k", "1M", "1,000,000" and "50k-100k" are understood
- A cheque-size search matches investors whose range overlaps the requested
  range; investors without a readable amount are left out of such searches
- Useful for understanding if an investor fits your funding needs

Investment Thesis:
- Describes the investor's strategy and focus areas
- Helps determine if there's a good fit for your startup`

const analysisPrompt = `Analyze the following VC investor data and provide insights about the investment landscape.
Consider:
1. Geographic distribution of investors
2. Investment stage preferences
3. Typical investment sizes
4. Investment thesis patterns
5. Any notable trends or insights

Investor data to analyze:
---
{{data}}
---

Provide a structured analysis with key insights and trends.`

// LocationGuide explains country versus HQ location searches.
func LocationGuide() string { return locationGuide }

// ReferenceGuide is the static field and enumeration reference.
func ReferenceGuide() string { return referenceGuide }

// AnalysisPrompt wraps formatted investor data in an analysis prompt.
func AnalysisPrompt(data string) string {
	return strings.Replace(analysisPrompt, "{{data}}", strings.TrimSpace(data), 1)
}
