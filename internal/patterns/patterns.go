// Package patterns holds the static pattern library used by the detector.
// The library is pure data: ordered cascades of compiled expressions per
// field group, where order encodes precedence (most reliable pattern first).
// The matching algorithm lives in the detector; adding a pattern here never
// requires touching it.
package patterns

import "regexp"

// Library is the immutable pattern table handed to the detector. Production
// code uses Default(); tests build minimal libraries directly.
type Library struct {
	Company    CompanyPatterns
	Fees       FeePatterns
	Scheduling SchedulingPatterns
	Membership MembershipPatterns
	Metrics    MetricsPatterns
	Payment    []PaymentPattern
	Services   []ServicePattern
	Rules      []RuleGroup
}

// CompanyPatterns are first-match cascades for company identity fields.
type CompanyPatterns struct {
	Name      []*regexp.Regexp
	Assistant []*regexp.Regexp
	Greeting  []*regexp.Regexp
}

// FeePatterns are cascades per fee category. Standard is collect-all with
// dedup; the rest are first-match.
type FeePatterns struct {
	Standard  []*regexp.Regexp
	Emergency []*regexp.Regexp
	Estimate  []*regexp.Regexp
	Member    []*regexp.Regexp
	Multiple  []*regexp.Regexp
}

type SchedulingPatterns struct {
	Days  []*regexp.Regexp
	Hours []*regexp.Regexp
}

type MembershipPatterns struct {
	ProgramName []*regexp.Regexp
	Discount    []*regexp.Regexp
	Warranty    []*regexp.Regexp
	Benefits    []*regexp.Regexp
}

type MetricsPatterns struct {
	Experience   []*regexp.Regexp
	Reviews      []*regexp.Regexp
	Resolution   []*regexp.Regexp
	Notification []*regexp.Regexp
	ServiceArea  []*regexp.Regexp
}

// PaymentPattern is a presence test, not a cascade: the pattern matching
// anywhere in the text adds the labelled method. Key is the dispatch key the
// detector uses for method-specific post-processing (financing terms).
type PaymentPattern struct {
	Key     string
	Label   string
	Pattern *regexp.Regexp
}

// ServicePattern is a presence test for one category of the fixed taxonomy,
// with its own subcategory presence tests.
type ServicePattern struct {
	Name          string
	Pattern       *regexp.Regexp
	Subcategories []SubcategoryPattern
}

type SubcategoryPattern struct {
	Label   string
	Pattern *regexp.Regexp
}

// RuleGroup is a collect-all cascade for one operational rule type.
type RuleGroup struct {
	Type     string
	Patterns []*regexp.Regexp
}

func mustAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Default returns the production pattern library.
func Default() *Library {
	return &Library{
		Company: CompanyPatterns{
			Name: mustAll(
				`(?im)(?:calling|working at|from|with)\s*["']?([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*\s*(?:HVAC|Plumbing|Electric|Services?)?)["']?`,
				`(?im)Thank you for calling\s+([^,\.]+)`,
				`(?im)Welcome to\s+([^,\.]+)`,
			),
			Assistant: mustAll(
				`(?i)(?:This is|I'm|My name is|representative named?|agent named?)\s+([A-Z][a-z]+)`,
				`(?i)([A-Z][a-z]+)\s+(?:speaking|here|at your service)`,
				`(?i)agent_greeting:.*?This is\s+([A-Z][a-z]+)`,
			),
			Greeting: mustAll(
				`(?im)agent_greeting:\s*(.+?)(?:\n|$)`,
				`(?im)Thank you for calling.*?(?:This is\s+\w+.*?)?(?:\n|$)`,
			),
		},
		Fees: FeePatterns{
			Standard: mustAll(
				`(?i)\$(\d+)\s*(?:dispatch|service call|service|visit)\s*fee`,
				`(?i)dispatch fee.*?\$(\d+)`,
				`(?i)\$(\d+).*?(?:for|covers?).*?(?:service|repair|diagnosis|cleaning|maintenance)`,
				`(?i)Service Call.*?\$(\d+)`,
				`(?i)(?:repair|cleaning|maintenance).*?\$(\d+)\s*dispatch`,
			),
			Emergency: mustAll(
				`(?i)emergency.*?\$(\d+)`,
				`(?i)\$(\d+).*?emergency`,
				`(?i)Emergency Call.*?\$(\d+)`,
			),
			Estimate: mustAll(
				`(?i)estimate.*?(?:FREE|free|no charge|\$(\d+))`,
				`(?i)(?:FREE|free|no charge|\$(\d+)).*?estimate`,
				`(?i)Estimate Visit.*?(?:FREE|\$(\d+))`,
				`(?i)(?:new installations?|upgrades?|renovations?).*?(?:FREE|\$(\d+))`,
			),
			Member: mustAll(
				`(?i)(?:member|membership).*?(?:WAIVED|waived|no charge|free)`,
				`(?i)(?:WAIVED|waived|no charge|free).*?(?:member|membership)`,
				`(?i)(?:HEART|Fresh air)\s+Members?.*?(?:waived|free|no charge)`,
			),
			Multiple: mustAll(
				`(?i)multiple issues.*?\$(\d+)`,
				`(?i)\$(\d+).*?covers everything.*?one visit`,
			),
		},
		Scheduling: SchedulingPatterns{
			Days: mustAll(
				`(?i)Monday.*?(?:through|to|-|–).*?Friday`,
				`(?i)Mon.*?(?:through|to|-|–).*?Fri`,
				`(?i)(?:Monday|Tuesday|Wednesday|Thursday|Friday)(?:\s*,\s*(?:Monday|Tuesday|Wednesday|Thursday|Friday))+`,
				`(?i)7\s*days\s*a\s*week`,
				`(?i)(?:weekdays|business days)`,
			),
			Hours: mustAll(
				`(?i)(\d{1,2}:\d{2}\s*[AP]M).*?(?:to|-|–).*?(\d{1,2}:\d{2}\s*[AP]M)`,
				`(?i)(\d{1,2}\s*[AP]M).*?(?:to|-|–).*?(\d{1,2}\s*[AP]M)`,
			),
		},
		Membership: MembershipPatterns{
			ProgramName: mustAll(
				`(?i)([A-Z][A-Za-z]+)\s+(?:Member|Membership|Program|Club)`,
				`(?i)(?:Member|Membership)\s+(?:program|plan|club)\s+(?:called|named)\s+([A-Z][A-Za-z]+)`,
				`(?i)(?:HEART|Fresh air)\s+(?:Member|Membership)`,
			),
			Discount: mustAll(
				`(?i)(\d+)%\s*(?:off|discount).*?(?:repair|service)`,
				`(?i)(?:repair|service).*?(\d+)%\s*(?:off|discount)`,
				`(?i)Members?.*?(?:receive|get|save)\s*(\d+)%`,
			),
			Warranty: mustAll(
				`(?i)(?:lifetime|permanent|extended|unlimited).*?(?:parts.*?labor\s*)?warranty`,
				`(?i)warranty.*?(?:lifetime|permanent|extended|unlimited)`,
			),
			Benefits: mustAll(
				`(?i)(?:waive|no|free).*?(?:dispatch|service).*?fee`,
				`(?i)(?:priority|preferred).*?(?:scheduling|service)`,
				`(?i)(?:annual|yearly).*?(?:inspection|tune-up|maintenance)`,
				`(?i)never pay.*?charge.*?(?:inspect|visit)`,
			),
		},
		Metrics: MetricsPatterns{
			Experience: mustAll(
				`(?i)(\d+)\+?\s*years?.*?(?:experience|serving|business|operation)`,
				`(?i)(?:over|more than)\s+(\d+)\s*years?`,
				`(?i)(?:established|founded|since).*?(\d{4})`,
				`(?i)serving.*?(?:for|over)\s*(\d+)\s*years?`,
			),
			Reviews: mustAll(
				`(?i)(\d+[,\d]*)\+?\s*(?:five-star|5-star)?\s*reviews?`,
				`(?i)(?:over|more than)\s+(\d+[,\d]*)\s*(?:customer)?\s*reviews?`,
				`(?i)(?:earned|received)\s*(\d+[,\d]*)\+?\s*reviews?`,
			),
			Resolution: mustAll(
				`(?i)(\d+)\s*(?:out of|times out of)\s*(\d+)`,
				`(?i)(\d+)%\s*(?:same-day|first-visit)?\s*resolution`,
				`(?i)fix.*?same-day.*?(\d+)\s*(?:out of|times)`,
			),
			Notification: mustAll(
				`(?i)(\d+)[-–](\d+)\s*minutes?\s*(?:before|ahead|prior)`,
				`(?i)(?:call|notify).*?(\d+).*?minutes?\s*(?:before|ahead)`,
				`(?i)call.*?ahead.*?(\d+)[-–]?(\d*)\s*minutes?`,
			),
			ServiceArea: mustAll(
				`(?i)(?:serving|service area|coverage).*?([A-Za-z\s]+(?:and|&)\s*(?:surrounding|nearby)\s*(?:areas?|cities|towns))`,
				`(?i)([A-Za-z\s]+)\s*(?:metro|metropolitan)?\s*area`,
				`(?i)serves?\s+([A-Za-z\s]+\s*(?:and|&)?\s*(?:surrounding areas?)?)`,
			),
		},
		Payment: []PaymentPattern{
			{Key: "credit_debit", Label: "Credit/Debit Cards", Pattern: regexp.MustCompile(`(?i)(?:credit|debit)(?:\s*(?:and|&|/)\s*debit)?\s*cards?|major credit cards`)},
			{Key: "cash", Label: "Cash", Pattern: regexp.MustCompile(`(?i)\bcash\b`)},
			{Key: "check", Label: "Check", Pattern: regexp.MustCompile(`(?i)\bcheck\b`)},
			{Key: "financing", Label: "Payment Plans", Pattern: regexp.MustCompile(`(?i)(?:financing|payment plans?|installments?|no[- ]interest)`)},
			{Key: "online", Label: "Online Payment", Pattern: regexp.MustCompile(`(?i)(?:online payment|pay online|digital payment)`)},
			{Key: "ach", Label: "ACH/Bank Transfer", Pattern: regexp.MustCompile(`(?i)(?:ACH|bank transfer|wire transfer)`)},
		},
		Services: []ServicePattern{
			{
				Name:    "HVAC",
				Pattern: regexp.MustCompile(`(?i)(?:HVAC|heating|cooling|air\s*conditioning|furnace|AC|heat\s*pump)`),
				Subcategories: []SubcategoryPattern{
					{Label: "Heating", Pattern: regexp.MustCompile(`(?i)heating`)},
					{Label: "Cooling", Pattern: regexp.MustCompile(`(?i)cooling|air\s*conditioning|AC`)},
					{Label: "Furnace", Pattern: regexp.MustCompile(`(?i)furnace`)},
				},
			},
			{
				Name:    "Plumbing",
				Pattern: regexp.MustCompile(`(?i)(?:plumb(?:ing|er)|pipe|drain|water\s*heater|faucet|toilet|sink)`),
				Subcategories: []SubcategoryPattern{
					{Label: "Drain Services", Pattern: regexp.MustCompile(`(?i)drain`)},
					{Label: "Water Heater", Pattern: regexp.MustCompile(`(?i)water\s*heater`)},
					{Label: "Pipe Repair", Pattern: regexp.MustCompile(`(?i)pipe`)},
					{Label: "Faucet Repair", Pattern: regexp.MustCompile(`(?i)faucet`)},
					{Label: "Toilet Services", Pattern: regexp.MustCompile(`(?i)toilet`)},
				},
			},
			{
				Name:    "Electrical",
				Pattern: regexp.MustCompile(`(?i)(?:electric(?:al|ian)?|wiring|outlet|breaker|panel|lighting)`),
				Subcategories: []SubcategoryPattern{
					{Label: "Panel Upgrades", Pattern: regexp.MustCompile(`(?i)panel`)},
					{Label: "Wiring", Pattern: regexp.MustCompile(`(?i)wiring`)},
					{Label: "Lighting", Pattern: regexp.MustCompile(`(?i)lighting`)},
					{Label: "Outlets", Pattern: regexp.MustCompile(`(?i)outlet`)},
				},
			},
			{Name: "Emergency", Pattern: regexp.MustCompile(`(?i)emergency\s*(?:service|repair|call|response)`)},
			{Name: "Maintenance", Pattern: regexp.MustCompile(`(?i)(?:maintenance|tune[- ]up|inspection|preventive|cleaning)`)},
			{Name: "Installation", Pattern: regexp.MustCompile(`(?i)(?:installation|install|replacement|upgrade)`)},
			{Name: "Repair", Pattern: regexp.MustCompile(`(?i)(?:repair|fix|service|troubleshoot)`)},
		},
		Rules: []RuleGroup{
			{
				Type: "scheduling",
				Patterns: mustAll(
					`(?im)(?:NEVER|never|ALWAYS|always|MUST|must|ONLY|only).*?(?:availability|appointment|schedule|slot|book)`,
					`(?im)(?:CRITICAL|critical).*?(?:scheduling|booking|availability)`,
					`(?im)NEVER END A CALL WITHOUT BOOKING`,
				),
			},
			{
				Type: "pricing",
				Patterns: mustAll(
					`(?im)(?:NEVER|never|ALWAYS|always).*?(?:price|quote|estimate).*?(?:phone|call)`,
					`(?im)DO NOT provide.*?pricing`,
				),
			},
			{
				Type: "service",
				Patterns: mustAll(
					`(?im)(?:DO NOT|don't|cannot|will not).*?(?:service|work on|handle)`,
				),
			},
		},
	}
}
