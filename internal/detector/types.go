package detector

import "time"

// CompanyInfo holds company and assistant identity fields. Each field is
// optional; the first matching pattern in the cascade wins.
type CompanyInfo struct {
	CompanyName   string `json:"company_name,omitempty"`
	AssistantName string `json:"assistant_name,omitempty"`
	Greeting      string `json:"greeting,omitempty"`
	Tagline       string `json:"tagline,omitempty"`
}

// DispatchFee is one detected service fee. Amount is a formatted currency
// string or one of the sentinels "FREE" / "WAIVED".
type DispatchFee struct {
	ServiceType string `json:"service_type"`
	Amount      string `json:"amount"`
	Conditions  string `json:"conditions,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// SchedulingInfo holds operating days and hour ranges.
type SchedulingInfo struct {
	OperatingDays  []string `json:"operating_days,omitempty"`
	TotalHours     string   `json:"total_hours,omitempty"`
	MorningSlots   string   `json:"morning_slots,omitempty"`
	AfternoonSlots string   `json:"afternoon_slots,omitempty"`
	EmergencyHours string   `json:"emergency_hours,omitempty"`
}

// MembershipBenefits describes a detected membership program.
type MembershipBenefits struct {
	ProgramName    string   `json:"program_name,omitempty"`
	DispatchFee    string   `json:"dispatch_fee,omitempty"`
	RepairDiscount string   `json:"repair_discount,omitempty"`
	Warranty       string   `json:"warranty,omitempty"`
	OtherBenefits  []string `json:"other_benefits,omitempty"`
}

// OperationalMetrics holds formatted operational figures.
type OperationalMetrics struct {
	SameDayResolution    string `json:"same_day_resolution,omitempty"`
	CallAheadNotification string `json:"call_ahead_notification,omitempty"`
	CompanyExperience    string `json:"company_experience,omitempty"`
	CustomerReviews      string `json:"customer_reviews,omitempty"`
	ServiceArea          string `json:"service_area,omitempty"`
	ResponseTime         string `json:"response_time,omitempty"`
}

// PaymentInfo lists accepted payment methods and terms. AcceptedMethods is
// ordered and duplicate-free by construction (one library entry per label).
type PaymentInfo struct {
	AcceptedMethods []string `json:"accepted_methods,omitempty"`
	PaymentPlans    string   `json:"payment_plans,omitempty"`
	BillingTerms    string   `json:"billing_terms,omitempty"`
}

// ServiceCategory is one entry of the fixed service taxonomy with the
// subcategories detected alongside it.
type ServiceCategory struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
}

// SchedulingRule is a detected operational rule. Priority is "critical" when
// the matched text carries an imperative keyword, otherwise "normal".
type SchedulingRule struct {
	RuleType    string `json:"rule_type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Metadata describes the extraction pass itself.
type Metadata struct {
	ContentLength int       `json:"content_length"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// ExtractedServiceInfo is the aggregate produced by one Detect call. It is
// fully populated before return and never mutated afterwards.
type ExtractedServiceInfo struct {
	CompanyInfo       CompanyInfo        `json:"company_info"`
	DispatchFees      []DispatchFee      `json:"dispatch_fees,omitempty"`
	Scheduling        SchedulingInfo     `json:"scheduling"`
	Membership        MembershipBenefits `json:"membership"`
	Metrics           OperationalMetrics `json:"metrics"`
	Payment           PaymentInfo        `json:"payment"`
	ServiceCategories []ServiceCategory  `json:"service_categories,omitempty"`
	SchedulingRules   []SchedulingRule   `json:"scheduling_rules,omitempty"`
	Metadata          Metadata           `json:"metadata"`
}

// Empty reports whether nothing at all was detected. Metadata is bookkeeping
// and does not count.
func (e *ExtractedServiceInfo) Empty() bool {
	switch {
	case e.CompanyInfo != (CompanyInfo{}):
		return false
	case len(e.DispatchFees) > 0:
		return false
	case len(e.Scheduling.OperatingDays) > 0,
		e.Scheduling.TotalHours != "",
		e.Scheduling.MorningSlots != "",
		e.Scheduling.AfternoonSlots != "",
		e.Scheduling.EmergencyHours != "":
		return false
	case e.Membership.ProgramName != "",
		e.Membership.DispatchFee != "",
		e.Membership.RepairDiscount != "",
		e.Membership.Warranty != "",
		len(e.Membership.OtherBenefits) > 0:
		return false
	case e.Metrics != (OperationalMetrics{}):
		return false
	case len(e.Payment.AcceptedMethods) > 0,
		e.Payment.PaymentPlans != "",
		e.Payment.BillingTerms != "":
		return false
	case len(e.ServiceCategories) > 0, len(e.SchedulingRules) > 0:
		return false
	}
	return true
}
