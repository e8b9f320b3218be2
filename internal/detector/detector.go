// Package detector implements the rule-based extraction engine. It consumes
// the raw configuration text (not a parsed YAML tree) and a pattern library,
// and assembles a structured record of everything it recognises. Detection is
// deterministic, stateless across calls, and best-effort: a heuristic
// annotator over prose, not a parser.
package detector

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/quill/internal/patterns"
)

// feeContextWindow is how many bytes around a fee match are inspected to
// classify the fee's service type.
const feeContextWindow = 100

// ruleMaxLen caps rule description length.
const ruleMaxLen = 200

// criticalKeywords mark a rule as critical when present in the matched text.
var criticalKeywords = []string{"CRITICAL", "NEVER", "ALWAYS", "MUST"}

var (
	leadingHourRe = regexp.MustCompile(`^(\d{1,2})`)
	noInterestRe  = regexp.MustCompile(`(?i)no[- ]interest`)
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
var allDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Detector runs the pattern cascades against raw text. The library is
// read-only, so a single Detector is safe for concurrent use.
type Detector struct {
	lib    *patterns.Library
	logger *slog.Logger
}

func New(lib *patterns.Library, logger *slog.Logger) *Detector {
	return &Detector{lib: lib, logger: logger}
}

// Detect extracts service information from content. It returns nil for empty
// input, nil when no field group matched anything, and nil (after logging)
// if any cascade panics — a bad match never produces a partial record and
// never propagates to the caller.
func (d *Detector) Detect(content string) (info *ExtractedServiceInfo) {
	if content == "" {
		d.logger.Warn("empty content provided for detection")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("service detection failed", "panic", r)
			info = nil
		}
	}()

	info = &ExtractedServiceInfo{
		CompanyInfo:       detectCompany(d.lib, content),
		DispatchFees:      detectFees(d.lib, content),
		Scheduling:        detectScheduling(d.lib, content),
		Membership:        detectMembership(d.lib, content),
		Metrics:           detectMetrics(d.lib, content),
		Payment:           detectPayment(d.lib, content),
		ServiceCategories: detectServices(d.lib, content),
		SchedulingRules:   detectRules(d.lib, content),
		Metadata: Metadata{
			ContentLength: len(content),
			ExtractedAt:   time.Now().UTC(),
		},
	}

	if info.Empty() {
		d.logger.Debug("no service information detected")
		return nil
	}

	d.logger.Info("service information detected",
		"company", info.CompanyInfo.CompanyName,
		"fees", len(info.DispatchFees),
		"categories", len(info.ServiceCategories),
		"rules", len(info.SchedulingRules),
	)
	return info
}

// firstMatch runs a cascade in library order and returns the submatches of
// the first pattern that hits, or nil. This is the single "first match wins"
// executor shared by every scalar field group.
func firstMatch(cascade []*regexp.Regexp, text string) []string {
	for _, re := range cascade {
		if m := re.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	return nil
}

func detectCompany(lib *patterns.Library, text string) CompanyInfo {
	var ci CompanyInfo
	if m := firstMatch(lib.Company.Name, text); m != nil {
		ci.CompanyName = strings.Trim(m[1], ` "',`)
	}
	if m := firstMatch(lib.Company.Assistant, text); m != nil {
		ci.AssistantName = m[1]
	}
	if m := firstMatch(lib.Company.Greeting, text); m != nil {
		ci.Greeting = strings.TrimSpace(m[0])
	}
	return ci
}

// feeSet appends fees in insertion order while suppressing duplicates by
// (category, amount), so the same fact re-detected under a different pattern
// yields a single entry.
type feeSet struct {
	fees []DispatchFee
	seen map[string]bool
}

func (s *feeSet) add(category string, fee DispatchFee) {
	key := category + "_" + fee.Amount
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.fees = append(s.fees, fee)
}

func detectFees(lib *patterns.Library, text string) []DispatchFee {
	set := feeSet{seen: make(map[string]bool)}

	// Standard fees: every pattern, every match. The context window around
	// the match decides the service type label.
	for _, re := range lib.Fees.Standard {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if loc[2] < 0 {
				continue
			}
			amount := "$" + text[loc[2]:loc[3]]

			start := loc[0] - feeContextWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + feeContextWindow
			if end > len(text) {
				end = len(text)
			}
			ctx := strings.ToLower(text[start:end])

			serviceType := "Standard Service Call"
			if strings.Contains(ctx, "repair") {
				serviceType = "Service Call (Repairs)"
			} else if strings.Contains(ctx, "cleaning") || strings.Contains(ctx, "maintenance") {
				serviceType = "Service Call (Cleaning/Maintenance)"
			}

			set.add("standard", DispatchFee{
				ServiceType: serviceType,
				Amount:      amount,
				Conditions:  "credited toward work if customer proceeds",
			})
		}
	}

	if m := firstMatch(lib.Fees.Emergency, text); m != nil {
		set.add("emergency", DispatchFee{
			ServiceType: "Emergency Call",
			Amount:      "$" + m[1],
			Conditions:  "credited toward work if customer proceeds",
		})
	}

	if m := firstMatch(lib.Fees.Estimate, text); m != nil {
		amount := "$49"
		if strings.Contains(strings.ToLower(m[0]), "free") {
			amount = "FREE"
		} else if len(m) > 1 && m[1] != "" {
			amount = "$" + m[1]
		}
		set.add("estimate", DispatchFee{
			ServiceType: "Estimate Visit",
			Amount:      amount,
			Conditions:  "for new installations, upgrades, renovations",
		})
	}

	if firstMatch(lib.Fees.Member, text) != nil {
		set.add("member", DispatchFee{
			ServiceType: "Members",
			Amount:      "WAIVED",
			Conditions:  "for program members",
		})
	}

	if m := firstMatch(lib.Fees.Multiple, text); m != nil {
		set.add("multiple", DispatchFee{
			ServiceType: "Multiple Issues",
			Amount:      "$" + m[1],
			Conditions:  "covers everything in one visit",
		})
	}

	return set.fees
}

func detectScheduling(lib *patterns.Library, text string) SchedulingInfo {
	var sc SchedulingInfo

	if m := firstMatch(lib.Scheduling.Days, text); m != nil {
		matched := strings.ToLower(m[0])
		switch {
		case strings.Contains(matched, "7 days"):
			sc.OperatingDays = append([]string(nil), allDays...)
		case strings.Contains(matched, "weekday"), strings.Contains(matched, "business day"):
			sc.OperatingDays = append([]string(nil), weekdays...)
		default:
			sc.OperatingDays = append([]string(nil), weekdays...)
		}
	}

	if m := firstMatch(lib.Scheduling.Hours, text); m != nil {
		sc.TotalHours = m[1] + " - " + m[2]

		startHour, startOK := parseHour(m[1])
		endHour, endOK := parseHour(m[2])
		if startOK && endOK {
			if startHour < 12 {
				sc.MorningSlots = m[1] + " - 12:00 PM"
			}
			if endHour > 12 {
				// Prefer the conventional 5 PM close when the text mentions it.
				if strings.Contains(text, "5:00 PM") || strings.Contains(text, "5 PM") {
					sc.AfternoonSlots = "12:00 PM - 5:00 PM"
				} else {
					sc.AfternoonSlots = "12:00 PM - " + m[2]
				}
			}
		}
	}

	return sc
}

// parseHour extracts the leading hour from a time string and normalises it
// to 24-hour form (PM adds 12 unless the hour is 12; 12 AM becomes 0).
func parseHour(s string) (int, bool) {
	m := leadingHourRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hour := 0
	for _, c := range m[1] {
		hour = hour*10 + int(c-'0')
	}
	upper := strings.ToUpper(s)
	if strings.Contains(upper, "PM") && hour != 12 {
		hour += 12
	} else if strings.Contains(upper, "AM") && hour == 12 {
		hour = 0
	}
	return hour, true
}

func detectMembership(lib *patterns.Library, text string) MembershipBenefits {
	var mb MembershipBenefits

	if m := firstMatch(lib.Membership.ProgramName, text); m != nil {
		switch {
		case strings.Contains(m[0], "HEART"):
			mb.ProgramName = "HEART Membership"
		case strings.Contains(m[0], "Fresh air"):
			mb.ProgramName = "Fresh air Membership"
		case len(m) > 1 && m[1] != "":
			mb.ProgramName = m[1] + " Membership"
		}
	}

	if m := firstMatch(lib.Membership.Discount, text); m != nil {
		mb.RepairDiscount = m[1] + "% off all repairs"
	}

	if firstMatch(lib.Membership.Warranty, text) != nil {
		mb.Warranty = "Lifetime parts and labor warranty"
	}

	// Benefits collect across all patterns and matches; phrases dedup by
	// exact text.
	have := make(map[string]bool)
	addBenefit := func(phrase string) {
		if !have[phrase] {
			have[phrase] = true
			mb.OtherBenefits = append(mb.OtherBenefits, phrase)
		}
	}
	for _, re := range lib.Membership.Benefits {
		for _, matched := range re.FindAllString(text, -1) {
			lower := strings.ToLower(matched)
			switch {
			case strings.Contains(lower, "waive"), strings.Contains(lower, "free"):
				mb.DispatchFee = "WAIVED"
				addBenefit("Free service visits")
			case strings.Contains(lower, "priority"):
				addBenefit("Priority scheduling")
			case strings.Contains(lower, "never pay"):
				addBenefit("No charge for expert inspections")
			}
		}
	}

	return mb
}

func detectMetrics(lib *patterns.Library, text string) OperationalMetrics {
	var om OperationalMetrics

	if m := firstMatch(lib.Metrics.Experience, text); m != nil {
		if strings.Contains(strings.ToLower(text), "colorado") {
			om.CompanyExperience = m[1] + "+ years in Colorado"
		} else {
			om.CompanyExperience = m[1] + "+ years"
		}
	}

	if m := firstMatch(lib.Metrics.Reviews, text); m != nil {
		count := strings.ReplaceAll(m[1], ",", "")
		lower := strings.ToLower(m[0])
		if strings.Contains(lower, "five-star") || strings.Contains(lower, "5-star") {
			om.CustomerReviews = count + "+ five-star reviews"
		} else {
			om.CustomerReviews = count + "+ reviews"
		}
	}

	if m := firstMatch(lib.Metrics.Resolution, text); m != nil {
		if strings.Contains(m[0], "out of") && len(m) > 2 && m[2] != "" {
			om.SameDayResolution = m[1] + " out of " + m[2] + " times"
		} else {
			om.SameDayResolution = m[1] + "% same-day resolution"
		}
	}

	if m := firstMatch(lib.Metrics.Notification, text); m != nil {
		if len(m) > 2 && m[2] != "" {
			om.CallAheadNotification = m[1] + "-" + m[2] + " minutes before arrival"
		} else {
			om.CallAheadNotification = m[1] + " minutes before arrival"
		}
	}

	if m := firstMatch(lib.Metrics.ServiceArea, text); m != nil {
		om.ServiceArea = strings.TrimSpace(m[1])
	}

	return om
}

func detectPayment(lib *patterns.Library, text string) PaymentInfo {
	var pi PaymentInfo

	for _, p := range lib.Payment {
		if !p.Pattern.MatchString(text) {
			continue
		}
		if p.Key == "financing" && noInterestRe.MatchString(text) {
			pi.AcceptedMethods = append(pi.AcceptedMethods, "No-interest payment plans")
			pi.PaymentPlans = "No-interest payment plans (for qualifying projects)"
			continue
		}
		pi.AcceptedMethods = append(pi.AcceptedMethods, p.Label)
	}

	return pi
}

func detectServices(lib *patterns.Library, text string) []ServiceCategory {
	var cats []ServiceCategory
	for _, sp := range lib.Services {
		if !sp.Pattern.MatchString(text) {
			continue
		}
		var subs []string
		for _, sub := range sp.Subcategories {
			if sub.Pattern.MatchString(text) {
				subs = append(subs, sub.Label)
			}
		}
		cats = append(cats, ServiceCategory{Name: sp.Name, Subcategories: subs})
	}
	return cats
}

func detectRules(lib *patterns.Library, text string) []SchedulingRule {
	var rules []SchedulingRule
	seen := make(map[string]bool)

	for _, group := range lib.Rules {
		for _, re := range group.Patterns {
			for _, matched := range re.FindAllString(text, -1) {
				desc := truncate(strings.TrimSpace(matched), ruleMaxLen)
				if seen[desc] {
					continue
				}
				seen[desc] = true

				rules = append(rules, SchedulingRule{
					RuleType:    group.Type,
					Description: desc,
					Priority:    rulePriority(desc),
				})
			}
		}
	}

	return rules
}

func rulePriority(text string) string {
	upper := strings.ToUpper(text)
	for _, kw := range criticalKeywords {
		if strings.Contains(upper, kw) {
			return "critical"
		}
	}
	return "normal"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
