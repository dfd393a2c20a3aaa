// Package chat answers FAQ-style questions about a finished assessment.
// Dispatch is an ordered list of keyword predicates over the question
// text; responses only reference values already computed by the pipeline.
package chat

import (
	"fmt"
	"math"
	"strings"

	"github.com/solarmap/solarmap/internal/model"
)

// rule pairs a question predicate with a response builder.
type rule struct {
	match   func(q string) bool
	respond func(a *model.Assessment) string
}

// Responder answers questions against one assessment.
type Responder struct {
	rules []rule
}

// NewResponder builds the default rule set. Rules are evaluated in order;
// the first match wins.
func NewResponder() *Responder {
	return &Responder{rules: []rule{
		{
			match: containsAny("tilt"),
			respond: func(a *model.Assessment) string {
				lat := math.Abs(a.Request.Location.Latitude)
				return fmt.Sprintf("Set tilt roughly equal to latitude (%.1f°). For seasonal bias, adjust ±10°.", lat)
			},
		},
		{
			match: containsAny("cost", "price"),
			respond: func(a *model.Assessment) string {
				return fmt.Sprintf("Typical installation cost used here: ₹%.0f/kW. Actual quotes vary by vendor.", a.Request.Financial.CostPerKW)
			},
		},
		{
			match: containsAny("payback", "roi"),
			respond: func(a *model.Assessment) string {
				return fmt.Sprintf("Payback = install cost / annual savings = %.1f years (estimate).", a.Financial.PaybackYears)
			},
		},
		{
			match: func(q string) bool {
				return strings.Contains(q, "how many") && strings.Contains(q, "panel")
			},
			respond: func(a *model.Assessment) string {
				return fmt.Sprintf("Based on roof geometry and panel size, %d panels fit in the selected area.", a.Layout.Panels)
			},
		},
		{
			match: containsAny("ghi", "sun", "irradiance"),
			respond: func(a *model.Assessment) string {
				return fmt.Sprintf("Mean GHI at the selected location is ~%.2f kWh/m²/day (%s).", a.MeanIrradiance, a.IrradianceSource)
			},
		},
		{
			match: containsAny("score", "suitab"),
			respond: func(a *model.Assessment) string {
				return fmt.Sprintf("The site scores %.1f/100 (%s).", a.Suitability.Score, a.Band)
			},
		},
	}}
}

// helpText is returned when no rule matches.
const helpText = "I can help with tilt, cost, payback, panels fit, GHI, and suitability. " +
	"Try questions like \"What's the payback?\" or \"How many panels can fit?\""

// Answer returns the canned response for a question.
func (r *Responder) Answer(question string, a *model.Assessment) string {
	q := strings.ToLower(question)
	for _, rule := range r.rules {
		if rule.match(q) {
			return rule.respond(a)
		}
	}
	return helpText
}

func containsAny(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				return true
			}
		}
		return false
	}
}
