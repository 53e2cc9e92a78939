// Package chat implements the dashboard's fallback assistant: an
// ordered list of (predicate, response) rules evaluated in sequence.
// The final rule always matches, so Reply never comes back empty.
package chat

import (
	"strings"
	"unicode"
)

// Predicate decides whether a rule applies to a normalized message.
type Predicate func(message string) bool

// Rule pairs a predicate with its canned response.
type Rule struct {
	Name     string
	Matches  Predicate
	Response string
}

// Responder evaluates rules in order; the first match wins.
type Responder struct {
	rules []Rule
}

// NewResponder builds a responder from explicit rules plus a catch-all
// fallback appended last.
func NewResponder(rules []Rule, fallback string) *Responder {
	all := make([]Rule, 0, len(rules)+1)
	all = append(all, rules...)
	all = append(all, Rule{
		Name:     "fallback",
		Matches:  func(string) bool { return true },
		Response: fallback,
	})
	return &Responder{rules: all}
}

// Reply returns the response of the first rule whose predicate matches
// the message, along with the rule name for diagnostics.
func (r *Responder) Reply(message string) (string, string) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, rule := range r.rules {
		if rule.Matches(normalized) {
			return rule.Response, rule.Name
		}
	}
	// Unreachable: the fallback rule always matches.
	return "", ""
}

// ContainsAny builds a predicate matching any of the given keywords.
func ContainsAny(keywords ...string) Predicate {
	return func(message string) bool {
		for _, kw := range keywords {
			if strings.Contains(message, kw) {
				return true
			}
		}
		return false
	}
}

// ContainsWord builds a predicate matching any of the given keywords as
// whole words only, so short greetings like "hi" do not fire on
// substrings ("history", "ohio").
func ContainsWord(keywords ...string) Predicate {
	return func(message string) bool {
		words := strings.FieldsFunc(message, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			for _, kw := range keywords {
				if w == kw {
					return true
				}
			}
		}
		return false
	}
}

// DefaultRules returns the assistant's built-in rule set, ordered from
// most to least specific.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "greeting",
			Matches:  ContainsWord("hello", "hi", "hola"),
			Response: "Hello! Ask me about seismic statistics, risk predictions, or your account.",
		},
		{
			Name:     "statistics",
			Matches:  ContainsAny("statistic", "magnitude", "earthquake", "sismo"),
			Response: "Seismic statistics live on the dashboard. Try the summary view or pick a year for a breakdown.",
		},
		{
			Name:     "prediction",
			Matches:  ContainsAny("predict", "risk", "forecast"),
			Response: "Risk predictions are generated per region. Open the predictions view and select a region key.",
		},
		{
			Name:     "login",
			Matches:  ContainsAny("login", "log in", "face", "register", "sign up"),
			Response: "Authentication uses your face: register once with a clear photo, then log in with the camera.",
		},
	}
}
