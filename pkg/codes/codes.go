// Package codes turns item identifiers into the search keys expected by
// the enrichment source. Several providers publish identifiers that the
// enrichment source indexes in a different shape, so each of them has
// its own rule.
package codes

import (
	"regexp"
	"strings"
)

// Provider markers, matched against upper-cased codes.
const (
	TokyoHot = "TOKYO-HOT"
	Gachinco = "GACHINCO"
	Carib    = "CARIB"
	CaribPR  = "CARIBPR"
	Paco     = "PACO"
	TenMu    = "10MU"
	OnePondo = "1PONDO"
)

// DatePattern matches the date-like "<digits>-<digits>" part of codes
// from providers that publish their items by release date.
const DatePattern = `[0-9]+-[0-9]+`

var dateRe = regexp.MustCompile(DatePattern)

// underscored lists providers whose search keys use "_" instead of "-".
var underscored = []string{CaribPR, Paco, TenMu, OnePondo}

// Normalize returns the search key for an upper-cased code. The second
// value is false when the code belongs to a known provider but does not
// contain a usable key. Rules are checked in order and the first match
// wins; codes of unknown providers are returned unchanged.
func Normalize(code string) (string, bool) {
	switch {
	case strings.Contains(code, TokyoHot):
		return strings.ReplaceAll(code, TokyoHot+"-", ""), true
	case strings.Contains(code, Gachinco):
		return strings.ReplaceAll(code, Gachinco+"-", ""), true
	case strings.Contains(code, Carib) && !strings.Contains(code, CaribPR):
		return datePart(code)
	case containsAny(code, underscored):
		res, ok := datePart(code)
		if !ok {
			return "", false
		}
		return strings.ReplaceAll(res, "-", "_"), true
	default:
		return code, true
	}
}

// datePart returns the first <digits>-<digits> run. Being leftmost and
// greedy, it is also the longest run starting at that position.
func datePart(code string) (string, bool) {
	res := dateRe.FindString(code)
	return res, res != ""
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
