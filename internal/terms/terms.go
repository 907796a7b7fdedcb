// Package terms holds the blacklist/whitelist vocabularies used by the
// eligibility filter and confidence scorer. The lists are configuration
// data, editable without touching detection logic.
package terms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lists is the on-disk shape of terms/terms.yaml.
type Lists struct {
	// Blacklist terms mark merchants that are never subscriptions:
	// groceries, shipping, restaurants, fuel, parking, government, ATMs.
	Blacklist []string `yaml:"blacklist"`
	// Whitelist terms are known subscription-service vocabulary and boost
	// confidence when matched.
	Whitelist []string `yaml:"whitelist"`
}

// Service provides case-insensitive substring matching over term lists.
// It satisfies the detection engine's TermMatcher interface.
type Service struct {
	blacklist []string
	whitelist []string
}

// NewService creates a Service from term lists. Terms are lower-cased once
// up front.
func NewService(lists Lists) *Service {
	return &Service{
		blacklist: lowerAll(lists.Blacklist),
		whitelist: lowerAll(lists.Whitelist),
	}
}

// Load reads terms/terms.yaml from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, "terms", "terms.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading term lists: %w", err)
	}
	var lists Lists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("parsing term lists: %w", err)
	}
	return NewService(lists), nil
}

// Save writes term lists to terms/terms.yaml under a repo root.
func Save(repoRoot string, lists Lists) error {
	dir := filepath.Join(repoRoot, "terms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating terms dir: %w", err)
	}
	data, err := yaml.Marshal(lists)
	if err != nil {
		return fmt.Errorf("marshaling term lists: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "terms.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("writing term lists: %w", err)
	}
	return nil
}

// Blacklisted reports whether any blacklist term occurs in the label.
func (s *Service) Blacklisted(label string) bool {
	return matches(label, s.blacklist)
}

// Whitelisted reports whether any whitelist term occurs in the label.
func (s *Service) Whitelisted(label string) bool {
	return matches(label, s.whitelist)
}

func matches(label string, terms []string) bool {
	// Runs of whitespace in the label collapse to a single space before
	// matching.
	label = strings.Join(strings.Fields(strings.ToLower(label)), " ")
	for _, term := range terms {
		if term != "" && strings.Contains(label, term) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}

// Default returns the seed term lists written by `subtrack init`.
func Default() Lists {
	return Lists{
		Blacklist: []string{
			"albert heijn", "jumbo", "lidl", "aldi", "grocery", "supermarket",
			"postnl", "dhl", "ups", "fedex", "post office",
			"thuisbezorgd", "deliveroo", "uber eats", "restaurant", "mcdonald", "kfc",
			"shell", "esso", "tinq", "fuel", "tankstation",
			"parking", "parkeren", "q-park",
			"belastingdienst", "gemeente", "tax office",
			"atm", "geldautomaat", "cash withdrawal",
		},
		Whitelist: []string{
			"netflix", "spotify", "disney", "hbo", "videoland", "amazon prime",
			"youtube premium", "apple", "icloud", "google one", "dropbox", "github",
			"microsoft 365", "adobe", "playstation", "xbox", "nintendo",
			"gym", "basic-fit", "fitness", "audible", "strava", "duolingo",
		},
	}
}
