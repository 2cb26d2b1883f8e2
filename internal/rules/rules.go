// Package rules holds the per-jurisdiction configuration the engine never
// computes: thresholds, deadline offsets and procedure flags. Entries are
// validated when the table loads; lookups of unknown jurisdictions fail
// rather than defaulting, because a silently defaulted deadline misstates
// the law.
package rules

import (
	"sort"
	"strings"

	"github.com/mwhardin/probata/internal/fault"
)

// Rule is the typed configuration record for one jurisdiction. Monetary
// thresholds are cents; deadline offsets are days from their trigger event.
type Rule struct {
	Jurisdiction              string   `json:"jurisdiction" yaml:"jurisdiction"`
	SmallEstateThreshold      int64    `json:"small_estate_threshold_cents" yaml:"small_estate_threshold_cents"`
	InventoryDeadlineDays     int      `json:"inventory_deadline_days" yaml:"inventory_deadline_days"`
	CreditorClaimPeriodDays   int      `json:"creditor_claim_period_days" yaml:"creditor_claim_period_days"`
	FinalAccountDeadlineDays  int      `json:"final_account_deadline_days" yaml:"final_account_deadline_days"`
	BondRequired              bool     `json:"bond_required" yaml:"bond_required"`
	IndependentAdministration bool     `json:"independent_administration" yaml:"independent_administration"`
	Procedures                []string `json:"procedures,omitempty" yaml:"procedures,omitempty"`
}

func (r Rule) validate() error {
	const op = "rules.validate"

	if strings.TrimSpace(r.Jurisdiction) == "" {
		return fault.Configuration(op, "rule entry is missing a jurisdiction")
	}

	if r.SmallEstateThreshold < 0 {
		return fault.Configuration(op, "%s: small-estate threshold must not be negative", r.Jurisdiction)
	}

	for name, days := range map[string]int{
		"inventory deadline":    r.InventoryDeadlineDays,
		"creditor claim period": r.CreditorClaimPeriodDays,
		"final account deadline": r.FinalAccountDeadlineDays,
	} {
		if days <= 0 {
			return fault.Configuration(op, "%s: %s must be a positive number of days, got %d", r.Jurisdiction, name, days)
		}
	}

	return nil
}

// Table is a read-only lookup of rules keyed by normalized jurisdiction.
type Table struct {
	rules map[string]Rule
}

func normalize(jurisdiction string) string {
	return strings.ToUpper(strings.TrimSpace(jurisdiction))
}

func NewTable(entries []Rule) (*Table, error) {
	const op = "rules.NewTable"

	if len(entries) == 0 {
		return nil, fault.Configuration(op, "rule table is empty")
	}

	t := &Table{rules: make(map[string]Rule, len(entries))}

	for _, r := range entries {
		if err := r.validate(); err != nil {
			return nil, err
		}

		key := normalize(r.Jurisdiction)
		if _, dup := t.rules[key]; dup {
			return nil, fault.Configuration(op, "duplicate rule entry for jurisdiction %q", r.Jurisdiction)
		}

		t.rules[key] = r
	}

	return t, nil
}

// Lookup returns the rule for a jurisdiction. Unknown jurisdictions are a
// configuration fault, never a default.
func (t *Table) Lookup(jurisdiction string) (Rule, error) {
	r, ok := t.rules[normalize(jurisdiction)]
	if !ok {
		return Rule{}, fault.Configuration("rules.Lookup", "no rule entry for jurisdiction %q", jurisdiction)
	}

	return r, nil
}

// Jurisdictions lists the configured jurisdiction keys, sorted.
func (t *Table) Jurisdictions() []string {
	out := make([]string, 0, len(t.rules))
	for k := range t.rules {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
