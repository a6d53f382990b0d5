package models

import "fmt"

// Sentinel strings used by the legacy schema and the JSON API.
const (
	sharedSentinel   = "shared"
	excludedSentinel = "excluded"
	splitAllSentinel = "both"
)

type assigneeKind uint8

const (
	assigneeParty assigneeKind = iota
	assigneeShared
	assigneeExcluded
)

// Assignee identifies who carries the cost of an item: a single real party,
// Shared (split evenly among all parties) or Excluded (recorded for history
// but never counted toward any balance).
//
// The zero value is an assignment to the empty party name; use the
// constructors instead.
type Assignee struct {
	kind  assigneeKind
	party string
}

// AssigneeShared marks an item whose cost is split evenly among all parties.
var AssigneeShared = Assignee{kind: assigneeShared}

// AssigneeExcluded marks an item that is persisted for audit but omitted from
// every total.
var AssigneeExcluded = Assignee{kind: assigneeExcluded}

// PartyAssignee assigns an item to a single real party.
func PartyAssignee(party string) Assignee {
	return Assignee{kind: assigneeParty, party: party}
}

// IsShared reports whether the item is split among all parties.
func (a Assignee) IsShared() bool { return a.kind == assigneeShared }

// IsExcluded reports whether the item is excluded from all totals.
func (a Assignee) IsExcluded() bool { return a.kind == assigneeExcluded }

// Party returns the real party name and true, or "" and false for the
// Shared/Excluded cases.
func (a Assignee) Party() (string, bool) {
	if a.kind != assigneeParty {
		return "", false
	}
	return a.party, true
}

// String renders the assignee in the legacy sentinel form.
func (a Assignee) String() string {
	switch a.kind {
	case assigneeShared:
		return sharedSentinel
	case assigneeExcluded:
		return excludedSentinel
	default:
		return a.party
	}
}

// ParseAssignee maps a stored or submitted assignment string back to an
// Assignee. Any non-sentinel value is treated as a real party name.
func ParseAssignee(s string) Assignee {
	switch s {
	case sharedSentinel:
		return AssigneeShared
	case excludedSentinel:
		return AssigneeExcluded
	default:
		return PartyAssignee(s)
	}
}

// MarshalText implements encoding.TextMarshaler for JSON round-trips.
func (a Assignee) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Assignee) UnmarshalText(text []byte) error {
	*a = ParseAssignee(string(text))
	return nil
}

type payerKind uint8

const (
	payerParty payerKind = iota
	payerSplitAll
	payerUnattributed
)

// Payer identifies who paid a receipt: a single real party, SplitAll (payment
// split evenly among all parties, "both" in the legacy schema) or
// Unattributed (no payer recorded; the receipt contributes to no paid total).
//
// The zero value is a payment by the empty party name; use the constructors.
type Payer struct {
	kind  payerKind
	party string
}

// PayerSplitAll marks a receipt paid evenly by all parties.
var PayerSplitAll = Payer{kind: payerSplitAll}

// PayerUnattributed marks a receipt with no recorded payer.
var PayerUnattributed = Payer{kind: payerUnattributed}

// PartyPayer marks a receipt paid in full by a single real party.
func PartyPayer(party string) Payer {
	return Payer{kind: payerParty, party: party}
}

// IsSplitAll reports whether payment was split evenly among all parties.
func (p Payer) IsSplitAll() bool { return p.kind == payerSplitAll }

// IsUnattributed reports whether the receipt has no recorded payer.
func (p Payer) IsUnattributed() bool { return p.kind == payerUnattributed }

// Party returns the paying party name and true, or "" and false for the
// SplitAll/Unattributed cases.
func (p Payer) Party() (string, bool) {
	if p.kind != payerParty {
		return "", false
	}
	return p.party, true
}

// String renders the payer in the legacy sentinel form. Unattributed renders
// as the empty string (stored as NULL).
func (p Payer) String() string {
	switch p.kind {
	case payerSplitAll:
		return splitAllSentinel
	case payerUnattributed:
		return ""
	default:
		return p.party
	}
}

// ParsePayer maps a stored or submitted payer string back to a Payer. The
// empty string means unattributed; any other non-sentinel value is a real
// party name.
func ParsePayer(s string) Payer {
	switch s {
	case splitAllSentinel:
		return PayerSplitAll
	case "":
		return PayerUnattributed
	default:
		return PartyPayer(s)
	}
}

// MarshalText implements encoding.TextMarshaler for JSON round-trips.
func (p Payer) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Payer) UnmarshalText(text []byte) error {
	*p = ParsePayer(string(text))
	return nil
}

// ValidateParty checks that name refers to one of the configured real
// parties.
func ValidateParty(name string, parties []string) error {
	for _, p := range parties {
		if p == name {
			return nil
		}
	}
	return fmt.Errorf("unknown party %q", name)
}
