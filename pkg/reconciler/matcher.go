package reconciler

import "github.com/unitbook/unitbook/pkg/units"

// decisionKind classifies how a candidate owner relates to a unit's existing
// owner list.
type decisionKind int

const (
	// decisionSameEntry: an existing entry shares (name, role, registration
	// date) exactly; at most its contact set grows.
	decisionSameEntry decisionKind = iota

	// decisionNewDate: an existing entry shares (name, role) but not the
	// registration date; the candidate records a new registration period.
	decisionNewDate

	// decisionNewOwner: no entry shares (name, role).
	decisionNewOwner
)

// decision is the owner mutation required for one row.
type decision struct {
	kind decisionKind

	// index of the matched entry, for decisionSameEntry.
	index int

	// newContacts are the candidate's numbers missing from the matched
	// entry's contact set, in candidate order. Empty means no mutation.
	newContacts []string
}

// decide classifies a candidate owner against a unit's current owner list.
// The exact-entry check runs first: an entry matching on registration date is
// never treated as a new-date case, even when other entries for the same
// owner carry different dates. An empty registration date matches empty.
func decide(owners []units.Owner, candidate units.Owner) decision {
	if idx := units.FindOwner(owners, candidate.OwnerName, candidate.Role, candidate.RegistrationDate); idx >= 0 {
		return decision{
			kind:        decisionSameEntry,
			index:       idx,
			newContacts: owners[idx].MissingContacts(candidate.Contacts),
		}
	}

	if units.FindOwnerAnyDate(owners, candidate.OwnerName, candidate.Role) >= 0 {
		return decision{kind: decisionNewDate}
	}

	return decision{kind: decisionNewOwner}
}
