package units

// Owner is one ownership/registration claim on a unit. Within one Unit no two
// owners share the same (name, role, registration date); repeated imports merge
// into the existing entry instead of appending.
type Owner struct {
	OwnerName        string   `bson:"owner_name" json:"owner_name"`
	Role             string   `bson:"role" json:"role"`
	RegistrationDate string   `bson:"registration_date" json:"registration_date"`
	Contacts         []string `bson:"contacts" json:"contacts"`
}

// SameEntry reports whether this owner matches the exact entry key
// (name, role, registration date). An empty registration date matches empty.
func (o Owner) SameEntry(name, role, date string) bool {
	return o.OwnerName == name && o.Role == role && o.RegistrationDate == date
}

// SameOwner reports whether this owner matches the identity key (name, role),
// ignoring the registration date.
func (o Owner) SameOwner(name, role string) bool {
	return o.OwnerName == name && o.Role == role
}

// MissingContacts returns the numbers from candidates that are not already in
// this entry's contact set, in candidate order, without duplicates.
func (o Owner) MissingContacts(candidates []string) []string {
	existing := make(map[string]struct{}, len(o.Contacts))
	for _, c := range o.Contacts {
		existing[c] = struct{}{}
	}

	var missing []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := existing[c]; ok {
			continue
		}
		existing[c] = struct{}{}
		missing = append(missing, c)
	}
	return missing
}

// FindOwner returns the index of the owner matching the exact entry key
// (name, role, registration date), or -1.
func FindOwner(owners []Owner, name, role, date string) int {
	for i, o := range owners {
		if o.SameEntry(name, role, date) {
			return i
		}
	}
	return -1
}

// FindOwnerAnyDate returns the index of the first owner matching (name, role)
// regardless of registration date, or -1.
func FindOwnerAnyDate(owners []Owner, name, role string) int {
	for i, o := range owners {
		if o.SameOwner(name, role) {
			return i
		}
	}
	return -1
}
