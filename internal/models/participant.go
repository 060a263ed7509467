package models

// Participant is one member of the trip roster.
// The roster is fixed for a deployment and never mutated at runtime.
type Participant struct {
	// ID is the stable identifier referenced by expenses (e.g., "1").
	ID string `mapstructure:"id" validate:"required"`

	// DisplayName is the human-readable name shown in views.
	DisplayName string `mapstructure:"display_name" validate:"required"`

	// ColorTag is a hex color (e.g., "#3b82f6") used to tell participants apart visually.
	ColorTag string `mapstructure:"color_tag" validate:"required,hexcolor"`
}

// Roster is the ordered list of participants known to the ledger.
type Roster []Participant

// Contains reports whether id belongs to a participant on the roster.
func (r Roster) Contains(id string) bool {
	_, ok := r.Find(id)
	return ok
}

// Find returns the participant with the given ID.
func (r Roster) Find(id string) (Participant, bool) {
	for _, p := range r {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// IDs returns participant IDs in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, len(r))
	for i, p := range r {
		ids[i] = p.ID
	}
	return ids
}
