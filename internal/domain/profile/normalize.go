package profile

import "encoding/json"

// Normalize turns an arbitrarily shaped remote document into a fully
// defaulted Record. All defensive defaulting lives here, at the
// synchronizer boundary, instead of being repeated per field per screen.
func Normalize(raw map[string]any) Record {
	var rec Record
	if raw != nil {
		// Round-tripping through JSON maps loosely typed remote fields onto
		// the struct and silently drops anything with the wrong shape.
		if b, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(b, &rec)
		}
	}
	rec.applyDefaults()
	return rec
}

// ToMap renders a Record as the plain document shape the record store
// contract carries.
func ToMap(rec Record) map[string]any {
	b, err := json.Marshal(rec)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func (r *Record) applyDefaults() {
	if r.Education == nil {
		r.Education = []Qualification{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []SkillGroup{}
	}
	if r.EmergencyContacts == nil {
		r.EmergencyContacts = []EmergencyContact{}
	}
	if r.IDProofs == nil {
		r.IDProofs = []IDProof{}
	}
}
