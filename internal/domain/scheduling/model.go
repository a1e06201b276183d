package scheduling

import "encoding/json"

// Treatment is a bookable dental service with its daily slot labels.
type Treatment struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
	Price *float64 `json:"price,omitempty"`
}

// TreatmentName is the projection served to the specialty picker.
type TreatmentName struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Booking reserves one slot of a treatment on a date. Treatment refers to
// Treatment.Name. Only the fields that drive availability and duplicate
// detection are typed. Patient metadata such as patient, phone and price is
// free-form and travels in Extra with whatever JSON type the client sent.
type Booking struct {
	ID              string                 `json:"_id,omitempty"`
	Email           string                 `json:"email" validate:"required,email"`
	AppointmentDate string                 `json:"appointmentDate" validate:"required"`
	Treatment       string                 `json:"treatment" validate:"required"`
	Slot            string                 `json:"slot" validate:"required"`
	Extra           map[string]interface{} `json:"-"`
}

var bookingFields = []string{
	"_id", "email", "appointmentDate", "treatment", "slot",
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var rest map[string]interface{}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	for _, k := range bookingFields {
		delete(rest, k)
	}
	if len(rest) > 0 {
		p.Extra = rest
	}

	*b = Booking(p)
	return nil
}

func (b Booking) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(b.Extra)+len(bookingFields))
	for k, v := range b.Extra {
		out[k] = v
	}
	if b.ID != "" {
		out["_id"] = b.ID
	}
	out["email"] = b.Email
	out["appointmentDate"] = b.AppointmentDate
	out["treatment"] = b.Treatment
	out["slot"] = b.Slot
	return json.Marshal(out)
}
