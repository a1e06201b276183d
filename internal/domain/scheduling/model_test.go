package scheduling

import (
	"encoding/json"
	"testing"
)

func TestBooking_UnmarshalKeepsExtraFields(t *testing.T) {
	body := `{"_id":"client-id","email":"jane@example.com","appointmentDate":"May 5, 2024",
		"treatment":"Cleaning","slot":"9:30","patient":"Jane","phone":"555","price":99,
		"insurance":"DentaCare","notes":{"allergy":"latex"}}`

	var b Booking
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Email != "jane@example.com" || b.Slot != "9:30" {
		t.Errorf("known fields not decoded: %+v", b)
	}
	if b.Extra["patient"] != "Jane" || b.Extra["price"] != 99.0 {
		t.Errorf("expected patient metadata in Extra, got %v", b.Extra)
	}
	if b.Extra["insurance"] != "DentaCare" {
		t.Errorf("expected extra insurance field, got %v", b.Extra)
	}
	if _, ok := b.Extra["notes"].(map[string]interface{}); !ok {
		t.Errorf("expected nested extra object, got %T", b.Extra["notes"])
	}
	for _, k := range bookingFields {
		if _, ok := b.Extra[k]; ok {
			t.Errorf("known field %q leaked into Extra", k)
		}
	}
}

func TestBooking_UnmarshalAnyMetadataType(t *testing.T) {
	body := `{"email":"a@x.com","appointmentDate":"d","treatment":"Cleaning","slot":"9:00",
		"patient":{"first":"Ann"},"phone":1712345678,"price":"99"}`

	var b Booking
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Extra["phone"] != 1712345678.0 {
		t.Errorf("expected numeric phone kept, got %#v", b.Extra["phone"])
	}
	if b.Extra["price"] != "99" {
		t.Errorf("expected string price kept, got %#v", b.Extra["price"])
	}
	if _, ok := b.Extra["patient"].(map[string]interface{}); !ok {
		t.Errorf("expected object patient kept, got %T", b.Extra["patient"])
	}
}

func TestBooking_UnmarshalNoExtra(t *testing.T) {
	var b Booking
	if err := json.Unmarshal([]byte(`{"email":"a@b.co","slot":"1"}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Extra != nil {
		t.Errorf("expected nil Extra, got %v", b.Extra)
	}
}

func TestBooking_MarshalFlattensExtra(t *testing.T) {
	b := Booking{
		ID:              "65a1f0c2e4b0a1b2c3d4e5f6",
		Email:           "jane@example.com",
		AppointmentDate: "May 5, 2024",
		Treatment:       "Cleaning",
		Slot:            "9:30",
		Extra:           map[string]interface{}{"insurance": "DentaCare", "price": 99.0},
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["_id"] != b.ID || out["insurance"] != "DentaCare" || out["price"] != 99.0 {
		t.Errorf("unexpected JSON: %s", data)
	}
	if _, ok := out["patient"]; ok {
		t.Errorf("expected empty patient to be omitted: %s", data)
	}
}

func TestBooking_MarshalPointer(t *testing.T) {
	b := &Booking{Email: "jane@example.com"}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["_id"]; ok {
		t.Errorf("expected unsaved booking to omit _id: %s", data)
	}
}

func TestTreatment_JSON(t *testing.T) {
	data, err := json.Marshal(&Treatment{ID: "s1", Name: "Cleaning", Slots: []string{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"_id":"s1","name":"Cleaning","slots":[]}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestDefaultCatalog(t *testing.T) {
	a := DefaultCatalog()
	b := DefaultCatalog()
	if len(a) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	a[0].Slots[0] = "changed"
	if b[0].Slots[0] == "changed" {
		t.Error("expected each catalog to own its slot slices")
	}
}
