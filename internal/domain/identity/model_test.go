package identity

import (
	"encoding/json"
	"testing"
)

func TestUser_UnmarshalKeepsExtraFields(t *testing.T) {
	var u User
	body := `{"_id":"x","name":"Eve","email":"eve@x.com","role":"admin","photoURL":"p.png"}`
	if err := json.Unmarshal([]byte(body), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Name != "Eve" || u.Email != "eve@x.com" || u.Role != "admin" {
		t.Errorf("known fields not decoded: %+v", u)
	}
	if u.Extra["photoURL"] != "p.png" {
		t.Errorf("expected photoURL in Extra, got %v", u.Extra)
	}
	for _, k := range userFields {
		if _, ok := u.Extra[k]; ok {
			t.Errorf("known field %q leaked into Extra", k)
		}
	}
}

func TestUser_UnmarshalNoExtra(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"name":"Eve","email":"eve@x.com"}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Extra != nil {
		t.Errorf("expected nil Extra, got %v", u.Extra)
	}
}

func TestUser_Marshal(t *testing.T) {
	tests := []struct {
		name string
		user User
		want map[string]interface{}
	}{
		{
			"patient",
			User{ID: "u1", Name: "Pat", Email: "pat@x.com"},
			map[string]interface{}{"_id": "u1", "name": "Pat", "email": "pat@x.com"},
		},
		{
			"admin with profile",
			User{ID: "u2", Name: "Ada", Email: "a@x.com", Role: "admin", Extra: map[string]interface{}{"photoURL": "a.png"}},
			map[string]interface{}{"_id": "u2", "name": "Ada", "email": "a@x.com", "role": "admin", "photoURL": "a.png"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(&tt.user)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var out map[string]interface{}
			json.Unmarshal(data, &out)
			if len(out) != len(tt.want) {
				t.Errorf("expected %d keys, got %s", len(tt.want), data)
			}
			for k, v := range tt.want {
				if out[k] != v {
					t.Errorf("%s: expected %v, got %v", k, v, out[k])
				}
			}
		})
	}
}
