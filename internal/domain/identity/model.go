package identity

import "encoding/json"

// User is a portal account. Role is empty for patients and "admin" for
// clinic staff. Profile fields the client sends beyond the known ones, such
// as photoURL, are kept in Extra.
type User struct {
	ID    string                 `json:"_id,omitempty"`
	Name  string                 `json:"name"`
	Email string                 `json:"email"`
	Role  string                 `json:"role,omitempty"`
	Extra map[string]interface{} `json:"-"`
}

var userFields = []string{"_id", "name", "email", "role"}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var rest map[string]interface{}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	for _, k := range userFields {
		delete(rest, k)
	}
	if len(rest) > 0 {
		p.Extra = rest
	}

	*u = User(p)
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(u.Extra)+len(userFields))
	for k, v := range u.Extra {
		out[k] = v
	}
	if u.ID != "" {
		out["_id"] = u.ID
	}
	out["name"] = u.Name
	out["email"] = u.Email
	if u.Role != "" {
		out["role"] = u.Role
	}
	return json.Marshal(out)
}

// Doctor is a practitioner listed by the clinic.
type Doctor struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Specialty string `json:"specialty"`
	Image     string `json:"image"`
}
