package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is an opaque identifier that arrives either as a JSON string or a
// JSON number. It is always held as its string form.
type FlexID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so a round-trip through the
// session store keeps the shape the API produced.
func (id FlexID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// RawUser is a user object exactly as a data source produced it, before any
// defaults or role checks are applied.
type RawUser struct {
	ID        FlexID `json:"id"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// WrappedUser is a response envelope of the form {"user": {...}}.
type WrappedUser struct {
	User *RawUser `json:"user"`
}

// UserPayload is the closed union of shapes a user can arrive in. Only
// RawUser and WrappedUser implement it.
type UserPayload interface {
	// Inner returns the user object the payload carries, or nil.
	Inner() *RawUser
	isUserPayload()
}

func (u RawUser) Inner() *RawUser { return &u }
func (RawUser) isUserPayload()    {}

func (w WrappedUser) Inner() *RawUser { return w.User }
func (WrappedUser) isUserPayload()    {}

// RawFromUser converts a validated user back into its raw form, e.g. when it is
// replayed from the session store.
func RawFromUser(u User) RawUser {
	return RawUser{
		ID:        FlexID(u.ID),
		Role:      string(u.Role),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Username:  u.Username,
		Phone:     u.Phone,
		Address:   u.Address,
	}
}

// DecodeUserPayload resolves a JSON document into one of the UserPayload
// variants: an object holding a "user" object is a WrappedUser, any other
// object is a RawUser.
func DecodeUserPayload(data []byte) (UserPayload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, NewValidationError("Invalid user data: No user object found")
	}
	if probe == nil {
		return nil, NewValidationError("Invalid user data: No user object found")
	}

	if inner, ok := probe["user"]; ok && isJSONObject(inner) {
		var w WrappedUser
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, NewValidationError(fmt.Sprintf("Invalid user data: %v", err))
		}
		return w, nil
	}

	var raw RawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewValidationError(fmt.Sprintf("Invalid user data: %v", err))
	}
	return raw, nil
}

func isJSONObject(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}
