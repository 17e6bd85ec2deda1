package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// User is a tracked LeetCode account as returned by the backend.
//
// Only the displayed fields are interpreted. Timestamps are kept verbatim
// since their format is not stable across backend versions.
type User struct {
	ID                  int64            `json:"id"`
	Username            string           `json:"username"`
	UserSlug            string           `json:"user_slug"`
	RealName            Optional[string] `json:"real_name"`
	CountryCode         Optional[string] `json:"country_code"`
	CountryName         Optional[string] `json:"country_name"`
	TotalProblemsSolved int              `json:"total_problems_solved"`
	TotalSubmissions    int              `json:"total_submissions"`
	UserAvatar          Optional[string] `json:"user_avatar"`
	Typename            Optional[string] `json:"typename"`
	CreatedAt           json.RawMessage  `json:"created_at,omitempty"`
	UpdatedAt           json.RawMessage  `json:"updated_at,omitempty"`
}

// IsZero reports whether the record carries neither an id nor a username.
func (u User) IsZero() bool {
	return u.ID == 0 && u.Username == ""
}

// UnmarshalJSON decodes a user object field by field. A field with an
// unexpected type is left at its zero value instead of failing the record.
func (u *User) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*u = User{
		ID:                  int64(LooseInt(fields["id"])),
		Username:            looseString(fields["username"]),
		UserSlug:            looseString(fields["user_slug"]),
		TotalProblemsSolved: LooseInt(fields["total_problems_solved"]),
		TotalSubmissions:    LooseInt(fields["total_submissions"]),
		CreatedAt:           fields["created_at"],
		UpdatedAt:           fields["updated_at"],
	}
	lenientOptional(fields["real_name"], &u.RealName)
	lenientOptional(fields["country_code"], &u.CountryCode)
	lenientOptional(fields["country_name"], &u.CountryName)
	lenientOptional(fields["user_avatar"], &u.UserAvatar)
	lenientOptional(fields["typename"], &u.Typename)
	return nil
}

func lenientOptional[T any](raw json.RawMessage, o *Optional[T]) {
	if len(raw) == 0 {
		return
	}
	if err := o.UnmarshalJSON(raw); err != nil {
		*o = Optional[T]{}
	}
}

// LooseInt reads a JSON number or numeric string; anything else is 0.
func LooseInt(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		return int(f)
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// UsersPage is one page of the get-users endpoint.
// Page is zero when the backend did not report one.
type UsersPage struct {
	Users      []User
	TotalCount int
	Page       int
	Limit      int
}
