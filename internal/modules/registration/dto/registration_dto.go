package dto

import commonDto "leetcoders.uz/directory/internal/dto"

const (
	BlankUsernameMessage = "Please enter a username"
	UserAddedMessage     = "User added successfully!"
	AddFailedMessage     = "Failed to add user. Please try again."
	NetworkErrorMessage  = "Network error. Please try again."
)

type AddUserRequest struct {
	Username string `json:"username" form:"username"`
}

type AddUserResponse struct {
	Message string             `json:"message"`
	Data    *commonDto.UserRow `json:"data,omitempty"`
}

// Outcome is what the registration card shows after a submission.
type Outcome struct {
	Success bool
	Message string
	// Username is the value left in the input; cleared on success.
	Username string
	User     *commonDto.UserRow
}

// Rows is the created record as a one-row table, or nil.
func (o Outcome) Rows() []commonDto.UserRow {
	if o.User == nil {
		return nil
	}
	return []commonDto.UserRow{*o.User}
}
