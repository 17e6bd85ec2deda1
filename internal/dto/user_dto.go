package dto

import (
	"unicode"

	"leetcoders.uz/directory/internal/model"
	"leetcoders.uz/directory/internal/modules/country/catalog"
)

const (
	RealNamePlaceholder    = "-"
	CountryNamePlaceholder = "Unknown"
)

// UserRow is a user record prepared for display. Absent optional fields are
// already replaced by their placeholders.
type UserRow struct {
	Rank           int    `json:"rank"`
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Initials       string `json:"initials"`
	RealName       string `json:"real_name"`
	CountryFlag    string `json:"country_flag"`
	CountryName    string `json:"country_name"`
	CountryKnown   bool   `json:"country_known"`
	ProblemsSolved int    `json:"total_problems_solved"`
	Submissions    int    `json:"total_submissions"`
}

func NewUserRow(u model.User, rank int) UserRow {
	row := UserRow{
		Rank:           rank,
		ID:             u.ID,
		Username:       u.Username,
		AvatarURL:      u.UserAvatar.OrElse(""),
		Initials:       Initials(u.Username),
		RealName:       u.RealName.OrElse(RealNamePlaceholder),
		CountryName:    CountryNamePlaceholder,
		ProblemsSolved: u.TotalProblemsSolved,
		Submissions:    u.TotalSubmissions,
	}
	if code, ok := u.CountryCode.Get(); ok {
		row.CountryFlag = catalog.Flag(code)
	}
	if name, ok := u.CountryName.Get(); ok {
		row.CountryName = name
		row.CountryKnown = true
	}
	return row
}

// NewUserRows ranks users continuously across pages, 1-based.
func NewUserRows(users []model.User, page, pageSize int) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for i, u := range users {
		rows = append(rows, NewUserRow(u, RowRank(page, pageSize, i)))
	}
	return rows
}

// RowRank is (page-1)*pageSize + index + 1.
func RowRank(page, pageSize, index int) int {
	return (page-1)*pageSize + index + 1
}

// Initials is the avatar fallback: the first two characters, upper-cased.
func Initials(username string) string {
	runes := []rune(username)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	for i, r := range runes {
		runes[i] = unicode.ToUpper(r)
	}
	return string(runes)
}
