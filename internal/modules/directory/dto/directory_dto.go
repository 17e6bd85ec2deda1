package dto

import (
	commonDto "leetcoders.uz/directory/internal/dto"
	pageDto "leetcoders.uz/directory/pkg/dto"
)

// SearchState is the outcome of the last search action.
type SearchState string

const (
	StateIdle     SearchState = "idle"
	StateEmpty    SearchState = "empty"
	StateNonEmpty SearchState = "loaded"
	// StateFailed renders exactly like StateEmpty.
	StateFailed SearchState = "failed"
)

const NoUsersFoundMessage = "No users found for the selected country."

type SearchQuery struct {
	Country string `form:"country"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
}

type SearchResult struct {
	Country    string
	State      SearchState
	Rows       []commonDto.UserRow
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// Searched reports whether a search has been triggered.
func (r SearchResult) Searched() bool {
	return r.State != StateIdle
}

// ShowNotFound is true only after an explicit search that produced no rows.
func (r SearchResult) ShowNotFound() bool {
	return r.Searched() && len(r.Rows) == 0
}

func (r SearchResult) HasPrevious() bool {
	return r.Page > 1
}

func (r SearchResult) HasNext() bool {
	return r.Page < r.TotalPages
}

func (r SearchResult) PreviousPage() int {
	return r.Page - 1
}

func (r SearchResult) NextPage() int {
	return r.Page + 1
}

type SearchResponse struct {
	Data    []commonDto.UserRow    `json:"data"`
	Meta    pageDto.PaginationMeta `json:"meta"`
	Country string                 `json:"country"`
	State   SearchState            `json:"state"`
	Message string                 `json:"message,omitempty"`
}
