package dto

import (
	"leetcoders.uz/directory/internal/modules/country/catalog"
	directoryDto "leetcoders.uz/directory/internal/modules/directory/dto"
	registrationDto "leetcoders.uz/directory/internal/modules/registration/dto"
)

const (
	NoCountriesFoundMessage = "No countries found."
	// FilterAction marks a search form submission that only narrows the picker.
	FilterAction = "filter"
)

// PageQuery is the query of GET / and GET /search.
type PageQuery struct {
	Country       string `form:"country"`
	CountryFilter string `form:"country_filter"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	Action        string `form:"action"`
}

// CountryPicker is the searchable country selector.
type CountryPicker struct {
	Filter   string
	Selected catalog.Country
	Options  []catalog.Country
}

func NewCountryPicker(selected, filter string) CountryPicker {
	if selected == "" {
		selected = catalog.AllCode
	}
	entry, ok := catalog.Lookup(selected)
	if !ok {
		// unknown codes are searched as given
		entry = catalog.Country{Code: selected, Name: selected}
	}
	return CountryPicker{
		Filter:   filter,
		Selected: entry,
		Options:  catalog.Filter(filter),
	}
}

// SelectedHidden reports whether the filter hides the selected entry. The
// entry is still rendered so the selection survives the filter.
func (p CountryPicker) SelectedHidden() bool {
	for _, c := range p.Options {
		if c.Code == p.Selected.Code {
			return false
		}
	}
	return true
}

// PageView is the data the index template renders.
type PageView struct {
	DonationURL  string
	Notice       string
	Picker       CountryPicker
	Search       directoryDto.SearchResult
	Registration registrationDto.Outcome
}
