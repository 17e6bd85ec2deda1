package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"leetcoders.uz/directory/internal/backend"
	commonDto "leetcoders.uz/directory/internal/dto"
	"leetcoders.uz/directory/internal/modules/country/catalog"
	"leetcoders.uz/directory/internal/modules/directory/dto"
	inflight "leetcoders.uz/directory/internal/service"
)

type DirectoryService interface {
	// Search fetches one page of users for country. Backend failures never
	// surface: they yield an empty StateFailed result and are only logged.
	// The only error is apperror.ErrRequestInFlight.
	Search(ctx context.Context, visitorID uuid.UUID, country string, page int) (dto.SearchResult, error)
	// Idle is the result shown before any search was triggered.
	Idle(country string) dto.SearchResult
}

type directoryService struct {
	client backend.Client
	guard  inflight.InflightGuard
}

func NewDirectoryService(client backend.Client, guard inflight.InflightGuard) DirectoryService {
	return &directoryService{client: client, guard: guard}
}

func (s *directoryService) Idle(country string) dto.SearchResult {
	return dto.SearchResult{
		Country:  normalizeCountry(country),
		State:    dto.StateIdle,
		Rows:     []commonDto.UserRow{},
		Page:     1,
		PageSize: PageSize,
	}
}

func (s *directoryService) Search(ctx context.Context, visitorID uuid.UUID, country string, page int) (dto.SearchResult, error) {
	country = normalizeCountry(country)
	if page < 1 {
		page = 1
	}

	release, err := s.guard.Acquire(ctx, visitorID, inflight.ActionSearch)
	if err != nil {
		return s.Idle(country), err
	}
	defer release()

	result, err := s.client.GetUsers(ctx, country, page, PageSize)
	if err != nil {
		log.Printf("Error fetching users (country=%s page=%d): %v", country, page, err)
		return dto.SearchResult{
			Country:  country,
			State:    dto.StateFailed,
			Rows:     []commonDto.UserRow{},
			Page:     page,
			PageSize: PageSize,
		}, nil
	}

	// the page reported by the backend wins over the one we asked for
	currentPage := result.Page
	if currentPage == 0 {
		currentPage = page
	}
	total := result.TotalCount
	if total < 0 {
		total = 0
	}

	state := dto.StateNonEmpty
	if len(result.Users) == 0 {
		state = dto.StateEmpty
	}

	return dto.SearchResult{
		Country:    country,
		State:      state,
		Rows:       commonDto.NewUserRows(result.Users, currentPage, PageSize),
		TotalCount: total,
		Page:       currentPage,
		PageSize:   PageSize,
		TotalPages: TotalPages(total, PageSize),
	}, nil
}

func normalizeCountry(country string) string {
	if country == "" {
		return catalog.AllCode
	}
	return country
}
