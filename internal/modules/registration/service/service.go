package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"leetcoders.uz/directory/internal/backend"
	commonDto "leetcoders.uz/directory/internal/dto"
	"leetcoders.uz/directory/internal/modules/registration/dto"
	inflight "leetcoders.uz/directory/internal/service"
	"leetcoders.uz/directory/pkg/apperror"
	"leetcoders.uz/directory/pkg/validator"
)

type RegistrationService interface {
	// Submit asks the backend to track username. The outcome is always filled
	// in for display; err classifies failures for status mapping.
	Submit(ctx context.Context, visitorID uuid.UUID, username string) (dto.Outcome, error)
}

type registrationService struct {
	client backend.Client
	guard  inflight.InflightGuard
}

func NewRegistrationService(client backend.Client, guard inflight.InflightGuard) RegistrationService {
	return &registrationService{client: client, guard: guard}
}

func (s *registrationService) Submit(ctx context.Context, visitorID uuid.UUID, username string) (dto.Outcome, error) {
	if err := validator.ValidateUsername(username); err != nil {
		return failure(username, apperror.ErrBlankUsername), apperror.ErrBlankUsername
	}

	release, err := s.guard.Acquire(ctx, visitorID, inflight.ActionAddUser)
	if err != nil {
		return failure(username, err), err
	}
	defer release()

	user, err := s.client.AddUser(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, apperror.ErrBackend) {
			log.Printf("Error adding user %q: %v", strings.TrimSpace(username), err)
		}
		return failure(username, err), err
	}

	outcome := dto.Outcome{
		Success: true,
		Message: dto.UserAddedMessage,
	}
	if user != nil && !user.IsZero() {
		row := commonDto.NewUserRow(*user, 1)
		outcome.User = &row
	}
	return outcome, nil
}

// failure keeps the input as typed.
func failure(username string, err error) dto.Outcome {
	return dto.Outcome{
		Message:  MessageFor(err),
		Username: username,
	}
}

// MessageFor is the text shown to the visitor for a failed submission.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, apperror.ErrBlankUsername):
		return dto.BlankUsernameMessage
	case errors.Is(err, apperror.ErrRequestInFlight):
		return inflight.InFlightMessage
	case errors.Is(err, apperror.ErrTransport):
		return dto.NetworkErrorMessage
	}
	if msg := apperror.ServerMessage(err); msg != "" {
		return msg
	}
	return dto.AddFailedMessage
}
