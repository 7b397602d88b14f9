package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

// write is the method the owner predicates are evaluated with for mutations
const write = access.Method(http.MethodPatch)

func requireAuthenticated(caller access.Caller) error {
	if !caller.IsAuthenticated() {
		return apperrors.NewAuthenticationError("Authentication credentials were not provided.")
	}
	return nil
}

// publish sends event on channel. Failures are logged and dropped.
func publish(ctx context.Context, bus providers.EventBus, channel string, event *entities.DomainEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, channel, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("channel", channel).
			Str("event_type", string(event.Type)).
			Int64("resource_id", event.ResourceID).
			Msg("failed to publish event")
	}
}

// callerPatient returns the patient record of caller. A caller without one
// gets a validation error naming action.
func callerPatient(ctx context.Context, patients repositories.PatientRepository, caller access.Caller, action string) (*entities.Patient, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	patient, err := patients.GetByIdentityID(ctx, caller.IdentityID)
	if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("You need a patient record to %s.", action))
	}
	if err != nil {
		return nil, err
	}
	return patient, nil
}

// mustExist turns a not found error for a referenced record into a
// validation error
func mustExist(err error, what string, id int64) error {
	if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid pk \"%d\" - %s does not exist.", id, what))
	}
	return err
}

func denied(action string) error {
	return apperrors.NewPermissionDeniedError(fmt.Sprintf("You do not have permission to %s.", action))
}
