package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// catalogKind describes one reference data collection
type catalogKind[T repositories.CatalogItem] struct {
	collection string
	entity     string
	id         func(*T) *int64
	normalize  func(*T) error
}

func checkName(name *string, field string, max int) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return apperrors.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if len([]rune(*name)) > max {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

// checkSlug derives the slug from name when it is blank
func checkSlug(slug *string, name string) error {
	if strings.TrimSpace(*slug) == "" {
		*slug = name
	}
	*slug = entities.Slugify(*slug)
	if *slug == "" {
		return apperrors.NewValidationError("slug must contain at least one letter or digit")
	}
	return nil
}

var designationKind = catalogKind[entities.Designation]{
	collection: "designations",
	entity:     "designation",
	id:         func(d *entities.Designation) *int64 { return &d.ID },
	normalize: func(d *entities.Designation) error {
		if err := checkName(&d.Name, "name", entities.MaxCatalogNameLength); err != nil {
			return err
		}
		return checkSlug(&d.Slug, d.Name)
	},
}

var specialisationKind = catalogKind[entities.Specialisation]{
	collection: "specialisations",
	entity:     "specialisation",
	id:         func(s *entities.Specialisation) *int64 { return &s.ID },
	normalize: func(s *entities.Specialisation) error {
		if err := checkName(&s.Name, "name", entities.MaxCatalogNameLength); err != nil {
			return err
		}
		return checkSlug(&s.Slug, s.Name)
	},
}

var availableTimeKind = catalogKind[entities.AvailableTime]{
	collection: "available_times",
	entity:     "available time",
	id:         func(t *entities.AvailableTime) *int64 { return &t.ID },
	normalize: func(t *entities.AvailableTime) error {
		return checkName(&t.Time, "time", entities.MaxTimeLabelLength)
	},
}

var hospitalServiceKind = catalogKind[entities.HospitalService]{
	collection: "hospital_services",
	entity:     "service",
	id:         func(s *entities.HospitalService) *int64 { return &s.ID },
	normalize: func(s *entities.HospitalService) error {
		s.Description = strings.TrimSpace(s.Description)
		s.Image = strings.TrimSpace(s.Image)
		return checkName(&s.Name, "name", entities.MaxCatalogNameLength)
	},
}

// CatalogService manages one reference data collection. Reads are open to
// everyone and writes need a staff account.
type CatalogService[T repositories.CatalogItem] struct {
	repo     repositories.CatalogRepository[T]
	eventBus providers.EventBus
	kind     catalogKind[T]
}

type (
	DesignationService     = CatalogService[entities.Designation]
	SpecialisationService  = CatalogService[entities.Specialisation]
	AvailableTimeService   = CatalogService[entities.AvailableTime]
	HospitalServiceService = CatalogService[entities.HospitalService]
)

// NewDesignationService creates the designation catalog service
func NewDesignationService(repo repositories.DesignationRepository, eventBus providers.EventBus) *DesignationService {
	return &CatalogService[entities.Designation]{repo: repo, eventBus: eventBus, kind: designationKind}
}

// NewSpecialisationService creates the specialisation catalog service
func NewSpecialisationService(repo repositories.SpecialisationRepository, eventBus providers.EventBus) *SpecialisationService {
	return &CatalogService[entities.Specialisation]{repo: repo, eventBus: eventBus, kind: specialisationKind}
}

// NewAvailableTimeService creates the available time catalog service
func NewAvailableTimeService(repo repositories.AvailableTimeRepository, eventBus providers.EventBus) *AvailableTimeService {
	return &CatalogService[entities.AvailableTime]{repo: repo, eventBus: eventBus, kind: availableTimeKind}
}

// NewHospitalServiceService creates the hospital service catalog service
func NewHospitalServiceService(repo repositories.HospitalServiceRepository, eventBus providers.EventBus) *HospitalServiceService {
	return &CatalogService[entities.HospitalService]{repo: repo, eventBus: eventBus, kind: hospitalServiceKind}
}

// Collection names the collection, e.g. "designations"
func (s *CatalogService[T]) Collection() string {
	return s.kind.collection
}

// List lists items
func (s *CatalogService[T]) List(ctx context.Context, page pagination.Page) ([]*T, int64, error) {
	return s.repo.List(ctx, page.Normalize())
}

// Get retrieves an item
func (s *CatalogService[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create creates an item
func (s *CatalogService[T]) Create(ctx context.Context, caller access.Caller, item *T) (*T, error) {
	if err := s.authorizeWrite(caller, "add"); err != nil {
		return nil, err
	}
	*s.kind.id(item) = 0
	if err := s.kind.normalize(item); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.changed(ctx, *s.kind.id(item))
	return item, nil
}

// Update loads an item, lets mutate change it and stores the result
func (s *CatalogService[T]) Update(ctx context.Context, caller access.Caller, id int64, mutate func(*T) error) (*T, error) {
	if err := s.authorizeWrite(caller, "change"); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(item); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	*s.kind.id(item) = id
	if err := s.kind.normalize(item); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.changed(ctx, id)
	return item, nil
}

// Delete removes an item
func (s *CatalogService[T]) Delete(ctx context.Context, caller access.Caller, id int64) error {
	if err := s.authorizeWrite(caller, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id)
	return nil
}

func (s *CatalogService[T]) authorizeWrite(caller access.Caller, verb string) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if !access.AdminOrReadOnly(write, caller) {
		return denied(verb + " " + s.kind.collection)
	}
	return nil
}

func (s *CatalogService[T]) changed(ctx context.Context, id int64) {
	publish(ctx, s.eventBus, providers.EventChannelCatalog,
		entities.NewDomainEvent(entities.EventCatalogChanged, s.kind.entity, id, map[string]interface{}{
			"collection": s.kind.collection,
		}))
}
