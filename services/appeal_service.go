package services

import (
	"context"
	"log"
	"strings"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/classify"
	"github.com/maxmaindev/citizen-appeals/pkg/geocode"
	"github.com/maxmaindev/citizen-appeals/repository"
)

type AppealService struct {
	Appeals    *repository.AppealRepository
	Categories *repository.CategoryRepository
	Services   *repository.ServiceRepository
	Classifier *classify.Classifier
	Geocoder   *geocode.Geocoder
	Settings   *SettingsService
	Notifier   *NotificationService
}

func NewAppealService(
	appeals *repository.AppealRepository,
	categories *repository.CategoryRepository,
	services *repository.ServiceRepository,
	classifier *classify.Classifier,
	geocoder *geocode.Geocoder,
	settings *SettingsService,
	notifier *NotificationService,
) *AppealService {
	return &AppealService{
		Appeals:    appeals,
		Categories: categories,
		Services:   services,
		Classifier: classifier,
		Geocoder:   geocoder,
		Settings:   settings,
		Notifier:   notifier,
	}
}

type CreateAppealReq struct {
	Title       string  `json:"title" binding:"required,min=5,max=200"`
	Description string  `json:"description" binding:"required,min=10"`
	CategoryID  *uint   `json:"category_id" binding:"required"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" binding:"min=-180,max=180"`
	Priority    *int    `json:"priority" binding:"omitempty,min=1,max=3"`
}

// Create files the appeal with status new. Classification and reverse
// geocoding are best-effort extras: their failures are logged and the write
// stands either way.
func (s *AppealService) Create(ctx context.Context, userID uint, req *CreateAppealReq) (*entity.Appeal, error) {
	priority := 2
	if req.Priority != nil {
		priority = *req.Priority
	} else if req.CategoryID != nil {
		if cat, err := s.Categories.FindByID(*req.CategoryID); err == nil &&
			cat.DefaultPriority >= 1 && cat.DefaultPriority <= 3 {
			priority = cat.DefaultPriority
		}
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		resolved, err := s.Geocoder.Reverse(ctx, req.Latitude, req.Longitude)
		if err != nil {
			log.Printf("reverse geocode appeal: %v", err)
		} else {
			address = resolved
		}
	}

	a := entity.Appeal{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Status:      entity.StatusNew,
		Title:       req.Title,
		Description: req.Description,
		Address:     address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Priority:    priority,
	}

	if serviceID := s.suggestService(ctx, req.Title+" "+req.Description); serviceID != nil {
		a.ServiceID = serviceID
	}

	if err := s.Appeals.Create(&a); err != nil {
		return nil, err
	}

	s.Notifier.AppealCreated(&a)
	return &a, nil
}

// suggestService asks the classifier and maps its answer to a known active
// service. Anything short of a confident match over the configured threshold
// returns nil.
func (s *AppealService) suggestService(ctx context.Context, text string) *uint {
	name, _, err := s.Classifier.Classify(ctx, text, s.Settings.Get().ConfidenceThreshold)
	if err != nil {
		log.Printf("classify appeal: %v", err)
		return nil
	}
	if name == "" {
		return nil
	}
	svc, err := s.Services.FindByName(name)
	if err != nil || !svc.IsActive {
		return nil
	}
	return &svc.ID
}

// Classify backs the ad-hoc classification endpoint used by the create form.
func (s *AppealService) Classify(ctx context.Context, text string) (string, float64, error) {
	return s.Classifier.Classify(ctx, text, s.Settings.Get().ConfidenceThreshold)
}

type UpdateAppealReq struct {
	Title       string   `json:"title" binding:"omitempty,min=5,max=200"`
	Description string   `json:"description" binding:"omitempty,min=10"`
	Address     string   `json:"address"`
	CategoryID  *uint    `json:"category_id"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

func (s *AppealService) Update(a *entity.Appeal, req *UpdateAppealReq) error {
	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Description != "" {
		a.Description = req.Description
	}
	if req.Address != "" {
		a.Address = req.Address
	}
	if req.CategoryID != nil {
		a.CategoryID = req.CategoryID
	}
	if req.Latitude != nil {
		a.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		a.Longitude = *req.Longitude
	}
	return s.Appeals.Update(a)
}

func (s *AppealService) ChangeStatus(appealID, actorID uint, newStatus string, comment *string) (*entity.Appeal, error) {
	a, changed, err := s.Appeals.UpdateStatus(appealID, actorID, newStatus, comment)
	if err != nil {
		return nil, err
	}
	if changed {
		s.Notifier.StatusChanged(a, newStatus, actorID)
	}
	return a, nil
}

func (s *AppealService) Assign(appealID, actorID, serviceID uint, priority *int) (*entity.Appeal, error) {
	a, err := s.Appeals.Assign(appealID, actorID, serviceID, priority)
	if err != nil {
		return nil, err
	}
	s.Notifier.AppealAssigned(a)
	return a, nil
}
