package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/types"
)

// ResourceInput is the single typed creation shape. Requests are validated
// here at the boundary instead of branching on runtime structure.
type ResourceInput struct {
	Title           string `json:"title" binding:"required"`
	Type            string `json:"type" binding:"required"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	Tags            string `json:"tags"`
	MoodTags        string `json:"mood_tags"`
	Description     string `json:"description"`
	Public          *bool  `json:"public"`
}

// fallbackTypes maps a reported mood to resource types worth suggesting
// when no mood tag matches directly.
var fallbackTypes = map[string][]string{
	"stressed": {"breathing", "music", "exercise"},
	"anxious":  {"breathing", "exercise", "guided_meditation"},
	"sad":      {"music", "guided_meditation", "article"},
	"tired":    {"music", "sleep"},
}

var defaultFallbackTypes = []string{"music", "breathing", "exercise"}

type ResourceService interface {
	Create(ctx context.Context, input ResourceInput) (*types.Resource, error)
	List(ctx context.Context, limit int, mood string) ([]*types.Resource, error)
	Get(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error)
	Delete(ctx context.Context, resourceID uuid.UUID) error
	Recommend(ctx context.Context, mood string, limit int) ([]*types.Resource, error)
	EnsureSeed(ctx context.Context) error
}

type resourceService struct {
	db           *gorm.DB
	log          *logger.Logger
	resourceRepo repos.ResourceRepo
}

func NewResourceService(db *gorm.DB, log *logger.Logger, resourceRepo repos.ResourceRepo) ResourceService {
	return &resourceService{db: db, log: log.With("service", "ResourceService"), resourceRepo: resourceRepo}
}

func (rs *resourceService) Create(ctx context.Context, input ResourceInput) (*types.Resource, error) {
	title := strings.TrimSpace(input.Title)
	resourceType := strings.TrimSpace(input.Type)
	if title == "" || resourceType == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("title and type are required"))
	}

	public := true
	if input.Public != nil {
		public = *input.Public
	}
	resource := &types.Resource{
		Title:           title,
		Type:            resourceType,
		URL:             strings.TrimSpace(input.URL),
		DurationSeconds: input.DurationSeconds,
		Tags:            input.Tags,
		MoodTags:        input.MoodTags,
		Description:     input.Description,
		Public:          public,
	}
	if err := rs.resourceRepo.Create(ctx, nil, resource); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return resource, nil
}

func (rs *resourceService) List(ctx context.Context, limit int, mood string) ([]*types.Resource, error) {
	if limit <= 0 {
		limit = 50
	}
	resources, err := rs.resourceRepo.List(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	if mood == "" {
		return resources, nil
	}
	filtered := make([]*types.Resource, 0, len(resources))
	for _, r := range resources {
		if matchesMoodTags(r.MoodTags, mood) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (rs *resourceService) Get(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error) {
	resource, err := rs.resourceRepo.GetByID(ctx, nil, resourceID)
	if err != nil {
		return nil, fmt.Errorf("load resource: %w", err)
	}
	if resource == nil {
		return nil, apierr.New(http.StatusNotFound, "resource_not_found", errors.New("resource not found"))
	}
	return resource, nil
}

func (rs *resourceService) Delete(ctx context.Context, resourceID uuid.UUID) error {
	deleted, err := rs.resourceRepo.Delete(ctx, nil, resourceID)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if !deleted {
		return apierr.New(http.StatusNotFound, "resource_not_found", errors.New("resource not found"))
	}
	return nil
}

// Recommend prefers direct mood-tag matches, then falls back to a fixed
// type preference table for the reported mood.
func (rs *resourceService) Recommend(ctx context.Context, mood string, limit int) ([]*types.Resource, error) {
	if limit <= 0 {
		limit = 5
	}
	resources, err := rs.resourceRepo.List(ctx, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	if mood != "" {
		matched := make([]*types.Resource, 0, limit)
		for _, r := range resources {
			if matchesMoodTags(r.MoodTags, mood) {
				matched = append(matched, r)
			}
		}
		if len(matched) > 0 {
			if len(matched) > limit {
				matched = matched[:limit]
			}
			return matched, nil
		}
	}

	preferred, ok := fallbackTypes[strings.ToLower(mood)]
	if !ok {
		preferred = defaultFallbackTypes
	}
	preferredSet := map[string]bool{}
	for _, t := range preferred {
		preferredSet[t] = true
	}
	filtered := make([]*types.Resource, 0, limit)
	for _, r := range resources {
		if preferredSet[r.Type] {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func matchesMoodTags(moodTags, target string) bool {
	if moodTags == "" {
		return false
	}
	target = strings.ToLower(strings.TrimSpace(target))
	for _, tag := range strings.Split(moodTags, ",") {
		if strings.ToLower(strings.TrimSpace(tag)) == target {
			return true
		}
	}
	return false
}

var seedResources = []types.Resource{
	{
		Title:           "4-4-8 Breathing",
		Type:            "breathing",
		URL:             "https://example.com/4-4-8.mp3",
		DurationSeconds: 60,
		MoodTags:        "stressed,anxious",
		Description:     "A calming 1-minute breathing exercise.",
		Public:          true,
	},
	{
		Title:           "Soothing Piano",
		Type:            "music",
		URL:             "https://youtu.be/example-piano",
		DurationSeconds: 600,
		MoodTags:        "stressed,sad,tired",
		Description:     "Relaxing 10-minute piano music.",
		Public:          true,
	},
	{
		Title:           "Grounding 5-4-3-2-1",
		Type:            "exercise",
		URL:             "https://example.com/54321",
		DurationSeconds: 180,
		MoodTags:        "anxious,panic",
		Description:     "A 3-minute grounding technique.",
		Public:          true,
	},
}

// EnsureSeed populates the catalogue once, on an empty table only.
func (rs *resourceService) EnsureSeed(ctx context.Context) error {
	count, err := rs.resourceRepo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("count resources: %w", err)
	}
	if count > 0 {
		return nil
	}
	rs.log.Info("Seeding resource catalogue")
	for i := range seedResources {
		seed := seedResources[i]
		if err := rs.resourceRepo.Create(ctx, nil, &seed); err != nil {
			return fmt.Errorf("seed resource %q: %w", seed.Title, err)
		}
	}
	return nil
}
