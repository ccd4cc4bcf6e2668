package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	dom "Tasker/internal/domain"
	"Tasker/internal/repo"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"Tasker/internal/cache"
)

// TaskService implements task CRUD and rating on behalf of one caller per call.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
	log   logrus.FieldLogger
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, log logrus.FieldLogger) *TaskService {
	return &TaskService{repo: r, cache: c, log: log}
}

func (s *TaskService) Create(ctx context.Context, userID, title, desc string, status dom.Status) (dom.Task, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if status == "" {
		status = dom.StatusPending
	}
	if err := checkTask(title, desc, status); err != nil {
		return dom.Task{}, err
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: desc,
		Status:      status,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID string) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.List(ctx, userID)
	}
	return readThrough(ctx, s.cache, &s.sf, s.log, userID, cachedQuery[[]dom.Task]{
		name: "list",
		get:  s.cache.GetList,
		set:  s.cache.SetList,
		load: s.repo.List,
	})
}

func (s *TaskService) GetByID(ctx context.Context, userID, id string) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	return t, nil
}

// Update overwrites only the fields present in patch and re-checks them
// against the create constraints.
func (s *TaskService) Update(ctx context.Context, userID, id string, patch dom.TaskPatch) (dom.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := checkTitle(title); err != nil {
			return dom.Task{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if err := checkDescription(desc); err != nil {
			return dom.Task{}, err
		}
		patch.Description = &desc
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return dom.Task{}, invalid("status", "taskstatus")
	}

	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) Rate(ctx context.Context, userID, id string, rating int) (dom.Task, error) {
	if rating < dom.RatingMin {
		return dom.Task{}, invalid("rating", "min")
	}
	if rating > dom.RatingMax {
		return dom.Task{}, invalid("rating", "max")
	}
	t, err := s.repo.SetRating(ctx, userID, id, rating)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Delete(ctx, userID, id); err != nil {
		return notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("task cache invalidation failed")
	}
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func checkTask(title, desc string, status dom.Status) error {
	if err := checkTitle(title); err != nil {
		return err
	}
	if err := checkDescription(desc); err != nil {
		return err
	}
	if !status.Valid() {
		return invalid("status", "taskstatus")
	}
	return nil
}

func checkTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 {
		return invalid("title", "notblank")
	}
	if n > dom.TitleMaxLen {
		return invalid("title", "max")
	}
	return nil
}

func checkDescription(desc string) error {
	if utf8.RuneCountInString(desc) > dom.DescriptionMaxLen {
		return invalid("description", "max")
	}
	return nil
}
