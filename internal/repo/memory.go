package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "Tasker/internal/domain"

	"github.com/google/uuid"
)

type memoryTask struct {
	dom.Task
	seq int64
}

// MemoryTaskRepo is an in-process TaskRepo. Analytics are computed as an
// in-memory fold: group by status, count and sum, sort by status name.
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks map[string]memoryTask
	seq   int64
	now   func() time.Time
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{
		tasks: make(map[string]memoryTask),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := r.now()
	t.ID = uuid.NewString()
	t.Rating = nil
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = memoryTask{Task: t, seq: r.seq}
	return copyTask(t), nil
}

func (r *MemoryTaskRepo) GetByID(_ context.Context, userID, id string) (dom.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, ErrNotFound
	}
	return copyTask(t.Task), nil
}

func (r *MemoryTaskRepo) List(_ context.Context, userID string) ([]dom.Task, error) {
	r.mu.RLock()
	owned := r.owned(userID)
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].seq > owned[j].seq
	})
	list := make([]dom.Task, 0, len(owned))
	for _, t := range owned {
		list = append(list, copyTask(t.Task))
	}
	return list, nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, userID, id string, patch dom.TaskPatch) (dom.Task, error) {
	return r.mutate(userID, id, func(t *dom.Task) { patch.Apply(t) })
}

func (r *MemoryTaskRepo) SetRating(_ context.Context, userID, id string, rating int) (dom.Task, error) {
	return r.mutate(userID, id, func(t *dom.Task) { t.Rating = &rating })
}

func (r *MemoryTaskRepo) Delete(_ context.Context, userID, id string) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, ErrNotFound
	}
	delete(r.tasks, id)
	return copyTask(t.Task), nil
}

func (r *MemoryTaskRepo) Count(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.owned(userID))), nil
}

func (r *MemoryTaskRepo) CountByStatus(_ context.Context, userID string) ([]dom.StatusCount, error) {
	r.mu.RLock()
	owned := r.owned(userID)
	r.mu.RUnlock()

	counts := make(map[dom.Status]int64)
	for _, t := range owned {
		counts[t.Status]++
	}
	out := make([]dom.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, dom.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *MemoryTaskRepo) RatingsByStatus(_ context.Context, userID string) ([]dom.RatingSum, error) {
	r.mu.RLock()
	owned := r.owned(userID)
	r.mu.RUnlock()

	groups := make(map[dom.Status]*dom.RatingSum)
	for _, t := range owned {
		if t.Rating == nil {
			continue
		}
		g, ok := groups[t.Status]
		if !ok {
			g = &dom.RatingSum{Status: t.Status}
			groups[t.Status] = g
		}
		g.Sum += int64(*t.Rating)
		g.Count++
	}
	out := make([]dom.RatingSum, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *MemoryTaskRepo) mutate(userID, id string, fn func(*dom.Task)) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, ErrNotFound
	}
	fn(&t.Task)
	t.UpdatedAt = r.now()
	r.tasks[id] = t
	return copyTask(t.Task), nil
}

// owned must be called with r.mu held.
func (r *MemoryTaskRepo) owned(userID string) []memoryTask {
	var out []memoryTask
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// copyTask detaches the rating pointer from the stored record.
func copyTask(t dom.Task) dom.Task {
	if t.Rating != nil {
		v := *t.Rating
		t.Rating = &v
	}
	return t
}

// MemoryUserRepo is an in-process UserRepo.
type MemoryUserRepo struct {
	mu     sync.RWMutex
	byID   map[string]dom.User
	byName map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:   make(map[string]dom.User),
		byName: make(map[string]string),
	}
}

func (r *MemoryUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[username]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; ok {
		return dom.User{}, ErrDuplicate
	}
	u := dom.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[u.ID] = u
	r.byName[username] = u.ID
	return u, nil
}
