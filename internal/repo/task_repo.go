package repo

import (
	"context"
	"errors"
	"fmt"

	dom "Tasker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, description, status, rating, created_at, updated_at`

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRow(ctx, query,
		uuid.NewString(), t.UserID, t.Title, t.Description, string(t.Status)))
	if err != nil {
		return dom.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return out, nil
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id string) (dom.Task, error) {
	if !validUUID(id) {
		return dom.Task{}, ErrNotFound
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return oneTask(scanTask(r.db.QueryRow(ctx, query, id, userID)))
}

func (r *PGTaskRepo) List(ctx context.Context, userID string) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	list := make([]dom.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update overwrites only the supplied columns; NULL parameters keep the stored value.
func (r *PGTaskRepo) Update(ctx context.Context, userID, id string, patch dom.TaskPatch) (dom.Task, error) {
	if !validUUID(id) {
		return dom.Task{}, ErrNotFound
	}
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	query := `
		UPDATE tasks SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			status = COALESCE($5, status),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return oneTask(scanTask(r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, status)))
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID, id string) (dom.Task, error) {
	if !validUUID(id) {
		return dom.Task{}, ErrNotFound
	}
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING ` + taskColumns
	return oneTask(scanTask(r.db.QueryRow(ctx, query, id, userID)))
}

func (r *PGTaskRepo) SetRating(ctx context.Context, userID, id string, rating int) (dom.Task, error) {
	if !validUUID(id) {
		return dom.Task{}, ErrNotFound
	}
	query := `
		UPDATE tasks SET rating = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return oneTask(scanTask(r.db.QueryRow(ctx, query, id, userID, rating)))
}

func (r *PGTaskRepo) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *PGTaskRepo) CountByStatus(ctx context.Context, userID string) ([]dom.StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM tasks WHERE user_id = $1
		GROUP BY status ORDER BY status COLLATE "C"`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	out := make([]dom.StatusCount, 0, len(dom.Statuses))
	for rows.Next() {
		var (
			status string
			c      dom.StatusCount
		)
		if err := rows.Scan(&status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		c.Status = dom.Status(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGTaskRepo) RatingsByStatus(ctx context.Context, userID string) ([]dom.RatingSum, error) {
	query := `
		SELECT status, SUM(rating)::bigint, COUNT(*)
		FROM tasks WHERE user_id = $1 AND rating IS NOT NULL
		GROUP BY status ORDER BY status COLLATE "C"`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ratings by status: %w", err)
	}
	defer rows.Close()
	out := make([]dom.RatingSum, 0, len(dom.Statuses))
	for rows.Next() {
		var (
			status string
			s      dom.RatingSum
		)
		if err := rows.Scan(&status, &s.Sum, &s.Count); err != nil {
			return nil, fmt.Errorf("scan rating sum: %w", err)
		}
		s.Status = dom.Status(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var (
		t      dom.Task
		status string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &t.Rating,
		&t.CreatedAt, &t.UpdatedAt)
	t.Status = dom.Status(status)
	return t, err
}

func oneTask(t dom.Task, err error) (dom.Task, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// validUUID filters ids the uuid column would reject, so they read as missing
// instead of failing the query.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
