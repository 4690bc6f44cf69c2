package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"resume-manager/resume/model"
)

const pgForeignKeyViolation = "23503"

// PGRepo implements Repo on Postgres with JSONB content columns.
type PGRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db, now: time.Now}
}

// Backend reports BackendPostgres.
func (r *PGRepo) Backend() Backend { return BackendPostgres }

func (r *PGRepo) clock() time.Time {
	if r.now == nil {
		return time.Now().UTC()
	}
	return r.now().UTC()
}

// CreateResume inserts a resume under a new UUID key.
func (r *PGRepo) CreateResume(ctx context.Context, filename, filePath, userID string, content *model.Content) (string, error) {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    filename,
    file_path,
    status,
    content,
    upload_date
) VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)`

	payload, err := marshalContent(content)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := r.DB.ExecContext(ctx, query,
		id,
		userID,
		filename,
		filePath,
		string(initialStatus(content)),
		payload,
		r.clock(),
	); err != nil {
		return "", fmt.Errorf("insert resume: %w", err)
	}
	return id, nil
}

const selectResume = `
SELECT id, user_id, filename, file_path, status, content, upload_date
FROM resumes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		res     Resume
		status  string
		content []byte
	)
	if err := row.Scan(&res.ID, &res.UserID, &res.Filename, &res.FilePath, &status, &content, &res.UploadDate); err != nil {
		return Resume{}, err
	}
	res.Status = Status(status)
	if len(content) > 0 && string(content) != "null" {
		var c model.Content
		if err := json.Unmarshal(content, &c); err != nil {
			return Resume{}, fmt.Errorf("decode content: %w", err)
		}
		res.Content = &c
	}
	res.UploadDate = res.UploadDate.UTC()
	return res, nil
}

// GetResume fetches one resume.
func (r *PGRepo) GetResume(ctx context.Context, key string) (Resume, error) {
	res, err := scanResume(r.DB.QueryRowContext(ctx, selectResume+"\nWHERE id = $1", key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// UpdateResumeContent replaces the content and marks the resume parsed.
// Empty content is rejected so a parsed record always carries data.
func (r *PGRepo) UpdateResumeContent(ctx context.Context, key string, content model.Content) (bool, error) {
	const query = `
UPDATE resumes
SET content = $2::jsonb,
    status = $3
WHERE id = $1`

	if content.IsEmpty() {
		return false, errEmptyContent
	}
	payload, err := marshalContent(&content)
	if err != nil {
		return false, err
	}
	result, err := r.DB.ExecContext(ctx, query, key, payload, string(StatusParsed))
	if err != nil {
		return false, fmt.Errorf("update resume content: %w", err)
	}
	return affected(result)
}

// DeleteResume removes a resume; its analysis goes with it via ON DELETE CASCADE.
func (r *PGRepo) DeleteResume(ctx context.Context, key string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, key)
	if err != nil {
		return false, fmt.Errorf("delete resume: %w", err)
	}
	return affected(result)
}

// ListResumesByUser returns the user's resumes oldest first.
func (r *PGRepo) ListResumesByUser(ctx context.Context, userID string) ([]Resume, error) {
	rows, err := r.DB.QueryContext(ctx, selectResume+"\nWHERE user_id = $1\nORDER BY upload_date, id", userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// SaveAnalysis upserts the analysis for resumeKey. The row ID survives
// replacement.
func (r *PGRepo) SaveAnalysis(ctx context.Context, resumeKey string, result model.AnalysisResult, source string) (string, error) {
	const query = `
INSERT INTO analyses (id, resume_id, result, source, created_at)
VALUES ($1, $2, $3::jsonb, $4, $5)
ON CONFLICT (resume_id) DO UPDATE
SET result = EXCLUDED.result,
    source = EXCLUDED.source,
    created_at = EXCLUDED.created_at
RETURNING id`

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}
	var id string
	err = r.DB.QueryRowContext(ctx, query, uuid.NewString(), resumeKey, payload, source, r.clock()).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis returns the analysis stored for resumeKey.
func (r *PGRepo) GetAnalysis(ctx context.Context, resumeKey string) (Analysis, error) {
	const query = `
SELECT id, resume_id, result, source, created_at
FROM analyses
WHERE resume_id = $1`

	var (
		a       Analysis
		payload []byte
	)
	err := r.DB.QueryRowContext(ctx, query, resumeKey).Scan(&a.ID, &a.ResumeID, &payload, &a.Source, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, withDetail(ErrNotFound, "Analysis not found")
		}
		return Analysis{}, err
	}
	if err := json.Unmarshal(payload, &a.Result); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	a.Result = a.Result.Normalize()
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func marshalContent(c *model.Content) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return payload, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
