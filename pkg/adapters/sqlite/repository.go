package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/aretw0/wayfinder/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS surveys (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	active      INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS questions (
	survey_id        TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
	id               TEXT NOT NULL,
	position         INTEGER NOT NULL,
	type             TEXT NOT NULL,
	text             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	required         INTEGER NOT NULL DEFAULT 0,
	next_question_id TEXT NOT NULL DEFAULT '',
	options          TEXT NOT NULL DEFAULT '[]',
	show_condition   TEXT,
	PRIMARY KEY (survey_id, id)
);
CREATE TABLE IF NOT EXISTS quiz_sessions (
	id            TEXT PRIMARY KEY,
	survey_id     TEXT NOT NULL,
	resume_token  TEXT NOT NULL UNIQUE,
	started_at    TEXT NOT NULL,
	completed_at  TEXT,
	current_index INTEGER NOT NULL DEFAULT 0,
	feedback      TEXT
);
CREATE TABLE IF NOT EXISTS answers (
	session_id  TEXT NOT NULL REFERENCES quiz_sessions(id) ON DELETE CASCADE,
	question_id TEXT NOT NULL,
	value       TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (session_id, question_id)
);
`

// Repository implements ports.SurveyRepository on SQLite.
type Repository struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies pragmas and creates the schema.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps in-memory databases and the pragmas consistent.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Repository{db: db}, nil
}

// OpenFile opens a database file, creating its parent directory.
func OpenFile(ctx context.Context, path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	return Open(ctx, "file:"+path)
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DB returns the underlying *sql.DB.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) SaveSurvey(ctx context.Context, survey *domain.Survey) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO surveys (id, title, description, active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, description = excluded.description, active = excluded.active`,
		survey.ID, survey.Title, survey.Description, survey.Active)
	if err != nil {
		return fmt.Errorf("save survey %s: %w", survey.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE survey_id = ?`, survey.ID); err != nil {
		return fmt.Errorf("clear questions of %s: %w", survey.ID, err)
	}

	for i, q := range survey.Questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options of %s: %w", q.ID, err)
		}
		var cond sql.NullString
		if q.ShowCondition != nil {
			raw, err := json.Marshal(q.ShowCondition)
			if err != nil {
				return fmt.Errorf("marshal condition of %s: %w", q.ID, err)
			}
			cond = sql.NullString{String: string(raw), Valid: true}
		}
		order := q.Order
		if order == 0 {
			order = i + 1
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO questions (survey_id, id, position, type, text, description, required, next_question_id, options, show_condition)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			survey.ID, q.ID, order, string(q.Type), q.Text, q.Description, q.Required, q.NextQuestionID, string(options), cond)
		if err != nil {
			return fmt.Errorf("save question %s: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

func (r *Repository) Survey(ctx context.Context, id string) (*domain.Survey, error) {
	s := domain.Survey{ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT title, description, active FROM surveys WHERE id = ?`, id,
	).Scan(&s.Title, &s.Description, &s.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load survey %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, position, type, text, description, required, next_question_id, options, show_condition
		FROM questions WHERE survey_id = ? ORDER BY position, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("load questions of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			q       domain.Question
			typ     string
			options string
			cond    sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.Order, &typ, &q.Text, &q.Description, &q.Required, &q.NextQuestionID, &options, &cond); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.SurveyID = id
		q.Type = domain.QuestionType(typ)
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		if cond.Valid {
			q.ShowCondition = &domain.ShowCondition{}
			if err := json.Unmarshal([]byte(cond.String), q.ShowCondition); err != nil {
				return nil, fmt.Errorf("decode condition of %s: %w", q.ID, err)
			}
		}
		s.Questions = append(s.Questions, q)
	}
	return &s, rows.Err()
}

func (r *Repository) CreateSession(ctx context.Context, session *domain.QuizSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quiz_sessions (id, survey_id, resume_token, started_at, current_index)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.SurveyID, session.ResumeToken, formatTime(session.StartedAt), session.CurrentIndex)
	if err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	return nil
}

const sessionColumns = `id, survey_id, resume_token, started_at, completed_at, current_index, feedback`

func (r *Repository) SessionByID(ctx context.Context, id string) (*domain.QuizSession, error) {
	return r.session(ctx, `SELECT `+sessionColumns+` FROM quiz_sessions WHERE id = ?`, id)
}

func (r *Repository) SessionByToken(ctx context.Context, token string) (*domain.QuizSession, error) {
	return r.session(ctx, `SELECT `+sessionColumns+` FROM quiz_sessions WHERE resume_token = ?`, token)
}

func (r *Repository) session(ctx context.Context, query, arg string) (*domain.QuizSession, error) {
	var (
		s         domain.QuizSession
		started   string
		completed sql.NullString
		feedback  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.SurveyID, &s.ResumeToken, &started, &completed, &s.CurrentIndex, &feedback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if s.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if completed.Valid {
		at, err := parseTime(completed.String)
		if err != nil {
			return nil, err
		}
		s.CompletedAt = &at
	}
	if feedback.Valid {
		s.Feedback = &domain.Feedback{}
		if err := json.Unmarshal([]byte(feedback.String), s.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback of %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

func (r *Repository) SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	if err := r.exists(ctx, sessionID); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO answers (session_id, question_id, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, question_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, questionID, string(raw), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save answer %s/%s: %w", sessionID, questionID, err)
	}
	return nil
}

func (r *Repository) Answers(ctx context.Context, sessionID string) (domain.Answers, error) {
	if err := r.exists(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT question_id, value FROM answers WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load answers of %s: %w", sessionID, err)
	}
	defer rows.Close()

	answers := make(domain.Answers)
	for rows.Next() {
		var questionID, raw string
		if err := rows.Scan(&questionID, &raw); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		var v domain.AnswerValue
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode answer %s: %w", questionID, err)
		}
		answers[questionID] = v
	}
	return answers, rows.Err()
}

func (r *Repository) UpdateIndex(ctx context.Context, sessionID string, index int) error {
	return r.update(ctx, `UPDATE quiz_sessions SET current_index = ? WHERE id = ?`, index, sessionID)
}

func (r *Repository) MarkComplete(ctx context.Context, sessionID string, at time.Time) (time.Time, error) {
	err := r.update(ctx, `UPDATE quiz_sessions SET completed_at = COALESCE(completed_at, ?) WHERE id = ?`,
		formatTime(at), sessionID)
	if err != nil {
		return time.Time{}, err
	}
	s, err := r.SessionByID(ctx, sessionID)
	if err != nil {
		return time.Time{}, err
	}
	return *s.CompletedAt, nil
}

func (r *Repository) SaveFeedback(ctx context.Context, sessionID string, feedback domain.Feedback) error {
	raw, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return r.update(ctx, `UPDATE quiz_sessions SET feedback = ? WHERE id = ?`, string(raw), sessionID)
}

func (r *Repository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) exists(ctx context.Context, sessionID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM quiz_sessions WHERE id = ?`, sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("check session %s: %w", sessionID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
