package repository

import (
	"database/sql"
	"time"

	"github.com/leadflow/sequencer-backend/internal/model"
)

// SequenceJobRepositoryInterface is the queue-storage surface: due-job
// selection and the processed marker. The due predicate lives in SQL, not in
// the processing core.
type SequenceJobRepositoryInterface interface {
	Create(job *model.SequenceJob) error
	FetchDue(limit int) ([]*model.SequenceJob, error)
	MarkProcessed(id, status, lastError string) error
	StatsByStatus() (map[string]int, error)
}

type SequenceJobRepository struct {
	DB *sql.DB
}

// Create inserts a new sequence job.
func (r *SequenceJobRepository) Create(job *model.SequenceJob) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = "pending"
	}
	query := `
        INSERT INTO sequence_jobs
        (id, lead_id, message_type, content, status, last_error, send_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.DB.Exec(
		query,
		job.ID,
		job.LeadID,
		job.MessageType,
		job.Content,
		job.Status,
		job.LastError,
		job.SendAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// FetchDue returns up to limit pending jobs whose send time has arrived,
// oldest first.
func (r *SequenceJobRepository) FetchDue(limit int) ([]*model.SequenceJob, error) {
	query := `
        SELECT id, lead_id, message_type, content, status, last_error, send_at, created_at, updated_at
        FROM sequence_jobs
        WHERE status = 'pending' AND send_at <= NOW()
        ORDER BY send_at ASC
        LIMIT $1
    `
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*model.SequenceJob{}
	for rows.Next() {
		var j model.SequenceJob
		if err := rows.Scan(
			&j.ID,
			&j.LeadID,
			&j.MessageType,
			&j.Content,
			&j.Status,
			&j.LastError,
			&j.SendAt,
			&j.CreatedAt,
			&j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

// MarkProcessed records the terminal status of a handed-off job.
func (r *SequenceJobRepository) MarkProcessed(id, status, lastError string) error {
	query := `
        UPDATE sequence_jobs
        SET status=$1, last_error=$2, updated_at=$3
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, status, lastError, time.Now(), id)
	return err
}

// StatsByStatus counts jobs per status for the stats endpoint.
func (r *SequenceJobRepository) StatsByStatus() (map[string]int, error) {
	query := `
        SELECT status, COUNT(*)
        FROM sequence_jobs
        GROUP BY status
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		"total":   0,
		"pending": 0,
		"sent":    0,
		"skipped": 0,
		"failed":  0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
		stats["total"] += count
	}
	return stats, rows.Err()
}
