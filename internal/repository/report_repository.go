package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// ReportRepository encapsulates report persistence. Every mutation touches a single row.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// List returns reports newest first, optionally restricted to one status.
	List(ctx context.Context, status *domain.ReportStatus) ([]domain.Report, error)
	UpdateContent(ctx context.Context, id string, patch domain.ReportPatch, updatedAt time.Time) (*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Report, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, reporter_id, reported_user_id, title, description, type, status,
               action_taken, resolved_by, resolved_at, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (reporter_id, reported_user_id, title, description, type, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		report.ReporterID,
		report.ReportedUserID,
		report.Title,
		report.Description,
		report.Type,
		report.Status,
		report.CreatedAt,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	return translate(err, "report")
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, "report")
	}
	return report, nil
}

func (r *reportRepository) List(ctx context.Context, status *domain.ReportStatus) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" WHERE status=$%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func (r *reportRepository) UpdateContent(ctx context.Context, id string, patch domain.ReportPatch, updatedAt time.Time) (*domain.Report, error) {
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, fmt.Sprintf("description=$%d", len(args)))
	}
	if patch.Type != nil {
		args = append(args, *patch.Type)
		sets = append(sets, fmt.Sprintf("type=$%d", len(args)))
	}
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at=$%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE reports SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), reportColumns)
	report, err := scanReport(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "report")
	}
	return report, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Report, error) {
	query := `
        UPDATE reports SET status=$1, action_taken=$2, resolved_by=$3, resolved_at=$4
        WHERE id=$5
        RETURNING ` + reportColumns
	report, err := scanReport(r.pool.QueryRow(ctx, query,
		change.Status,
		change.Action,
		change.ResolvedBy,
		change.ResolvedAt,
		id,
	))
	if err != nil {
		return nil, translate(err, "report")
	}
	return report, nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "report")
	}
	return nil
}

func (r *reportRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.ReporterID,
		&report.ReportedUserID,
		&report.Title,
		&report.Description,
		&report.Type,
		&report.Status,
		&report.ActionTaken,
		&report.ResolvedBy,
		&report.ResolvedAt,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}
