package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// PostgresRepository stores projects in a single table with the file list
// as jsonb. Files have no identity of their own, so a row per project keeps
// reads and full rewrites cheap.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *domain.Project) error {
	files, err := json.Marshal(p.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	const q = `
insert into projects (id, name, description, language, framework, persona_id, status, files, deployment_url, git_repository, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err = r.db.Exec(ctx, q,
		p.ID, p.Name, p.Description, p.Language, p.Framework, p.PersonaID,
		p.Status, files, p.DeploymentURL, p.GitRepository, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
select id, name, description, language, framework, persona_id, status, files, deployment_url, git_repository, created_at, updated_at
from projects
where id = $1;
`
	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
select id, name, description, language, framework, persona_id, status, files, deployment_url, git_repository, created_at, updated_at
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, p *domain.Project) error {
	files, err := json.Marshal(p.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	const q = `
update projects
set name = $2, description = $3, language = $4, framework = $5, persona_id = $6,
    status = $7, files = $8, deployment_url = $9, git_repository = $10, updated_at = $11
where id = $1;
`
	ct, err := r.db.Exec(ctx, q,
		p.ID, p.Name, p.Description, p.Language, p.Framework, p.PersonaID,
		p.Status, files, p.DeploymentURL, p.GitRepository, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `delete from projects where id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var files []byte
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Language, &p.Framework,
		&p.PersonaID, &p.Status, &files, &p.DeploymentURL, &p.GitRepository,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(files, &p.Files); err != nil {
		return nil, fmt.Errorf("unmarshal files: %w", err)
	}
	return &p, nil
}
