package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"

	"github.com/jackc/pgx/v5"
)

const animalColumns = `
	id, name, species, breed, sex, size,
	age_years, age_months,
	description, health_status, vaccinated, sterilized, image_url,
	availability, intake_date, created_at, updated_at`

func scanAnimal(row pgx.Row) (animals.Animal, error) {
	var a animals.Animal
	err := row.Scan(
		&a.ID, &a.Name, &a.Species, &a.Breed, &a.Sex, &a.Size,
		&a.AgeYears, &a.AgeMonths,
		&a.Description, &a.HealthStatus, &a.Vaccinated, &a.Sterilized, &a.ImageURL,
		&a.Availability, &a.IntakeDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	return scanAnimal(s.pool.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id))
}

func (s *Store) List(ctx context.Context, filter animals.ListFilter) ([]animals.Animal, error) {
	var (
		where []string
		args  []any
	)
	if filter.Availability != "" {
		args = append(args, filter.Availability)
		where = append(where, fmt.Sprintf("availability = $%d", len(args)))
	}
	if filter.Species != "" {
		args = append(args, filter.Species)
		where = append(where, fmt.Sprintf("species = $%d", len(args)))
	}

	q := `SELECT ` + animalColumns + ` FROM animals`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY intake_date DESC, id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func insertAnimal(ctx context.Context, q querier, a animals.Animal) error {
	_, err := q.Exec(ctx, `
		INSERT INTO animals (
			id, name, species, breed, sex, size,
			age_years, age_months,
			description, health_status, vaccinated, sterilized, image_url,
			availability, intake_date, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		a.ID, a.Name, a.Species, a.Breed, a.Sex, a.Size,
		a.AgeYears, a.AgeMonths,
		a.Description, a.HealthStatus, a.Vaccinated, a.Sterilized, a.ImageURL,
		a.Availability, a.IntakeDate, a.CreatedAt, a.UpdatedAt,
	)
	return err
}
