package patient

import (
	"context"
	stderrors "errors"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for patients and visits
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new patient repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create registers a patient, together with an optional initial visit.
// Both rows commit in one transaction so a patient never appears without
// the first visit that was submitted alongside it.
func (r *Repository) Create(ctx context.Context, p *Patient, initial *Visit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO patients (id, name, phone, registered_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Phone, p.RegisteredAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create patient")
	}

	if initial != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO visits (id, patient_id, visited_at, complaints, diagnosis, treatment, prescription)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			initial.ID, initial.PatientID, initial.VisitedAt,
			initial.Complaints, initial.Diagnosis, initial.Treatment, initial.Prescription,
		)
		if err != nil {
			return errors.Wrap(err, "failed to record initial visit")
		}
		p.Visits = append(p.Visits, *initial)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// FindByID retrieves a patient with their full visit history
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*Patient, error) {
	p := &Patient{Visits: []Visit{}}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, registered_at FROM patients WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.RegisteredAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get patient")
	}

	visits, err := r.visitsForPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Visits = visits

	return p, nil
}

// List returns all patients ordered by registration date, newest first,
// each with their full (possibly empty) visit history attached
func (r *Repository) List(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, phone, registered_at FROM patients ORDER BY registered_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list patients")
	}
	defer rows.Close()

	var patients []Patient
	index := make(map[types.ID]int)
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.RegisteredAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan patient")
		}
		p.Visits = []Visit{}
		index[p.ID] = len(patients)
		patients = append(patients, p)
	}

	visitRows, err := r.pool.Query(ctx,
		`SELECT id, patient_id, visited_at, complaints, diagnosis, treatment, prescription
		 FROM visits ORDER BY visited_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list visits")
	}
	defer visitRows.Close()

	for visitRows.Next() {
		var v Visit
		if err := visitRows.Scan(&v.ID, &v.PatientID, &v.VisitedAt,
			&v.Complaints, &v.Diagnosis, &v.Treatment, &v.Prescription); err != nil {
			return nil, errors.Wrap(err, "failed to scan visit")
		}
		if i, ok := index[v.PatientID]; ok {
			patients[i].Visits = append(patients[i].Visits, v)
		}
	}

	return patients, nil
}

// CreateVisit records a visit for an existing patient
func (r *Repository) CreateVisit(ctx context.Context, v *Visit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO visits (id, patient_id, visited_at, complaints, diagnosis, treatment, prescription)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.PatientID, v.VisitedAt, v.Complaints, v.Diagnosis, v.Treatment, v.Prescription,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.NotFound("patient", v.PatientID.String())
		}
		return errors.Wrap(err, "failed to record visit")
	}

	return nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation (SQLSTATE 23503)
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23503"
}

// visitsForPatient retrieves the visit history for one patient
func (r *Repository) visitsForPatient(ctx context.Context, patientID types.ID) ([]Visit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, patient_id, visited_at, complaints, diagnosis, treatment, prescription
		 FROM visits WHERE patient_id = $1 ORDER BY visited_at DESC`, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get visits")
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.PatientID, &v.VisitedAt,
			&v.Complaints, &v.Diagnosis, &v.Treatment, &v.Prescription); err != nil {
			return nil, errors.Wrap(err, "failed to scan visit")
		}
		visits = append(visits, v)
	}

	return visits, nil
}
