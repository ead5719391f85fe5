package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

const hospitalColumns = `hospital_id, name, type, latitude, longitude, address, city,
		total_beds, icu_beds, specialties, emergency_level_supported, contact_number, created_at`

// HospitalAdapter implements the HospitalRepository interface
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create registers a new hospital
func (a *HospitalAdapter) Create(ctx context.Context, hospital *entities.Hospital) error {
	// Specialties are a first-class set on the entity; they serialize to a
	// JSON text column only here at the persistence boundary.
	specialties, err := json.Marshal(hospital.Specialties)
	if err != nil {
		return apperrors.NewInternalError("failed to encode specialties", err)
	}

	record := goqu.Record{
		"hospital_id":               hospital.ID,
		"name":                      hospital.Name,
		"type":                      hospital.Type,
		"latitude":                  hospital.Location.Latitude,
		"longitude":                 hospital.Location.Longitude,
		"address":                   sql.NullString{String: hospital.Address, Valid: hospital.Address != ""},
		"city":                      sql.NullString{String: hospital.City, Valid: hospital.City != ""},
		"total_beds":                hospital.TotalBeds,
		"icu_beds":                  hospital.ICUBeds,
		"specialties":               string(specialties),
		"emergency_level_supported": sql.NullString{String: hospital.EmergencyLevelSupported, Valid: hospital.EmergencyLevelSupported != ""},
		"contact_number":            sql.NullString{String: hospital.ContactNumber, Valid: hospital.ContactNumber != ""},
		"created_at":                hospital.CreatedAt,
	}

	query, args, err := a.db.Insert("hospitals").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create hospital", err)
	}

	return nil
}

// GetByID retrieves a hospital by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	return a.getByField(ctx, "hospital_id", id)
}

// GetByName retrieves a hospital by exact name
func (a *HospitalAdapter) GetByName(ctx context.Context, name string) (*entities.Hospital, error) {
	return a.getByField(ctx, "name", name)
}

func (a *HospitalAdapter) getByField(ctx context.Context, field, value string) (*entities.Hospital, error) {
	query := fmt.Sprintf(`SELECT %s FROM hospitals WHERE %s = $1`, hospitalColumns, field)

	hospital, err := scanHospital(a.client.DB().QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}

	return hospital, nil
}

// List retrieves every hospital record; used to seed the state view
func (a *HospitalAdapter) List(ctx context.Context) ([]*entities.Hospital, error) {
	query := fmt.Sprintf(`SELECT %s FROM hospitals ORDER BY hospital_id`, hospitalColumns)

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list hospitals", err)
	}
	defer rows.Close()

	var hospitals []*entities.Hospital
	for rows.Next() {
		hospital, err := scanHospital(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, hospital)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate hospitals", err)
	}

	return hospitals, nil
}

// Exists reports whether a hospital row exists
func (a *HospitalAdapter) Exists(ctx context.Context, id string) (bool, error) {
	return a.exists(ctx, a.client.DB().QueryRowContext, id)
}

// ExistsTx reports whether a hospital row exists, inside tx
func (a *HospitalAdapter) ExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	return a.exists(ctx, tx.QueryRowContext, id)
}

type queryRowFunc func(ctx context.Context, query string, args ...interface{}) *sql.Row

func (a *HospitalAdapter) exists(ctx context.Context, queryRow queryRowFunc, id string) (bool, error) {
	var one int
	err := queryRow(ctx, `SELECT 1 FROM hospitals WHERE hospital_id = $1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to check hospital existence", err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHospital(row rowScanner) (*entities.Hospital, error) {
	hospital := &entities.Hospital{}
	var address, city, level, contact, specialties sql.NullString

	err := row.Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Type,
		&hospital.Location.Latitude,
		&hospital.Location.Longitude,
		&address,
		&city,
		&hospital.TotalBeds,
		&hospital.ICUBeds,
		&specialties,
		&level,
		&contact,
		&hospital.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	hospital.Address = address.String
	hospital.City = city.String
	hospital.EmergencyLevelSupported = level.String
	hospital.ContactNumber = contact.String

	if specialties.Valid && specialties.String != "" {
		// Tolerate malformed legacy values; an unreadable set is an empty set
		_ = json.Unmarshal([]byte(specialties.String), &hospital.Specialties)
	}

	return hospital, nil
}
