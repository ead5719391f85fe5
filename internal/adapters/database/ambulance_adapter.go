package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

const ambulanceColumns = `ambulance_id, registration_number, organization, username, status,
		assigned_hospital_id, active_case_id, current_request_id,
		breakdown, breakdown_until, latitude, longitude, created_at, updated_at`

// AmbulanceAdapter implements the AmbulanceRepository interface
type AmbulanceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	now    func() time.Time
}

// NewAmbulanceAdapter creates a new ambulance adapter
func NewAmbulanceAdapter(client *postgres.Client) repositories.AmbulanceRepository {
	return &AmbulanceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    time.Now,
	}
}

// Create registers a new ambulance with its login credential
func (a *AmbulanceAdapter) Create(ctx context.Context, ambulance *entities.Ambulance, password string) error {
	record := goqu.Record{
		"ambulance_id":        ambulance.ID,
		"registration_number": ambulance.RegistrationNumber,
		"organization":        sql.NullString{String: ambulance.Organization, Valid: ambulance.Organization != ""},
		"username":            ambulance.Username,
		"password":            password,
		"status":              string(ambulance.Status),
		"latitude":            ambulance.Location.Latitude,
		"longitude":           ambulance.Location.Longitude,
		"created_at":          ambulance.CreatedAt,
		"updated_at":          ambulance.UpdatedAt,
	}

	query, args, err := a.db.Insert("ambulances").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create ambulance", err)
	}

	return nil
}

// GetByID retrieves an ambulance by ID. An elapsed breakdown window is
// repaired to IDLE on read.
func (a *AmbulanceAdapter) GetByID(ctx context.Context, id string) (*entities.Ambulance, error) {
	query := fmt.Sprintf(`SELECT %s FROM ambulances WHERE ambulance_id = $1`, ambulanceColumns)

	ambulance, err := scanAmbulance(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ambulance with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get ambulance", err)
	}

	if ambulance.BreakdownElapsed(a.now()) {
		if err := a.recoverFromBreakdown(ctx, ambulance); err != nil {
			return nil, err
		}
	}

	return ambulance, nil
}

// GetByCredentials retrieves an ambulance by username/password
func (a *AmbulanceAdapter) GetByCredentials(ctx context.Context, username, password string) (*entities.Ambulance, error) {
	query := fmt.Sprintf(`SELECT %s FROM ambulances WHERE username = $1 AND password = $2`, ambulanceColumns)

	ambulance, err := scanAmbulance(a.client.DB().QueryRowContext(ctx, query, username, password))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get ambulance", err)
	}

	return ambulance, nil
}

// GetForUpdate retrieves an ambulance inside tx under a row lock. Lazy
// breakdown recovery applies here too, inside the same transaction.
func (a *AmbulanceAdapter) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*entities.Ambulance, error) {
	query := fmt.Sprintf(`SELECT %s FROM ambulances WHERE ambulance_id = $1 FOR UPDATE`, ambulanceColumns)

	ambulance, err := scanAmbulance(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ambulance with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to lock ambulance", err)
	}

	if ambulance.BreakdownElapsed(a.now()) {
		ambulance.Status = entities.AmbulanceStatusIdle
		ambulance.Breakdown = false
		ambulance.BreakdownUntil = nil
		if err := a.SaveStateTx(ctx, tx, ambulance); err != nil {
			return nil, err
		}
	}

	return ambulance, nil
}

// ExistsTx reports whether an ambulance row exists, inside tx
func (a *AmbulanceAdapter) ExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM ambulances WHERE ambulance_id = $1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to check ambulance existence", err)
	}
	return true, nil
}

// SaveStateTx writes status, links, breakdown window and location inside tx
func (a *AmbulanceAdapter) SaveStateTx(ctx context.Context, tx *sql.Tx, ambulance *entities.Ambulance) error {
	query := `
		UPDATE ambulances SET
			status = $2,
			assigned_hospital_id = $3,
			active_case_id = $4,
			current_request_id = $5,
			breakdown = $6,
			breakdown_until = $7,
			latitude = $8,
			longitude = $9,
			updated_at = $10
		WHERE ambulance_id = $1
	`

	var until sql.NullTime
	if ambulance.BreakdownUntil != nil {
		until = sql.NullTime{Time: *ambulance.BreakdownUntil, Valid: true}
	}

	result, err := tx.ExecContext(ctx, query,
		ambulance.ID,
		string(ambulance.Status),
		nullableString(ambulance.AssignedHospitalID),
		nullableString(ambulance.ActiveCaseID),
		nullableString(ambulance.CurrentRequestID),
		ambulance.Breakdown,
		until,
		ambulance.Location.Latitude,
		ambulance.Location.Longitude,
		a.now(),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to save ambulance state", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("ambulance with id %s not found", ambulance.ID))
	}

	return nil
}

// UpdateLocation is the unlocked fast path for frequent position pings; it
// does not go through the state machine.
func (a *AmbulanceAdapter) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	query := `UPDATE ambulances SET latitude = $2, longitude = $3, updated_at = $4 WHERE ambulance_id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, id, location.Latitude, location.Longitude, a.now())
	if err != nil {
		return apperrors.NewInternalError("failed to update ambulance location", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("ambulance with id %s not found", id))
	}

	return nil
}

// recoverFromBreakdown resets an ambulance whose breakdown window elapsed.
// Guarded on status so a concurrent transition is never clobbered.
func (a *AmbulanceAdapter) recoverFromBreakdown(ctx context.Context, ambulance *entities.Ambulance) error {
	query := `
		UPDATE ambulances SET
			status = 'IDLE', breakdown = false, breakdown_until = NULL, updated_at = $2
		WHERE ambulance_id = $1 AND status = 'BREAKDOWN'
	`

	if _, err := a.client.DB().ExecContext(ctx, query, ambulance.ID, a.now()); err != nil {
		return apperrors.NewInternalError("failed to recover ambulance from breakdown", err)
	}

	ambulance.Status = entities.AmbulanceStatusIdle
	ambulance.Breakdown = false
	ambulance.BreakdownUntil = nil

	return nil
}

func scanAmbulance(row rowScanner) (*entities.Ambulance, error) {
	ambulance := &entities.Ambulance{}
	var organization, username, hospitalID, caseID, requestID sql.NullString
	var until sql.NullTime
	var status string

	err := row.Scan(
		&ambulance.ID,
		&ambulance.RegistrationNumber,
		&organization,
		&username,
		&status,
		&hospitalID,
		&caseID,
		&requestID,
		&ambulance.Breakdown,
		&until,
		&ambulance.Location.Latitude,
		&ambulance.Location.Longitude,
		&ambulance.CreatedAt,
		&ambulance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ambulance.Status = entities.AmbulanceStatus(status)
	ambulance.Organization = organization.String
	ambulance.Username = username.String
	ambulance.AssignedHospitalID = stringPtr(hospitalID)
	ambulance.ActiveCaseID = stringPtr(caseID)
	ambulance.CurrentRequestID = stringPtr(requestID)
	if until.Valid {
		t := until.Time
		ambulance.BreakdownUntil = &t
	}

	return ambulance, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
