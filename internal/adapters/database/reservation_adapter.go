package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateTx inserts a new reservation inside tx
func (a *ReservationAdapter) CreateTx(ctx context.Context, tx *sql.Tx, reservation *entities.Reservation) error {
	record := goqu.Record{
		"reservation_id":     reservation.ID,
		"hospital_id":        reservation.HospitalID,
		"ambulance_id":       reservation.AmbulanceID,
		"case_id":            nullableString(reservation.CaseID),
		"bed_type":           string(reservation.BedType),
		"reservation_status": string(reservation.Status),
		"created_at":         reservation.CreatedAt,
		"expires_at":         reservation.ExpiresAt,
	}

	query, args, err := a.db.Insert("hospital_reservations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	return nil
}

// AdvanceForAmbulanceTx moves the ambulance's reservation from any of the
// given statuses to the target status, inside tx
func (a *ReservationAdapter) AdvanceForAmbulanceTx(ctx context.Context, tx *sql.Tx, ambulanceID string, from []entities.ReservationStatus, to entities.ReservationStatus) (int64, error) {
	fromValues := make([]string, len(from))
	for i, s := range from {
		fromValues[i] = string(s)
	}

	query, args, err := a.db.Update("hospital_reservations").
		Set(goqu.Record{"reservation_status": string(to)}).
		Where(goqu.Ex{
			"ambulance_id":       ambulanceID,
			"reservation_status": fromValues,
		}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to advance reservation", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to read affected rows", err)
	}

	return affected, nil
}

// ActiveByAmbulance retrieves the ambulance's most recent RESERVED reservation
func (a *ReservationAdapter) ActiveByAmbulance(ctx context.Context, ambulanceID string) (*entities.Reservation, error) {
	query := `
		SELECT reservation_id, hospital_id, ambulance_id, case_id, bed_type,
			reservation_status, created_at, expires_at
		FROM hospital_reservations
		WHERE ambulance_id = $1 AND reservation_status = 'RESERVED'
			AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	reservation := &entities.Reservation{}
	var caseID sql.NullString
	var bedType, status string

	err := a.client.DB().QueryRowContext(ctx, query, ambulanceID).Scan(
		&reservation.ID,
		&reservation.HospitalID,
		&reservation.AmbulanceID,
		&caseID,
		&bedType,
		&status,
		&reservation.CreatedAt,
		&reservation.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no active reservation for ambulance %s", ambulanceID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get active reservation", err)
	}

	reservation.CaseID = stringPtr(caseID)
	reservation.BedType = entities.BedType(bedType)
	reservation.Status = entities.ReservationStatus(status)

	return reservation, nil
}

// EffectiveCapacities aggregates active reservations per hospital and bed
// type and subtracts them from totals, floored at zero
func (a *ReservationAdapter) EffectiveCapacities(ctx context.Context) (map[string]*entities.EffectiveCapacity, error) {
	query := `
		SELECT
			h.hospital_id,
			h.total_beds,
			h.icu_beds,
			COUNT(hr.reservation_id) FILTER (WHERE hr.bed_type = 'NORMAL') AS used_normal,
			COUNT(hr.reservation_id) FILTER (WHERE hr.bed_type = 'ICU') AS used_icu
		FROM hospitals h
		LEFT JOIN hospital_reservations hr ON h.hospital_id = hr.hospital_id
			AND hr.reservation_status IN ('RESERVED', 'ARRIVED')
			AND (hr.reservation_status = 'ARRIVED' OR hr.expires_at > NOW())
		GROUP BY h.hospital_id, h.total_beds, h.icu_beds
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query effective capacities", err)
	}
	defer rows.Close()

	capacities := make(map[string]*entities.EffectiveCapacity)
	for rows.Next() {
		capacity := &entities.EffectiveCapacity{}
		if err := rows.Scan(
			&capacity.HospitalID,
			&capacity.TotalBeds,
			&capacity.ICUBeds,
			&capacity.UsedBeds,
			&capacity.UsedICUBeds,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan effective capacity", err)
		}

		capacity.AvailableBeds = max(0, capacity.TotalBeds-capacity.UsedBeds)
		capacity.AvailableICUBeds = max(0, capacity.ICUBeds-capacity.UsedICUBeds)
		capacities[capacity.HospitalID] = capacity
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate effective capacities", err)
	}

	return capacities, nil
}
