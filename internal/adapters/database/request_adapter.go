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

const requestColumns = `request_id, latitude, longitude, request_status, assigned_ambulance_id, created_at, updated_at`

// RequestAdapter implements the RequestRepository interface
type RequestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	now    func() time.Time
}

// NewRequestAdapter creates a new SOS request adapter
func NewRequestAdapter(client *postgres.Client) repositories.RequestRepository {
	return &RequestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    time.Now,
	}
}

// Create stores a new emergency request
func (a *RequestAdapter) Create(ctx context.Context, request *entities.EmergencyRequest) error {
	record := goqu.Record{
		"request_id":     request.ID,
		"latitude":       request.Location.Latitude,
		"longitude":      request.Location.Longitude,
		"request_status": string(request.Status),
		"created_at":     request.CreatedAt,
		"updated_at":     request.UpdatedAt,
	}

	query, args, err := a.db.Insert("emergency_requests").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create emergency request", err)
	}

	return nil
}

// GetByID retrieves a request by ID
func (a *RequestAdapter) GetByID(ctx context.Context, id string) (*entities.EmergencyRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergency_requests WHERE request_id = $1`, requestColumns)

	request, err := scanRequest(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("request with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get emergency request", err)
	}

	return request, nil
}

// GetDetail retrieves a request joined with its assigned ambulance's position
func (a *RequestAdapter) GetDetail(ctx context.Context, id string) (*entities.RequestDetail, error) {
	query := `
		SELECT r.request_id, r.latitude, r.longitude, r.request_status, r.assigned_ambulance_id,
			r.created_at, r.updated_at,
			a.latitude, a.longitude, a.registration_number
		FROM emergency_requests r
		LEFT JOIN ambulances a ON r.assigned_ambulance_id = a.ambulance_id
		WHERE r.request_id = $1
	`

	detail := &entities.RequestDetail{}
	var assigned sql.NullString
	var ambLat, ambLng sql.NullFloat64
	var registration sql.NullString
	var status string

	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(
		&detail.ID,
		&detail.Location.Latitude,
		&detail.Location.Longitude,
		&status,
		&assigned,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&ambLat,
		&ambLng,
		&registration,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("request with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get request detail", err)
	}

	detail.Status = entities.RequestStatus(status)
	detail.AssignedAmbulanceID = stringPtr(assigned)
	if ambLat.Valid {
		detail.AmbulanceLatitude = &ambLat.Float64
	}
	if ambLng.Valid {
		detail.AmbulanceLongitude = &ambLng.Float64
	}
	detail.AmbulanceRegistration = stringPtr(registration)

	return detail, nil
}

// ListOpen retrieves every OPEN request
func (a *RequestAdapter) ListOpen(ctx context.Context) ([]*entities.EmergencyRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergency_requests WHERE request_status = 'OPEN' ORDER BY created_at`, requestColumns)

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list open requests", err)
	}
	defer rows.Close()

	var requests []*entities.EmergencyRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan emergency request", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate open requests", err)
	}

	return requests, nil
}

// GetForUpdate retrieves a request inside tx under a row lock
func (a *RequestAdapter) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*entities.EmergencyRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergency_requests WHERE request_id = $1 FOR UPDATE`, requestColumns)

	request, err := scanRequest(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("request with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to lock emergency request", err)
	}

	return request, nil
}

// SaveStateTx writes status, assignment and location inside tx
func (a *RequestAdapter) SaveStateTx(ctx context.Context, tx *sql.Tx, request *entities.EmergencyRequest) error {
	query := `
		UPDATE emergency_requests SET
			request_status = $2,
			assigned_ambulance_id = $3,
			latitude = $4,
			longitude = $5,
			updated_at = $6
		WHERE request_id = $1
	`

	result, err := tx.ExecContext(ctx, query,
		request.ID,
		string(request.Status),
		nullableString(request.AssignedAmbulanceID),
		request.Location.Latitude,
		request.Location.Longitude,
		a.now(),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to save request state", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("request with id %s not found", request.ID))
	}

	return nil
}

func scanRequest(row rowScanner) (*entities.EmergencyRequest, error) {
	request := &entities.EmergencyRequest{}
	var assigned sql.NullString
	var status string

	err := row.Scan(
		&request.ID,
		&request.Location.Latitude,
		&request.Location.Longitude,
		&status,
		&assigned,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Status = entities.RequestStatus(status)
	request.AssignedAmbulanceID = stringPtr(assigned)

	return request, nil
}
