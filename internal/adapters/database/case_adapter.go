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

const caseColumns = `case_id, ambulance_id, consciousness_level, bleeding, injury_type,
		injury_location, mechanism_of_injury, triage_category, severity_level,
		requires_icu, requires_specialty, created_at`

// CaseAdapter implements the CaseRepository interface
type CaseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCaseAdapter creates a new emergency case adapter
func NewCaseAdapter(client *postgres.Client) repositories.CaseRepository {
	return &CaseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new emergency case
func (a *CaseAdapter) Create(ctx context.Context, emergencyCase *entities.EmergencyCase) error {
	record := goqu.Record{
		"case_id":             emergencyCase.ID,
		"ambulance_id":        emergencyCase.AmbulanceID,
		"consciousness_level": emergencyCase.ConsciousnessLevel,
		"bleeding":            emergencyCase.Bleeding,
		"injury_type":         sql.NullString{String: emergencyCase.InjuryType, Valid: emergencyCase.InjuryType != ""},
		"injury_location":     sql.NullString{String: emergencyCase.InjuryLocation, Valid: emergencyCase.InjuryLocation != ""},
		"mechanism_of_injury": sql.NullString{String: emergencyCase.MechanismOfInjury, Valid: emergencyCase.MechanismOfInjury != ""},
		"triage_category":     string(emergencyCase.TriageCategory),
		"severity_level":      emergencyCase.SeverityLevel,
		"requires_icu":        emergencyCase.RequiresICU,
		"requires_specialty":  sql.NullString{String: emergencyCase.RequiresSpecialty, Valid: emergencyCase.RequiresSpecialty != ""},
		"created_at":          emergencyCase.CreatedAt,
	}

	query, args, err := a.db.Insert("emergency_cases").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create emergency case", err)
	}

	return nil
}

// GetByID retrieves a case by ID
func (a *CaseAdapter) GetByID(ctx context.Context, id string) (*entities.EmergencyCase, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergency_cases WHERE case_id = $1`, caseColumns)
	return a.get(ctx, a.client.DB().QueryRowContext(ctx, query, id), id)
}

// GetByIDTx retrieves a case by ID inside tx
func (a *CaseAdapter) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*entities.EmergencyCase, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergency_cases WHERE case_id = $1`, caseColumns)
	return a.get(ctx, tx.QueryRowContext(ctx, query, id), id)
}

func (a *CaseAdapter) get(ctx context.Context, row *sql.Row, id string) (*entities.EmergencyCase, error) {
	emergencyCase := &entities.EmergencyCase{}
	var injuryType, injuryLocation, mechanism, specialty sql.NullString
	var triage string

	err := row.Scan(
		&emergencyCase.ID,
		&emergencyCase.AmbulanceID,
		&emergencyCase.ConsciousnessLevel,
		&emergencyCase.Bleeding,
		&injuryType,
		&injuryLocation,
		&mechanism,
		&triage,
		&emergencyCase.SeverityLevel,
		&emergencyCase.RequiresICU,
		&specialty,
		&emergencyCase.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("case with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get emergency case", err)
	}

	emergencyCase.TriageCategory = entities.TriageCategory(triage)
	emergencyCase.InjuryType = injuryType.String
	emergencyCase.InjuryLocation = injuryLocation.String
	emergencyCase.MechanismOfInjury = mechanism.String
	emergencyCase.RequiresSpecialty = specialty.String

	return emergencyCase, nil
}
