package services_test

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// Mocks shared by the service tests

type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type MockHospitalRepository struct {
	mock.Mock
}

func (m *MockHospitalRepository) Create(ctx context.Context, hospital *entities.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *MockHospitalRepository) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) GetByName(ctx context.Context, name string) (*entities.Hospital, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) List(ctx context.Context) ([]*entities.Hospital, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockHospitalRepository) ExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

type MockAmbulanceRepository struct {
	mock.Mock
}

func (m *MockAmbulanceRepository) Create(ctx context.Context, ambulance *entities.Ambulance, password string) error {
	args := m.Called(ctx, ambulance, password)
	return args.Error(0)
}

func (m *MockAmbulanceRepository) GetByID(ctx context.Context, id string) (*entities.Ambulance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) GetByCredentials(ctx context.Context, username, password string) (*entities.Ambulance, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*entities.Ambulance, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) ExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAmbulanceRepository) SaveStateTx(ctx context.Context, tx *sql.Tx, ambulance *entities.Ambulance) error {
	args := m.Called(ctx, tx, ambulance)
	return args.Error(0)
}

func (m *MockAmbulanceRepository) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	args := m.Called(ctx, id, location)
	return args.Error(0)
}

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) Create(ctx context.Context, emergencyCase *entities.EmergencyCase) error {
	args := m.Called(ctx, emergencyCase)
	return args.Error(0)
}

func (m *MockCaseRepository) GetByID(ctx context.Context, id string) (*entities.EmergencyCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmergencyCase), args.Error(1)
}

func (m *MockCaseRepository) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*entities.EmergencyCase, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmergencyCase), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *entities.EmergencyRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*entities.EmergencyRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmergencyRequest), args.Error(1)
}

func (m *MockRequestRepository) GetDetail(ctx context.Context, id string) (*entities.RequestDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RequestDetail), args.Error(1)
}

func (m *MockRequestRepository) ListOpen(ctx context.Context) ([]*entities.EmergencyRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EmergencyRequest), args.Error(1)
}

func (m *MockRequestRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*entities.EmergencyRequest, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmergencyRequest), args.Error(1)
}

func (m *MockRequestRepository) SaveStateTx(ctx context.Context, tx *sql.Tx, request *entities.EmergencyRequest) error {
	args := m.Called(ctx, tx, request)
	return args.Error(0)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateTx(ctx context.Context, tx *sql.Tx, reservation *entities.Reservation) error {
	args := m.Called(ctx, tx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) AdvanceForAmbulanceTx(ctx context.Context, tx *sql.Tx, ambulanceID string, from []entities.ReservationStatus, to entities.ReservationStatus) (int64, error) {
	args := m.Called(ctx, tx, ambulanceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) ActiveByAmbulance(ctx context.Context, ambulanceID string) (*entities.Reservation, error) {
	args := m.Called(ctx, ambulanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepository) EffectiveCapacities(ctx context.Context) (map[string]*entities.EffectiveCapacity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.EffectiveCapacity), args.Error(1)
}

type MockStatePublisher struct {
	mock.Mock
}

func (m *MockStatePublisher) Publish(ctx context.Context, update *entities.StateUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}
