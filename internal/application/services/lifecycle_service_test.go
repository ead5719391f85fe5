package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/application/services"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

type lifecycleFixture struct {
	ambulances   *MockAmbulanceRepository
	cases        *MockCaseRepository
	requests     *MockRequestRepository
	reservations *MockReservationRepository
	hospitals    *MockHospitalRepository
	svc          *services.LifecycleService
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		ambulances:   new(MockAmbulanceRepository),
		cases:        new(MockCaseRepository),
		requests:     new(MockRequestRepository),
		reservations: new(MockReservationRepository),
		hospitals:    new(MockHospitalRepository),
	}
	allocator := services.NewReservationService(&fakeTxRunner{}, f.hospitals, f.ambulances, f.reservations, 15*time.Minute)
	f.svc = services.NewLifecycleService(&fakeTxRunner{}, f.ambulances, f.cases, f.requests, f.reservations, allocator, 30*time.Second, nil)
	return f
}

func idleAmbulance(id string) *entities.Ambulance {
	return &entities.Ambulance{ID: id, Status: entities.AmbulanceStatusIdle}
}

func TestSetStatus_RejectsUnknownTargetStatus(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.svc.SetStatus(context.Background(), "amb-1", "WARPING", nil, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSetStatus_RejectsDisallowedTransition(t *testing.T) {
	f := newLifecycleFixture()
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(idleAmbulance("amb-1"), nil)

	_, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusEnRoute, nil, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))
	f.ambulances.AssertNotCalled(t, "SaveStateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_SameStatusIsNoOp(t *testing.T) {
	f := newLifecycleFixture()
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(idleAmbulance("amb-1"), nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	change, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusIdle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, entities.AmbulanceStatusIdle, change.Status)
	assert.Equal(t, entities.AmbulanceStatusIdle, change.PreviousStatus)
}

func TestSetStatus_UnrecognizedStoredStatusRepairsToIdle(t *testing.T) {
	f := newLifecycleFixture()
	corrupt := &entities.Ambulance{ID: "amb-1", Status: "GARBAGE"}
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(corrupt, nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	change, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusCaseCreated, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, entities.AmbulanceStatusIdle, change.PreviousStatus)
	assert.Equal(t, entities.AmbulanceStatusCaseCreated, change.Status)
}

func TestSetStatus_HospitalSelectedWithoutHospitalID(t *testing.T) {
	f := newLifecycleFixture()
	ambulance := &entities.Ambulance{ID: "amb-1", Status: entities.AmbulanceStatusCaseCreated}
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(ambulance, nil)

	_, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusHospitalSelected, nil, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	f.reservations.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_HospitalSelectedWithoutActiveCase(t *testing.T) {
	f := newLifecycleFixture()
	ambulance := &entities.Ambulance{ID: "amb-1", Status: entities.AmbulanceStatusCaseCreated}
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(ambulance, nil)

	hospitalID := "hosp-1"
	_, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusHospitalSelected, &hospitalID, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	f.reservations.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_HospitalSelectedCreatesReservationFromCase(t *testing.T) {
	f := newLifecycleFixture()
	caseID := "case-1"
	hospitalID := "hosp-1"
	ambulance := &entities.Ambulance{ID: "amb-1", Status: entities.AmbulanceStatusCaseCreated, ActiveCaseID: &caseID}

	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(ambulance, nil)
	f.cases.On("GetByIDTx", mock.Anything, mock.Anything, caseID).
		Return(&entities.EmergencyCase{ID: caseID, AmbulanceID: "amb-1", RequiresICU: true}, nil)
	f.hospitals.On("ExistsTx", mock.Anything, mock.Anything, hospitalID).Return(true, nil)
	f.ambulances.On("ExistsTx", mock.Anything, mock.Anything, "amb-1").Return(true, nil)
	f.reservations.On("CreateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r *entities.Reservation) bool {
		return r.HospitalID == hospitalID && r.AmbulanceID == "amb-1" && r.BedType == entities.BedTypeICU
	})).Return(nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	change, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusHospitalSelected, &hospitalID, nil)
	require.NoError(t, err)
	assert.Equal(t, entities.AmbulanceStatusHospitalSelected, change.Status)
	assert.Equal(t, entities.AmbulanceStatusCaseCreated, change.PreviousStatus)
	f.reservations.AssertExpectations(t)
}

func TestSetStatus_ArrivedAdvancesReservation(t *testing.T) {
	f := newLifecycleFixture()
	ambulance := &entities.Ambulance{ID: "amb-1", Status: entities.AmbulanceStatusEnRoute}
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(ambulance, nil)
	f.reservations.On("AdvanceForAmbulanceTx", mock.Anything, mock.Anything, "amb-1",
		[]entities.ReservationStatus{entities.ReservationStatusReserved},
		entities.ReservationStatusArrived).Return(int64(1), nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	change, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusArrived, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, entities.AmbulanceStatusArrived, change.Status)
	f.reservations.AssertExpectations(t)
}

func TestSetStatus_CancelledReleasesReservationAndAssignment(t *testing.T) {
	f := newLifecycleFixture()
	hospitalID := "hosp-1"
	caseID := "case-1"
	ambulance := &entities.Ambulance{
		ID:                 "amb-1",
		Status:             entities.AmbulanceStatusEnRoute,
		AssignedHospitalID: &hospitalID,
		ActiveCaseID:       &caseID,
	}
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(ambulance, nil)
	f.reservations.On("AdvanceForAmbulanceTx", mock.Anything, mock.Anything, "amb-1",
		[]entities.ReservationStatus{entities.ReservationStatusReserved, entities.ReservationStatusArrived},
		entities.ReservationStatusCancelled).Return(int64(1), nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entities.Ambulance) bool {
		return a.Status == entities.AmbulanceStatusCancelled && a.AssignedHospitalID == nil && a.ActiveCaseID == nil
	})).Return(nil)

	_, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusCancelled, nil, nil)
	require.NoError(t, err)
	f.ambulances.AssertExpectations(t)
}

func TestSetStatus_CompletedClearsAllLinks(t *testing.T) {
	f := newLifecycleFixture()
	hospitalID := "hosp-1"
	caseID := "case-1"
	requestID := "req-1"
	ambulance := &entities.Ambulance{
		ID:                 "amb-1",
		Status:             entities.AmbulanceStatusPatientAdmitted,
		AssignedHospitalID: &hospitalID,
		ActiveCaseID:       &caseID,
		CurrentRequestID:   &requestID,
	}
	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, "amb-1").Return(ambulance, nil)
	f.reservations.On("AdvanceForAmbulanceTx", mock.Anything, mock.Anything, "amb-1",
		[]entities.ReservationStatus{entities.ReservationStatusArrived},
		entities.ReservationStatusCompleted).Return(int64(1), nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entities.Ambulance) bool {
		return a.Status == entities.AmbulanceStatusCompleted &&
			a.AssignedHospitalID == nil && a.ActiveCaseID == nil && a.CurrentRequestID == nil
	})).Return(nil)

	_, err := f.svc.SetStatus(context.Background(), "amb-1", entities.AmbulanceStatusCompleted, nil, nil)
	require.NoError(t, err)
	f.ambulances.AssertExpectations(t)
}

func TestSimulateBreakdown_WithActiveCaseReopensRequestAtNewLocation(t *testing.T) {
	f := newLifecycleFixture()
	caseID := "case-1"
	requestID := "req-1"
	ambulanceID := "amb-1"
	ambulance := &entities.Ambulance{
		ID:               ambulanceID,
		Status:           entities.AmbulanceStatusEnRoute,
		ActiveCaseID:     &caseID,
		CurrentRequestID: &requestID,
	}
	request := &entities.EmergencyRequest{
		ID:                  requestID,
		Location:            entities.Location{Latitude: 10, Longitude: 10},
		Status:              entities.RequestStatusAssigned,
		AssignedAmbulanceID: &ambulanceID,
	}

	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, ambulanceID).Return(ambulance, nil)
	f.reservations.On("AdvanceForAmbulanceTx", mock.Anything, mock.Anything, ambulanceID,
		[]entities.ReservationStatus{entities.ReservationStatusReserved, entities.ReservationStatusArrived},
		entities.ReservationStatusCancelled).Return(int64(1), nil)
	f.requests.On("GetForUpdate", mock.Anything, mock.Anything, requestID).Return(request, nil)
	f.requests.On("SaveStateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r *entities.EmergencyRequest) bool {
		return r.Status == entities.RequestStatusOpen &&
			r.AssignedAmbulanceID == nil &&
			r.Location.Latitude == 12 && r.Location.Longitude == 13
	})).Return(nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entities.Ambulance) bool {
		return a.Status == entities.AmbulanceStatusBreakdown && a.Breakdown &&
			a.BreakdownUntil != nil && a.CurrentRequestID == nil && a.ActiveCaseID == nil
	})).Return(nil)

	breakdownAt := &entities.Location{Latitude: 12, Longitude: 13}
	result, err := f.svc.SimulateBreakdown(context.Background(), ambulanceID, breakdownAt)
	require.NoError(t, err)
	assert.Equal(t, *breakdownAt, result.UpdatedLocation)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), result.BreakdownUntil, 2*time.Second)
	f.requests.AssertExpectations(t)
	f.ambulances.AssertExpectations(t)
}

func TestSimulateBreakdown_WithoutActiveCaseKeepsPickupLocation(t *testing.T) {
	f := newLifecycleFixture()
	requestID := "req-1"
	ambulanceID := "amb-1"
	ambulance := &entities.Ambulance{
		ID:               ambulanceID,
		Status:           entities.AmbulanceStatusEnRouteToPatient,
		CurrentRequestID: &requestID,
	}
	request := &entities.EmergencyRequest{
		ID:                  requestID,
		Location:            entities.Location{Latitude: 10, Longitude: 10},
		Status:              entities.RequestStatusAssigned,
		AssignedAmbulanceID: &ambulanceID,
	}

	f.ambulances.On("GetForUpdate", mock.Anything, mock.Anything, ambulanceID).Return(ambulance, nil)
	f.reservations.On("AdvanceForAmbulanceTx", mock.Anything, mock.Anything, ambulanceID,
		mock.Anything, entities.ReservationStatusCancelled).Return(int64(0), nil)
	f.requests.On("GetForUpdate", mock.Anything, mock.Anything, requestID).Return(request, nil)
	f.requests.On("SaveStateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r *entities.EmergencyRequest) bool {
		return r.Status == entities.RequestStatusOpen &&
			r.Location.Latitude == 10 && r.Location.Longitude == 10
	})).Return(nil)
	f.ambulances.On("SaveStateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	breakdownAt := &entities.Location{Latitude: 12, Longitude: 13}
	_, err := f.svc.SimulateBreakdown(context.Background(), ambulanceID, breakdownAt)
	require.NoError(t, err)
	f.requests.AssertExpectations(t)
}

func TestRegister_RequiresRegistrationNumber(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.svc.Register(context.Background(), "", "org", "user", "pass", entities.Location{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestRegister_StartsIdle(t *testing.T) {
	f := newLifecycleFixture()
	f.ambulances.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Ambulance) bool {
		return a.Status == entities.AmbulanceStatusIdle && a.ID != ""
	}), "secret").Return(nil)

	ambulance, err := f.svc.Register(context.Background(), "KJA-123", "St John", "kja123", "secret", entities.Location{Latitude: 6.5, Longitude: 3.3})
	require.NoError(t, err)
	assert.Equal(t, "KJA-123", ambulance.RegistrationNumber)
	f.ambulances.AssertExpectations(t)
}

func TestUpdateLocation_RequiresCoordinates(t *testing.T) {
	f := newLifecycleFixture()

	err := f.svc.UpdateLocation(context.Background(), "amb-1", entities.Location{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	f.ambulances.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything)
}
