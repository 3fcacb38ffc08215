package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "freight/internal/adapters/in/http"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.Called(method, path, status, duration)
}

func (m *MockRecorder) RecordRejected(operation, kind string) {
	m.Called(operation, kind)
}

type MockIntakeHandler struct{ mock.Mock }

func (m *MockIntakeHandler) Handle(
	ctx context.Context,
	cmd commands.IntakeConsignmentCommand,
) (commands.IntakeConsignmentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.IntakeConsignmentResult), args.Error(1)
}

type MockChangeStatusHandler struct{ mock.Mock }

func (m *MockChangeStatusHandler) Handle(
	ctx context.Context,
	cmd commands.ChangeAllocationStatusCommand,
) (commands.AllocationView, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AllocationView), args.Error(1)
}

type MockUpdateDetailsHandler struct{ mock.Mock }

func (m *MockUpdateDetailsHandler) Handle(
	ctx context.Context,
	cmd commands.UpdateAllocationDetailsCommand,
) (*allocation.Allocation, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Allocation), args.Error(1)
}

type MockCancelConsignmentHandler struct{ mock.Mock }

func (m *MockCancelConsignmentHandler) Handle(
	ctx context.Context,
	cmd commands.CancelConsignmentCommand,
) (*consignment.Consignment, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignment), args.Error(1)
}

type MockDeleteHandler struct{ mock.Mock }

func (m *MockDeleteHandler) Handle(ctx context.Context, cmd commands.DeleteAllocationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockSetTruckStatusHandler struct{ mock.Mock }

func (m *MockSetTruckStatusHandler) Handle(ctx context.Context, cmd commands.SetTruckStatusCommand) (*truck.Truck, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*truck.Truck), args.Error(1)
}

type MockGetAllocationHandler struct{ mock.Mock }

func (m *MockGetAllocationHandler) Handle(
	ctx context.Context,
	query queries.GetAllocationQuery,
) (queries.AllocationResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.AllocationResponse), args.Error(1)
}

type MockListAllocationsHandler struct{ mock.Mock }

func (m *MockListAllocationsHandler) Handle(
	ctx context.Context,
	query queries.ListAllocationsQuery,
) ([]queries.AllocationResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.AllocationResponse), args.Error(1)
}

type MockBacklogHandler struct{ mock.Mock }

func (m *MockBacklogHandler) Handle(
	ctx context.Context,
	query queries.GetRouteBacklogQuery,
) (queries.GetRouteBacklogQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetRouteBacklogQueryResponse), args.Error(1)
}

type fixture struct {
	echo     *echo.Echo
	recorder *MockRecorder
}

func newFixture(t *testing.T, handlers httpadapter.Handlers) fixture {
	t.Helper()

	recorder := new(MockRecorder)
	recorder.On("RecordHTTPRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()

	e := echo.New()
	e.Use(httpadapter.MetricsMiddleware(recorder))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpadapter.NewServer(handlers, recorder, logger).RegisterRoutes(e)

	return fixture{echo: e, recorder: recorder}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func newRoute(t *testing.T) kernel.Route {
	t.Helper()
	route, err := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return route
}

func newTruck(t *testing.T, office kernel.UUID) *truck.Truck {
	t.Helper()
	tr, err := truck.NewTruck(kernel.NewUUID(), "KA-05-MX-0042", "Ashok Leyland 1616", kernel.MustNewVolume(600), office, now)
	require.NoError(t, err)
	return tr
}

func newConsignment(t *testing.T, route kernel.Route, volume float64) *consignment.Consignment {
	t.Helper()
	sender, err := consignment.NewParty("sender", "Asha", "asha@example.com")
	require.NoError(t, err)
	receiver, err := consignment.NewParty("receiver", "Ravi", "ravi@example.com")
	require.NoError(t, err)
	charge, err := kernel.NewMoney(volume * 100)
	require.NoError(t, err)

	c, err := consignment.NewConsignment(
		kernel.NewUUID(), consignment.GenerateTrackingNumber(now), route,
		kernel.MustNewVolume(volume), charge, sender, receiver, now,
	)
	require.NoError(t, err)
	return c
}

func intakeBody(route kernel.Route, volume float64) string {
	return fmt.Sprintf(`{
		"sourceOffice": %q,
		"destinationOffice": %q,
		"volume": %v,
		"sender": {"name": "Asha", "contact": "asha@example.com"},
		"receiver": {"name": "Ravi", "contact": "ravi@example.com"}
	}`, route.Source(), route.Destination(), volume)
}

func TestCreateConsignment_AllocatesRoute(t *testing.T) {
	route := newRoute(t)
	previous := newConsignment(t, route, 300)
	current := newConsignment(t, route, 250)
	tr := newTruck(t, route.Source())
	a, err := allocation.NewAllocation(
		kernel.NewUUID(), tr.ID(), route, []kernel.UUID{previous.ID(), current.ID()},
		kernel.MustNewVolume(550), now, allocation.Details{},
	)
	require.NoError(t, err)

	intake := new(MockIntakeHandler)
	intake.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.IntakeConsignmentCommand) bool {
		return cmd.Route().IsEqual(route) && cmd.Volume().Float64() == 250
	})).Return(commands.IntakeConsignmentResult{
		Consignment: current,
		Decision: commands.RouteAllocation{
			Outcome:       services.OutcomeAllocated,
			BacklogVolume: kernel.MustNewVolume(550),
			Allocation:    a,
			Truck:         tr,
			Consignments:  []*consignment.Consignment{previous, current},
		},
	}, nil)

	f := newFixture(t, httpadapter.Handlers{IntakeConsignment: intake})
	rec := f.do(http.MethodPost, "/api/v1/consignments", intakeBody(route, 250))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body httpadapter.IntakeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, current.TrackingNumber().String(), body.Consignment.TrackingNumber)
	assert.Equal(t, "allocated", body.Decision.Outcome)
	assert.InDelta(t, 550, body.Decision.BacklogVolume, 0)
	require.NotNil(t, body.Decision.Allocation)
	assert.Equal(t, a.ID().String(), body.Decision.Allocation.ID)
	assert.Equal(t, "Planned", body.Decision.Allocation.Status)
	assert.Equal(t, []string{previous.ID().String(), current.ID().String()}, body.Decision.Allocation.ConsignmentIDs)
	require.NotNil(t, body.Decision.Allocation.Truck)
	assert.Equal(t, tr.ID().String(), body.Decision.Allocation.Truck.ID)
	assert.Len(t, body.Decision.Allocation.Consignments, 2)
	intake.AssertExpectations(t)
}

func TestCreateConsignment_BelowTrigger(t *testing.T) {
	route := newRoute(t)
	current := newConsignment(t, route, 100)

	intake := new(MockIntakeHandler)
	intake.On("Handle", mock.Anything, mock.Anything).Return(commands.IntakeConsignmentResult{
		Consignment: current,
		Decision: commands.RouteAllocation{
			Outcome:       services.OutcomeBelowTrigger,
			BacklogVolume: kernel.MustNewVolume(100),
		},
	}, nil)

	f := newFixture(t, httpadapter.Handlers{IntakeConsignment: intake})
	rec := f.do(http.MethodPost, "/api/v1/consignments", intakeBody(route, 100))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body httpadapter.IntakeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "below_trigger", body.Decision.Outcome)
	assert.Nil(t, body.Decision.Allocation)
	assert.Nil(t, body.Consignment.Truck)
	assert.Equal(t, "Received", body.Consignment.Status)
}

func TestCreateConsignment_ValidationFailure(t *testing.T) {
	office := kernel.NewUUID()
	intake := new(MockIntakeHandler)

	f := newFixture(t, httpadapter.Handlers{IntakeConsignment: intake})
	f.recorder.On("RecordRejected", "intake_consignment", "validation").Once()

	body := fmt.Sprintf(`{
		"sourceOffice": %q,
		"destinationOffice": %q,
		"volume": 10,
		"sender": {"name": "", "contact": "asha@example.com"},
		"receiver": {"name": "Ravi", "contact": "ravi@example.com"}
	}`, office, office)
	rec := f.do(http.MethodPost, "/api/v1/consignments", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httpadapter.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "sender.name")
	assert.Contains(t, resp.Details, "destinationOffice")
	intake.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	f.recorder.AssertExpectations(t)
}

func TestCreateConsignment_MalformedBody(t *testing.T) {
	f := newFixture(t, httpadapter.Handlers{IntakeConsignment: new(MockIntakeHandler)})
	f.recorder.On("RecordRejected", "intake_consignment", "validation").Once()

	rec := f.do(http.MethodPost, "/api/v1/consignments", `{"volume": "lots"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.recorder.AssertExpectations(t)
}

func TestCreateConsignment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", errs.NewValueIsInvalidError("volume"), http.StatusBadRequest, "validation"},
		{"not found", errs.NewObjectNotFoundError("truck", kernel.NewUUID()), http.StatusNotFound, "not_found"},
		{"capacity", errs.NewCapacityExceededError("t-1", 700, 600), http.StatusUnprocessableEntity, "capacity_exceeded"},
		{"transition", errs.NewInvalidTransitionError("allocation", "a-1", "Completed", "Cancelled"), http.StatusConflict, "invalid_transition"},
		{"conflict", errs.NewConcurrencyConflictError("consignment", "c-1"), http.StatusConflict, "concurrency_conflict"},
		{"store", errs.NewStoreError("commit", assert.AnError), http.StatusInternalServerError, "store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := newRoute(t)
			intake := new(MockIntakeHandler)
			intake.On("Handle", mock.Anything, mock.Anything).Return(commands.IntakeConsignmentResult{}, tt.err)

			f := newFixture(t, httpadapter.Handlers{IntakeConsignment: intake})
			f.recorder.On("RecordRejected", "intake_consignment", tt.kind).Once()

			rec := f.do(http.MethodPost, "/api/v1/consignments", intakeBody(route, 10))

			assert.Equal(t, tt.status, rec.Code)
			var resp httpadapter.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Message, assert.AnError.Error())
			}
			f.recorder.AssertExpectations(t)
		})
	}
}

func TestCancelConsignment(t *testing.T) {
	c := newConsignment(t, newRoute(t), 120)
	require.NoError(t, c.Cancel())

	cancel := new(MockCancelConsignmentHandler)
	cancel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelConsignmentCommand) bool {
		return cmd.TrackingNumber() == c.TrackingNumber()
	})).Return(c, nil).Once()

	f := newFixture(t, httpadapter.Handlers{CancelConsignment: cancel})
	rec := f.do(http.MethodDelete, "/api/v1/consignments/"+c.TrackingNumber().String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpadapter.Consignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cancelled", body.Status)
	cancel.AssertExpectations(t)
}

func TestCancelConsignment_Claimed(t *testing.T) {
	number := consignment.GenerateTrackingNumber(now)
	cancel := new(MockCancelConsignmentHandler)
	cancel.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewInvalidTransitionError("consignment", "", "Waiting", "Cancelled")).Once()

	f := newFixture(t, httpadapter.Handlers{CancelConsignment: cancel})
	f.recorder.On("RecordRejected", "cancel_consignment", "invalid_transition").Once()

	rec := f.do(http.MethodDelete, "/api/v1/consignments/"+number.String(), "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	f.recorder.AssertExpectations(t)
}

func TestCancelConsignment_MalformedTrackingNumber(t *testing.T) {
	cancel := new(MockCancelConsignmentHandler)
	f := newFixture(t, httpadapter.Handlers{CancelConsignment: cancel})
	f.recorder.On("RecordRejected", "cancel_consignment", "validation").Once()

	rec := f.do(http.MethodDelete, "/api/v1/consignments/nope", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	cancel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetRouteBacklog_BindsQuery(t *testing.T) {
	route := newRoute(t)
	c := newConsignment(t, route, 120)

	backlog := new(MockBacklogHandler)
	backlog.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRouteBacklogQuery) bool {
		return q.Route().IsEqual(route)
	})).Return(queries.GetRouteBacklogQueryResponse{
		Source:      route.Source(),
		Destination: route.Destination(),
		Consignments: []queries.ConsignmentResponse{{
			ID:             c.ID(),
			TrackingNumber: c.TrackingNumber().String(),
			Source:         route.Source(),
			Destination:    route.Destination(),
			Volume:         120,
			Status:         "Received",
			ReceivedAt:     now,
		}},
		Volume:  120,
		Trigger: 500,
	}, nil)

	f := newFixture(t, httpadapter.Handlers{GetRouteBacklog: backlog})
	target := fmt.Sprintf("/api/v1/routes/backlog?source=%s&destination=%s", route.Source(), route.Destination())
	rec := f.do(http.MethodGet, target, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpadapter.Backlog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 120, body.Volume, 0)
	assert.InDelta(t, 500, body.Trigger, 0)
	assert.False(t, body.TriggerReached)
	require.Len(t, body.Consignments, 1)
	assert.Equal(t, c.TrackingNumber().String(), body.Consignments[0].TrackingNumber)
}

func TestGetRouteBacklog_MissingDestination(t *testing.T) {
	f := newFixture(t, httpadapter.Handlers{GetRouteBacklog: new(MockBacklogHandler)})
	f.recorder.On("RecordRejected", "get_route_backlog", "validation").Once()

	rec := f.do(http.MethodGet, "/api/v1/routes/backlog?source="+kernel.NewUUID().String(), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetTruckStatus_RejectsEngineOwnedStatus(t *testing.T) {
	setStatus := new(MockSetTruckStatusHandler)
	f := newFixture(t, httpadapter.Handlers{SetTruckStatus: setStatus})
	f.recorder.On("RecordRejected", "set_truck_status", "validation").Once()

	rec := f.do(http.MethodPut, "/api/v1/trucks/"+kernel.NewUUID().String()+"/status", `{"status": "InTransit"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	setStatus.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSetTruckStatus_UsesPathID(t *testing.T) {
	tr := newTruck(t, kernel.NewUUID())
	require.NoError(t, tr.SetOperationalStatus(truck.Maintenance, now))

	setStatus := new(MockSetTruckStatusHandler)
	setStatus.On("Handle", mock.Anything, mock.Anything).Return(tr, nil)

	f := newFixture(t, httpadapter.Handlers{SetTruckStatus: setStatus})
	rec := f.do(http.MethodPut, "/api/v1/trucks/"+tr.ID().String()+"/status", `{"status": "Maintenance"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpadapter.Truck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, tr.ID().String(), body.ID)
	assert.Equal(t, "Maintenance", body.Status)
}

func TestPatchAllocation_StatusAndDetails(t *testing.T) {
	allocationID := kernel.NewUUID()
	dispatched := queries.AllocationResponse{
		ID:          allocationID,
		TruckID:     kernel.NewUUID(),
		Source:      kernel.NewUUID(),
		Destination: kernel.NewUUID(),
		Status:      "InProgress",
		Notes:       "fragile",
		IdleHours:   3,
		WaitingDays: 1.5,
	}

	get := new(MockGetAllocationHandler)
	get.On("Handle", mock.Anything, mock.Anything).Return(dispatched, nil).Once()

	change := new(MockChangeStatusHandler)
	change.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeAllocationStatusCommand) bool {
		patch := cmd.Details()
		return cmd.AllocationID().IsEqual(allocationID) && cmd.Requested() == allocation.InProgress &&
			patch.IdleHours != nil && *patch.IdleHours == 3 &&
			patch.Notes == nil && patch.WaitingDays == nil
	})).Return(commands.AllocationView{}, nil).Once()

	update := new(MockUpdateDetailsHandler)

	f := newFixture(t, httpadapter.Handlers{
		GetAllocation:           get,
		ChangeAllocationStatus:  change,
		UpdateAllocationDetails: update,
	})
	rec := f.do(http.MethodPatch, "/api/v1/allocations/"+allocationID.String(), `{"status": "InProgress", "idleTime": 3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpadapter.Allocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "InProgress", body.Status)
	assert.InDelta(t, 3, body.IdleTime, 0)
	get.AssertExpectations(t)
	change.AssertExpectations(t)
	update.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPatchAllocation_DetailsOnly(t *testing.T) {
	allocationID := kernel.NewUUID()
	stored := queries.AllocationResponse{ID: allocationID, Status: "Planned", Notes: "bay 2", WaitingDays: 1.5}

	get := new(MockGetAllocationHandler)
	get.On("Handle", mock.Anything, mock.Anything).Return(stored, nil).Once()

	update := new(MockUpdateDetailsHandler)
	update.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateAllocationDetailsCommand) bool {
		patch := cmd.Patch()
		return cmd.AllocationID().IsEqual(allocationID) &&
			patch.Notes != nil && *patch.Notes == "bay 2" && patch.IdleHours == nil
	})).Return(nil, nil).Once()
	change := new(MockChangeStatusHandler)

	f := newFixture(t, httpadapter.Handlers{
		GetAllocation:           get,
		ChangeAllocationStatus:  change,
		UpdateAllocationDetails: update,
	})
	rec := f.do(http.MethodPatch, "/api/v1/allocations/"+allocationID.String(), `{"notes": "bay 2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	update.AssertExpectations(t)
	change.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPatchAllocation_InvalidTransition(t *testing.T) {
	allocationID := kernel.NewUUID()
	change := new(MockChangeStatusHandler)
	change.On("Handle", mock.Anything, mock.Anything).Return(
		commands.AllocationView{},
		errs.NewInvalidTransitionError("allocation", allocationID.String(), "Completed", "Cancelled"),
	)
	get := new(MockGetAllocationHandler)

	f := newFixture(t, httpadapter.Handlers{GetAllocation: get, ChangeAllocationStatus: change})
	f.recorder.On("RecordRejected", "patch_allocation", "invalid_transition").Once()

	rec := f.do(http.MethodPatch, "/api/v1/allocations/"+allocationID.String(), `{"status": "Cancelled"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	get.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPatchAllocation_EmptyBody(t *testing.T) {
	f := newFixture(t, httpadapter.Handlers{})
	f.recorder.On("RecordRejected", "patch_allocation", "validation").Once()

	rec := f.do(http.MethodPatch, "/api/v1/allocations/"+kernel.NewUUID().String(), `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAllocation(t *testing.T) {
	allocationID := kernel.NewUUID()
	remove := new(MockDeleteHandler)
	remove.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DeleteAllocationCommand) bool {
		return cmd.AllocationID().IsEqual(allocationID)
	})).Return(nil)

	f := newFixture(t, httpadapter.Handlers{DeleteAllocation: remove})
	rec := f.do(http.MethodDelete, "/api/v1/allocations/"+allocationID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	remove.AssertExpectations(t)
}

func TestDeleteAllocation_BadID(t *testing.T) {
	f := newFixture(t, httpadapter.Handlers{DeleteAllocation: new(MockDeleteHandler)})
	f.recorder.On("RecordRejected", "delete_allocation", "validation").Once()

	rec := f.do(http.MethodDelete, "/api/v1/allocations/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAllocations_Filter(t *testing.T) {
	truckID := kernel.NewUUID()
	list := new(MockListAllocationsHandler)
	list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListAllocationsQuery) bool {
		filter := q.Filter()
		return filter.Status != nil && *filter.Status == allocation.Planned &&
			filter.Truck != nil && filter.Truck.IsEqual(truckID) &&
			filter.Source == nil && filter.Destination == nil
	})).Return([]queries.AllocationResponse{{ID: kernel.NewUUID(), TruckID: truckID, Status: "Planned", ConsignmentCount: 3}}, nil)

	f := newFixture(t, httpadapter.Handlers{ListAllocations: list})
	rec := f.do(http.MethodGet, "/api/v1/allocations?status=Planned&truck="+truckID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []httpadapter.Allocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 3, body[0].ConsignmentCount)
	assert.Nil(t, body[0].Truck)
	list.AssertExpectations(t)
}

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	remove := new(MockDeleteHandler)
	remove.On("Handle", mock.Anything, mock.Anything).Return(nil)

	recorder := new(MockRecorder)
	recorder.On("RecordHTTPRequest", http.MethodDelete, "/api/v1/allocations/:id", http.StatusNoContent, mock.Anything).Once()

	e := echo.New()
	e.Use(httpadapter.MetricsMiddleware(recorder))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpadapter.NewServer(httpadapter.Handlers{DeleteAllocation: remove}, recorder, logger).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/allocations/"+kernel.NewUUID().String(), nil)
	e.ServeHTTP(httptest.NewRecorder(), req)

	recorder.AssertExpectations(t)
}
