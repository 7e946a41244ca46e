package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/backend"
	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var tuesday = civil.Date{Year: 2026, Month: time.March, Day: 10}

type fakeProvider struct {
	err       error
	lastDay   service.DayRequest
	lastRange service.RangeRequest
	lastToken string
	storeOK   bool
}

func (f *fakeProvider) BusinessNow() availability.BusinessTime {
	return availability.BusinessTime{Date: tuesday, Minute: 9 * 60}
}

func (f *fakeProvider) LoadDay(ctx context.Context, req service.DayRequest) (*service.Day, error) {
	f.lastDay = req
	f.lastToken, _ = backend.TokenFromContext(ctx)
	f.storeOK = backend.StoredTokenAllowed(ctx)
	if f.err != nil {
		return &service.Day{Date: req.Date, Status: availability.DayFailed, Err: f.err}, f.err
	}
	return &service.Day{
		Date:    req.Date,
		Weekday: availability.WeekdayOf(req.Date),
		Status:  availability.DayAvailable,
		Source:  service.SourceClient,
		Rule:    &model.WeeklyScheduleRule{ID: 5, StartTime: "09:00", EndTime: "10:00", SlotIntervalMinutes: 30},
		Slots: []model.TimeSlot{
			{Minute: 540, Time: "09:00", Occupied: true},
			{Minute: 570, Time: "09:30"},
		},
		Bookable:        []model.TimeSlot{{Minute: 570, Time: "09:30"}},
		ClosingBoundary: 600,
	}, nil
}

func (f *fakeProvider) LoadRange(_ context.Context, req service.RangeRequest) []*service.Day {
	f.lastRange = req
	days := make([]*service.Day, req.Days)
	for i := range days {
		days[i] = &service.Day{Date: req.From.AddDays(i), Status: availability.DayClosed}
	}
	days[1] = &service.Day{Date: req.From.AddDays(1), Status: availability.DayFailed, Err: &backend.ServerError{Op: "list rules", Status: 503}}
	return days
}

func serve(t *testing.T, f *fakeProvider, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewAvailabilityHandler(f, 7, zap.NewNop()), zap.NewNop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeProvider{}, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestGetDay(t *testing.T) {
	f := &fakeProvider{}
	req := httptest.NewRequest(http.MethodGet, "/v1/empresas/3/disponibilidade?data=2026-03-11&duracao=45", nil)
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set(RequestIDHeader, "req-1")

	rec := serve(t, f, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	assert.Equal(t, service.DayRequest{CompanyID: 3, Date: tuesday.AddDays(1), ServiceDurationMinutes: 45}, f.lastDay)
	assert.Equal(t, "abc", f.lastToken)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-03-11", body["data"])
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, "10:00", body["fechamento"])

	slots := body["horarios"].([]any)
	require.Len(t, slots, 2)
	assert.Equal(t, map[string]any{"horario": "09:00", "ocupado": true, "indisponivel": false}, slots[0])
	assert.Len(t, body["disponiveis"], 1)
}

func TestGetDay_DefaultsToToday(t *testing.T) {
	f := &fakeProvider{}
	rec := serve(t, f, httptest.NewRequest(http.MethodGet, "/v1/empresas/3/disponibilidade", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tuesday, f.lastDay.Date)
	assert.Equal(t, defaultServiceDuration, f.lastDay.ServiceDurationMinutes)
	assert.Empty(t, f.lastToken)
	assert.False(t, f.storeOK, "anonymous gateway requests must not use the stored token")
}

func TestGetDay_BadRequests(t *testing.T) {
	for _, target := range []string{
		"/v1/empresas/abc/disponibilidade",
		"/v1/empresas/0/disponibilidade",
		"/v1/empresas/3/disponibilidade?data=10-03-2026",
		"/v1/empresas/3/disponibilidade?data=2026-03-09",
		"/v1/empresas/3/disponibilidade?duracao=0",
		"/v1/empresas/3/disponibilidade?duracao=2000",
	} {
		rec := serve(t, &fakeProvider{}, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.Equal(t, ErrBadRequest, body.Error, target)
	}
}

func TestGetDay_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{backend.ErrNoToken, http.StatusUnauthorized, ErrUnauthorized},
		{&backend.StatusError{Op: "list rules", Status: 403}, http.StatusUnauthorized, ErrUnauthorized},
		{&backend.NotFoundError{Op: "list rules"}, http.StatusNotFound, ErrNotFound},
		{&backend.NetworkError{Op: "list rules", Err: context.DeadlineExceeded}, http.StatusBadGateway, ErrUpstream},
		{&availability.InvalidScheduleError{RuleID: 1, Weekday: 2, Reason: "start after end"}, http.StatusUnprocessableEntity, ErrSchedule},
	}
	for _, tc := range cases {
		rec := serve(t, &fakeProvider{err: tc.err}, httptest.NewRequest(http.MethodGet, "/v1/empresas/3/disponibilidade", nil))
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Error)
	}
}

func TestGetWeek(t *testing.T) {
	f := &fakeProvider{}
	rec := serve(t, f, httptest.NewRequest(http.MethodGet, "/v1/empresas/3/disponibilidade/semana?inicio=2026-03-12", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 7, f.lastRange.Days)
	assert.Equal(t, tuesday.AddDays(2), f.lastRange.From)

	var body WeekResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Days, 7)
	assert.Equal(t, "closed", body.Days[0].Status)
	assert.Equal(t, []model.TimeSlot{}, body.Days[0].Slots)
	assert.Equal(t, "failed", body.Days[1].Status)
	assert.Equal(t, ErrUpstream, body.Days[1].Error)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := serve(t, &fakeProvider{}, httptest.NewRequest(http.MethodPost, "/v1/empresas/3/disponibilidade", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
