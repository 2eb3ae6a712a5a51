package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lets-assist/api/internal/api/handler/v1/response"
	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/pkg/jwthelper"
	"github.com/lets-assist/api/internal/service"
)

const testSigningKey = "test-signing-key"

type fakeLookupService struct {
	result domain.LookupResult
}

func (f *fakeLookupService) LookupEmailStatus(_ context.Context, _ uint, _, _ string) domain.LookupResult {
	return f.result
}

type fakeAttendanceService struct {
	result service.CheckInResult
	err    error

	gotSignupID uint
}

func (f *fakeAttendanceService) CheckInUser(_ context.Context, signupID uint) (service.CheckInResult, error) {
	f.gotSignupID = signupID

	return f.result, f.err
}

func (f *fakeAttendanceService) CheckInAnonymous(_ context.Context, _ uint, _, _ string) (service.CheckInResult, error) {
	return f.result, f.err
}

type fakeSignupReader struct {
	signup domain.ProjectSignup
	err    error
}

func (f *fakeSignupReader) GetSignup(_ context.Context, _ uint) (domain.ProjectSignup, error) {
	return f.signup, f.err
}

func newAttendanceRouter(lookup LookupService, svc AttendanceService, signups SignupReader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewAttendanceHandler(lookup, svc, signups, testSigningKey)
	router := gin.New()
	router.POST("/projects/:projectID/schedules/:scheduleID/lookup", handler.HandleLookupEmail)
	router.POST("/projects/:projectID/schedules/:scheduleID/checkin/anonymous", handler.HandleCheckInAnonymous)
	router.POST("/attendance/checkin/qr", handler.HandleCheckInQR)
	router.GET("/signups/:signupID/checkin-token", handler.HandleGetCheckInToken)

	return router
}

func TestHandleLookupEmail(t *testing.T) {
	signupID := uint(12)
	lookup := &fakeLookupService{
		result: domain.LookupResult{
			Success:      true,
			Found:        true,
			IsRegistered: true,
			SignupID:     &signupID,
		},
	}
	router := newAttendanceRouter(lookup, &fakeAttendanceService{}, &fakeSignupReader{})

	body := bytes.NewBufferString(`{"email":"casey@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/1/schedules/oneTime/lookup", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var got domain.LookupResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.True(t, got.Found)
	require.NotNil(t, got.SignupID)
	assert.Equal(t, signupID, *got.SignupID)
}

func TestHandleLookupEmail_InvalidEmail(t *testing.T) {
	router := newAttendanceRouter(&fakeLookupService{}, &fakeAttendanceService{}, &fakeSignupReader{})

	body := bytes.NewBufferString(`{"email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/1/schedules/oneTime/lookup", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleCheckInAnonymous_NotFound(t *testing.T) {
	svc := &fakeAttendanceService{err: service.ErrAnonymousNotFound}
	router := newAttendanceRouter(&fakeLookupService{}, svc, &fakeSignupReader{})

	body := bytes.NewBufferString(`{"email":"nobody@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/1/schedules/oneTime/checkin/anonymous", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)

	var got response.CheckInResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.NotEmpty(t, got.Error)
}

func TestHandleCheckInQR(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := &fakeAttendanceService{
		result: service.CheckInResult{SignupID: 12, CheckInTime: now},
	}
	router := newAttendanceRouter(&fakeLookupService{}, svc, &fakeSignupReader{})

	token, err := jwthelper.GenerateCheckInToken(testSigningKey, 12, 1, "oneTime")
	require.NoError(t, err)

	body := bytes.NewBufferString(fmt.Sprintf(`{"token":%q}`, token))
	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin/qr", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, uint(12), svc.gotSignupID)

	var got response.CheckInResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, uint(12), got.SignupID)
}

func TestHandleCheckInQR_BadToken(t *testing.T) {
	router := newAttendanceRouter(&fakeLookupService{}, &fakeAttendanceService{}, &fakeSignupReader{})

	body := bytes.NewBufferString(`{"token":"forged"}`)
	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin/qr", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHandleGetCheckInToken(t *testing.T) {
	signups := &fakeSignupReader{
		signup: domain.ProjectSignup{ID: 12, ProjectID: 1, ScheduleID: "oneTime"},
	}
	router := newAttendanceRouter(&fakeLookupService{}, &fakeAttendanceService{}, signups)

	req := httptest.NewRequest(http.MethodGet, "/signups/12/checkin-token", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var got response.CheckInTokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))

	claims, err := jwthelper.ParseCheckInToken(testSigningKey, got.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.SignupID)
}
