package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/floody/internal/dcm"
	"github.com/ignite/floody/internal/gtm"
	"github.com/ignite/floody/internal/pkg/distlock"
	"github.com/ignite/floody/internal/service/gtmrequest"
	"github.com/ignite/floody/internal/sheets"
	"github.com/ignite/floody/internal/syncer"
)

type fakePlatform struct {
	nextID int64
}

func (f *fakePlatform) ListActivities(ctx context.Context, profileID, configID int64, pageToken string) ([]dcm.FloodlightActivity, string, error) {
	return nil, "", nil
}

func (f *fakePlatform) ListGroups(ctx context.Context, profileID, configID int64, pageToken string) ([]dcm.FloodlightActivityGroup, string, error) {
	return []dcm.FloodlightActivityGroup{
		{ID: 5, Name: "Checkout", TagString: "chkout", Type: "COUNTER", FloodlightConfigurationID: 500},
	}, "", nil
}

func (f *fakePlatform) InsertActivity(ctx context.Context, profileID int64, activity dcm.FloodlightActivity) (dcm.FloodlightActivity, error) {
	f.nextID++
	activity.ID = f.nextID
	activity.AccountID = 11
	return activity, nil
}

func (f *fakePlatform) PatchActivity(ctx context.Context, profileID, activityID int64, activity dcm.FloodlightActivity) (dcm.FloodlightActivity, error) {
	activity.ID = activityID
	return activity, nil
}

func (f *fakePlatform) InsertGroup(ctx context.Context, profileID int64, group dcm.FloodlightActivityGroup) (dcm.FloodlightActivityGroup, error) {
	f.nextID++
	group.ID = f.nextID
	return group, nil
}

func (f *fakePlatform) CreateAudienceList(ctx context.Context, profileID int64, list dcm.RemarketingList) (dcm.RemarketingList, error) {
	return list, nil
}

func (f *fakePlatform) GetCustomVariables(ctx context.Context, profileID, configID int64) ([]dcm.UserDefinedVariableConfiguration, error) {
	return nil, nil
}

type fakeSheets struct {
	ranges   map[string][][]string
	metadata map[string][]string
	writes   map[string][][]string
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		ranges:   map[string][][]string{},
		metadata: map[string][]string{sheets.MetadataConfigIDKey: {"500"}},
		writes:   map[string][][]string{},
	}
}

func sheetOf(rangeA1 string) string {
	return strings.SplitN(rangeA1, "!", 2)[0]
}

func (f *fakeSheets) ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	return f.ranges[sheetOf(rangeA1)], nil
}

func (f *fakeSheets) ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error {
	return nil
}

func (f *fakeSheets) WriteRows(ctx context.Context, spreadsheetID, rangeA1 string, rows [][]string) error {
	f.writes[sheetOf(rangeA1)] = rows
	return nil
}

func (f *fakeSheets) ReadMetadata(ctx context.Context, spreadsheetID, key string) ([]string, error) {
	return f.metadata[key], nil
}

func (f *fakeSheets) WriteMetadata(ctx context.Context, spreadsheetID, key, value string) error {
	f.metadata[key] = append(f.metadata[key], value)
	return nil
}

type memStore struct {
	nextID  int64
	exports map[int64]gtmrequest.Export
}

func newMemStore() *memStore {
	return &memStore{exports: map[int64]gtmrequest.Export{}}
}

func (s *memStore) Save(ctx context.Context, export *gtmrequest.Export) error {
	s.nextID++
	export.ID = s.nextID
	s.exports[export.ID] = *export
	return nil
}

func (s *memStore) ByID(ctx context.Context, id int64) (gtmrequest.Export, error) {
	export, ok := s.exports[id]
	if !ok {
		return gtmrequest.Export{}, gtmrequest.ErrNotFound
	}
	return export, nil
}

func (s *memStore) Update(ctx context.Context, export gtmrequest.Export) error {
	s.exports[export.ID] = export
	return nil
}

type fakeTagManager struct{}

func (fakeTagManager) FindContainer(ctx context.Context, publicID string) (gtm.Container, error) {
	return gtm.Container{AccountID: "1", ContainerID: "77", PublicID: publicID}, nil
}

func (fakeTagManager) BatchCreateTags(ctx context.Context, container gtm.Container, tags []gtm.Tag) []gtm.TagOperationResult {
	results := make([]gtm.TagOperationResult, len(tags))
	for i := range tags {
		results[i] = gtm.TagOperationResult{Success: true}
	}
	return results
}

type fakeLock struct {
	available  bool
	releaseErr error
	released   bool
}

func (l *fakeLock) Acquire(ctx context.Context) (bool, error) { return l.available, nil }

func (l *fakeLock) Release(ctx context.Context) error {
	l.released = true
	return l.releaseErr
}

func setupRouter(t *testing.T, sheet *fakeSheets, store gtmrequest.Store, newLock LockFactory) http.Handler {
	t.Helper()
	requests := gtmrequest.NewService(store, fakeTagManager{})
	manager := syncer.NewManager(&fakePlatform{nextID: 100}, sheet, requests, 7, 540)
	return SetupRoutes(NewHandlers(manager, requests, newLock), nil)
}

func doRequest(t *testing.T, handler http.Handler, method, path, email string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if email != "" {
		req.Header.Set(userHeader, email)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func flaggedActivityRow() []string {
	return []string{"", "500", "", "Y", "Signup", "signup1", "Checkout", "chkout", "COUNTER_STANDARD", "https://example.com/signup", ""}
}

func TestHealthEndpoint(t *testing.T) {
	handler := setupRouter(t, newFakeSheets(), newMemStore(), nil)

	rec := doRequest(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestExportEndpoint(t *testing.T) {
	sheet := newFakeSheets()
	sheet.ranges[sheets.ActivitySheetName] = [][]string{flaggedActivityRow()}
	handler := setupRouter(t, sheet, newMemStore(), nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/floody/sheet-1/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RunID      string `json:"runId"`
		Activities int    `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1, resp.Activities)
	assert.NotEmpty(t, sheet.writes[sheets.ActivitySheetName])
}

func TestImportEndpoint(t *testing.T) {
	sheet := newFakeSheets()
	handler := setupRouter(t, sheet, newMemStore(), nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/floody/sheet-1/import", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, sheet.writes[sheets.ActivityGroupSheetName])
}

func TestSyncConflictsWhenLockHeld(t *testing.T) {
	handler := setupRouter(t, newFakeSheets(), newMemStore(), func(key string) distlock.DistLock {
		return &fakeLock{available: false}
	})

	rec := doRequest(t, handler, http.MethodPost, "/api/floody/sheet-1/export", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSyncReleasesLockAndToleratesReleaseFailure(t *testing.T) {
	lock := &fakeLock{available: true, releaseErr: errors.New("connection reset")}
	handler := setupRouter(t, newFakeSheets(), newMemStore(), func(key string) distlock.DistLock {
		return lock
	})

	// A failed release must not turn a completed sync into an error; the
	// lock still expires by TTL.
	rec := doRequest(t, handler, http.MethodPost, "/api/floody/sheet-1/import", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, lock.released)
}

func TestGtmRequestLifecycle(t *testing.T) {
	sheet := newFakeSheets()
	sheet.ranges[sheets.ActivitySheetName] = [][]string{flaggedActivityRow()}
	store := newMemStore()
	handler := setupRouter(t, sheet, store, nil)

	create := map[string]interface{}{
		"gtmContainerId": "GTM-ABC123",
		"spreadsheetId":  "sheet-1",
		"approverEmails": []string{"approver@example.com"},
	}
	rec := doRequest(t, handler, http.MethodPost, "/api/gtmrequest/", "requester@example.com", create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		RequestID int64 `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, int64(1), created.RequestID)

	// The requester can read it back.
	rec = doRequest(t, handler, http.MethodGet, "/api/gtmrequest/1", "requester@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GTM-ABC123")

	// A stranger cannot.
	rec = doRequest(t, handler, http.MethodGet, "/api/gtmrequest/1", "stranger@example.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An approver approves it.
	rec = doRequest(t, handler, http.MethodPost, "/api/gtmrequest/1/approve", "approver@example.com",
		map[string]string{"comment": "ship it"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "tagResults")

	// A second action conflicts.
	rec = doRequest(t, handler, http.MethodPost, "/api/gtmrequest/1/reject", "approver@example.com", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGtmRequestRequiresIdentity(t *testing.T) {
	handler := setupRouter(t, newFakeSheets(), newMemStore(), nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/gtmrequest/", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/gtmrequest/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGtmRequestValidation(t *testing.T) {
	handler := setupRouter(t, newFakeSheets(), newMemStore(), nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/gtmrequest/", "requester@example.com",
		map[string]string{"spreadsheetId": "sheet-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "container id is required")

	rec = doRequest(t, handler, http.MethodGet, "/api/gtmrequest/999", "anyone@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/gtmrequest/not-a-number", "anyone@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
