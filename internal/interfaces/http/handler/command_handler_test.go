package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wyg1997/CommandAPI/internal/domain"
	"github.com/wyg1997/CommandAPI/internal/infrastructure/repository"
	"github.com/wyg1997/CommandAPI/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	repo   domain.CommandRepository
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemoryCommandRepository()
	uc := usecase.NewCommandUseCase(repo, nil)
	return &fixture{repo: repo, router: NewRouter(NewCommandHandler(uc))}
}

func (f *fixture) seed(t *testing.T) *domain.Command {
	t.Helper()
	cmd := &domain.Command{
		HowTo:       "do something",
		CommandLine: "some command",
		Platform:    "some platform",
	}
	require.NoError(t, f.repo.CreateCommand(context.Background(), cmd))
	return cmd
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	n, err := f.repo.CountCommands(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func commandPath(id int64) string {
	return "/api/commands/" + strconv.FormatInt(id, 10)
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []domain.Command {
	t.Helper()
	var out []domain.Command
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListCommands_ReturnsZeroItems_WhenDBIsEmpty(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/commands", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestListCommands_ReturnsOneItem_WhenDBHasOneObject(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	rec := f.do(t, http.MethodGet, "/api/commands", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)
}

func TestListCommands_ReturnsNItems_WhenDBHasObjects(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.seed(t)

	rec := f.do(t, http.MethodGet, "/api/commands", nil)

	assert.Len(t, decodeList(t, rec), 2)
}

func TestListCommands_FiltersByPlatform(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	other := &domain.Command{HowTo: "list", CommandLine: "dir", Platform: "windows"}
	require.NoError(t, f.repo.CreateCommand(context.Background(), other))

	rec := f.do(t, http.MethodGet, "/api/commands?platform=Windows", nil)

	list := decodeList(t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)
}

func TestGetCommand_Returns404NotFound_WhenDBIsEmpty(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, commandPath(0), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"command not found"}`, rec.Body.String())
}

func TestGetCommand_ReturnsTheCorrectResource(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)

	rec := f.do(t, http.MethodGet, commandPath(cmd.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":`+strconv.FormatInt(cmd.ID, 10)+`,"howTo":"do something","commandLine":"some command","platform":"some platform"}`,
		rec.Body.String())
}

func TestGetCommand_Returns400_WhenIDIsNotANumber(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/commands/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCommand_ObjectCountIncrement_WhenValidObject(t *testing.T) {
	f := newFixture(t)
	oldCount := f.count(t)

	f.do(t, http.MethodPost, "/api/commands", domain.Command{HowTo: "do something", CommandLine: "some command", Platform: "some platform"})

	assert.Equal(t, oldCount+1, f.count(t))
}

func TestCreateCommand_Returns201Created_WhenValidObject(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/commands", domain.Command{HowTo: "do something", CommandLine: "some command", Platform: "some platform"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Command
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, commandPath(created.ID), rec.Header().Get("Location"))
}

func TestCreateCommand_Returns400_WhenInvalidObject(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/commands", domain.Command{HowTo: "do something"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.count(t))
}

func TestCreateCommand_Returns400_WhenMalformedJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/commands", `{"howTo":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
}

func TestCreateCommand_Returns400_WhenTrailingContent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/commands",
		`{"howTo":"a","commandLine":"b","platform":"c"} garbage{{{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
	assert.Zero(t, f.count(t))
}

func TestCreateCommand_Returns400_WhenSecondJSONValue(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/commands",
		`{"howTo":"a","commandLine":"b","platform":"c"}{"howTo":"d"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.count(t))
}

func TestCreateCommand_AcceptsTrailingWhitespace(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/commands",
		"{\"howTo\":\"a\",\"commandLine\":\"b\",\"platform\":\"c\"}\n\t \n")

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateCommand_Returns400_WhenBodyTooLarge(t *testing.T) {
	f := newFixture(t)
	big := domain.Command{
		HowTo:       "do something",
		CommandLine: strings.Repeat("x", 2<<20),
		Platform:    "some platform",
	}

	rec := f.do(t, http.MethodPost, "/api/commands", big)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
	assert.Zero(t, f.count(t))
}

func TestUpdateCommand_Returns400_WhenTrailingContent(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)

	body := `{"id":` + strconv.FormatInt(cmd.ID, 10) + `,"howTo":"UPDATED","commandLine":"b","platform":"c"} x`
	rec := f.do(t, http.MethodPut, commandPath(cmd.ID), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got, err := f.repo.GetCommand(context.Background(), cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, "do something", got.HowTo)
}

func TestUpdateCommand_AttributeUpdated_WhenValidObject(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)
	cmd.HowTo = "UPDATED"

	f.do(t, http.MethodPut, commandPath(cmd.ID), cmd)

	got, err := f.repo.GetCommand(context.Background(), cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, cmd.HowTo, got.HowTo)
}

func TestUpdateCommand_Returns204_WhenValidObject(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)
	cmd.HowTo = "UPDATED"

	rec := f.do(t, http.MethodPut, commandPath(cmd.ID), cmd)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestUpdateCommand_Returns400_WhenIDMismatch(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)
	cmd.HowTo = "UPDATED"

	rec := f.do(t, http.MethodPut, commandPath(cmd.ID+1), cmd)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCommand_AttributeUnchanged_WhenIDMismatch(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)
	changed := domain.Command{ID: cmd.ID, HowTo: "UPDATED", CommandLine: "UPDATED", Platform: "UPDATED"}

	f.do(t, http.MethodPut, commandPath(cmd.ID+1), changed)

	got, err := f.repo.GetCommand(context.Background(), cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, "do something", got.HowTo)
}

func TestUpdateCommand_Returns404_WhenMissing(t *testing.T) {
	f := newFixture(t)
	missing := domain.Command{ID: 12, HowTo: "x", CommandLine: "y", Platform: "z"}

	rec := f.do(t, http.MethodPut, commandPath(12), missing)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCommand_ObjectsDecrement_WhenValidObjectID(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)
	objCount := f.count(t)

	f.do(t, http.MethodDelete, commandPath(cmd.ID), nil)

	assert.Equal(t, objCount-1, f.count(t))
}

func TestDeleteCommand_Returns200OK_WhenValidObjectID(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)

	rec := f.do(t, http.MethodDelete, commandPath(cmd.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var deleted domain.Command
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, *cmd, deleted)
}

func TestDeleteCommand_Returns404NotFound_WhenInvalidObjectID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, commandPath(-1), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCommand_ObjectCountNotDecremented_WhenInvalidObjectID(t *testing.T) {
	f := newFixture(t)
	cmd := f.seed(t)
	objCount := f.count(t)

	f.do(t, http.MethodDelete, commandPath(cmd.ID+1), nil)

	assert.Equal(t, objCount, f.count(t))
}

func TestUnsupportedMethod_Returns405(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPatch, "/api/commands/1", "{}")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRequestID(t *testing.T) {
	f := newFixture(t)

	t.Run("assigned when absent", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/health", nil)
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("echoed when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestWithRecover(t *testing.T) {
	h := WithRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "internal server error"))
}

type failingUseCase struct{ domain.CommandUseCase }

func (failingUseCase) ListCommands(context.Context, string) ([]*domain.Command, error) {
	return nil, assert.AnError
}

func TestListCommands_Returns500_OnStoreFailure(t *testing.T) {
	router := NewRouter(NewCommandHandler(failingUseCase{}))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/commands", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
