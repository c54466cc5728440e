package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/bootstrap"
	"github.com/simple-school/school-security/pkg/course"
	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/group"
	"github.com/simple-school/school-security/pkg/permission"
	"github.com/simple-school/school-security/pkg/student"
	"github.com/simple-school/school-security/pkg/user"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	courseRepo := course.NewInMemoryRepository()
	groupRepo := group.NewInMemoryRepository()
	studentRepo := student.NewInMemoryRepository()
	permissionRepo := permission.NewInMemoryRepository()
	userRepo := user.NewInMemoryRepository()
	hasher := auth.NewBcryptHasher(4)

	seeder := bootstrap.NewSeeder(permissionRepo, userRepo, hasher)
	require.NoError(t, seeder.Run(context.Background()))

	r := chi.NewRouter()
	SetupRoutes(r, Config{
		CourseHandle:     course.NewHandle(course.NewService(courseRepo)),
		GroupHandle:      group.NewHandle(group.NewService(groupRepo)),
		StudentHandle:    student.NewHandle(student.NewService(studentRepo, groupRepo, courseRepo)),
		PermissionHandle: permission.NewHandle(permission.NewService(permissionRepo)),
		UserHandle:       user.NewHandle(user.NewService(userRepo, permissionRepo, hasher)),
		CredentialStore:  user.NewCredentialStore(userRepo),
		PasswordHasher:   hasher,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, username, password string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorMessage(t *testing.T, data []byte) errors.ErrorBody {
	t.Helper()

	var body errors.ErrorBody
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestRequestWithoutCredentialsIsUnauthorized(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodGet, "/api/courses", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="school"`, resp.Header.Get("WWW-Authenticate"))

	body := errorMessage(t, data)
	assert.Equal(t, "Unauthorized", body.Status)
}

func TestReadOnlyUserCannotCreate(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodPost, "/api/courses", "user", "userPass",
		map[string]any{"name": "Physics"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := errorMessage(t, data)
	assert.Equal(t, "Forbidden", body.Status)
	assert.Contains(t, body.Message, "COURSE_CREATE")
}

func TestCourseLifecycle(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodPost, "/api/courses", "admin", "adminPass",
		map[string]any{"name": "Physics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created course.CourseDto
	require.NoError(t, json.Unmarshal(data, &created))
	require.NotNil(t, created.ID)
	assert.Equal(t, "Physics", *created.Name)
	assert.Nil(t, created.Description)

	id := created.ID.String()

	resp, data = do(t, srv, http.MethodGet, "/api/courses/"+id, "user", "userPass", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched course.CourseDto
	require.NoError(t, json.Unmarshal(data, &fetched))
	assert.Equal(t, created, fetched)

	resp, data = do(t, srv, http.MethodPatch, "/api/courses/"+id, "admin", "adminPass",
		map[string]any{"description": "Subject Physics"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var patched course.CourseDto
	require.NoError(t, json.Unmarshal(data, &patched))
	assert.Equal(t, "Physics", *patched.Name, "absent name is preserved")
	assert.Equal(t, "Subject Physics", *patched.Description)

	resp, data = do(t, srv, http.MethodPut, "/api/courses/"+id, "admin", "adminPass",
		map[string]any{"name": "Chemistry"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var replaced course.CourseDto
	require.NoError(t, json.Unmarshal(data, &replaced))
	assert.Equal(t, "Chemistry", *replaced.Name)
	assert.Nil(t, replaced.Description, "replace clears absent fields")

	resp, data = do(t, srv, http.MethodDelete, "/api/courses/"+id, "admin", "adminPass", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(data))

	resp, data = do(t, srv, http.MethodGet, "/api/courses/"+id, "user", "userPass", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := errorMessage(t, data)
	assert.Contains(t, body.Message, "Course not found by id = "+id)
}

func TestCreateCourseValidation(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodPost, "/api/courses", "admin", "adminPass",
		map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := errorMessage(t, data)
	assert.Equal(t, "Bad Request", body.Status)
	assert.Equal(t, "The course name must not be null and must contain at least one non-whitespace character", body.Message)
}

func TestListReturnsEmptyArray(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodGet, "/api/courses", "user", "userPass", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(data))
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodGet, "/api/courses/not-a-uuid", "user", "userPass", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := errorMessage(t, data)
	assert.Equal(t, "invalid course id", body.Message)
}

func TestDuplicatePermissionConflicts(t *testing.T) {
	srv := setupServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/permissions", "super_admin", "superAdminPass",
		map[string]any{"name": "COURSE_READ"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStudentCourseFilter(t *testing.T) {
	srv := setupServer(t)

	resp, data := do(t, srv, http.MethodPost, "/api/courses", "admin", "adminPass",
		map[string]any{"name": "Physics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var physics course.CourseDto
	require.NoError(t, json.Unmarshal(data, &physics))

	resp, _ = do(t, srv, http.MethodPost, "/api/students", "admin", "adminPass",
		map[string]any{
			"firstName": "Ivan",
			"lastName":  "Petrov",
			"courses":   []map[string]any{{"id": physics.ID.String()}},
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/students", "admin", "adminPass",
		map[string]any{"firstName": "Petr", "lastName": "Sidorov"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data = do(t, srv, http.MethodGet,
		"/api/students?courseId="+physics.ID.String(), "user", "userPass", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var students []student.StudentDto
	require.NoError(t, json.Unmarshal(data, &students))
	require.Len(t, students, 1)
	assert.Equal(t, "Ivan", *students[0].FirstName)
}

func TestUserEndpointsNeedUserPermissions(t *testing.T) {
	srv := setupServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/api/users", "admin", "adminPass", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := do(t, srv, http.MethodGet, "/api/users", "manager", "managerPass", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []user.UserDto
	require.NoError(t, json.Unmarshal(data, &users))
	assert.Len(t, users, 5)
	for _, u := range users {
		assert.Nil(t, u.Password, "password is never echoed")
	}
}
