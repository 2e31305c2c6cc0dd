package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/feature/user"
)

// routeStore HTTP 层测试用的存储替身，只记录调用、返回 canned 数据。
type routeStore struct {
	docs  []bson.M
	total int64

	findCalls  []domain.FindQuery
	countCalls int
	updateRet  *domain.User
	bulkRet    *domain.BulkResult
}

func (s *routeStore) Find(_ context.Context, q domain.FindQuery) ([]bson.M, error) {
	s.findCalls = append(s.findCalls, q)
	return s.docs, nil
}

func (s *routeStore) Count(context.Context, bson.M) (int64, error) {
	s.countCalls++
	return s.total, nil
}

func (s *routeStore) InsertOne(_ context.Context, _ *domain.User) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (s *routeStore) FindByID(context.Context, primitive.ObjectID) (*domain.User, error) {
	return nil, nil
}

func (s *routeStore) UpdateByID(context.Context, primitive.ObjectID, bson.M) (*domain.User, error) {
	return s.updateRet, nil
}

func (s *routeStore) BulkUpsert(_ context.Context, ops []domain.UpsertOp) (*domain.BulkResult, error) {
	if s.bulkRet != nil {
		return s.bulkRet, nil
	}
	return &domain.BulkResult{Upserted: int64(len(ops)), Errors: []domain.BulkError{}}, nil
}

func (s *routeStore) Aggregate(_ context.Context, _ []bson.M, out any) error {
	*(out.(*[]user.Stats)) = nil
	return nil
}

func (s *routeStore) BackfillEmailLower(context.Context) (int64, error) { return 0, nil }

func newTestRouter(store *routeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	svc := user.NewService(store, nil, nil, 0)
	MountUserActions(e.Group("/users"), svc)
	return e
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doReq(t *testing.T, e *gin.Engine, method, target, body string) envelope {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code, "envelope carries the business code, transport stays 200")

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListEndpoint(t *testing.T) {
	store := &routeStore{docs: []bson.M{{"name": "alice"}}, total: 1}
	e := newTestRouter(store)

	env := doReq(t, e, http.MethodGet, "/users?ageIn=18,25&age=30&hasPhone=true", "")
	assert.Equal(t, 0, env.Code)

	require.Len(t, store.findCalls, 1)
	q := store.findCalls[0]
	assert.Equal(t, bson.M{"$in": []int{18, 25}}, q.Filter["age"], "ageIn wins over age")
	assert.Contains(t, q.Filter, "phone")
	assert.Equal(t, int64(10), q.Limit, "default page size applies")

	var page struct {
		Meta struct {
			Total int64 `json:"total"`
			Page  int64 `json:"page"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Meta.Total)
	assert.Equal(t, int64(1), page.Meta.Page)
}

func TestListEndpointRejectsBadCustomFields(t *testing.T) {
	store := &routeStore{}
	e := newTestRouter(store)

	env := doReq(t, e, http.MethodGet, "/users?fields=custom&customFields=name,passwordHash", "")
	assert.Equal(t, 400, env.Code)
	assert.Contains(t, env.Msg, "passwordHash")
	assert.Empty(t, store.findCalls, "validation failures never reach the store")
	assert.Zero(t, store.countCalls)
}

func TestListEndpointRejectsOutOfRangePageSize(t *testing.T) {
	e := newTestRouter(&routeStore{})

	env := doReq(t, e, http.MethodGet, "/users?pageSize=101", "")
	assert.Equal(t, 400, env.Code)
}

func TestCursorEndpoint(t *testing.T) {
	id := primitive.NewObjectID()
	store := &routeStore{docs: []bson.M{{"_id": id}}}
	e := newTestRouter(store)

	env := doReq(t, e, http.MethodGet, "/users/cursor?limit=5", "")
	assert.Equal(t, 0, env.Code)

	require.Len(t, store.findCalls, 1)
	assert.Equal(t, int64(6), store.findCalls[0].Limit, "probe fetches limit+1")

	var page struct {
		PageInfo struct {
			EndCursor   *string `json:"endCursor"`
			HasNextPage bool    `json:"hasNextPage"`
		} `json:"pageInfo"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.NotNil(t, page.PageInfo.EndCursor)
	assert.Equal(t, id.Hex(), *page.PageInfo.EndCursor)
	assert.False(t, page.PageInfo.HasNextPage)
}

func TestCursorEndpointBadCursor(t *testing.T) {
	e := newTestRouter(&routeStore{})

	env := doReq(t, e, http.MethodGet, "/users/cursor?after=zzz", "")
	assert.Equal(t, 400, env.Code)
}

func TestGetEndpointNotFound(t *testing.T) {
	e := newTestRouter(&routeStore{})

	env := doReq(t, e, http.MethodGet, "/users/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, 404, env.Code)
}

func TestCreateEndpointRejectsBadBody(t *testing.T) {
	e := newTestRouter(&routeStore{})

	env := doReq(t, e, http.MethodPost, "/users", `{"name":"x","email":"not-an-email"}`)
	assert.Equal(t, 400, env.Code)
}

func TestBulkUpsertEndpoint(t *testing.T) {
	store := &routeStore{}
	e := newTestRouter(store)

	env := doReq(t, e, http.MethodPost, "/users/bulk-upsert",
		`{"users":[{"name":"A","email":"A@x.com","age":30},{"name":"A2","email":"a@x.com","age":31}]}`)
	assert.Equal(t, 0, env.Code)

	var res struct {
		Upserted int64 `json:"upserted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, int64(1), res.Upserted, "duplicate email collapses to one op")
}

func TestDeleteEndpointAcceptsEmptyBody(t *testing.T) {
	store := &routeStore{updateRet: &domain.User{Name: "x"}}
	e := newTestRouter(store)

	env := doReq(t, e, http.MethodDelete, "/users/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, 0, env.Code)
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	e := newTestRouter(&routeStore{})

	env := doReq(t, e, http.MethodGet, "/users/search", "")
	assert.Equal(t, 400, env.Code)
}
