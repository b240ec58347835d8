package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/social-service/internal/core/repository/memory"
	logicv1 "github.com/duynhne/social-service/internal/logic/v1"
	"github.com/duynhne/social-service/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	tokens *logicv1.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	s := memory.New()
	tokens := logicv1.NewTokenManager("test-secret", time.Hour)
	repos := Repositories{
		Users:         s.Users(),
		Posts:         s.Posts(),
		Comments:      s.Comments(),
		Likes:         s.Likes(),
		Follows:       s.Follows(),
		Messages:      s.Messages(),
		Notifications: s.Notifications(),
	}
	h := NewHandler(NewServices(repos, tokens, logicv1.NewPasswordHasher(bcrypt.MinCost)), tokens)
	return &testAPI{
		t:      t,
		router: NewRouter(h, RouterOptions{ServiceName: "test", APIPrefix: "/api/v1"}),
		tokens: tokens,
	}
}

type response struct {
	Code int
	Body map[string]any
	Raw  string
}

func (a *testAPI) do(method, path, token string, body any) response {
	a.t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	res := response{Code: w.Code, Raw: w.Body.String()}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &res.Body)
	}
	return res
}

// register creates an account and returns its id and token.
func (a *testAPI) register(email string) (int64, string) {
	a.t.Helper()
	res := a.do(http.MethodPost, "/auth/register", "", map[string]any{"email": email, "password": "longenough"})
	require.Equal(a.t, http.StatusCreated, res.Code, res.Raw)
	user := res.Body["user"].(map[string]any)
	return int64(user["id"].(float64)), res.Body["token"].(string)
}

func fieldErrors(t *testing.T, res response) map[string]string {
	t.Helper()
	raw, ok := res.Body["errors"].([]any)
	require.True(t, ok, "expected errors array, got %s", res.Raw)
	out := make(map[string]string, len(raw))
	for _, e := range raw {
		m := e.(map[string]any)
		out[m["field"].(string)] = m["message"].(string)
	}
	return out
}

func TestRegister_HidesPassword(t *testing.T) {
	api := newTestAPI(t)
	res := api.do(http.MethodPost, "/auth/register", "", map[string]any{"email": "a@x.com", "password": "longenough"})

	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	user := res.Body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, res.Raw, "longenough")
	assert.NotEmpty(t, res.Body["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.register("a@x.com")

	res := api.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, map[string]any{"error": "Invalid credentials"}, res.Body)

	res = api.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "nobody@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid credentials", res.Body["error"])
}

func TestProtectedRoute_MissingAuthorization(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, middleware.MsgMissingAuthHeader, res.Body["error"])
}

func TestGetPost_NotFound(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("a@x.com")

	res := api.do(http.MethodGet, "/posts/99999", token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, map[string]any{"error": "Post not found"}, res.Body)
}

func TestSearch_WithoutQuery(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(http.MethodGet, "/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Required", fieldErrors(t, res)["q"])
}

func TestRegister_PasswordBoundary(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(http.MethodPost, "/auth/register", "", map[string]any{"email": "a@x.com", "password": "1234567"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "String must contain at least 8 character(s)", fieldErrors(t, res)["password"])

	res = api.do(http.MethodPost, "/auth/register", "", map[string]any{"email": "a@x.com", "password": "12345678"})
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestRegister_Duplicate(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]any{"email": "dup@x.com", "password": "longenough"}

	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/auth/register", "", body).Code)
	res := api.do(http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, MsgEmailInUse, res.Body["error"])
}

func TestRegisterLoginTokenRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	id, _ := api.register("a@x.com")

	res := api.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "a@x.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, res.Code, res.Raw)

	subject, err := api.tokens.Verify(res.Body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, id, subject)

	me := api.do(http.MethodGet, "/auth/me", res.Body["token"].(string), nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "a@x.com", me.Body["user"].(map[string]any)["email"])
}

func TestValidation_ErrorShapes(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("a@x.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   map[string]string
	}{
		{
			name: "empty register body", method: http.MethodPost, path: "/auth/register", body: nil,
			want: map[string]string{"email": "Required", "password": "Required"},
		},
		{
			name: "bad email", method: http.MethodPost, path: "/auth/login",
			body: map[string]any{"email": "nope", "password": "x"},
			want: map[string]string{"email": "Invalid email"},
		},
		{
			name: "malformed json", method: http.MethodPost, path: "/auth/login", body: `{"email":`,
			want: map[string]string{"": "Malformed JSON body"},
		},
		{
			name: "wrong json type", method: http.MethodPost, path: "/posts",
			body: map[string]any{"title": "t", "authorId": "one"},
			want: map[string]string{"authorId": "Expected integer, received string"},
		},
		{
			name: "non-positive id", method: http.MethodPost, path: "/posts",
			body: map[string]any{"title": "t", "authorId": -3},
			want: map[string]string{"authorId": "Number must be greater than 0"},
		},
		{
			name: "self follow", method: http.MethodPost, path: "/follows",
			body: map[string]any{"followerId": 1, "followingId": 1},
			want: map[string]string{"followingId": "Must differ from followerId"},
		},
		{
			name: "non-numeric id", method: http.MethodGet, path: "/posts/abc",
			want: map[string]string{"id": "ID must be a number"},
		},
		{
			name: "non-numeric user id", method: http.MethodGet, path: "/users/abc/followers",
			want: map[string]string{"userId": "userId must be a number"},
		},
		{
			name: "conversation needs both sides", method: http.MethodGet, path: "/messages?senderId=1",
			want: map[string]string{"receiverId": "Required"},
		},
		{
			name: "non-numeric author filter", method: http.MethodGet, path: "/posts?authorId=abc",
			want: map[string]string{"authorId": `Expected integer, received "abc"`},
		},
		{
			name: "fractional post filter", method: http.MethodGet, path: "/comments?postId=1.5",
			want: map[string]string{"postId": `Expected integer, received "1.5"`},
		},
		{
			name: "non-numeric like filter", method: http.MethodGet, path: "/likes?postId=x",
			want: map[string]string{"postId": `Expected integer, received "x"`},
		},
		{
			name: "non-numeric conversation side", method: http.MethodGet, path: "/messages?senderId=abc&receiverId=2",
			want: map[string]string{"senderId": `Expected integer, received "abc"`},
		},
		{
			name: "non-numeric notification owner", method: http.MethodGet, path: "/notifications?userId=x",
			want: map[string]string{"userId": `Expected integer, received "x"`},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := api.do(tc.method, tc.path, token, tc.body)
			require.Equal(t, http.StatusBadRequest, res.Code, res.Raw)
			got := fieldErrors(t, res)
			for field, msg := range tc.want {
				assert.Equal(t, msg, got[field], "field %q", field)
			}
		})
	}
}

func TestAuthGate_InvalidTokens(t *testing.T) {
	api := newTestAPI(t)
	expired := logicv1.NewTokenManager("test-secret", time.Nanosecond)
	stale, _, err := expired.Issue(1)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	forged, _, err := logicv1.NewTokenManager("other", time.Hour).Issue(1)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tokens := map[string]string{"garbage": "abc.def.ghi", "expired": stale, "forged": forged, "no user id": noUser}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			res := api.do(http.MethodGet, "/auth/me", token, nil)
			assert.Equal(t, http.StatusUnauthorized, res.Code)
			assert.Equal(t, middleware.MsgInvalidToken, res.Body["error"])

			res = api.do(http.MethodGet, "/posts", token, nil)
			assert.Equal(t, http.StatusUnauthorized, res.Code)
			assert.Equal(t, middleware.MsgInvalidToken, res.Body["error"])
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Missing or invalid Authorization header"}`, w.Body.String())
}

func TestPublicRoutes(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ok", res.Body["status"])

	res = api.do(http.MethodGet, "/search?q=anything", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []any{}, res.Body["users"])
	assert.Equal(t, []any{}, res.Body["posts"])
	assert.Equal(t, []any{}, res.Body["comments"])

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPosts_CRUDAndOwnership(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceToken := api.register("alice@x.com")
	bob, bobToken := api.register("bob@x.com")

	res := api.do(http.MethodPost, "/posts", bobToken, map[string]any{"title": "spoof", "authorId": alice})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.do(http.MethodPost, "/posts", aliceToken, map[string]any{"title": "Hello", "content": "World", "published": true, "authorId": alice})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	postID := int64(res.Body["post"].(map[string]any)["id"].(float64))
	postPath := fmt.Sprintf("/posts/%d", postID)

	res = api.do(http.MethodPost, "/likes", bobToken, map[string]any{"postId": postID, "userId": bob})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	res = api.do(http.MethodPost, "/likes", bobToken, map[string]any{"postId": postID, "userId": bob})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, middleware.MsgDuplicate, res.Body["error"])

	res = api.do(http.MethodGet, "/posts", bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	posts := res.Body["posts"].([]any)
	require.Len(t, posts, 1)
	post := posts[0].(map[string]any)
	assert.Equal(t, "alice@x.com", post["author"].(map[string]any)["email"])
	assert.Equal(t, float64(1), post["_count"].(map[string]any)["likes"])

	res = api.do(http.MethodPut, postPath, bobToken, map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, MsgForbidden, res.Body["error"])

	res = api.do(http.MethodPut, postPath, aliceToken, map[string]any{"title": "Hello again"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Hello again", res.Body["post"].(map[string]any)["title"])

	res = api.do(http.MethodDelete, "/posts/424242", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, middleware.MsgRecordNotFound, res.Body["error"])

	res = api.do(http.MethodDelete, postPath, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = api.do(http.MethodDelete, "/likes", bobToken, map[string]any{"postId": postID, "userId": bob})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCommentsFollowsNotifications(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceToken := api.register("alice@x.com")
	bob, bobToken := api.register("bob@x.com")

	res := api.do(http.MethodPost, "/posts", aliceToken, map[string]any{"title": "Hello", "authorId": alice})
	require.Equal(t, http.StatusCreated, res.Code)
	postID := res.Body["post"].(map[string]any)["id"]

	res = api.do(http.MethodPost, "/comments", bobToken, map[string]any{"body": "Nice", "postId": postID, "authorId": bob})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	commentID := res.Body["comment"].(map[string]any)["id"]

	res = api.do(http.MethodGet, fmt.Sprintf("/comments?postId=%v", postID), aliceToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	comments := res.Body["comments"].([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob@x.com", comments[0].(map[string]any)["author"].(map[string]any)["email"])

	res = api.do(http.MethodDelete, fmt.Sprintf("/comments/%v", commentID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.do(http.MethodGet, "/comments/777", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, MsgCommentNotFound, res.Body["error"])

	res = api.do(http.MethodPost, "/follows", bobToken, map[string]any{"followerId": bob, "followingId": alice})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)

	res = api.do(http.MethodGet, fmt.Sprintf("/users/%d/followers", alice), bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["followers"].([]any), 1)

	res = api.do(http.MethodGet, fmt.Sprintf("/notifications?userId=%d", alice), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.do(http.MethodGet, fmt.Sprintf("/notifications?userId=%d", alice), aliceToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	notifications := res.Body["notifications"].([]any)
	require.Len(t, notifications, 2)
	first := notifications[0].(map[string]any)
	assert.Equal(t, "follow", first["type"])

	res = api.do(http.MethodPut, fmt.Sprintf("/notifications/%v/read", first["id"]), aliceToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["notification"].(map[string]any)["read"])

	res = api.do(http.MethodPut, "/notifications/read-all", aliceToken, map[string]any{"userId": alice})
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = api.do(http.MethodDelete, "/follows", bobToken, map[string]any{"followerId": bob, "followingId": alice})
	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestMessages(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceToken := api.register("alice@x.com")
	bob, bobToken := api.register("bob@x.com")
	_, eveToken := api.register("eve@x.com")

	res := api.do(http.MethodPost, "/messages", aliceToken, map[string]any{"body": "hi bob", "senderId": alice, "receiverId": bob})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	msgPath := fmt.Sprintf("/messages/%v", res.Body["message"].(map[string]any)["id"])

	conv := fmt.Sprintf("/messages?senderId=%d&receiverId=%d", bob, alice)
	res = api.do(http.MethodGet, conv, bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	msgs := res.Body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice@x.com", msgs[0].(map[string]any)["sender"].(map[string]any)["email"])

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, conv, eveToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, msgPath, eveToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, msgPath, bobToken, nil).Code)

	res = api.do(http.MethodGet, "/messages/999", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, MsgMessageNotFound, res.Body["error"])

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, msgPath, aliceToken, nil).Code)
}

func TestUsers(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceToken := api.register("alice@x.com")
	bob, _ := api.register("bob@x.com")

	res := api.do(http.MethodGet, "/users", aliceToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["users"].([]any), 2)

	res = api.do(http.MethodGet, "/users/999", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, MsgUserNotFound, res.Body["error"])

	res = api.do(http.MethodPost, "/users", aliceToken, map[string]any{"email": "bob@x.com", "password": "longenough"})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, middleware.MsgDuplicate, res.Body["error"])

	res = api.do(http.MethodPut, fmt.Sprintf("/users/%d", bob), aliceToken, map[string]any{"name": "Bobby"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.do(http.MethodPut, fmt.Sprintf("/users/%d", alice), aliceToken, map[string]any{"name": "Alice"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Alice", res.Body["user"].(map[string]any)["name"])

	res = api.do(http.MethodPut, fmt.Sprintf("/users/%d", alice), aliceToken, map[string]any{"email": "bob@x.com"})
	assert.Equal(t, http.StatusConflict, res.Code)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/users/%d", alice), aliceToken, nil).Code)

	// The token outlives the account.
	res = api.do(http.MethodGet, "/auth/me", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
