package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name" binding:"omitempty,min=1"`
}

type pairBody struct {
	From int64 `json:"from" binding:"required,gt=0"`
	To   int64 `json:"to" binding:"required,gt=0,nefield=From"`
}

type filterQuery struct {
	PostID int64 `form:"postId" binding:"omitempty,gt=0"`
}

type pairQuery struct {
	From int64 `form:"from" binding:"required,gt=0"`
	To   int64 `form:"to" binding:"required,gt=0"`
}

type idParam struct {
	ID string `uri:"id" binding:"digits"`
}

func validationRouter() *gin.Engine {
	r := gin.New()
	r.POST("/signup", ValidateBody[signupBody](), func(c *gin.Context) {
		c.JSON(http.StatusOK, Body[signupBody](c))
	})
	r.POST("/pair", ValidateBody[pairBody](), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/items", ValidateQuery[filterQuery](), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"postId": Query[filterQuery](c).PostID})
	})
	r.GET("/pairs", ValidateQuery[pairQuery](), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/items/:id", ValidateParams[idParam](), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": Params[idParam](c).ID})
	})
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, ValidationErrorResponse) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out ValidationErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestValidateBody(t *testing.T) {
	r := validationRouter()

	tests := []struct {
		name string
		body string
		want []FieldError
	}{
		{"empty body", "", []FieldError{{"email", "Required"}, {"password", "Required"}}},
		{"short password", `{"email":"a@x.com","password":"1234567"}`, []FieldError{{"password", "String must contain at least 8 character(s)"}}},
		{"bad email", `{"email":"ax.com","password":"12345678"}`, []FieldError{{"email", "Invalid email"}}},
		{"empty optional name", `{"email":"a@x.com","password":"12345678","name":""}`, []FieldError{{"name", "String must contain at least 1 character(s)"}}},
		{"malformed", `{"email":`, []FieldError{{"", "Malformed JSON body"}}},
		{"type mismatch", `{"email":1,"password":"12345678"}`, []FieldError{{"email", "Expected string, received number"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, out := serve(r, http.MethodPost, "/signup", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tc.want, out.Errors)
		})
	}
}

func TestValidateBody_PassesTypedValue(t *testing.T) {
	w, _ := serve(validationRouter(), http.MethodPost, "/signup", `{"email":"a@x.com","password":"12345678","extra":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@x.com","password":"12345678","name":null}`, w.Body.String())
}

func TestValidateBody_CrossField(t *testing.T) {
	r := validationRouter()

	w, out := serve(r, http.MethodPost, "/pair", `{"from":3,"to":3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []FieldError{{"to", "Must differ from from"}}, out.Errors)

	w, out = serve(r, http.MethodPost, "/pair", `{"from":-1,"to":2}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []FieldError{{"from", "Number must be greater than 0"}}, out.Errors)

	w, _ = serve(r, http.MethodPost, "/pair", `{"from":1,"to":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateQueryAndParams(t *testing.T) {
	r := validationRouter()

	w, _ := serve(r, http.MethodGet, "/items?postId=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"postId":5}`, w.Body.String())

	w, _ = serve(r, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, out := serve(r, http.MethodGet, "/items?postId=0", "")
	assert.Equal(t, http.StatusOK, w.Code, "zero is treated as absent")
	assert.Empty(t, out.Errors)

	w, out = serve(r, http.MethodGet, "/items?postId=-2", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "postId", out.Errors[0].Field)

	w, _ = serve(r, http.MethodGet, "/items/123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"123"}`, w.Body.String())

	for _, bad := range []string{"abc", "12a", "-1", "99999999999999999999"} {
		w, out = serve(r, http.MethodGet, "/items/"+bad, "")
		require.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Equal(t, []FieldError{{"id", "ID must be a number"}}, out.Errors, bad)
	}
}

func TestValidateQuery_NamesUnparsableField(t *testing.T) {
	r := validationRouter()

	tests := []struct {
		name string
		path string
		want []FieldError
	}{
		{"letters", "/items?postId=abc", []FieldError{{"postId", `Expected integer, received "abc"`}}},
		{"fraction", "/items?postId=1.5", []FieldError{{"postId", `Expected integer, received "1.5"`}}},
		{"overflow", "/items?postId=99999999999999999999", []FieldError{{"postId", `Expected integer, received "99999999999999999999"`}}},
		{"second field", "/pairs?from=1&to=x", []FieldError{{"to", `Expected integer, received "x"`}}},
		{"both fields", "/pairs?from=a&to=b", []FieldError{{"from", `Expected integer, received "a"`}, {"to", `Expected integer, received "b"`}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, out := serve(r, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tc.want, out.Errors)
		})
	}
}
