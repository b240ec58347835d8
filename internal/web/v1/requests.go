package v1

import (
	"strconv"

	"github.com/duynhne/social-service/internal/core/domain"
)

// Request contracts. Binding tags are checked by middleware.Validate*
// before a handler runs; the json/form/uri tag names are the field paths
// reported back in validation errors.

// RegisterRequest is the body of POST /auth/register and POST /users.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name" binding:"omitempty,min=1"`
}

// CreateUserRequest shares the registration rules.
type CreateUserRequest = RegisterRequest

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// UpdateUserRequest is the body of PUT /users/:id.
type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Name  *string `json:"name" binding:"omitempty,min=1"`
}

func (r UpdateUserRequest) toDomain() domain.UserUpdate {
	return domain.UserUpdate{Email: r.Email, Name: r.Name}
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title     string  `json:"title" binding:"required,min=1"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
	AuthorID  int64   `json:"authorId" binding:"required,gt=0"`
}

func (r CreatePostRequest) toDomain() domain.NewPost {
	p := domain.NewPost{Title: r.Title, Content: r.Content, AuthorID: r.AuthorID}
	if r.Published != nil {
		p.Published = *r.Published
	}
	return p
}

// UpdatePostRequest is the body of PUT /posts/:id.
type UpdatePostRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func (r UpdatePostRequest) toDomain() domain.PostUpdate {
	return domain.PostUpdate{Title: r.Title, Content: r.Content, Published: r.Published}
}

// ListPostsQuery filters GET /posts.
type ListPostsQuery struct {
	AuthorID int64 `form:"authorId" binding:"omitempty,gt=0"`
}

// CreateCommentRequest is the body of POST /comments.
type CreateCommentRequest struct {
	Body     string `json:"body" binding:"required,min=1"`
	PostID   int64  `json:"postId" binding:"required,gt=0"`
	AuthorID int64  `json:"authorId" binding:"required,gt=0"`
}

// UpdateCommentRequest is the body of PUT /comments/:id.
type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required,min=1"`
}

// ListCommentsQuery filters GET /comments.
type ListCommentsQuery struct {
	PostID int64 `form:"postId" binding:"omitempty,gt=0"`
}

// LikeRequest identifies a like by its (post, user) pair.
type LikeRequest struct {
	PostID int64 `json:"postId" binding:"required,gt=0"`
	UserID int64 `json:"userId" binding:"required,gt=0"`
}

// ListLikesQuery filters GET /likes.
type ListLikesQuery struct {
	PostID int64 `form:"postId" binding:"omitempty,gt=0"`
}

// FollowRequest identifies a follow edge.
type FollowRequest struct {
	FollowerID  int64 `json:"followerId" binding:"required,gt=0"`
	FollowingID int64 `json:"followingId" binding:"required,gt=0,nefield=FollowerID"`
}

// CreateMessageRequest is the body of POST /messages.
type CreateMessageRequest struct {
	Body       string `json:"body" binding:"required,min=1"`
	SenderID   int64  `json:"senderId" binding:"required,gt=0"`
	ReceiverID int64  `json:"receiverId" binding:"required,gt=0"`
}

// ConversationQuery selects the messages between two users.
type ConversationQuery struct {
	SenderID   int64 `form:"senderId" binding:"required,gt=0"`
	ReceiverID int64 `form:"receiverId" binding:"required,gt=0"`
}

// NotificationsQuery selects a user's notifications.
type NotificationsQuery struct {
	UserID int64 `form:"userId" binding:"required,gt=0"`
}

// ReadAllRequest is the body of PUT /notifications/read-all.
type ReadAllRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
}

// SearchQuery is the query of GET /search.
type SearchQuery struct {
	Q string `form:"q" binding:"required,min=1"`
}

// IDParam is the :id path segment.
type IDParam struct {
	ID string `uri:"id" binding:"digits"`
}

// Int returns the validated id.
func (p IDParam) Int() int64 { return mustParseID(p.ID) }

// UserIDParam is the user segment of /users/:id/followers and /following.
// The route shares the :id wildcard with /users/:id; errors report "userId".
type UserIDParam struct {
	UserID string `json:"userId" uri:"id" binding:"digits"`
}

// Int returns the validated user id.
func (p UserIDParam) Int() int64 { return mustParseID(p.UserID) }

// mustParseID parses a string the "digits" rule already accepted.
func mustParseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		panic("unvalidated id " + strconv.Quote(s))
	}
	return id
}
