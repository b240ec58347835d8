package domain

import "time"

// User is a registered principal. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the projection embedded in related records.
type UserSummary struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// PostCounts carries aggregate counts for list views.
type PostCounts struct {
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
}

// Post is an authored entry in the feed.
type Post struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   *string      `json:"content"`
	Published bool         `json:"published"`
	AuthorID  int64        `json:"authorId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Author    *UserSummary `json:"author,omitempty"`
	Count     *PostCounts  `json:"_count,omitempty"`
}

// PostSummary is the projection embedded in comments and likes.
type PostSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	AuthorID int64  `json:"authorId"`
}

// Comment belongs to a post and an author.
type Comment struct {
	ID        int64        `json:"id"`
	Body      string       `json:"body"`
	PostID    int64        `json:"postId"`
	AuthorID  int64        `json:"authorId"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"author,omitempty"`
	Post      *PostSummary `json:"post,omitempty"`
}

// Like is unique per (post, user).
type Like struct {
	ID        int64        `json:"id"`
	PostID    int64        `json:"postId"`
	UserID    int64        `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	User      *UserSummary `json:"user,omitempty"`
	Post      *PostSummary `json:"post,omitempty"`
}

// Follow is keyed by (follower, following).
type Follow struct {
	FollowerID  int64     `json:"followerId"`
	FollowingID int64     `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Message is a direct message between two users.
type Message struct {
	ID         int64        `json:"id"`
	Body       string       `json:"body"`
	SenderID   int64        `json:"senderId"`
	ReceiverID int64        `json:"receiverId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Sender     *UserSummary `json:"sender,omitempty"`
	Receiver   *UserSummary `json:"receiver,omitempty"`
}

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMessage = "message"
)

// Notification informs a user about activity involving them.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
