// Package memory provides in-process implementations of the domain
// repositories. Constraint violations are reported as *pgconn.PgError with
// the codes Postgres would use, so callers see the same errors as with the
// pgx repositories.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/social-service/internal/core/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Severity: "ERROR", Code: code, ConstraintName: constraint}
}

type followKey struct{ follower, following int64 }

// Store holds every table. The repository views returned by its accessors
// share one lock.
type Store struct {
	mu  sync.RWMutex
	seq map[string]int64
	now func() time.Time

	users         map[int64]domain.User
	posts         map[int64]domain.Post
	comments      map[int64]domain.Comment
	likes         map[int64]domain.Like
	follows       map[followKey]domain.Follow
	messages      map[int64]domain.Message
	notifications map[int64]domain.Notification
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		seq:           make(map[string]int64),
		now:           func() time.Time { return time.Now().UTC() },
		users:         make(map[int64]domain.User),
		posts:         make(map[int64]domain.Post),
		comments:      make(map[int64]domain.Comment),
		likes:         make(map[int64]domain.Like),
		follows:       make(map[followKey]domain.Follow),
		messages:      make(map[int64]domain.Message),
		notifications: make(map[int64]domain.Notification),
	}
}

// Users returns the user repository view.
func (s *Store) Users() domain.UserRepository { return &userRepository{s} }

// Posts returns the post repository view.
func (s *Store) Posts() domain.PostRepository { return &postRepository{s} }

// Comments returns the comment repository view.
func (s *Store) Comments() domain.CommentRepository { return &commentRepository{s} }

// Likes returns the like repository view.
func (s *Store) Likes() domain.LikeRepository { return &likeRepository{s} }

// Follows returns the follow repository view.
func (s *Store) Follows() domain.FollowRepository { return &followRepository{s} }

// Messages returns the message repository view.
func (s *Store) Messages() domain.MessageRepository { return &messageRepository{s} }

// Notifications returns the notification repository view.
func (s *Store) Notifications() domain.NotificationRepository { return &notificationRepository{s} }

// nextID returns the next id of table, counting from 1 per table like a
// bigserial column. It must be called with mu held for writing.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) summary(userID int64) *domain.UserSummary {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return &domain.UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (s *Store) postSummary(postID int64) *domain.PostSummary {
	p, ok := s.posts[postID]
	if !ok {
		return nil
	}
	return &domain.PostSummary{ID: p.ID, Title: p.Title, AuthorID: p.AuthorID}
}

// deleteUserCascade removes a user and every row referencing it.
func (s *Store) deleteUserCascade(id int64) {
	delete(s.users, id)
	for pid, p := range s.posts {
		if p.AuthorID == id {
			s.deletePostCascade(pid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for lid, l := range s.likes {
		if l.UserID == id {
			delete(s.likes, lid)
		}
	}
	for k := range s.follows {
		if k.follower == id || k.following == id {
			delete(s.follows, k)
		}
	}
	for mid, m := range s.messages {
		if m.SenderID == id || m.ReceiverID == id {
			delete(s.messages, mid)
		}
	}
	for nid, n := range s.notifications {
		if n.UserID == id {
			delete(s.notifications, nid)
		}
	}
}

func (s *Store) deletePostCascade(id int64) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	for lid, l := range s.likes {
		if l.PostID == id {
			delete(s.likes, lid)
		}
	}
}

func contains(haystack, q string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(q))
}

// sortedValues returns the map values ordered by key.
func sortedValues[T any](m map[int64]T, desc bool) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if desc {
			return keys[i] > keys[j]
		}
		return keys[i] < keys[j]
	})
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
