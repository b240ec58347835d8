package memory

import (
	"context"

	"github.com/duynhne/social-service/internal/core/domain"
)

type postRepository struct{ s *Store }

// withRelations must be called with mu held.
func (r *postRepository) withRelations(p domain.Post) domain.Post {
	p.Author = r.s.summary(p.AuthorID)
	counts := domain.PostCounts{}
	for _, c := range r.s.comments {
		if c.PostID == p.ID {
			counts.Comments++
		}
	}
	for _, l := range r.s.likes {
		if l.PostID == p.ID {
			counts.Likes++
		}
	}
	p.Count = &counts
	return p
}

func (r *postRepository) List(_ context.Context, f domain.PostFilter) ([]domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Post{}
	for _, p := range sortedValues(r.s.posts, true) {
		if f.AuthorID == 0 || p.AuthorID == f.AuthorID {
			out = append(out, r.withRelations(p))
		}
	}
	return out, nil
}

func (r *postRepository) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	p = r.withRelations(p)
	return &p, nil
}

func (r *postRepository) Create(_ context.Context, np domain.NewPost) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[np.AuthorID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "posts_author_id_fkey")
	}
	now := r.s.now()
	p := domain.Post{
		ID:        r.s.nextID("posts"),
		Title:     np.Title,
		Content:   np.Content,
		Published: np.Published,
		AuthorID:  np.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.posts[p.ID] = p
	return &p, nil
}

func (r *postRepository) Update(_ context.Context, id int64, upd domain.PostUpdate) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = upd.Content
	}
	if upd.Published != nil {
		p.Published = *upd.Published
	}
	p.UpdatedAt = r.s.now()
	r.s.posts[id] = p
	return &p, nil
}

func (r *postRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deletePostCascade(id)
	return nil
}

func (r *postRepository) Search(_ context.Context, q string) ([]domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Post{}
	for _, p := range sortedValues(r.s.posts, true) {
		if contains(p.Title, q) || (p.Content != nil && contains(*p.Content, q)) {
			out = append(out, r.withRelations(p))
		}
	}
	return out, nil
}

type likeRepository struct{ s *Store }

func (r *likeRepository) List(_ context.Context, f domain.LikeFilter) ([]domain.Like, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Like{}
	for _, l := range sortedValues(r.s.likes, false) {
		if f.PostID == 0 || l.PostID == f.PostID {
			l.User = r.s.summary(l.UserID)
			l.Post = r.s.postSummary(l.PostID)
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *likeRepository) Create(_ context.Context, postID, userID int64) (*domain.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "likes_post_id_fkey")
	}
	if _, ok := r.s.users[userID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "likes_user_id_fkey")
	}
	for _, l := range r.s.likes {
		if l.PostID == postID && l.UserID == userID {
			return nil, pgError(codeUniqueViolation, "likes_post_id_user_id_key")
		}
	}
	l := domain.Like{ID: r.s.nextID("likes"), PostID: postID, UserID: userID, CreatedAt: r.s.now()}
	r.s.likes[l.ID] = l
	return &l, nil
}

func (r *likeRepository) Delete(_ context.Context, postID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.likes {
		if l.PostID == postID && l.UserID == userID {
			delete(r.s.likes, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

type commentRepository struct{ s *Store }

func (r *commentRepository) withRelations(c domain.Comment) domain.Comment {
	c.Author = r.s.summary(c.AuthorID)
	c.Post = r.s.postSummary(c.PostID)
	return c
}

func (r *commentRepository) List(_ context.Context, f domain.CommentFilter) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Comment{}
	for _, c := range sortedValues(r.s.comments, false) {
		if f.PostID == 0 || c.PostID == f.PostID {
			out = append(out, r.withRelations(c))
		}
	}
	return out, nil
}

func (r *commentRepository) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	c = r.withRelations(c)
	return &c, nil
}

func (r *commentRepository) Create(_ context.Context, body string, postID, authorID int64) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "comments_post_id_fkey")
	}
	if _, ok := r.s.users[authorID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "comments_author_id_fkey")
	}
	c := domain.Comment{ID: r.s.nextID("comments"), Body: body, PostID: postID, AuthorID: authorID, CreatedAt: r.s.now()}
	r.s.comments[c.ID] = c
	return &c, nil
}

func (r *commentRepository) UpdateBody(_ context.Context, id int64, body string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Body = body
	r.s.comments[id] = c
	return &c, nil
}

func (r *commentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepository) Search(_ context.Context, q string) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Comment{}
	for _, c := range sortedValues(r.s.comments, false) {
		if contains(c.Body, q) {
			out = append(out, r.withRelations(c))
		}
	}
	return out, nil
}
