package memory

import (
	"context"
	"sort"

	"github.com/duynhne/social-service/internal/core/domain"
)

type userRepository struct{ s *Store }

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.users, false), nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r *userRepository) emailTaken(email string, except int64) bool {
	for _, u := range r.s.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(_ context.Context, email, passwordHash string, name *string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(email, 0) {
		return nil, pgError(codeUniqueViolation, "users_email_key")
	}
	u := domain.User{
		ID:           r.s.nextID("users"),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    r.s.now(),
	}
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *userRepository) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Email != nil {
		if r.emailTaken(*upd.Email, id) {
			return nil, pgError(codeUniqueViolation, "users_email_key")
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = upd.Name
	}
	r.s.users[id] = u
	return &u, nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteUserCascade(id)
	return nil
}

func (r *userRepository) Search(_ context.Context, q string) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.User{}
	for _, u := range sortedValues(r.s.users, false) {
		if contains(u.Email, q) || (u.Name != nil && contains(*u.Name, q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

type followRepository struct{ s *Store }

func (r *followRepository) edges(match func(followKey) (int64, bool)) []domain.User {
	type entry struct {
		f    domain.Follow
		user domain.User
	}
	var entries []entry
	for k, f := range r.s.follows {
		if id, ok := match(k); ok {
			if u, exists := r.s.users[id]; exists {
				entries = append(entries, entry{f, u})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].f.CreatedAt.Equal(entries[j].f.CreatedAt) {
			return entries[i].f.CreatedAt.Before(entries[j].f.CreatedAt)
		}
		return entries[i].user.ID < entries[j].user.ID
	})
	out := make([]domain.User, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.user)
	}
	return out
}

func (r *followRepository) Followers(_ context.Context, userID int64) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.edges(func(k followKey) (int64, bool) { return k.follower, k.following == userID }), nil
}

func (r *followRepository) Following(_ context.Context, userID int64) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.edges(func(k followKey) (int64, bool) { return k.following, k.follower == userID }), nil
}

func (r *followRepository) Create(_ context.Context, followerID, followingID int64) (*domain.Follow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if followerID == followingID {
		return nil, pgError(codeCheckViolation, "follows_check")
	}
	if _, ok := r.s.users[followerID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "follows_follower_id_fkey")
	}
	if _, ok := r.s.users[followingID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "follows_following_id_fkey")
	}
	k := followKey{followerID, followingID}
	if _, ok := r.s.follows[k]; ok {
		return nil, pgError(codeUniqueViolation, "follows_pkey")
	}
	f := domain.Follow{FollowerID: followerID, FollowingID: followingID, CreatedAt: r.s.now()}
	r.s.follows[k] = f
	return &f, nil
}

func (r *followRepository) Delete(_ context.Context, followerID, followingID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := followKey{followerID, followingID}
	if _, ok := r.s.follows[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.follows, k)
	return nil
}
