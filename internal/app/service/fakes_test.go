package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"lenspost/internal/common"
	"lenspost/internal/domain/model"
	"lenspost/internal/domain/repository"
)

// In-memory stand-ins for the persistence and media interfaces, so
// coordinator behavior (ordering, cascades, partial failure) can be
// asserted without a database.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
	}
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	user := *stored
	return &user, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Email == email {
			user := *stored
			return &user, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*model.User
	for _, stored := range r.users {
		user := *stored
		users = append(users, &user)
	}
	return users, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	stored := *user
	stored.UpdatedAt = time.Now()
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*model.Post
}

var _ repository.PostRepository = (*memPostRepo)(nil)

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]*model.Post{}}
}

func (r *memPostRepo) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *post
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.posts[post.ID] = &stored
	return nil
}

func (r *memPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return copyPost(stored), nil
}

func (r *memPostRepo) FindByOwner(ctx context.Context, ownerID string) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []*model.Post
	for _, stored := range r.posts {
		if stored.OwnerID == ownerID {
			posts = append(posts, copyPost(stored))
		}
	}
	return posts, nil
}

func (r *memPostRepo) List(ctx context.Context, filter repository.PostFilter) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []*model.Post
	for _, stored := range r.posts {
		if filter.Category != "" && stored.Category != filter.Category {
			continue
		}
		posts = append(posts, copyPost(stored))
	}
	return posts, nil
}

func (r *memPostRepo) Update(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return common.ErrNotFound
	}
	stored := *post
	stored.UpdatedAt = time.Now()
	r.posts[post.ID] = &stored
	return nil
}

func (r *memPostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func copyPost(stored *model.Post) *model.Post {
	post := *stored
	if post.Owner == nil {
		post.Owner = &model.UserSummary{ID: post.OwnerID}
	}
	return &post
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*model.Comment

	failDeleteByPost bool
}

var _ repository.CommentRepository = (*memCommentRepo)(nil)

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[string]*model.Comment{}}
}

func (r *memCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *comment
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.comments[comment.ID] = &stored
	return nil
}

func (r *memCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.comments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	comment := *stored
	if comment.Owner == nil {
		comment.Owner = &model.UserSummary{ID: comment.OwnerID}
	}
	return &comment, nil
}

func (r *memCommentRepo) FindByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []*model.Comment
	for _, stored := range r.comments {
		if stored.PostID == postID {
			comment := *stored
			comments = append(comments, &comment)
		}
	}
	return comments, nil
}

func (r *memCommentRepo) List(ctx context.Context) ([]*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []*model.Comment
	for _, stored := range r.comments {
		comment := *stored
		comments = append(comments, &comment)
	}
	return comments, nil
}

func (r *memCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return common.ErrNotFound
	}
	stored := *comment
	stored.UpdatedAt = time.Now()
	r.comments[comment.ID] = &stored
	return nil
}

func (r *memCommentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) DeleteByPost(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDeleteByPost {
		return fmt.Errorf("memCommentRepo: forced DeleteByPost failure")
	}
	for id, stored := range r.comments {
		if stored.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *memCommentRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stored := range r.comments {
		if stored.OwnerID == ownerID {
			delete(r.comments, id)
		}
	}
	return nil
}

type memLikeRepo struct {
	mu   sync.Mutex
	sets map[string]map[string]bool
}

var _ repository.LikeRepository = (*memLikeRepo)(nil)

func newMemLikeRepo() *memLikeRepo {
	return &memLikeRepo{sets: map[string]map[string]bool{}}
}

func (r *memLikeRepo) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.sets[postID]
	if set == nil {
		set = map[string]bool{}
		r.sets[postID] = set
	}
	if set[userID] {
		delete(set, userID)
		return false, nil
	}
	set[userID] = true
	return true, nil
}

func (r *memLikeRepo) Members(ctx context.Context, postID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var members []string
	for userID := range r.sets[postID] {
		members = append(members, userID)
	}
	sort.Strings(members)
	return members, nil
}

func (r *memLikeRepo) DeleteSet(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, postID)
	return nil
}

type memMediaStore struct {
	mu    sync.Mutex
	files map[string][]byte
	puts  int

	failDelete bool
}

func newMemMediaStore() *memMediaStore {
	return &memMediaStore{files: map[string][]byte{}}
}

func (s *memMediaStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("memMediaStore.Put: %w", common.ErrStorage)
	}
	s.puts++
	ref := fmt.Sprintf("%d-%s", s.puts, name)
	s.files[ref] = buf.Bytes()
	return ref, nil
}

func (s *memMediaStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return fmt.Errorf("memMediaStore: forced delete failure: %w", common.ErrStorage)
	}
	if _, ok := s.files[ref]; !ok {
		return common.ErrNotFound
	}
	delete(s.files, ref)
	return nil
}

func (s *memMediaStore) Has(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[ref]
	return ok
}
