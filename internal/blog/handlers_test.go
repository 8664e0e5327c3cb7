package blog_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pressroom/pressroom/internal/blog"
	"github.com/pressroom/pressroom/internal/utils"
	"github.com/pressroom/pressroom/web"
)

// fakeStore implements blog.PostStore with an in-memory map, mirroring the
// repository's error contract.
type fakeStore struct {
	posts  map[int64]blog.Post
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: make(map[int64]blog.Post), nextID: 1}
}

func (f *fakeStore) ListAll(ctx context.Context) ([]blog.Post, error) {
	out := make([]blog.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (blog.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return blog.Post{}, blog.ErrPostNotFound
	}
	return p, nil
}

func (f *fakeStore) Create(ctx context.Context, authorID int64, title, content string) (blog.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return blog.Post{}, blog.ErrValidation
	}
	p := blog.Post{ID: f.nextID, Title: title, Content: content, AuthorID: authorID}
	f.posts[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakeStore) Update(ctx context.Context, id, actorID int64, title, content string) (blog.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return blog.Post{}, blog.ErrPostNotFound
	}
	if p.AuthorID != actorID {
		return blog.Post{}, blog.ErrNotAuthor
	}
	p.Title, p.Content = title, content
	f.posts[id] = p
	return p, nil
}

func (f *fakeStore) Delete(ctx context.Context, id, actorID int64) error {
	p, ok := f.posts[id]
	if !ok {
		return blog.ErrPostNotFound
	}
	if p.AuthorID != actorID {
		return blog.ErrNotAuthor
	}
	delete(f.posts, id)
	return nil
}

// newRouter mounts the blog routes behind a stub session middleware that
// injects the given identity.
func newRouter(t *testing.T, store blog.PostStore, identity utils.Identity) http.Handler {
	t.Helper()

	h := blog.NewHandler(store, web.LoadTemplates("testhost"))
	r := chi.NewRouter()
	h.Routes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), utils.ContextIdentityKey, identity)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var alice = utils.Identity{UserID: 1, Username: "alice"}
var bob = utils.Identity{UserID: 2, Username: "bob"}

func TestHomeListsPosts(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), alice.UserID, "First", "Hello")
	store.Create(context.Background(), alice.UserID, "Second", "World")

	rec := get(newRouter(t, store, alice), "/home")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "First") || !strings.Contains(body, "Second") {
		t.Errorf("expected both posts in body, got: %s", body)
	}
	if !strings.Contains(body, "alice") {
		t.Errorf("expected username in body")
	}
}

func TestHomeShowsErrorParam(t *testing.T) {
	rec := get(newRouter(t, newFakeStore(), alice), "/home?error=The+blog+post+does+not+exist")

	if !strings.Contains(rec.Body.String(), "The blog post does not exist") {
		t.Errorf("expected error message in body, got: %s", rec.Body.String())
	}
}

func TestShowPost(t *testing.T) {
	store := newFakeStore()
	post, _ := store.Create(context.Background(), alice.UserID, "Title", "Content")

	rec := get(newRouter(t, store, alice), fmt.Sprintf("/blog?id=%d", post.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Content") {
		t.Errorf("expected post content in body")
	}
}

func TestShowPostNotFound(t *testing.T) {
	rec := get(newRouter(t, newFakeStore(), alice), "/blog?id=99")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Blog ID 99 not found") {
		t.Errorf("expected not-found message, got: %s", rec.Body.String())
	}
}

func TestCreatePost(t *testing.T) {
	store := newFakeStore()
	router := newRouter(t, store, alice)

	rec := postForm(router, "/create_blog_post", url.Values{
		"title":   {"T"},
		"content": {"C"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	posts, _ := store.ListAll(context.Background())
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].AuthorID != alice.UserID {
		t.Errorf("post author = %d, want %d", posts[0].AuthorID, alice.UserID)
	}
}

func TestCreatePostMissingFields(t *testing.T) {
	rec := postForm(newRouter(t, newFakeStore(), alice), "/create_blog_post", url.Values{
		"title":   {""},
		"content": {""},
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please fill in both the title and content fields.") {
		t.Errorf("expected validation message, got: %s", rec.Body.String())
	}
}

func TestEditByNonAuthorRedirects(t *testing.T) {
	store := newFakeStore()
	post, _ := store.Create(context.Background(), alice.UserID, "Alice's", "Original")

	rec := postForm(newRouter(t, store, bob), fmt.Sprintf("/edit_blog_post/%d", post.ID), url.Values{
		"title":   {"Hijacked"},
		"content": {"Changed"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "author") {
		t.Errorf("expected author error in redirect, got %q", loc)
	}

	unchanged, _ := store.Get(context.Background(), post.ID)
	if unchanged.Title != "Alice's" {
		t.Errorf("post should be unchanged, got title %q", unchanged.Title)
	}
}

func TestEditByAuthor(t *testing.T) {
	store := newFakeStore()
	post, _ := store.Create(context.Background(), alice.UserID, "Before", "Old")

	rec := postForm(newRouter(t, store, alice), fmt.Sprintf("/edit_blog_post/%d", post.ID), url.Values{
		"title":   {"After"},
		"content": {"New"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	updated, _ := store.Get(context.Background(), post.ID)
	if updated.Title != "After" || updated.Content != "New" {
		t.Errorf("post not updated: %+v", updated)
	}
}

func TestEditFormByNonAuthorRedirects(t *testing.T) {
	store := newFakeStore()
	post, _ := store.Create(context.Background(), alice.UserID, "Alice's", "Original")

	rec := get(newRouter(t, store, bob), fmt.Sprintf("/edit_blog_post/%d", post.ID))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
}

func TestDeleteByAuthor(t *testing.T) {
	store := newFakeStore()
	post, _ := store.Create(context.Background(), alice.UserID, "Doomed", "Bye")

	rec := get(newRouter(t, store, alice), fmt.Sprintf("/delete_blog_post/%d", post.ID))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), post.ID); err != blog.ErrPostNotFound {
		t.Errorf("post should be gone, got %v", err)
	}
}

func TestDeleteByNonAuthorRedirects(t *testing.T) {
	store := newFakeStore()
	post, _ := store.Create(context.Background(), alice.UserID, "Protected", "Safe")

	rec := get(newRouter(t, store, bob), fmt.Sprintf("/delete_blog_post/%d", post.ID))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), post.ID); err != nil {
		t.Errorf("post should survive a non-author delete, got %v", err)
	}
}

func TestDeleteMissingPostRedirects(t *testing.T) {
	rec := get(newRouter(t, newFakeStore(), alice), "/delete_blog_post/123")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, url.QueryEscape("does not exist")) {
		t.Errorf("expected not-exist error in redirect, got %q", loc)
	}
}
