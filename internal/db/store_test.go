package db

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
	"github.com/gamingrealm/backend/pkg/config"
)

// The tests in this file exercise real Postgres behavior (constraints,
// cascades, upserts) and are skipped unless GR_DATABASE_URL points at a
// disposable database.

var (
	testOnce sync.Once
	testConn *DB
	testErr  error
)

type testStore struct {
	db       *DB
	users    *UserRepository
	follows  *FollowRepository
	posts    *PostRepository
	comments *CommentRepository
	ratings  *RatingRepository
	reports  *ReportRepository
	tags     *TagRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	url := os.Getenv("GR_DATABASE_URL")
	if url == "" {
		t.Skip("skipping store tests: no GR_DATABASE_URL provided")
	}

	testOnce.Do(func() {
		cfg := &config.DatabaseConfig{URL: url, MaxIdleConns: 2, MaxOpenConns: 4}
		testConn, testErr = New(cfg, "ERROR")
		if testErr != nil {
			return
		}
		testErr = testConn.Migrate()
	})
	if testErr != nil {
		t.Fatalf("connecting test database: %v", testErr)
	}

	err := testConn.Exec(
		"TRUNCATE users, passwords, followers, posts, post_media, post_ratings, post_comments, post_reports, tags, post_tags RESTART IDENTITY CASCADE",
	).Error
	if err != nil {
		t.Fatalf("truncating tables: %v", err)
	}

	repo := NewRepository(testConn.DB)
	return &testStore{
		db:       testConn,
		users:    NewUserRepository(repo),
		follows:  NewFollowRepository(repo),
		posts:    NewPostRepository(repo),
		comments: NewCommentRepository(repo),
		ratings:  NewRatingRepository(repo),
		reports:  NewReportRepository(repo),
		tags:     NewTagRepository(repo),
	}
}

func (s *testStore) mustUser(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := s.users.Create(context.Background(), name+"@example.com", name, "$argon2id$fake")
	if err != nil {
		t.Fatalf("creating user %q: %v", name, err)
	}
	return u
}

func (s *testStore) mustPost(t *testing.T, authorID string, tags ...string) *models.Post {
	t.Helper()
	body := "post body"
	p, err := s.posts.Create(context.Background(), CreatePostParams{
		AuthorID:    authorID,
		Title:       "a test post",
		TextContent: &body,
		Tags:        tags,
		MediaURLs:   []string{"https://media.example.com/1.png"},
	})
	if err != nil {
		t.Fatalf("creating post: %v", err)
	}
	return p
}

func (s *testStore) count(t *testing.T, table, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		q += " WHERE " + where
	}
	if err := s.db.Raw(q, args...).Scan(&n).Error; err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.mustUser(t, "alice")
	_, err := s.users.Create(ctx, "alice@example.com", "alice2", "h")
	if !apperr.IsConflict(err) {
		t.Fatalf("duplicate email = %v, want conflict", err)
	}

	// Usernames are not unique, only emails are.
	if _, err := s.users.Create(ctx, "other@example.com", "alice", "h"); err != nil {
		t.Fatalf("duplicate username = %v, want nil", err)
	}
}

// A 20-character multibyte username is within the limit even though it is
// 40 bytes; the store's varchar(20) counts characters.
func TestCreateUserMultibyteUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	name := strings.Repeat("é", 20)
	u, err := s.users.Create(ctx, "accents@example.com", name, "h")
	if err != nil {
		t.Fatalf("multibyte username = %v, want nil", err)
	}
	if u.Username != name {
		t.Fatalf("stored username = %q, want %q", u.Username, name)
	}

	if _, err := s.users.Create(ctx, "accents2@example.com", strings.Repeat("é", 21), "h"); !apperr.IsInvalidArgument(err) {
		t.Fatalf("21-char username = %v, want invalid argument", err)
	}
}

func TestFollowConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")

	if err := s.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow = %v", err)
	}
	if err := s.follows.Follow(ctx, alice.ID, bob.ID); !apperr.IsConflict(err) {
		t.Fatalf("double follow = %v, want conflict", err)
	}
	if err := s.follows.Follow(ctx, alice.ID, alice.ID); !apperr.IsInvalidArgument(err) {
		t.Fatalf("self follow = %v, want invalid argument", err)
	}
	if err := s.follows.Follow(ctx, alice.ID, "ffffffff-0000-0000-0000-000000000000"); !apperr.IsNotFound(err) {
		t.Fatalf("follow missing user = %v, want not found", err)
	}

	if ok, err := s.follows.IsFollowing(ctx, alice.ID, bob.ID); err != nil || !ok {
		t.Fatalf("IsFollowing(alice, bob) = %v, %v, want true", ok, err)
	}
	if ok, err := s.follows.IsFollowing(ctx, bob.ID, alice.ID); err != nil || ok {
		t.Fatalf("IsFollowing(bob, alice) = %v, %v, want false", ok, err)
	}

	following, err := s.follows.ListFollowing(ctx, alice.ID, 10)
	if err != nil {
		t.Fatalf("list following = %v", err)
	}
	if len(following) != 1 || following[0].ID != bob.ID {
		t.Fatalf("following = %+v, want [bob]", following)
	}

	if err := s.follows.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow = %v", err)
	}
	if err := s.follows.Unfollow(ctx, alice.ID, bob.ID); !apperr.IsNotFound(err) {
		t.Fatalf("unfollow again = %v, want not found", err)
	}
}

// Deleting a user must take their password, follow edges, posts, and all
// post attachments with it, while content authored by others stays.
func TestDeleteUserCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")

	if err := s.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow = %v", err)
	}
	alicePost := s.mustPost(t, alice.ID, "valorant")
	bobPost := s.mustPost(t, bob.ID, "valorant")

	// bob interacts with alice's post and vice versa
	if _, err := s.comments.Create(ctx, alicePost.ID, bob.ID, "nice"); err != nil {
		t.Fatalf("comment = %v", err)
	}
	if err := s.ratings.Rate(ctx, alicePost.ID, bob.ID, 4); err != nil {
		t.Fatalf("rating = %v", err)
	}
	if _, err := s.comments.Create(ctx, bobPost.ID, alice.ID, "ok"); err != nil {
		t.Fatalf("comment = %v", err)
	}

	if err := s.users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete user = %v", err)
	}

	if got := s.count(t, "passwords", "user_id = ?", alice.ID); got != 0 {
		t.Errorf("passwords left = %d, want 0", got)
	}
	if got := s.count(t, "followers", ""); got != 0 {
		t.Errorf("follow edges left = %d, want 0", got)
	}
	if got := s.count(t, "posts", "author_id = ?", alice.ID); got != 0 {
		t.Errorf("posts left = %d, want 0", got)
	}
	// alice's comment on bob's post goes with her account
	if got := s.count(t, "post_comments", ""); got != 0 {
		t.Errorf("comments left = %d, want 0", got)
	}
	// bob's post survives
	if _, err := s.posts.GetByID(ctx, bobPost.ID); err != nil {
		t.Errorf("bob's post = %v, want reachable", err)
	}
	if err := s.users.Delete(ctx, alice.ID); !apperr.IsNotFound(err) {
		t.Errorf("delete again = %v, want not found", err)
	}
}

func TestHardDeletePostCascadeKeepsTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")
	post := s.mustPost(t, alice.ID, "pubg", "cod")

	if _, err := s.comments.Create(ctx, post.ID, bob.ID, "gg"); err != nil {
		t.Fatalf("comment = %v", err)
	}
	if err := s.ratings.Rate(ctx, post.ID, bob.ID, 5); err != nil {
		t.Fatalf("rating = %v", err)
	}
	if _, err := s.reports.Create(ctx, post.ID, bob.ID, "spam"); err != nil {
		t.Fatalf("report = %v", err)
	}

	if err := s.posts.HardDelete(ctx, post.ID); err != nil {
		t.Fatalf("hard delete = %v", err)
	}

	for _, table := range []string{"post_media", "post_comments", "post_ratings", "post_reports", "post_tags"} {
		if got := s.count(t, table, ""); got != 0 {
			t.Errorf("%s rows left = %d, want 0", table, got)
		}
	}
	tags, err := s.tags.ListAll(ctx)
	if err != nil {
		t.Fatalf("list tags = %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %d, want 2 (tags outlive posts)", len(tags))
	}
}

func TestRatingUpsertSingleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	post := s.mustPost(t, alice.ID)

	if err := s.ratings.Rate(ctx, post.ID, alice.ID, 2); err != nil {
		t.Fatalf("rate = %v", err)
	}
	if err := s.ratings.Rate(ctx, post.ID, alice.ID, 5); err != nil {
		t.Fatalf("re-rate = %v", err)
	}

	if got := s.count(t, "post_ratings", ""); got != 1 {
		t.Fatalf("rating rows = %d, want 1", got)
	}
	r, err := s.ratings.Get(ctx, post.ID, alice.ID)
	if err != nil {
		t.Fatalf("get rating = %v", err)
	}
	if r.Value != 5 {
		t.Fatalf("rating value = %d, want 5", r.Value)
	}
	avg, err := s.posts.AverageRating(ctx, post.ID)
	if err != nil {
		t.Fatalf("average = %v", err)
	}
	if avg != 5 {
		t.Fatalf("average rating = %d, want 5", avg)
	}
}

func TestDuplicateReportConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")
	post := s.mustPost(t, alice.ID)

	if _, err := s.reports.Create(ctx, post.ID, bob.ID, "spam"); err != nil {
		t.Fatalf("report = %v", err)
	}
	if _, err := s.reports.Create(ctx, post.ID, bob.ID, "still spam"); !apperr.IsConflict(err) {
		t.Fatalf("duplicate report = %v, want conflict", err)
	}
	// a different reporter is fine
	if _, err := s.reports.Create(ctx, post.ID, alice.ID, "self report"); err != nil {
		t.Fatalf("second reporter = %v", err)
	}

	reports, err := s.reports.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("list reports = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if reports[0].Content != "spam" {
		t.Fatalf("first report = %q, want oldest first", reports[0].Content)
	}
}

func TestSoftDeleteVisibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	post := s.mustPost(t, alice.ID, "minecraft")

	if err := s.posts.SoftDelete(ctx, post.ID); err != nil {
		t.Fatalf("soft delete = %v", err)
	}

	// excluded from listings
	page, err := s.posts.List(ctx, ListPostsParams{Take: 10})
	if err != nil {
		t.Fatalf("list = %v", err)
	}
	if page.Count != 0 {
		t.Errorf("listed posts = %d, want 0", page.Count)
	}
	// details report not found
	if _, err := s.posts.GetDetails(ctx, post.ID); !apperr.IsNotFound(err) {
		t.Errorf("details = %v, want not found", err)
	}
	// the row itself is still reachable and flagged
	got, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get by id = %v", err)
	}
	if !got.Deleted {
		t.Errorf("Deleted = false, want true")
	}
	// mutations after soft delete are rejected
	title := "new title"
	if _, err := s.posts.Update(ctx, post.ID, UpdatePostFields{Title: &title}); !apperr.IsNotFound(err) {
		t.Errorf("update after soft delete = %v, want not found", err)
	}
	if err := s.posts.SoftDelete(ctx, post.ID); !apperr.IsNotFound(err) {
		t.Errorf("double soft delete = %v, want not found", err)
	}
}

func TestListPostsPaginationAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")

	for i := 0; i < 5; i++ {
		s.mustPost(t, alice.ID, "fifa")
	}
	s.mustPost(t, bob.ID, "f1")

	page, err := s.posts.List(ctx, ListPostsParams{Take: 4})
	if err != nil {
		t.Fatalf("list = %v", err)
	}
	if page.Count != 4 || page.CursorID == "" {
		t.Fatalf("first page count = %d cursor = %q, want 4 with cursor", page.Count, page.CursorID)
	}

	rest, err := s.posts.List(ctx, ListPostsParams{Take: 4, CursorID: page.CursorID})
	if err != nil {
		t.Fatalf("second page = %v", err)
	}
	if rest.Count != 2 {
		t.Fatalf("second page count = %d, want 2", rest.Count)
	}
	seen := map[string]bool{}
	for _, p := range append(page.Data, rest.Data...) {
		if seen[p.ID] {
			t.Fatalf("post %s returned twice across pages", p.ID)
		}
		seen[p.ID] = true
	}

	byAuthor, err := s.posts.List(ctx, ListPostsParams{AuthorID: bob.ID, Take: 10})
	if err != nil {
		t.Fatalf("list by author = %v", err)
	}
	if byAuthor.Count != 1 {
		t.Fatalf("bob's posts = %d, want 1", byAuthor.Count)
	}

	byTag, err := s.posts.List(ctx, ListPostsParams{Tag: "fifa", Take: 10})
	if err != nil {
		t.Fatalf("list by tag = %v", err)
	}
	if byTag.Count != 5 {
		t.Fatalf("fifa posts = %d, want 5", byTag.Count)
	}
}

func TestTagsIdempotentAttach(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	post := s.mustPost(t, alice.ID, "rust")

	// attaching an existing tag again is a no-op, new names are created
	if err := s.tags.AddToPost(ctx, post.ID, []string{"rust", "forza"}); err != nil {
		t.Fatalf("add tags = %v", err)
	}
	tags, err := s.tags.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("list by post = %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("post tags = %d, want 2", len(tags))
	}
	if got := s.count(t, "tags", "tag_name = ?", "rust"); got != 1 {
		t.Fatalf("rust tag rows = %d, want 1", got)
	}
}

func TestGetProfileCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")
	carol := s.mustUser(t, "carol")

	if err := s.follows.Follow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("follow = %v", err)
	}
	if err := s.follows.Follow(ctx, carol.ID, alice.ID); err != nil {
		t.Fatalf("follow = %v", err)
	}
	if err := s.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow = %v", err)
	}
	s.mustPost(t, alice.ID)

	p, err := s.users.GetProfile(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("profile = %v", err)
	}
	if p.FollowerCount != 2 || p.FollowingCount != 1 || p.PostCount != 1 {
		t.Fatalf("profile counts = %d/%d/%d, want 2/1/1",
			p.FollowerCount, p.FollowingCount, p.PostCount)
	}
	if p.IsFollowing == nil || !*p.IsFollowing {
		t.Fatalf("IsFollowing = %v, want true (bob follows alice)", p.IsFollowing)
	}

	anon, err := s.users.GetProfile(ctx, alice.ID, "")
	if err != nil {
		t.Fatalf("anonymous profile = %v", err)
	}
	if anon.IsFollowing != nil {
		t.Fatalf("anonymous IsFollowing = %v, want nil", anon.IsFollowing)
	}
}

func TestSearchByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")

	mk := func(title string) {
		t.Helper()
		if _, err := s.posts.Create(ctx, CreatePostParams{AuthorID: alice.ID, Title: title}); err != nil {
			t.Fatalf("creating post %q: %v", title, err)
		}
	}
	mk("ranked valorant clutch")
	mk("minecraft castle build")
	mk("valorant patch notes")

	got, err := s.posts.SearchByTitle(ctx, "valorant", 20)
	if err != nil {
		t.Fatalf("search = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("search hits = %d, want 2", len(got))
	}

	none, err := s.posts.SearchByTitle(ctx, "fortnite", 20)
	if err != nil {
		t.Fatalf("search = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("search hits = %d, want 0", len(none))
	}
}
