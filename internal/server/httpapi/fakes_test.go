package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rmaksimov/videotube/internal/common"
	"github.com/rmaksimov/videotube/internal/dbx"
	"github.com/rmaksimov/videotube/internal/logging"
	"github.com/rmaksimov/videotube/internal/server/auth"
	"github.com/rmaksimov/videotube/internal/server/config"
	"github.com/rmaksimov/videotube/internal/server/models"
	usersrepo "github.com/rmaksimov/videotube/internal/server/repositories/users"
	"github.com/rmaksimov/videotube/internal/server/services"
)

// fakeUsersRepo is an in-memory users.Repository for handler tests.
type fakeUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	f.byID[u.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	login = strings.ToLower(login)
	for _, u := range f.byID {
		if u.Username == login || u.Email == login {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	return f.update(id, func(u *models.User) { u.RefreshToken = token })
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	return f.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, fullName, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for otherID, other := range f.byID {
		if otherID != id && other.Email == email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.FullName = fullName
	u.Email = email
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) UpdateAvatar(ctx context.Context, id string, avatar string) error {
	return f.update(id, func(u *models.User) { u.Avatar = avatar })
}

func (f *fakeUsersRepo) UpdateCoverImage(ctx context.Context, id string, coverImage string) error {
	return f.update(id, func(u *models.User) { u.CoverImage = coverImage })
}

func (f *fakeUsersRepo) update(id string, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUsersRepo) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

type fakeRepoManager struct {
	repo *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.repo }

func newTestCodec() *auth.Codec {
	return auth.NewCodec([]byte("access-secret"), time.Hour, []byte("refresh-secret"), 24*time.Hour)
}

// newTestServer builds a Server over real services backed by the fake repo
// and a sqlmock database for transaction expectations.
func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock, *fakeUsersRepo) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := newFakeUsersRepo()
	rm := &fakeRepoManager{repo: repo}
	codec := newTestCodec()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	sessions := services.NewSessionService(db, rm, codec)
	users := services.NewUserService(db, rm)
	media := services.NewMediaService(&config.Config{S3Bucket: "media"})

	return NewServer(":0", logger, codec, sessions, users, media), mock, repo
}
