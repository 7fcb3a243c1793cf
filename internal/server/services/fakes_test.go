package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/models"
	"github.com/florify/florify/internal/server/repositories/boards"
	"github.com/florify/florify/internal/server/repositories/bookmarks"
	"github.com/florify/florify/internal/server/repositories/plants"
	"github.com/florify/florify/internal/server/repositories/readings"
	"github.com/florify/florify/internal/server/repositories/sessions"
	"github.com/florify/florify/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		QueryTimeout:   time.Second,
		BcryptCost:     bcrypt.MinCost,
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "plants",
		PhotoURLTTL:    15 * time.Minute,
	}
}

func ptr[T any](v T) *T { return &v }

// fakeStore is an in-memory RepositoryManager. failWith, when set, is
// returned by every repository call.
type fakeStore struct {
	mu sync.Mutex

	failWith error
	// block makes every call wait for ctx to end.
	block bool

	nextID    int64
	users     map[int64]*userRow
	sessions  map[string]int64
	boards    map[int64]models.Board
	bookmarks map[int64]models.Bookmark
	plants    map[int64]models.Plant
	readings  []models.Reading
}

type userRow struct {
	user models.User
	hash string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[int64]*userRow{},
		sessions:  map[string]int64{},
		boards:    map[int64]models.Board{},
		bookmarks: map[int64]models.Bookmark{},
		plants:    map[int64]models.Plant{},
	}
}

func (f *fakeStore) enter(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.failWith
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeStore) Users(dbx.DBTX) users.Repository              { return fakeUsers{f} }
func (f *fakeStore) Sessions(dbx.DBTX) sessions.Repository        { return fakeSessions{f} }
func (f *fakeStore) Boards(dbx.DBTX) boards.Repository            { return fakeBoards{f} }
func (f *fakeStore) Bookmarks(dbx.DBTX) bookmarks.Repository      { return fakeBookmarks{f} }
func (f *fakeStore) Plants(dbx.DBTX) plants.Repository            { return fakePlants{f} }
func (f *fakeStore) Readings(dbx.DBTX) readings.Repository        { return fakeReadings{f} }

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) Create(ctx context.Context, u models.NewUser) (int64, error) {
	if err := r.f.enter(ctx); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, row := range r.f.users {
		if row.user.Email == u.Email {
			return 0, common.ErrDuplicateEmail
		}
	}
	id := r.f.id()
	r.f.users[id] = &userRow{user: models.User{ID: id, Email: u.Email, Phone: u.Phone}, hash: u.Password}
	return id, nil
}

func (r fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	row, ok := r.f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := row.user
	return &u, nil
}

func (r fakeUsers) GetCredentialsByEmail(ctx context.Context, email string) (*models.UserCredentials, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, row := range r.f.users {
		if row.user.Email == email {
			return &models.UserCredentials{UserID: row.user.ID, PasswordHash: row.hash}, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeSessions struct{ f *fakeStore }

func (r fakeSessions) Create(ctx context.Context, token string, userID int64) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.sessions[token] = userID
	return nil
}

func (r fakeSessions) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	uid, ok := r.f.sessions[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.f.users[uid].user
	return &u, nil
}

func (r fakeSessions) Delete(ctx context.Context, token string) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.sessions, token)
	return nil
}

func paginate[T any](items []T, page models.Page) []T {
	out := []T{}
	for i := page.Offset(); i < len(items) && len(out) < page.Limit; i++ {
		out = append(out, items[i])
	}
	return out
}

type fakeBoards struct{ f *fakeStore }

func (r fakeBoards) Create(ctx context.Context, b models.NewBoard) (int64, error) {
	if err := r.f.enter(ctx); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.users[b.OwnerID]; !ok {
		return 0, common.ErrorNotFound
	}
	id := r.f.id()
	r.f.boards[id] = models.Board{ID: id, OwnerID: b.OwnerID, Title: b.Title, Description: b.Description}
	return id, nil
}

func (r fakeBoards) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	b, ok := r.f.boards[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &b, nil
}

func (r fakeBoards) ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Board, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []models.Board
	for _, b := range r.f.boards {
		if b.OwnerID == ownerID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (r fakeBoards) Update(ctx context.Context, id int64, u models.BoardUpdate) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	b, ok := r.f.boards[id]
	if !ok {
		return common.ErrorNotFound
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	r.f.boards[id] = b
	return nil
}

func (r fakeBoards) Delete(ctx context.Context, id int64) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.boards, id)
	for bid, bm := range r.f.bookmarks {
		if bm.BoardID == id {
			delete(r.f.bookmarks, bid)
		}
	}
	return nil
}

func (r fakeBoards) ExistsForOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	if err := r.f.enter(ctx); err != nil {
		return false, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	b, ok := r.f.boards[id]
	return ok && b.OwnerID == ownerID, nil
}

type fakeBookmarks struct{ f *fakeStore }

func (r fakeBookmarks) Create(ctx context.Context, b models.NewBookmark) (int64, error) {
	if err := r.f.enter(ctx); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.boards[b.BoardID]; !ok {
		return 0, common.ErrorNotFound
	}
	id := r.f.id()
	r.f.bookmarks[id] = models.Bookmark{ID: id, BoardID: b.BoardID, Title: b.Title, URL: b.URL, Description: b.Description}
	return id, nil
}

func (r fakeBookmarks) GetByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	b, ok := r.f.bookmarks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &b, nil
}

func (r fakeBookmarks) ListByBoard(ctx context.Context, boardID int64, page models.Page) ([]models.Bookmark, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []models.Bookmark
	for _, b := range r.f.bookmarks {
		if b.BoardID == boardID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (r fakeBookmarks) Update(ctx context.Context, id int64, u models.BookmarkUpdate) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	b, ok := r.f.bookmarks[id]
	if !ok {
		return common.ErrorNotFound
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.URL != nil {
		b.URL = *u.URL
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	r.f.bookmarks[id] = b
	return nil
}

func (r fakeBookmarks) Delete(ctx context.Context, id int64) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.bookmarks, id)
	return nil
}

func (r fakeBookmarks) ExistsForOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	if err := r.f.enter(ctx); err != nil {
		return false, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	bm, ok := r.f.bookmarks[id]
	if !ok {
		return false, nil
	}
	b, ok := r.f.boards[bm.BoardID]
	return ok && b.OwnerID == ownerID, nil
}

type fakePlants struct{ f *fakeStore }

func (r fakePlants) Create(ctx context.Context, p models.NewPlant) (int64, error) {
	if err := r.f.enter(ctx); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	id := r.f.id()
	r.f.plants[id] = models.Plant{
		ID: id, UserID: p.UserID, Nickname: p.Nickname, Name: p.Name, Description: p.Description,
		MaxTemp: p.MaxTemp, MinTemp: p.MinTemp, MaxPH: p.MaxPH, MinPH: p.MinPH,
		MaxHum: p.MaxHum, MinHum: p.MinHum, MaxLux: p.MaxLux, MinLux: p.MinLux,
	}
	return id, nil
}

func (r fakePlants) GetByID(ctx context.Context, id int64) (*models.Plant, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.plants[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r fakePlants) ListByUser(ctx context.Context, userID int64) ([]models.Plant, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := []models.Plant{}
	for _, p := range r.f.plants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakePlants) Update(ctx context.Context, id int64, u models.PlantUpdate) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.plants[id]
	if !ok {
		return common.ErrorNotFound
	}
	if u.Nickname != nil {
		p.Nickname = *u.Nickname
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	for _, pair := range []struct {
		dst **float64
		src *float64
	}{
		{&p.MaxTemp, u.MaxTemp}, {&p.MinTemp, u.MinTemp},
		{&p.MaxPH, u.MaxPH}, {&p.MinPH, u.MinPH},
		{&p.MaxHum, u.MaxHum}, {&p.MinHum, u.MinHum},
		{&p.MaxLux, u.MaxLux}, {&p.MinLux, u.MinLux},
	} {
		if pair.src != nil {
			*pair.dst = pair.src
		}
	}
	r.f.plants[id] = p
	return nil
}

func (r fakePlants) Delete(ctx context.Context, id int64) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.plants, id)
	kept := r.f.readings[:0]
	for _, rd := range r.f.readings {
		if rd.PlantID != id {
			kept = append(kept, rd)
		}
	}
	r.f.readings = kept
	return nil
}

func (r fakePlants) ExistsForOwner(ctx context.Context, id, userID int64) (bool, error) {
	if err := r.f.enter(ctx); err != nil {
		return false, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.plants[id]
	return ok && p.UserID == userID, nil
}

func (r fakePlants) ClearPhotoKey(ctx context.Context, id int64, key string) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.plants[id]
	if ok && p.PhotoKey != nil && *p.PhotoKey == key {
		p.PhotoKey = nil
		r.f.plants[id] = p
	}
	return nil
}

func (r fakePlants) SetPhotoKey(ctx context.Context, id int64, key string) error {
	if err := r.f.enter(ctx); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.plants[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.PhotoKey = &key
	r.f.plants[id] = p
	return nil
}

type fakeReadings struct{ f *fakeStore }

func (r fakeReadings) Create(ctx context.Context, nr models.NewReading) (int64, error) {
	if err := r.f.enter(ctx); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.plants[nr.PlantID]; !ok {
		return 0, common.ErrorNotFound
	}
	id := r.f.id()
	r.f.readings = append(r.f.readings, models.Reading{ID: id, PlantID: nr.PlantID, Type: nr.Type, Value: nr.Value})
	return id, nil
}

func (r fakeReadings) ListByPlant(ctx context.Context, plantID int64) ([]models.Reading, error) {
	if err := r.f.enter(ctx); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := []models.Reading{}
	for _, rd := range r.f.readings {
		if rd.PlantID == plantID {
			out = append(out, rd)
		}
	}
	return out, nil
}

// seedUser inserts a user directly, bypassing hashing.
func (f *fakeStore) seedUser(email, hash string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.users[id] = &userRow{user: models.User{ID: id, Email: email}, hash: hash}
	return id
}

// seedReading appends a reading without type validation.
func (f *fakeStore) seedReading(plantID int64, typ string, v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readings = append(f.readings, models.Reading{ID: f.id(), PlantID: plantID, Type: typ, Value: v})
}
