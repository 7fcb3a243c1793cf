package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/models"
)

// fakeLoader is an in-memory Loader. Ownership maps resource id to user id;
// a missing entry is treated as a resource owned by someone else.
type fakeLoader struct {
	sessions map[string]*models.User

	plantOwner    map[int64]int64
	boardOwner    map[int64]int64
	bookmarkOwner map[int64]int64

	// err, when set, is returned by every data operation.
	err error

	registered  models.NewUser
	newPlant    models.NewPlant
	plantUpdate models.PlantUpdate
	newBoard    models.NewBoard
	newBookmark models.NewBookmark
	newReading  models.NewReading
	page        models.Page
	listedBoard int64
	deleted     []int64
	destroyed   []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		sessions:      map[string]*models.User{},
		plantOwner:    map[int64]int64{},
		boardOwner:    map[int64]int64{},
		bookmarkOwner: map[int64]int64{},
	}
}

func (f *fakeLoader) Register(_ context.Context, u models.NewUser) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = u
	return &models.User{ID: 1, Email: u.Email, Phone: u.Phone}, nil
}

func (f *fakeLoader) CreateSession(_ context.Context, email, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for token, u := range f.sessions {
		if u.Email == email && password == "correct horse" {
			return token, nil
		}
	}
	return "", common.ErrInvalidCredentials
}

func (f *fakeLoader) ResolveSession(_ context.Context, token string) (*models.User, bool, error) {
	u, ok := f.sessions[token]
	return u, ok, nil
}

func (f *fakeLoader) DestroySession(_ context.Context, token string) error {
	f.destroyed = append(f.destroyed, token)
	delete(f.sessions, token)
	return nil
}

func owned(owners map[int64]int64, id, userID int64) (bool, error) {
	if owner, ok := owners[id]; ok && owner == userID {
		return true, nil
	}
	return false, common.ErrAccessDenied
}

func (f *fakeLoader) BoardOwnedBy(_ context.Context, id, userID int64) (bool, error) {
	return owned(f.boardOwner, id, userID)
}

func (f *fakeLoader) BookmarkOwnedBy(_ context.Context, id, userID int64) (bool, error) {
	return owned(f.bookmarkOwner, id, userID)
}

func (f *fakeLoader) PlantOwnedBy(_ context.Context, id, userID int64) (bool, error) {
	return owned(f.plantOwner, id, userID)
}

func (f *fakeLoader) GetBoard(_ context.Context, id int64) (*models.Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.boardOwner[id]; !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Board{ID: id, OwnerID: f.boardOwner[id], Title: "Herbs"}, nil
}

func (f *fakeLoader) ListBoards(_ context.Context, ownerID int64, page models.Page) ([]models.Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.page = page
	return []models.Board{{ID: 1, OwnerID: ownerID, Title: "Herbs"}}, nil
}

func (f *fakeLoader) CreateBoard(_ context.Context, b models.NewBoard) (*models.Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.newBoard = b
	return &models.Board{ID: 10, OwnerID: b.OwnerID, Title: b.Title}, nil
}

func (f *fakeLoader) UpdateBoard(_ context.Context, id int64, u models.BoardUpdate) (*models.Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := &models.Board{ID: id, Title: "Herbs"}
	if u.Title != nil {
		b.Title = *u.Title
	}
	return b, nil
}

func (f *fakeLoader) DeleteBoard(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLoader) ListBookmarks(_ context.Context, boardID int64, page models.Page) ([]models.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listedBoard = boardID
	f.page = page
	return []models.Bookmark{}, nil
}

func (f *fakeLoader) CreateBookmark(_ context.Context, b models.NewBookmark) (*models.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.newBookmark = b
	return &models.Bookmark{ID: 20, BoardID: b.BoardID, Title: b.Title}, nil
}

func (f *fakeLoader) UpdateBookmark(_ context.Context, id int64, _ models.BookmarkUpdate) (*models.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Bookmark{ID: id}, nil
}

func (f *fakeLoader) DeleteBookmark(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLoader) ListPlants(_ context.Context, userID int64) ([]models.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Plant{{ID: 1, UserID: userID, Name: "Basil"}}, nil
}

func (f *fakeLoader) CreatePlant(_ context.Context, p models.NewPlant) (*models.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.newPlant = p
	return &models.Plant{ID: 5, UserID: p.UserID, Name: p.Name}, nil
}

func (f *fakeLoader) UpdatePlant(_ context.Context, id int64, u models.PlantUpdate) (*models.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.plantUpdate = u
	return &models.Plant{ID: id}, nil
}

func (f *fakeLoader) DeletePlant(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLoader) GetPlantWithReadings(_ context.Context, id int64) (*models.PlantWithReadings, error) {
	if f.err != nil {
		return nil, f.err
	}
	readings, _ := models.GroupReadings([]models.Reading{
		{ID: 1, PlantID: id, Type: models.ReadingTemperature, Value: 21.5, CreatedAt: time.Unix(0, 0)},
	})
	return &models.PlantWithReadings{Plant: models.Plant{ID: id, Name: "Basil"}, Readings: readings}, nil
}

func (f *fakeLoader) RecordReading(_ context.Context, r models.NewReading) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.newReading = r
	return 99, nil
}

func (f *fakeLoader) PhotoUploadURL(_ context.Context, plantID int64) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "plants/1/2026/10/abc", "https://s3.local/put", nil
}

func (f *fakeLoader) PhotoDownloadURL(_ context.Context, plantID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.local/get", nil
}

const testToken = "tok-alice"

func newTestServer(t *testing.T) (*Server, *fakeLoader) {
	t.Helper()
	loader := newFakeLoader()
	loader.sessions[testToken] = &models.User{ID: 7, Email: "alice@example.com"}
	return NewServer(":0", logging.Discard(), loader, []string{"*"}), loader
}

func newRequest(method, path, body string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	return httptest.NewRequest(method, path, rdr)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// do sends a request through the router. An empty token sends no
// Authorization header.
func do(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	return serve(s, req)
}
