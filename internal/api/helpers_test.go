package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"dorm_booking/internal/db/dbtest"
	"dorm_booking/internal/domain"
	"dorm_booking/internal/flash"
	"dorm_booking/internal/ledger"
	"dorm_booking/internal/middleware"
	"dorm_booking/internal/notify"
	"dorm_booking/internal/receipts"
	"dorm_booking/internal/utils"
	"dorm_booking/internal/workflow"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type sentMail struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (s *sentMail) Send(ctx context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

type testEnv struct {
	deps   *Deps
	db     *gorm.DB
	router *gin.Engine
	store  *receipts.DiskStore
	mail   *sentMail
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := dbtest.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := receipts.NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	mail := &sentMail{}
	templates := notify.NewTemplateStore(gdb)
	d := &Deps{
		DB:         gdb,
		Redis:      rdb,
		Flash:      flash.NewStore(rdb, time.Minute),
		Workflow:   workflow.NewService(gdb, store, notify.NewDispatcher(templates, mail)),
		Ledger:     ledger.New(gdb),
		Templates:  templates,
		JWTSecret:  testSecret,
		SessionTTL: time.Hour,
	}
	return &testEnv{deps: d, db: gdb, router: NewRouter(d), store: store, mail: mail}
}

func (e *testEnv) room(t *testing.T, id uint, total, booked int) domain.Room {
	t.Helper()
	room := domain.Room{
		ID: id, Building: 2, RoomType: "Double", FloorNumber: 3,
		Description: "Corner room facing the quad", TotalRooms: total, BookedRooms: booked, ImageURL: "/static/r.jpg",
	}
	require.NoError(t, e.deps.Ledger.Create(context.Background(), &room))
	return room
}

func (e *testEnv) user(t *testing.T, userID int64, role domain.Role, password string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := domain.User{
		UserID: userID, FirstName: "Grace", LastName: "Hopper", Role: role,
		Email:    fmt.Sprintf("user%d@uni.edu", userID),
		Password: string(hash),
	}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func (e *testEnv) application(t *testing.T, id uint, studentID int64, roomID uint, status domain.Status) domain.Application {
	t.Helper()
	app := domain.Application{
		ID: id, StudentID: studentID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@uni.edu",
		Telephone: "555-0100", Gender: "Female", EducationLevel: "Undergraduate", ProgramType: "Full Time",
		ReasonForApplying: "Close to the library", Agreement: true, RoomID: &roomID, Status: status,
	}
	require.NoError(t, e.db.Create(&app).Error)
	return app
}

// client is a browser stand-in that keeps cookies between requests
type client struct {
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (e *testEnv) anonymous() *client {
	return &client{router: e.router, cookies: map[string]*http.Cookie{}}
}

// as returns a client holding a valid session for u
func (e *testEnv) as(t *testing.T, u domain.User) *client {
	t.Helper()
	token, err := utils.GenerateJWT(u.UserID, u.Role, testSecret, time.Hour)
	require.NoError(t, err)
	c := e.anonymous()
	c.cookies[middleware.SessionCookie] = &http.Cookie{Name: middleware.SessionCookie, Value: token}
	return c
}

func (c *client) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil, "")
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *client) upload(t *testing.T, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("receipt", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return c.do(http.MethodPost, path, &buf, mw.FormDataContentType())
}

func applicationForm(studentID string, roomID string) url.Values {
	return url.Values{
		"room_id":             {roomID},
		"student_id":          {studentID},
		"first_name":          {"Ada"},
		"last_name":           {"Lovelace"},
		"email":               {"ada@uni.edu"},
		"telephone":           {"555-0100"},
		"gender":              {"Female"},
		"education_level":     {"Undergraduate"},
		"program_type":        {"Full Time"},
		"reason_for_applying": {"Close to the library"},
		"agreement":           {"on"},
	}
}
