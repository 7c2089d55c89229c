package testutils

import (
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// FakeAPI is an in-process todo backend served over httptest. It keeps
// everything in memory and implements the auth, list and task routes under
// /api.
type FakeAPI struct {
	t      testing.TB
	server *httptest.Server
	secret []byte

	requests atomic.Int64

	mu        sync.Mutex
	users     map[string]*fakeUser
	emails    map[string]string
	lists     map[string]*fakeList
	tasks     map[string]*model.Task
	revoked   map[string]bool
	logins    []LoginRecord
	failures  map[string]Failure
	holds     map[string]chan struct{}
	lastCalls []Call
}

type fakeUser struct {
	model.User
	passwordHash string
}

type fakeList struct {
	model.TodoList
	ownerID string
}

// LoginRecord is what the fake API remembers about a successful login.
type LoginRecord struct {
	UserID    string
	Browser   string
	OS        string
	Bot       bool
	RequestID string
	At        time.Time
}

// Call is one request as the fake API saw it.
type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	UserAgent     string
}

// Failure is a canned error response.
type Failure struct {
	Status int
	Body   gin.H
}

func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("generate secret: %v", err)
	}

	f := &FakeAPI{
		t:        t,
		secret:   secret,
		users:    make(map[string]*fakeUser),
		emails:   make(map[string]string),
		lists:    make(map[string]*fakeList),
		tasks:    make(map[string]*model.Task),
		revoked:  make(map[string]bool),
		failures: make(map[string]Failure),
		holds:    make(map[string]chan struct{}),
	}
	f.server = httptest.NewServer(f.routes())
	t.Cleanup(func() {
		f.releaseAll()
		f.server.Close()
	})
	return f
}

// URL is the API base URL, including the /api prefix.
func (f *FakeAPI) URL() string {
	return f.server.URL + "/api"
}

// Requests counts every request that reached the server.
func (f *FakeAPI) Requests() int {
	return int(f.requests.Load())
}

func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.lastCalls...)
}

func (f *FakeAPI) Logins() []LoginRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LoginRecord(nil), f.logins...)
}

// Fail makes every request to "METHOD /path" (path without the /api prefix,
// with the route's parameters filled in) answer with status and body until
// ClearFailures.
func (f *FakeAPI) Fail(method, path string, status int, body gin.H) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = Failure{Status: status, Body: body}
}

func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]Failure)
}

// Hold blocks requests to "METHOD /path" until the returned func is called.
func (f *FakeAPI) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[method+" "+path] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.holds[method+" "+path] == ch {
				delete(f.holds, method+" "+path)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *FakeAPI) releaseAll() {
	f.mu.Lock()
	holds := f.holds
	f.holds = make(map[string]chan struct{})
	f.mu.Unlock()
	for _, ch := range holds {
		close(ch)
	}
}

// SeedUser registers an account directly and returns it with a valid token.
func (f *FakeAPI) SeedUser(username, email, password string) (model.User, string) {
	f.t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	f.mu.Lock()
	user := f.addUserLocked(username, email, hash)
	f.mu.Unlock()
	return user, f.IssueToken(user.UserID)
}

// SetUsername changes an account server-side, as another client would.
func (f *FakeAPI) SetUsername(userID, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.Username = username
	}
}

// DeleteUser removes an account; its tokens stop working.
func (f *FakeAPI) DeleteUser(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		delete(f.emails, strings.ToLower(u.Email))
		delete(f.users, userID)
	}
}

// SeedList creates a list owned by userID.
func (f *FakeAPI) SeedList(userID, title string) model.TodoList {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := &fakeList{
		TodoList: model.TodoList{ListID: newID(), Title: title, CreatedAt: time.Now().UTC()},
		ownerID:  userID,
	}
	f.lists[list.ListID] = list
	return list.TodoList
}

// Task returns the server's copy of a task.
func (f *FakeAPI) Task(id string) (model.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return model.Task{}, false
	}
	return cloneTask(task), true
}

func (f *FakeAPI) addUserLocked(username, email, hash string) model.User {
	user := &fakeUser{
		User:         model.User{UserID: newID(), Username: username, Email: email},
		passwordHash: hash,
	}
	f.users[user.UserID] = user
	f.emails[strings.ToLower(email)] = user.UserID
	return user.User
}

func (f *FakeAPI) recordLogin(userID string, r *http.Request) {
	ua := useragent.Parse(r.UserAgent())
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, LoginRecord{
		UserID:    userID,
		Browser:   ua.Name,
		OS:        ua.OS,
		Bot:       ua.Bot,
		RequestID: r.Header.Get("X-Request-ID"),
		At:        time.Now().UTC(),
	})
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func cloneTask(t *model.Task) model.Task {
	out := *t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if t.Reminder != nil {
		r := *t.Reminder
		out.Reminder = &r
	}
	return out
}
