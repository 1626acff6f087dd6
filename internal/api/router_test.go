package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"classfeedback/internal/config"
	"classfeedback/internal/db"
	"classfeedback/internal/domain"
	"classfeedback/internal/store"
	"classfeedback/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	users    *store.UserStore
	feedback *store.FeedbackStore
	cfg      *config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	cfg := &config.Config{
		SecretKey:    "test-secret",
		TemplateGlob: filepath.Join("..", "..", "web", "templates", "*.html"),
	}
	server := httptest.NewServer(NewRouter(gdb, utils.NewCache(nil), cfg))
	t.Cleanup(server.Close)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &testApp{
		server:   server,
		client:   &http.Client{Jar: jar},
		users:    store.NewUserStore(gdb),
		feedback: store.NewFeedbackStore(gdb),
		cfg:      cfg,
	}
}

func (a *testApp) seedUser(t *testing.T, name, email string) domain.User {
	t.Helper()
	u := domain.User{Name: name, Email: email}
	if err := a.users.Create(&u); err != nil {
		t.Fatalf("Failed to seed user %s: %v", name, err)
	}
	return u
}

// get follows redirects and returns the final response with its body.
func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/dashboard", "/give-feedback", "/view-feedback", "/download-given-pdf", "/download-received-pdf"} {
		resp, _ := app.get(t, path)
		if got := resp.Request.URL.Path; got != "/login" {
			t.Errorf("GET %s without a session landed on %s, want /login", path, got)
		}
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postForm(t, "/login", url.Values{"email": {"ghost@example.com"}})
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("landed on %s, want /login", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Email not recognized") {
		t.Error("expected the unknown-email flash on the login page")
	}
}

func TestSetPasswordWithoutPreAuth(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/set-password")
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("landed on %s, want /login", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "No email selected") {
		t.Error("expected the start-from-login flash")
	}
}

// TestFirstLoginFeedbackScenario walks the whole first-login story: email
// resolution, password setup, submission, resubmission, listing, export.
func TestFirstLoginFeedbackScenario(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice", "alice@example.com")
	bob := app.seedUser(t, "Bob", "bob@example.com")

	// A fresh email lands on the set-password page.
	resp, body := app.postForm(t, "/login", url.Values{"email": {"Alice@Example.com"}})
	if resp.Request.URL.Path != "/set-password" {
		t.Fatalf("first login landed on %s, want /set-password", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Alice") {
		t.Error("set-password page does not greet the resolved user")
	}

	// Mismatched entries bounce back and store nothing.
	resp, body = app.postForm(t, "/set-password", url.Values{"password": {"pw1"}, "confirm_password": {"other"}})
	if resp.Request.URL.Path != "/set-password" {
		t.Fatalf("mismatch landed on %s, want /set-password", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Passwords empty or don") {
		t.Error("expected the mismatch flash")
	}
	stored, _ := app.users.ByID(alice.ID)
	if stored.HasPassword() {
		t.Fatal("credential stored despite the mismatch")
	}

	// Matching entries authenticate.
	resp, body = app.postForm(t, "/set-password", url.Values{"password": {"pw1"}, "confirm_password": {"pw1"}})
	if resp.Request.URL.Path != "/dashboard" {
		t.Fatalf("set-password landed on %s, want /dashboard", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Password set! Logged in.") {
		t.Error("expected the password-set flash")
	}

	// First submission creates the (Alice, Bob) record.
	resp, body = app.postForm(t, "/give-feedback", url.Values{
		"recipient_id": {uintString(bob.ID)},
		"content":      {"Great work"},
		"visible":      {"on"},
	})
	if resp.Request.URL.Path != "/give-feedback" {
		t.Fatalf("submission landed on %s, want /give-feedback", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Feedback sent!") {
		t.Error("expected the sent flash")
	}
	first, err := app.feedback.ForPair(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("feedback row not created: %v", err)
	}
	if first.Content != "Great work" {
		t.Errorf("unexpected content: %q", first.Content)
	}

	// Resubmission mutates the same row.
	_, body = app.postForm(t, "/give-feedback", url.Values{
		"recipient_id": {uintString(bob.ID)},
		"content":      {"Even better"},
		"visible":      {"on"},
	})
	if !strings.Contains(body, "Feedback updated!") {
		t.Error("expected the updated flash")
	}
	second, err := app.feedback.ForPair(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("feedback row vanished: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("resubmission changed identity: %d -> %d", first.ID, second.ID)
	}
	if second.Content != "Even better" {
		t.Errorf("resubmission did not overwrite content: %q", second.Content)
	}

	// The listing shows the final content.
	_, body = app.get(t, "/view-feedback")
	if !strings.Contains(body, "Even better") {
		t.Error("view page does not show the updated feedback")
	}

	// The export streams a PDF attachment.
	resp, body = app.get(t, "/download-given-pdf")
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "given_feedbacks.pdf") {
		t.Error("missing attachment disposition")
	}
	if !strings.HasPrefix(body, "%PDF") {
		t.Error("export is not a PDF")
	}

	// Logging out and back in exercises the returning-user branch.
	app.get(t, "/logout")
	resp, _ = app.get(t, "/dashboard")
	if resp.Request.URL.Path != "/login" {
		t.Fatal("session survived logout")
	}
	resp, body = app.postForm(t, "/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong"}})
	if resp.Request.URL.Path != "/login" || !strings.Contains(body, "Incorrect password.") {
		t.Error("wrong password was not rejected")
	}
	resp, body = app.postForm(t, "/login", url.Values{"email": {"alice@example.com"}, "password": {"pw1"}})
	if resp.Request.URL.Path != "/dashboard" {
		t.Fatalf("returning login landed on %s, want /dashboard", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Welcome, Alice!") {
		t.Error("expected the welcome flash")
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice", "alice@example.com")
	app.seedUser(t, "Bob", "bob@example.com")
	loginFirstTime(t, app, "alice@example.com")

	t.Run("empty content", func(t *testing.T) {
		_, body := app.postForm(t, "/give-feedback", url.Values{
			"recipient_id": {"2"},
			"content":      {"   "},
		})
		if !strings.Contains(body, "Feedback cannot be empty.") {
			t.Error("expected the empty-content flash")
		}
	})

	t.Run("self feedback", func(t *testing.T) {
		_, body := app.postForm(t, "/give-feedback", url.Values{
			"recipient_id": {uintString(alice.ID)},
			"content":      {"note to self"},
		})
		if !strings.Contains(body, "cannot give feedback to yourself") {
			t.Error("expected the self-feedback flash")
		}
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, body := app.postForm(t, "/give-feedback", url.Values{
			"recipient_id": {"9999"},
			"content":      {"hello"},
		})
		if !strings.Contains(body, "Recipient not found.") {
			t.Error("expected the unknown-recipient flash")
		}
	})
}

func TestGiveFeedbackPageExcludesSelf(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Alice", "alice@example.com")
	app.seedUser(t, "Bob", "bob@example.com")
	loginFirstTime(t, app, "alice@example.com")

	_, body := app.get(t, "/give-feedback")
	if !strings.Contains(body, "Bob") {
		t.Error("expected Bob to be offered as a recipient")
	}
	if strings.Contains(body, "feedback for Alice") {
		t.Error("the sender must not be offered as a recipient")
	}
}

func TestAdminEndpoints(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Alice", "alice@example.com")

	t.Run("rejects missing token", func(t *testing.T) {
		resp, err := http.Get(app.server.URL + "/admin/users")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	token, err := utils.GenerateAdminToken(app.cfg.SecretKey)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		bad, _ := utils.GenerateAdminToken("other-secret")
		resp := adminRequest(t, app, "GET", "/admin/users", bad, "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("lists users with a valid token", func(t *testing.T) {
		resp := adminRequest(t, app, "GET", "/admin/users", token, "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var payload struct {
			Users []domain.User `json:"users"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(payload.Users) != 1 || payload.Users[0].Name != "Alice" {
			t.Errorf("unexpected roster: %+v", payload.Users)
		}
	})

	t.Run("adds a user and is safe to repeat", func(t *testing.T) {
		body := `{"name":"Sri Devi","email":"sridevi@example.com"}`
		resp := adminRequest(t, app, "POST", "/admin/users", token, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		resp = adminRequest(t, app, "POST", "/admin/users", token, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("repeat add: expected 200, got %d", resp.StatusCode)
		}
		if _, err := app.users.ByEmail("sridevi@example.com"); err != nil {
			t.Fatalf("added user not found: %v", err)
		}
	})
}

func adminRequest(t *testing.T, app *testApp, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, app.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// loginFirstTime drives a credential-less user through email resolution
// and password setup so the client's session is authenticated.
func loginFirstTime(t *testing.T, app *testApp, email string) {
	t.Helper()
	resp, _ := app.postForm(t, "/login", url.Values{"email": {email}})
	if resp.Request.URL.Path != "/set-password" {
		t.Fatalf("login landed on %s, want /set-password", resp.Request.URL.Path)
	}
	resp, _ = app.postForm(t, "/set-password", url.Values{"password": {"pw"}, "confirm_password": {"pw"}})
	if resp.Request.URL.Path != "/dashboard" {
		t.Fatalf("set-password landed on %s, want /dashboard", resp.Request.URL.Path)
	}
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
