package handlers_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kavya-builds/demodrop/internal/api"
	"github.com/kavya-builds/demodrop/internal/api/handlers"
	"github.com/kavya-builds/demodrop/internal/assets"
	"github.com/kavya-builds/demodrop/internal/config"
	"github.com/kavya-builds/demodrop/internal/ingest"
	"github.com/kavya-builds/demodrop/internal/models"
	"github.com/kavya-builds/demodrop/internal/repositories"
)

const testPassword = "hunter2"

type testServer struct {
	router http.Handler
	repo   *repositories.SubmissionRepo
}

func newTestServer(t *testing.T, cfg config.Config) *testServer {
	t.Helper()

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-secret"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = testPassword
	}
	if cfg.LoginPerMinute == 0 {
		cfg.LoginPerMinute = 60
	}
	if cfg.LoginBurst == 0 {
		cfg.LoginBurst = 20
	}

	repo, err := repositories.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	store := assets.NewDiskStore(t.TempDir())
	ingestor := ingest.New(repo, store)
	h, err := handlers.New(repo, store, ingestor, cfg)
	if err != nil {
		t.Fatalf("build handlers: %v", err)
	}

	return &testServer{router: api.NewRouter(h, cfg), repo: repo}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

type filePart struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files []filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create file part %s: %v", f.name, err)
		}
		if _, err := fw.Write(f.content); err != nil {
			t.Fatalf("write file part %s: %v", f.name, err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func loginRequest(password string) *http.Request {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func login(t *testing.T, ts *testServer) *http.Cookie {
	t.Helper()
	rec := ts.do(loginRequest(testPassword))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("login redirect = %q, want /admin", loc)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_session" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestSubmitAndReviewFlow(t *testing.T) {
	ts := newTestServer(t, config.Config{})

	// Artist submits one track with a cover.
	rec := ts.do(multipartRequest(t,
		map[string]string{
			"albumName":   "Test",
			"releaseDate": "2026-05-01",
			"platforms":   "spotify, bandcamp",
			"numSongs":    "1",
			"tracks":      `[{"title":"A","fileName":"a.mp3"}]`,
		},
		[]filePart{
			{field: "cover", name: "cover.jpg", content: []byte("jpeg")},
			{field: "trackFiles", name: "a.mp3", content: []byte("audio")},
		},
	))
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body)
	}
	var submitResp struct {
		OK bool      `json:"ok"`
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitResp); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if !submitResp.OK || submitResp.ID == uuid.Nil {
		t.Fatalf("submit response = %+v", submitResp)
	}
	id := submitResp.ID.String()

	// Without a session the admin API redirects instead of serving data.
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/admin/api/submissions", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("unauthenticated list: status %d, location %q", rec.Code, rec.Header().Get("Location"))
	}

	// Wrong password bounces back to the form with an error flag.
	rec = ts.do(loginRequest("wrong"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login?err=1" {
		t.Fatalf("bad login: status %d, location %q", rec.Code, rec.Header().Get("Location"))
	}

	cookie := login(t, ts)
	authed := func(method, path string, body *bytes.Reader) *http.Request {
		var req *http.Request
		if body != nil {
			req = httptest.NewRequest(method, path, body)
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.AddCookie(cookie)
		return req
	}

	// The stored record is visible with the matched file and pending status.
	rec = ts.do(authed(http.MethodGet, "/admin/api/submissions/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var sub models.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if sub.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", sub.Status)
	}
	if len(sub.Tracks) != 1 || sub.Tracks[0].FilePath != id+"/a.mp3" {
		t.Errorf("tracks = %+v", sub.Tracks)
	}

	// Approve, then approve again: the second note wins.
	rec = ts.do(authed(http.MethodPost, "/admin/api/submissions/"+id+"/approve", bytes.NewReader([]byte(`{"note":"solid"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d", rec.Code)
	}
	rec = ts.do(authed(http.MethodPost, "/admin/api/submissions/"+id+"/approve", bytes.NewReader([]byte(`{"note":"still solid"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("re-approve status = %d", rec.Code)
	}

	rec = ts.do(authed(http.MethodGet, "/admin/api/submissions/"+id, nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if sub.Status != models.StatusApproved || sub.AdminNote != "still solid" {
		t.Errorf("after re-approve: status %q, note %q", sub.Status, sub.AdminNote)
	}

	// Download the archive: cover + audio + metadata.
	rec = ts.do(authed(http.MethodGet, "/admin/download/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, body %s", rec.Code, rec.Body)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="Test.zip"` {
		t.Errorf("content-disposition = %q", cd)
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 3 {
		entries := make([]string, len(zr.File))
		for i, f := range zr.File {
			entries[i] = f.Name
		}
		t.Errorf("archive entries = %v, want 3", entries)
	}
}

func TestSubmitInvalidMetadata(t *testing.T) {
	ts := newTestServer(t, config.Config{})

	rec := ts.do(multipartRequest(t,
		map[string]string{
			"albumName": "Broken",
			"tracks":    "not json",
		},
		[]filePart{{field: "trackFiles", name: "a.mp3", content: []byte("audio")}},
	))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "invalid track metadata" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestUnknownSubmissionIs404(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	cookie := login(t, ts)

	for _, path := range []string{
		"/admin/api/submissions/" + uuid.NewString(),
		"/admin/download/" + uuid.NewString(),
		"/admin/api/submissions/not-a-uuid",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		if rec := ts.do(req); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestDownloadMissingAssets(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	cookie := login(t, ts)

	// A record whose asset directory never existed.
	sub := models.Submission{ID: uuid.New(), AlbumName: "Ghost", Status: models.StatusPending}
	if err := ts.repo.Create(&sub); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/download/"+sub.ID.String(), nil)
	req.AddCookie(cookie)
	rec := ts.do(req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "files missing") {
		t.Errorf("body = %q, want files missing", rec.Body)
	}
}

func TestLoginRateLimit(t *testing.T) {
	ts := newTestServer(t, config.Config{LoginPerMinute: 1, LoginBurst: 2})

	// Exhaust the burst with bad attempts, then expect the throttle flag.
	for i := 0; i < 2; i++ {
		rec := ts.do(loginRequest("wrong"))
		if loc := rec.Header().Get("Location"); loc != "/admin/login?err=1" {
			t.Fatalf("attempt %d: location = %q", i+1, loc)
		}
	}
	rec := ts.do(loginRequest(testPassword))
	if loc := rec.Header().Get("Location"); loc != "/admin/login?err=2" {
		t.Errorf("throttled attempt: location = %q, want /admin/login?err=2", loc)
	}
}
