package handler_test

import (
	"FileVault/config"
	"FileVault/internal/dto"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"FileVault/router"
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var testRouter *gin.Engine
var testStore *storage.MemoryStore
var errBlobDown = errors.New("blob store down")

// TestMain sets up the test environment.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.InitConfig()
	repo.InitSqliteTest()
	testStore = storage.NewMemoryStore()
	storage.Default = testStore
	testRouter = router.InitRouter()
	os.Exit(m.Run())
}

func cleanTables(t *testing.T) {
	t.Helper()
	tables := []string{"service_action_log", "file", "user_account"}
	for _, table := range tables {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
	testStore.PutHook = nil
	testStore.GetHook = nil
}

func doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, name, email string) string {
	t.Helper()
	rec := doJSON(t, http.MethodPost, "/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("register response missing token")
	}
	return resp.Token
}

func uploadFiles(t *testing.T, token string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		fw, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/files/upload-multiple", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &resp)
	if resp.Status != "ok" {
		t.Fatalf("status = %q, want ok", resp.Status)
	}
}

func TestRegisterValidation(t *testing.T) {
	cleanTables(t)

	rec := doJSON(t, http.MethodPost, "/register", "", gin.H{"name": "no creds"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields returned %d, want 400", rec.Code)
	}

	registerUser(t, "First", "taken@test.com")
	rec = doJSON(t, http.MethodPost, "/register", "", gin.H{
		"name":     "Second",
		"email":    "taken@test.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email returned %d, want 409", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	cleanTables(t)
	token := registerUser(t, "Login User", "login@test.com")

	rec := doJSON(t, http.MethodPost, "/login", "", gin.H{
		"email":    "login@test.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token != token {
		t.Fatal("login must return the registration token unchanged")
	}

	rec = doJSON(t, http.MethodPost, "/login", "", gin.H{
		"email":    "login@test.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password returned %d, want 401", rec.Code)
	}
}

func TestAuthGate(t *testing.T) {
	cleanTables(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/files/list"},
		{http.MethodPost, "/files/upload-multiple"},
		{http.MethodPost, "/files/download-multiple"},
	}
	for _, tokenHeader := range []string{"", "Basic abc", "Bearer not-a-real-token"} {
		for _, ep := range endpoints {
			req := httptest.NewRequest(ep.method, ep.path, strings.NewReader("{}"))
			if tokenHeader != "" {
				req.Header.Set("Authorization", tokenHeader)
			}
			rec := httptest.NewRecorder()
			testRouter.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s with header %q returned %d, want 401", ep.method, ep.path, tokenHeader, rec.Code)
			}
		}
	}

	var count int64
	repo.Db.Model(&model.ServiceActionLog{}).Count(&count)
	if count != 0 {
		t.Fatalf("unauthenticated requests wrote %d log rows", count)
	}
}

func TestUploadListDownloadFlow(t *testing.T) {
	cleanTables(t)
	token := registerUser(t, "Flow User", "flow@test.com")

	content := map[string][]byte{
		"notes.txt":  []byte("some notes"),
		"photo.webp": {0x52, 0x49, 0x46, 0x46},
	}
	rec := uploadFiles(t, token, content)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}
	var uploadResp dto.MultiUploadResponse
	decodeBody(t, rec, &uploadResp)
	if uploadResp.Uploaded != 2 || len(uploadResp.FailedUploads) != 0 {
		t.Fatalf("upload outcome %+v, want 2 successes", uploadResp)
	}

	rec = doJSON(t, http.MethodGet, "/files/list?page=1&limit=30", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
	}
	var listResp dto.FileListResponse
	decodeBody(t, rec, &listResp)
	if listResp.TotalFiles != 2 || len(listResp.Files) != 2 {
		t.Fatalf("list outcome %+v, want 2 files", listResp)
	}

	uuids := []string{listResp.Files[0].UUID, listResp.Files[1].UUID}
	rec = doJSON(t, http.MethodPost, "/files/download-multiple", token, gin.H{"filesUuids": uuids})
	if rec.Code != http.StatusOK {
		t.Fatalf("download returned %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q, want application/zip", ct)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "_downloaded_files.zip") {
		t.Fatalf("unexpected content disposition %q", disposition)
	}

	archive := rec.Body.Bytes()
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(reader.File))
	}
}

func TestDownloadForeignUuid(t *testing.T) {
	cleanTables(t)
	ownerToken := registerUser(t, "Owner", "owner@test.com")
	intruderToken := registerUser(t, "Intruder", "intruder@test.com")

	rec := uploadFiles(t, ownerToken, map[string][]byte{"secret.txt": []byte("private")})
	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d", rec.Code)
	}

	listRec := doJSON(t, http.MethodGet, "/files/list", ownerToken, nil)
	var listResp dto.FileListResponse
	decodeBody(t, listRec, &listResp)

	rec = doJSON(t, http.MethodPost, "/files/download-multiple", intruderToken, gin.H{
		"filesUuids": []string{listResp.Files[0].UUID},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign download returned %d, want 404", rec.Code)
	}

	var count int64
	repo.Db.Model(&model.ServiceActionLog{}).Where("action = ?", model.ActionDownload).Count(&count)
	if count != 0 {
		t.Fatalf("failed download wrote %d log rows", count)
	}
}

func TestDownloadValidation(t *testing.T) {
	cleanTables(t)
	token := registerUser(t, "Validator", "validate@test.com")

	rec := doJSON(t, http.MethodPost, "/files/download-multiple", token, gin.H{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing filesUuids returned %d, want 400", rec.Code)
	}

	rec = doJSON(t, http.MethodPost, "/files/download-multiple", token, gin.H{"filesUuids": []string{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty filesUuids returned %d, want 400", rec.Code)
	}
}

func TestUploadPartialFailureOverHTTP(t *testing.T) {
	cleanTables(t)
	token := registerUser(t, "Partial", "partial@test.com")

	testStore.PutHook = func(object string) error {
		if strings.HasSuffix(object, "broken.txt") {
			return errBlobDown
		}
		return nil
	}

	rec := uploadFiles(t, token, map[string][]byte{
		"fine.txt":   []byte("ok"),
		"broken.txt": []byte("nope"),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("partial upload returned %d, want 200", rec.Code)
	}
	var resp dto.MultiUploadResponse
	decodeBody(t, rec, &resp)
	if resp.Uploaded != 1 || len(resp.FailedUploads) != 1 {
		t.Fatalf("outcome %+v, want 1 success and 1 failure", resp)
	}
	if resp.FailedUploads[0].Filename != "broken.txt" {
		t.Fatalf("failed filename = %q", resp.FailedUploads[0].Filename)
	}
}
