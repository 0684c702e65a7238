package utils

import (
	"FileVault/model"
	"encoding/json"
	"regexp"
	"testing"
)

func TestGetPwdAndCheckPwd(t *testing.T) {
	hash := GetPwd("hunter2")
	if hash == "hunter2" {
		t.Fatal("password not hashed")
	}
	if !CheckPwd("hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPwd("hunter3", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestGenerateAuthToken(t *testing.T) {
	hexToken := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		token := GenerateAuthToken()
		if !hexToken.MatchString(token) {
			t.Fatalf("token %q is not 32 hex chars", token)
		}
		if seen[token] {
			t.Fatalf("token %q repeated", token)
		}
		seen[token] = true
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"  spaced.txt ", "spaced.txt"},
		{"../../etc/passwd", "____etc_passwd"},
		{"dir\\sub\\name.txt", "dir_sub_name.txt"},
		{"", "unnamed"},
		{".", "unnamed"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCachedUserCarriesNoCredentials(t *testing.T) {
	original := model.User{
		ID:       7,
		UUID:     "user-uuid",
		Name:     "cached user",
		Email:    "cached@test.com",
		Password: "$2a$10$hash",
		Token:    "deadbeefdeadbeefdeadbeefdeadbeef",
	}

	encoded, err := json.Marshal(&original)
	if err != nil {
		t.Fatal(err)
	}

	var restored model.User
	if err := json.Unmarshal(encoded, &restored); err != nil {
		t.Fatal(err)
	}
	if restored.ID != original.ID || restored.UUID != original.UUID || restored.Email != original.Email {
		t.Fatalf("identity fields lost: %+v", restored)
	}
	if restored.Password != "" || restored.Token != "" {
		t.Fatalf("credentials survived the round trip: %+v", restored)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := BuildCacheKey("user:file:list", uint64(7), 1, 30); got != "user:file:list:7:1:30" {
		t.Fatalf("got %q", got)
	}
}
