package password

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
)

func TestValidateStrength(t *testing.T) {
	tests := []struct {
		name    string
		senha   string
		wantErr bool
	}{
		{"accepts a strong password", "s3gur4-f0rte", false},
		{"accepts exactly six characters", "abcdef", false},
		{"rejects five characters", "abcde", true},
		{"rejects empty password", "", true},
		{"rejects deny-listed password", "123456", true},
		{"rejects deny-listed password case-insensitively", "QwErTy", true},
		{"rejects senha", "senha", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStrength(tt.senha)
			if tt.wantErr {
				var weak *apperr.WeakPasswordError
				if !errors.As(err, &weak) {
					t.Errorf("expected WeakPasswordError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected password to be accepted, got %v", err)
			}
		})
	}
}

// rangeResponse builds an HIBP range body containing the suffix of senha with
// the given count, padded with unrelated candidate lines.
func rangeResponse(senha string, count int) string {
	digest := fmt.Sprintf("%X", sha1.Sum([]byte(senha)))
	suffix := digest[5:]
	return "0018A45C4D1DEF81644B54AB7F969B88D65:3\r\n" +
		suffix + ":" + fmt.Sprint(count) + "\r\n" +
		"011053FD0102E94D6AE2F8B83D76FAF94F6:1\r\n"
}

func TestIsBreached(t *testing.T) {
	const senha = "correct horse battery staple"

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "breached - suffix listed with positive count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, rangeResponse(senha, 42))
			},
			want: true,
		},
		{
			name: "clean - suffix absent from candidate list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "0018A45C4D1DEF81644B54AB7F969B88D65:3\r\n")
			},
			want: false,
		},
		{
			name: "clean - suffix listed with zero count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, rangeResponse(senha, 0))
			},
			want: false,
		},
		{
			name: "fail open - server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			checker := NewBreachCheckerWithURL(server.URL)
			if got := checker.IsBreached(senha); got != tt.want {
				t.Errorf("IsBreached = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBreachedSendsOnlyHashPrefix(t *testing.T) {
	const senha = "s3gur4-f0rte"
	digest := fmt.Sprintf("%X", sha1.Sum([]byte(senha)))

	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
	}))
	defer server.Close()

	NewBreachCheckerWithURL(server.URL).IsBreached(senha)

	if want := "/" + digest[:5]; requestedPath != want {
		t.Errorf("expected request for %s, got %s", want, requestedPath)
	}
}

func TestIsBreachedFailsOpenWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	checker := NewBreachCheckerWithURL(server.URL)
	if checker.IsBreached("s3gur4-f0rte") {
		t.Error("unreachable service must report not breached")
	}
}
