package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKeywordCategory(t *testing.T) {
	cases := map[string]string{
		"Scan KTP suami":            "Identitas",
		"Akta kelahiran anak kedua": "Kependudukan",
		"Ijazah SMA":                "Pendidikan",
		"SK Pengangkatan CPNS":      "Kepegawaian",
		"surat keterangan sehat":    "Kesehatan",
		"slip gaji bulan Juni":      "Keuangan",
		"SKCK dari Polres":          "Lainnya",
		"dokumen tanpa kata kunci":  "",
	}
	for desc, want := range cases {
		assert.Equal(t, want, KeywordCategory(desc), desc)
	}
}

func TestSuggest_KeywordOnly(t *testing.T) {
	svc := NewService("", "", 0, zap.NewNop())
	assert.Equal(t, 3*time.Second, svc.Timeout)

	assert.Equal(t, Suggestion{Category: "Pendidikan", Source: SourceKeyword}, svc.Suggest(context.Background(), "Rapor semester 1"))
	assert.Equal(t, Suggestion{}, svc.Suggest(context.Background(), "   "))
	assert.Equal(t, Suggestion{}, svc.Suggest(context.Background(), "xyz"))
}

func TestSuggest_Remote(t *testing.T) {
	var got struct {
		Description string   `json:"description"`
		Categories  []string `json:"categories"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"kesehatan"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "kunci", time.Second, zap.NewNop())
	s := svc.Suggest(context.Background(), "hasil lab")
	assert.Equal(t, Suggestion{Category: "Kesehatan", Source: SourceRemote}, s)
	assert.Equal(t, "Bearer kunci", auth)
	assert.Equal(t, "hasil lab", got.Description)
	assert.Equal(t, Categories, got.Categories)
}

func TestSuggest_RemoteFallsBack(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"status 500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"kategori asing": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"category":"Hukum"}`))
		},
		"lambat": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"category":"Keuangan"}`))
		},
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			svc := NewService(srv.URL, "", 50*time.Millisecond, zap.NewNop())
			assert.Equal(t, Suggestion{Category: "Pendidikan", Source: SourceKeyword}, svc.Suggest(context.Background(), "ijazah S1"))
			assert.Equal(t, Suggestion{}, svc.Suggest(context.Background(), "tanpa petunjuk"))
		})
	}
}

func TestSuggest_CanceledContext(t *testing.T) {
	svc := NewService("http://127.0.0.1:1", "", time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := svc.Suggest(ctx, "kartu keluarga")
	require.Equal(t, SourceKeyword, s.Source)
	assert.Equal(t, "Kependudukan", s.Category)
}
