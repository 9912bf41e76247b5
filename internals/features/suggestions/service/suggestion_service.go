// file: internals/features/suggestions/service/suggestion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	SourceRemote  = "remote"
	SourceKeyword = "keyword"
)

// Suggestion hasil tebakan kategori. Category kosong = tidak ada saran.
type Suggestion struct {
	Category string `json:"category"`
	Source   string `json:"source,omitempty"`
}

// Categories kategori dokumen yang dikenal.
var Categories = []string{
	"Identitas",
	"Kependudukan",
	"Pendidikan",
	"Kepegawaian",
	"Kesehatan",
	"Keuangan",
	"Lainnya",
}

// keywordTable urutan menentukan prioritas; pencocokan substring huruf kecil.
var keywordTable = []struct {
	Category string
	Words    []string
}{
	{"Identitas", []string{"ktp", "pas foto", "foto", "npwp", "kartu pegawai", "karpeg"}},
	{"Kependudukan", []string{"kartu keluarga", "akta", "kelahiran", "buku nikah", "nikah", "domisili"}},
	{"Pendidikan", []string{"ijazah", "rapor", "raport", "transkrip", "sertifikat", "sertifikasi", "nilai", "skhun"}},
	{"Kepegawaian", []string{"sk ", "surat keputusan", "pengangkatan", "pangkat", "jabatan", "taspen", "riwayat hidup", "cv"}},
	{"Kesehatan", []string{"sehat", "bpjs kesehatan", "vaksin", "medis", "dokter"}},
	{"Keuangan", []string{"rekening", "gaji", "bpjs ketenagakerjaan", "pajak", "slip"}},
	{"Lainnya", []string{"skck", "kepolisian"}},
}

type Service struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Log      *zap.Logger
}

func NewService(endpoint, apiKey string, timeout time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.L()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{Endpoint: strings.TrimSpace(endpoint), APIKey: apiKey, Timeout: timeout, Log: log.Named("suggestion")}
}

// Suggest tidak pernah gagal: remote → tabel kata kunci → kosong.
func (s *Service) Suggest(ctx context.Context, description string) Suggestion {
	description = strings.TrimSpace(description)
	if description == "" {
		return Suggestion{}
	}
	if s.Endpoint != "" {
		cat, err := s.remote(ctx, description)
		if err == nil && cat != "" {
			return Suggestion{Category: cat, Source: SourceRemote}
		}
		s.Log.Debug("saran remote gagal, pakai kata kunci", zap.Error(err))
	}
	if cat := KeywordCategory(description); cat != "" {
		return Suggestion{Category: cat, Source: SourceKeyword}
	}
	return Suggestion{}
}

func KeywordCategory(description string) string {
	d := " " + strings.ToLower(description) + " "
	for _, row := range keywordTable {
		for _, w := range row.Words {
			if strings.Contains(d, w) {
				return row.Category
			}
		}
	}
	return ""
}

var errRemoteStatus = errors.New("suggestion endpoint status bukan 200")

func (s *Service) remote(ctx context.Context, description string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	timeout := s.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}

	a := fiber.Post(s.Endpoint)
	a.JSONEncoder(sonic.Marshal)
	a.JSONDecoder(sonic.Unmarshal)
	a.Timeout(timeout)
	if s.APIKey != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+s.APIKey)
	}
	a.JSON(fiber.Map{"description": description, "categories": Categories})

	var out struct {
		Category string `json:"category"`
	}
	code, _, errs := a.Struct(&out)
	if len(errs) > 0 {
		return "", errs[0]
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("%w: %d", errRemoteStatus, code)
	}
	return normalizeCategory(out.Category), nil
}

// normalizeCategory hanya menerima kategori yang dikenal (case-insensitive).
func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	for _, k := range Categories {
		if strings.EqualFold(k, c) {
			return k
		}
	}
	return ""
}
