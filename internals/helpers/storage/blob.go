package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"eduarchive_backend/internals/constants"
	helper "eduarchive_backend/internals/helpers"
)

var (
	ErrEmptyFile       = errors.New("file kosong")
	ErrTooLarge        = errors.New("ukuran file melebihi batas")
	ErrUnsupportedType = errors.New("tipe file tidak didukung")
)

// BlobStore adalah tempat penyimpanan durable (disk lokal, OSS, MinIO, S3).
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(publicURL string) (string, error)
}

// Stored hasil upload yang sudah durable.
type Stored struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Uploader membungkus BlobStore: cek ukuran + MIME, gambar di-encode ulang ke WebP,
// lalu disimpan dengan key bertimestamp.
type Uploader struct {
	Store   BlobStore
	Prefix  string
	MaxSize int64
	WebP    WebPOptions
	Allowed map[string]constants.FileKind
	Log     *zap.Logger
	now     func() time.Time
}

func NewUploader(store BlobStore, prefix string, maxSize int64, webpOpts WebPOptions, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.L()
	}
	return &Uploader{
		Store:   store,
		Prefix:  strings.Trim(prefix, "/"),
		MaxSize: maxSize,
		WebP:    webpOpts,
		Allowed: constants.AllowedDocumentMIME,
		Log:     log.Named("uploader"),
		now:     time.Now,
	}
}

// Sniff mengembalikan MIME hasil deteksi isi (bukan dari ekstensi/klien).
func (u *Uploader) Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if u.MaxSize > 0 && int64(len(data)) > u.MaxSize {
		return "", fmt.Errorf("%w (maks %d MB)", ErrTooLarge, u.MaxSize/1024/1024)
	}
	mt := mimetype.Detect(data)
	ct := mt.String()
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	if u.Allowed != nil {
		if _, ok := u.Allowed[ct]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
		}
	}
	return ct, nil
}

// Upload: upload(binary, targetDirectory) → url durable
func (u *Uploader) Upload(ctx context.Context, data []byte, fileName, dir string) (*Stored, error) {
	ct, err := u.Sniff(data)
	if err != nil {
		return nil, err
	}

	body := data
	name := fileName
	if constants.IsConvertibleImage(ct) {
		converted, err := ConvertToWebP(data, u.WebP)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		}
		body = converted
		ct = "image/webp"
		name = strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".webp"
	}

	key := u.buildObjectKey(dir, name)
	if err := u.Store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), ct); err != nil {
		u.Log.Error("❌ gagal simpan blob", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("simpan %s: %w", key, err)
	}
	u.Log.Debug("✅ blob tersimpan", zap.String("key", key), zap.Int("bytes", len(body)))

	return &Stored{
		URL:         u.Store.PublicURL(key),
		Key:         key,
		FileName:    name,
		ContentType: ct,
		Size:        int64(len(body)),
	}, nil
}

// DeleteByURL menghapus blob berdasarkan URL publik yang pernah dikembalikan Upload.
func (u *Uploader) DeleteByURL(ctx context.Context, publicURL string) error {
	key, err := u.Store.KeyFromURL(publicURL)
	if err != nil {
		return err
	}
	return u.Store.Delete(ctx, key)
}

// key: {prefix}/{dir}/{slug}_{YYYYMMDD_HHMMSS}_{rand}.{ext}
func (u *Uploader) buildObjectKey(dir, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	ts := u.now().Format("20060102_150405")

	parts := make([]string, 0, 3)
	if u.Prefix != "" {
		parts = append(parts, u.Prefix)
	}
	for _, p := range strings.Split(strings.Trim(dir, "/"), "/") {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, helper.Slugify(p, 60))
		}
	}
	parts = append(parts, fmt.Sprintf("%s_%s_%s%s", helper.Slugify(base, 60), ts, randHex(3), ext))
	return strings.Join(parts, "/")
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// keyFromBase memotong base URL publik; dipakai semua implementasi.
func keyFromBase(base, publicURL string) (string, error) {
	if strings.TrimSpace(publicURL) == "" {
		return "", fmt.Errorf("empty url")
	}
	base = strings.TrimRight(base, "/") + "/"
	if base != "/" && strings.HasPrefix(publicURL, base) {
		return strings.TrimPrefix(publicURL, base), nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}
