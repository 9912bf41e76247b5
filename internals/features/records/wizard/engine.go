package wizard

import (
	"context"
	"errors"
	"time"

	"eduarchive_backend/internals/helpers/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine menjalankan form wizard untuk satu entitas.
// Semua mutasi sesi lewat Lock milik SessionStore; engine tidak menyentuh storage global.
type Engine[T any] struct {
	Schema   *Schema[T]
	Repo     Repository[T]
	Sessions SessionStore[T]
	Staging  storage.Staging
	Uploader *storage.Uploader
	// Version schema_version yang ditulis ke record saat submit.
	Version int
	Log     *zap.Logger

	now func() time.Time
}

func NewEngine[T any](
	schema *Schema[T],
	repo Repository[T],
	sessions SessionStore[T],
	staging storage.Staging,
	uploader *storage.Uploader,
	version int,
	log *zap.Logger,
) *Engine[T] {
	if log == nil {
		log = zap.L()
	}
	return &Engine[T]{
		Schema:   schema,
		Repo:     repo,
		Sessions: sessions,
		Staging:  staging,
		Uploader: uploader,
		Version:  version,
		Log:      log.Named("wizard").With(zap.String("entity", schema.Entity)),
		now:      time.Now,
	}
}

// Start membuka sesi baru. recordID kosong = create, terisi = edit record tersimpan.
func (e *Engine[T]) Start(ctx context.Context, recordID string) (*Session[T], error) {
	values := new(T)
	mode := ModeCreate
	if recordID != "" {
		rec, err := e.Repo.Get(ctx, recordID)
		if err != nil {
			return nil, err
		}
		values = rec
		prepareForEdit(values)
		mode = ModeEdit
	}

	now := e.now()
	s := &Session[T]{
		ID:          uuid.NewString(),
		Entity:      e.Schema.Entity,
		Mode:        mode,
		RecordID:    recordID,
		CurrentStep: 1,
		TotalSteps:  e.Schema.N(),
		Values:      *values,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	e.Log.Debug("📝 sesi form dibuka", zap.String("session", s.ID), zap.String("mode", mode))
	return s, nil
}

func (e *Engine[T]) Get(ctx context.Context, sid string) (*Session[T], error) {
	return e.Sessions.Get(ctx, sid)
}

// mutate: lock → load → fn → simpan. fn yang gagal tidak menyimpan apa pun.
func (e *Engine[T]) mutate(ctx context.Context, sid string, fn func(s *Session[T]) error) (*Session[T], error) {
	unlock, err := e.Sessions.Lock(ctx, sid)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, err := e.Sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s.Submitting {
		return s, ErrSubmitInFlight
	}
	before, err := clone(s)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return before, err
	}
	s.UpdatedAt = e.now()
	if err := e.Sessions.Put(ctx, s); err != nil {
		return nil, err
	}
	// sesi masih dipakai, binary staging-nya ikut diperpanjang
	if len(s.Handles) > 0 {
		if err := e.Staging.Touch(ctx, s.Handles...); err != nil {
			e.Log.Warn("⚠️ gagal perpanjang staging", zap.String("session", s.ID), zap.Error(err))
		}
	}
	return s, nil
}

// Update menerapkan merge patch ke values. Meta tidak bisa diubah dari klien.
func (e *Engine[T]) Update(ctx context.Context, sid string, patch []byte) (*Session[T], error) {
	return e.mutate(ctx, sid, func(s *Session[T]) error {
		next, err := applyMergePatch(&s.Values, patch)
		if err != nil {
			return err
		}
		*metaOf(next) = *metaOf(&s.Values)
		sanitizeFiles(next, s.ownedHandles())
		s.Values = *next
		e.releaseOrphans(ctx, s)
		return nil
	})
}

// Attach men-stage binary ke field berkas. Gagal di sini = UploadError untuk field itu saja.
func (e *Engine[T]) Attach(ctx context.Context, sid, field, fileName string, data []byte) (*Session[T], error) {
	return e.mutate(ctx, sid, func(s *Session[T]) error {
		if _, _, err := fileSlot(&s.Values, field); err != nil {
			return err
		}
		ct, err := e.Uploader.Sniff(data)
		if err != nil {
			return &UploadError{Field: field, Err: err}
		}
		meta, err := e.Staging.Stage(ctx, data, storage.StagedMeta{FileName: fileName, ContentType: ct})
		if err != nil {
			return &UploadError{Field: field, Err: err}
		}

		ref := FileRef{FileName: fileName, Pending: meta.Handle, ContentType: ct, Size: meta.Size}
		if _, err := setFile(&s.Values, field, ref); err != nil {
			_ = e.Staging.Release(ctx, meta.Handle)
			return err
		}
		s.Handles = append(s.Handles, meta.Handle)
		e.releaseOrphans(ctx, s)
		return nil
	})
}

// Detach melepas berkas; field boleh berindeks ("dokumen.raporTerakhir[1]").
func (e *Engine[T]) Detach(ctx context.Context, sid, field string) (*Session[T], error) {
	return e.mutate(ctx, sid, func(s *Session[T]) error {
		if _, err := clearFile(&s.Values, field); err != nil {
			return err
		}
		e.releaseOrphans(ctx, s)
		return nil
	})
}

// Next maju satu langkah bila langkah sekarang valid; no-op di langkah terakhir.
func (e *Engine[T]) Next(ctx context.Context, sid string) (*Session[T], error) {
	return e.mutate(ctx, sid, func(s *Session[T]) error {
		if s.IsLastStep() {
			return nil
		}
		if err := e.Schema.Gate(s.CurrentStep, &s.Values); err != nil {
			return err
		}
		s.CurrentStep++
		return nil
	})
}

// Prev mundur tanpa validasi.
func (e *Engine[T]) Prev(ctx context.Context, sid string) (*Session[T], error) {
	return e.mutate(ctx, sid, func(s *Session[T]) error {
		if s.CurrentStep > 1 {
			s.CurrentStep--
		}
		return nil
	})
}

func (e *Engine[T]) ValidateStep(ctx context.Context, sid string, step int) (StepResult, error) {
	s, err := e.Sessions.Get(ctx, sid)
	if err != nil {
		return StepResult{}, err
	}
	if step < 1 || step > s.TotalSteps {
		return StepResult{}, ErrInvalidStep
	}
	return e.Schema.ValidateStep(step, &s.Values), nil
}

// Preview status kelengkapan values saat ini (untuk langkah review).
func (e *Engine[T]) Preview(ctx context.Context, sid string) (Completeness, error) {
	s, err := e.Sessions.Get(ctx, sid)
	if err != nil {
		return Completeness{}, err
	}
	return e.Schema.Evaluate(&s.Values), nil
}

// Submit hanya dari langkah terakhir. Sukses: sesi berakhir, record dikembalikan.
// Gagal: Submitting dilepas, LastError diisi, values tetap untuk kirim ulang.
func (e *Engine[T]) Submit(ctx context.Context, sid string) (*T, error) {
	s, err := e.beginSubmit(ctx, sid)
	if err != nil {
		return nil, err
	}

	saved, uploaded, perr := e.runPipeline(ctx, s)

	// submit tidak bisa dibatalkan; penutupan tetap jalan walau request putus
	ctx = context.WithoutCancel(ctx)
	if perr != nil {
		e.cleanupUploads(ctx, uploaded)
		if err := e.finishFailed(ctx, sid, perr); err != nil {
			e.Log.Error("❌ gagal memulihkan sesi setelah submit gagal", zap.String("session", sid), zap.Error(err))
		}
		e.Log.Warn("⚠️ submit gagal", zap.String("session", sid), zap.Error(perr))
		return nil, perr
	}

	for _, h := range s.Handles {
		_ = e.Staging.Release(ctx, h)
	}
	if err := e.Sessions.Delete(ctx, sid); err != nil {
		e.Log.Warn("⚠️ gagal hapus sesi setelah submit", zap.String("session", sid), zap.Error(err))
	}
	e.Log.Info("✅ record tersimpan",
		zap.String("session", sid),
		zap.String("id", metaOf(saved).ID),
		zap.String("status", string(metaOf(saved).Status)),
	)
	return saved, nil
}

func (e *Engine[T]) beginSubmit(ctx context.Context, sid string) (*Session[T], error) {
	unlock, err := e.Sessions.Lock(ctx, sid)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, err := e.Sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s.Submitting {
		return nil, ErrSubmitInFlight
	}
	if !s.IsLastStep() {
		return nil, ErrNotLastStep
	}
	// values bisa berubah lewat Update setelah langkah dilewati
	for i := 1; i <= e.Schema.N(); i++ {
		if err := e.Schema.Gate(i, &s.Values); err != nil {
			return nil, err
		}
	}

	s.Submitting = true
	s.LastError = ""
	s.UpdatedAt = e.now()
	if err := e.Sessions.Put(ctx, s); err != nil {
		return nil, err
	}
	// sesi masih dipakai, binary staging-nya ikut diperpanjang
	if len(s.Handles) > 0 {
		if err := e.Staging.Touch(ctx, s.Handles...); err != nil {
			e.Log.Warn("⚠️ gagal perpanjang staging", zap.String("session", s.ID), zap.Error(err))
		}
	}
	return s, nil
}

func (e *Engine[T]) finishFailed(ctx context.Context, sid string, cause error) error {
	unlock, err := e.Sessions.Lock(ctx, sid)
	if err != nil {
		return err
	}
	defer unlock()

	s, err := e.Sessions.Get(ctx, sid)
	if err != nil {
		return err
	}
	s.Submitting = false
	s.LastError = cause.Error()
	s.UpdatedAt = e.now()
	return e.Sessions.Put(ctx, s)
}

func (e *Engine[T]) cleanupUploads(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := e.Uploader.DeleteByURL(ctx, u); err != nil {
			e.Log.Warn("⚠️ gagal hapus blob sisa submit", zap.String("url", u), zap.Error(err))
		}
	}
}

// Abandon membuang sesi tanpa menyimpan; binary staging dilepas.
func (e *Engine[T]) Abandon(ctx context.Context, sid string) error {
	unlock, err := e.Sessions.Lock(ctx, sid)
	if err != nil {
		return err
	}
	defer unlock()

	s, err := e.Sessions.Get(ctx, sid)
	if err != nil {
		return err
	}
	if s.Submitting {
		return ErrSubmitInFlight
	}
	for _, h := range s.Handles {
		_ = e.Staging.Release(ctx, h)
	}
	return e.Sessions.Delete(ctx, sid)
}

// releaseOrphans melepas handle staging yang tidak lagi dirujuk values.
func (e *Engine[T]) releaseOrphans(ctx context.Context, s *Session[T]) {
	used := toSet(pendingHandles(&s.Values))
	for _, h := range append([]string(nil), s.Handles...) {
		if used[h] {
			continue
		}
		if err := e.Staging.Release(ctx, h); err != nil && !errors.Is(err, storage.ErrStagedNotFound) {
			e.Log.Warn("⚠️ gagal lepas staging", zap.String("handle", h), zap.Error(err))
		}
		s.dropHandle(h)
	}
}

// SweepJob job reaper untuk sesi yang ditinggal; binary staging-nya ikut dilepas.
func (e *Engine[T]) SweepJob() storage.ReapJob {
	return storage.ReapJob{
		Name: "sessions:" + e.Schema.Entity,
		Run: func(ctx context.Context, cutoff time.Time) (int, error) {
			stale, err := e.Sessions.Sweep(ctx, cutoff)
			if err != nil {
				return 0, err
			}
			for _, s := range stale {
				for _, h := range s.Handles {
					_ = e.Staging.Release(ctx, h)
				}
			}
			return len(stale), nil
		},
	}
}
