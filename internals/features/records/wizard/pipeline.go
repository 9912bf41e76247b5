package wizard

import (
	"context"

	"go.uber.org/zap"
)

const (
	StageUpload = "upload"
	StageSave   = "save"
)

// runPipeline: materialisasi berkas → kelengkapan → simpan.
// Bekerja pada salinan values; sesi tidak disentuh. uploaded berisi URL blob yang
// sudah terlanjur ditulis (untuk dibersihkan bila pipeline gagal).
func (e *Engine[T]) runPipeline(ctx context.Context, s *Session[T]) (*T, []string, error) {
	rec, err := clone(&s.Values)
	if err != nil {
		return nil, nil, &SubmissionError{Stage: StageSave, Err: err}
	}

	uploaded, err := e.materialize(ctx, rec)
	if err != nil {
		return nil, uploaded, &SubmissionError{Stage: StageUpload, Err: err}
	}

	c := e.Schema.Evaluate(rec)
	m := metaOf(rec)
	m.ID = s.RecordID
	m.Status = c.Status
	m.SchemaVersion = e.Version

	saved, err := e.Repo.Save(ctx, rec)
	if err != nil {
		return nil, uploaded, &SubmissionError{Stage: StageSave, Err: err}
	}
	if !c.Complete {
		e.Log.Debug("record disimpan belum lengkap", zap.Int("missing", len(c.Missing)))
	}
	return saved, uploaded, nil
}

// materialize mengunggah setiap berkas pending ke blob store dan mengganti handle dengan URL durable.
func (e *Engine[T]) materialize(ctx context.Context, rec *T) ([]string, error) {
	var (
		uploaded []string
		firstErr error
	)
	walkFiles(rec, func(path string, ref *FileRef) {
		if firstErr != nil || ref.Pending == "" {
			return
		}
		data, meta, err := e.Staging.Load(ctx, ref.Pending)
		if err != nil {
			firstErr = &UploadError{Field: path, Err: err}
			return
		}
		name := ref.FileName
		if name == "" {
			name = meta.FileName
		}
		st, err := e.Uploader.Upload(ctx, data, name, uploadDir(e.Schema.Entity, path))
		if err != nil {
			firstErr = &UploadError{Field: path, Err: err}
			return
		}
		uploaded = append(uploaded, st.URL)

		ref.FileURL = st.URL
		ref.FileName = st.FileName
		ref.ContentType = st.ContentType
		ref.Size = st.Size
		ref.Pending = ""
	})
	return uploaded, firstErr
}
