package wizard

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Step satu halaman wizard. Section mengembalikan pointer ke sub-struct milik langkah ini;
// nil berarti langkah tanpa subschema (review).
type Step[T any] struct {
	Key     string
	Title   string
	Section func(*T) any
}

type StepResult struct {
	Step   int               `json:"step"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type Completeness struct {
	Status   Status            `json:"status"`
	Complete bool              `json:"complete"`
	Missing  map[string]string `json:"missing"`
}

type options struct {
	tags          []CustomTag
	rules         []StructRule
	stepHints     []string
	completeHints []string
}

type Option func(*options)

func WithTag(t CustomTag) Option {
	return func(o *options) { o.tags = append(o.tags, t) }
}

func WithStructRule(r StructRule) Option {
	return func(o *options) { o.rules = append(o.rules, r) }
}

// WithRequiredHints menandai path yang wajib oleh aturan struct-level (untuk Describe).
func WithRequiredHints(step, complete []string) Option {
	return func(o *options) {
		o.stepHints = append(o.stepHints, step...)
		o.completeHints = append(o.completeHints, complete...)
	}
}

// Schema satu sumber kebenaran per entitas: struct tag `validate` untuk gerbang langkah,
// `complete` untuk aturan tambahan saat menilai kelengkapan.
type Schema[T any] struct {
	Entity string
	Steps  []Step[T]

	stepV  *validator.Validate
	fullV  *validator.Validate
	stepT  ut.Translator
	fullT  ut.Translator
	specs  []StepSpec
	labels map[string]string
}

func NewSchema[T any](entity string, steps []Step[T], opts ...Option) (*Schema[T], error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("schema %s: minimal satu langkah", entity)
	}
	if metaOf(new(T)) == nil {
		return nil, fmt.Errorf("schema %s: record harus menyematkan wizard.Meta", entity)
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	stepV, stepT, err := newValidator(TagStep, o.tags, o.rules)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", entity, err)
	}
	fullV, fullT, err := newValidator(TagComplete, o.tags, o.rules)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", entity, err)
	}

	s := &Schema[T]{
		Entity: entity,
		Steps:  steps,
		stepV:  stepV,
		fullV:  fullV,
		stepT:  stepT,
		fullT:  fullT,
		labels: map[string]string{},
	}
	s.specs = s.describe(o.stepHints, o.completeHints)
	return s, nil
}

func MustSchema[T any](entity string, steps []Step[T], opts ...Option) *Schema[T] {
	s, err := NewSchema(entity, steps, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema[T]) N() int { return len(s.Steps) }

var reIndex = regexp.MustCompile(`\[\d+\]`)

func (s *Schema[T]) Label(path string) string {
	return s.labels[reIndex.ReplaceAllString(path, "")]
}

// ValidateStep memeriksa hanya field milik langkah step (1..N). Tidak pernah panic.
func (s *Schema[T]) ValidateStep(step int, values *T) StepResult {
	res := StepResult{Step: step, Valid: true, Errors: map[string]string{}}
	if step < 1 || step > len(s.Steps) {
		res.Valid = false
		res.Errors["_"] = ErrInvalidStep.Error()
		return res
	}
	st := s.Steps[step-1]
	if st.Section == nil || values == nil {
		return res
	}

	err := s.stepV.Struct(st.Section(values))
	res.Errors = fieldErrors(err, s.stepT, func(p string) string {
		return s.Label(st.Key + "." + p)
	})
	res.Valid = len(res.Errors) == 0
	return res
}

// Gate versi error dari ValidateStep.
func (s *Schema[T]) Gate(step int, values *T) error {
	res := s.ValidateStep(step, values)
	if res.Valid {
		return nil
	}
	title := ""
	if step >= 1 && step <= len(s.Steps) {
		title = s.Steps[step-1].Title
	}
	return &StepGateError{Step: step, Title: title, Fields: res.Errors}
}

// Evaluate menjalankan skema ketat ke seluruh record: semua aturan langkah + aturan `complete`.
func (s *Schema[T]) Evaluate(values *T) Completeness {
	missing := fieldErrors(s.stepV.Struct(values), s.stepT, s.Label)
	for k, v := range fieldErrors(s.fullV.Struct(values), s.fullT, s.Label) {
		if _, ok := missing[k]; !ok {
			missing[k] = v
		}
	}
	c := Completeness{Status: StatusIncomplete, Missing: missing}
	if len(missing) == 0 {
		c.Complete = true
		c.Status = StatusComplete
	}
	return c
}

/* =======================================================================
   Describe: skema deklaratif untuk klien & template Excel
======================================================================= */

type FieldSpec struct {
	Name             string      `json:"name"`
	Path             string      `json:"path"`
	Label            string      `json:"label"`
	Kind             string      `json:"kind"`
	Options          []string    `json:"options,omitempty"`
	StepRequired     bool        `json:"stepRequired"`
	CompleteRequired bool        `json:"completeRequired"`
	Fields           []FieldSpec `json:"fields,omitempty"`
}

type StepSpec struct {
	Index  int         `json:"index"`
	Key    string      `json:"key,omitempty"`
	Title  string      `json:"title"`
	Review bool        `json:"review"`
	Fields []FieldSpec `json:"fields,omitempty"`
}

func (s *Schema[T]) Describe() []StepSpec {
	return s.specs
}

var (
	typeDate     = reflect.TypeOf(Date{})
	typeFileRef  = reflect.TypeOf(FileRef{})
	typeFileRefP = reflect.TypeOf(&FileRef{})
	typeFileRefs = reflect.TypeOf([]FileRef{})
	reOneOf      = regexp.MustCompile(`'[^']*'|\S+`)
)

func (s *Schema[T]) describe(stepHints, completeHints []string) []StepSpec {
	hintStep := toSet(stepHints)
	hintFull := toSet(completeHints)
	var zero T
	out := make([]StepSpec, 0, len(s.Steps))
	for i, st := range s.Steps {
		spec := StepSpec{Index: i + 1, Key: st.Key, Title: st.Title, Review: st.Section == nil}
		if st.Section != nil {
			t := reflect.TypeOf(st.Section(&zero)).Elem()
			s.labels[st.Key] = st.Title
			spec.Fields = s.describeStruct(t, st.Key, "", "", hintStep, hintFull)
		}
		out = append(out, spec)
	}
	return out
}

func (s *Schema[T]) describeStruct(t reflect.Type, base, rel, parentLabel string, hintStep, hintFull map[string]bool) []FieldSpec {
	var fields []FieldSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := jsonName(f)
		if name == "" {
			continue
		}
		relPath := joinPath(rel, name)
		path := joinPath(base, relPath)

		label := f.Tag.Get("label")
		if label == "" {
			label = name
		}
		if parentLabel != "" {
			label = label + " " + parentLabel
		}
		s.labels[path] = label

		stepTag := f.Tag.Get(TagStep)
		fullTag := f.Tag.Get(TagComplete)
		fs := FieldSpec{
			Name:         relPath,
			Path:         path,
			Label:        label,
			StepRequired: hasRule(stepTag, "required") || hintStep[path],
		}
		fs.CompleteRequired = fs.StepRequired || hintFull[path] ||
			(fullTag != "" && !strings.HasPrefix(fullTag, "omitempty"))

		ft := f.Type
		switch {
		case ft == typeDate:
			fs.Kind = "date"
		case ft == typeFileRefP:
			fs.Kind = "file"
		case ft == typeFileRefs:
			fs.Kind = "files"
		case ft.Kind() == reflect.String:
			fs.Kind = "string"
			if opts := oneOf(stepTag); len(opts) > 0 {
				fs.Kind, fs.Options = "enum", opts
			} else if opts := oneOf(fullTag); len(opts) > 0 {
				fs.Kind, fs.Options = "enum", opts
			}
		case ft.Kind() >= reflect.Int && ft.Kind() <= reflect.Float64:
			fs.Kind = "number"
		case ft.Kind() == reflect.Bool:
			fs.Kind = "boolean"
		case ft.Kind() == reflect.Struct && ft != typeFileRef:
			fs.Kind = "object"
			fs.Fields = s.describeStruct(ft, base, relPath, label, hintStep, hintFull)
		case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Struct:
			fs.Kind = "list"
			fs.Fields = s.describeStruct(ft.Elem(), base, relPath, "", hintStep, hintFull)
		default:
			fs.Kind = "string"
		}
		fields = append(fields, fs)
	}
	return fields
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

func oneOf(tag string) []string {
	for _, r := range strings.Split(tag, ",") {
		if !strings.HasPrefix(r, "oneof=") {
			continue
		}
		var out []string
		for _, v := range reOneOf.FindAllString(strings.TrimPrefix(r, "oneof="), -1) {
			out = append(out, strings.Trim(v, "'"))
		}
		return out
	}
	return nil
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "." + b
}

func toSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// FlatFields daftar field daun (tanpa object/list/file) sesuai urutan langkah; dipakai Excel.
func FlatFields(steps []StepSpec) []FieldSpec {
	var out []FieldSpec
	var walk func([]FieldSpec)
	walk = func(fs []FieldSpec) {
		for _, f := range fs {
			switch f.Kind {
			case "object":
				walk(f.Fields)
			case "list", "file", "files":
			default:
				out = append(out, f)
			}
		}
	}
	for _, st := range steps {
		walk(st.Fields)
	}
	return out
}
