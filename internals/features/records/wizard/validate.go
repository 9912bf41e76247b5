package wizard

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	idTranslations "github.com/go-playground/validator/v10/translations/id"
)

const (
	TagStep     = "validate"
	TagComplete = "complete"
)

// CustomTag aturan tambahan (field-level) beserta pesan bahasa Indonesia.
// Pesan boleh memakai {0} (label field) dan {1} (parameter tag).
type CustomTag struct {
	Tag       string
	Fn        validator.Func
	Message   string
	CallOnNil bool
	StepToo   bool // default hanya untuk validator completeness
}

// StructRule aturan lintas-field pada satu tipe struct.
// Messages: pesan untuk tag yang dilaporkan lewat ReportError (selain tag bawaan).
type StructRule struct {
	Fn       validator.StructLevelFunc
	Type     any
	StepToo  bool
	Complete bool
	Messages map[string]string
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// attached: *FileRef / FileRef punya URL atau pending binary.
func validateAttached(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Ptr:
		if f.IsNil() {
			return false
		}
		f = f.Elem()
	case reflect.Invalid:
		return false
	}
	ref, ok := f.Interface().(FileRef)
	return ok && ref.Attached()
}

func dateAsTime(field reflect.Value) interface{} {
	if d, ok := field.Interface().(Date); ok {
		return d.Time
	}
	return nil
}

// newValidator membuat satu validator untuk tagName ("validate" / "complete") + translator id.
func newValidator(tagName string, tags []CustomTag, rules []StructRule) (*validator.Validate, ut.Translator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tagName)
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(dateAsTime, Date{})

	locale := id.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("id")
	if err := idTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, err
	}

	builtin := []CustomTag{{
		Tag:       "attached",
		Fn:        validateAttached,
		Message:   "{0} belum dilampirkan",
		CallOnNil: true,
		StepToo:   true,
	}}
	for _, t := range append(builtin, tags...) {
		if tagName == TagStep && !t.StepToo {
			continue
		}
		if err := v.RegisterValidation(t.Tag, t.Fn, t.CallOnNil); err != nil {
			return nil, nil, err
		}
		if err := registerMessage(v, trans, t.Tag, t.Message); err != nil {
			return nil, nil, err
		}
	}

	for _, r := range rules {
		if (tagName == TagStep && r.StepToo) || (tagName == TagComplete && r.Complete) {
			v.RegisterStructValidation(r.Fn, r.Type)
			for tag, msg := range r.Messages {
				if err := registerMessage(v, trans, tag, msg); err != nil {
					return nil, nil, err
				}
			}
		}
	}
	return v, trans, nil
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg string) error {
	return v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, msg, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

// fieldErrors mengubah hasil validator menjadi map path→pesan.
// Path dibuat dari namespace json tanpa nama tipe root.
func fieldErrors(err error, trans ut.Translator, label func(path string) string) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if _, dup := out[path]; dup {
			continue
		}
		msg := fe.Translate(trans)
		if lbl := label(path); lbl != "" && fe.Field() != "" {
			msg = strings.Replace(msg, fe.Field(), lbl, 1)
		}
		out[path] = msg
	}
	return out
}
