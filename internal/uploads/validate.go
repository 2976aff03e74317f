package uploads

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/teachingtorch/torch/pkg/types"
)

// custom validation tags
const (
	notBlankTag  = "notblank"
	paperInfoTag = "paperinfo"
)

// newValidator returns a validator that reports JSON field names and knows
// the form's custom rules.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(notBlankTag, notBlankValidation)
	v.RegisterStructValidation(formStructValidation, Form{})
	return v
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// formStructValidation requires a paper type and category for papers.
func formStructValidation(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(Form)
	if !ok || f.ResourceType != types.ResourcePapers {
		return
	}
	if f.PaperType == "" {
		sl.ReportError(f.PaperType, "paperType", "PaperType", paperInfoTag, "")
	}
	if strings.TrimSpace(f.PaperCategory) == "" {
		sl.ReportError(f.PaperCategory, "paperCategory", "PaperCategory", paperInfoTag, "")
	}
}

// formError maps validator failures onto the package's sentinel errors so
// callers can test them with errors.Is.
func formError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	var sentinel error
	switch field {
	case "link":
		sentinel = types.ErrInvalidLink
	case "title":
		sentinel = types.ErrInvalidName
	case "grade", "subject":
		sentinel = types.ErrInvalidID
	case "resourceType":
		sentinel = types.ErrInvalidResourceType
	case "languages":
		sentinel = types.ErrInvalidLanguage
	case "paperType":
		sentinel = types.ErrInvalidPaperType
	case "paperCategory":
		sentinel = types.ErrInvalidCategory
	default:
		return err
	}
	return fmt.Errorf("%s failed %q: %w", fe.Field(), fe.Tag(), sentinel)
}

// plainText strips markup from admin-entered text.
func plainText(p *bluemonday.Policy, s string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}
