package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/graph"
)

// computeRequest is a document plus per-request engine settings. The
// document's rootId selects the reference person.
type computeRequest struct {
	graph.Document
	SiblingGap  float64 `json:"siblingGap,omitempty" validate:"gte=0,lte=100000"`
	LevelHeight float64 `json:"levelHeight,omitempty" validate:"gte=0,lte=100000"`
	Refresh     bool    `json:"refresh,omitempty"`
}

// connectRequest adds one relation to a document.
type connectRequest struct {
	Document graph.Document `json:"document"`
	Source   string         `json:"source" validate:"personid"`
	Target   string         `json:"target" validate:"personid,nefield=Source"`
	Type     string         `json:"type" validate:"required,oneof=lineage spouse spousal"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report JSON names in validation messages.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("personid", validatePersonID)
}

func validatePersonID(fl validator.FieldLevel) bool {
	return kerrors.ValidatePersonID(fl.Field().String()) == nil
}

// validationMessage summarizes the first failed constraint.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: failed %s", field, fe.Tag())
}
