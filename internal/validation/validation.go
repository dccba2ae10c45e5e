package validation

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"marketplace-api/internal/marketerrors"

	"github.com/go-playground/validator/v10"
)

// dateLayouts are the accepted formats for endDate, tried in order.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// Number is a JSON number that also accepts numeric strings such as "50".
// Values that are not numbers decode to NaN so they fail range checks
// instead of aborting the whole decode.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		*n = Number(math.NaN())
		return nil
	}
	*n = Number(f)
	return nil
}

// Text is a JSON string field. Any other JSON value decodes to the empty
// string so it fails the required check instead of aborting the whole decode.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// ProductInput is the field set submitted to create or replace a product
type ProductInput struct {
	Name          Text   `json:"name" validate:"required,notblank"`
	Description   Text   `json:"description" validate:"required,notblank"`
	Category      Text   `json:"category" validate:"required,notblank"`
	OriginalPrice Number `json:"originalPrice" validate:"required,gt=0"`
	PictureURL    Text   `json:"pictureUrl" validate:"required,notblank"`
	EndDate       Text   `json:"endDate" validate:"required,flexdate"`
}

// ProductFields is a validated, normalized ProductInput
type ProductFields struct {
	Name          string
	Description   string
	Category      string
	OriginalPrice float64
	PictureURL    string
	EndDate       time.Time
}

// BidInput is the field set submitted to place a bid. Price is an alias of Amount.
type BidInput struct {
	Amount Number `json:"amount"`
	Price  Number `json:"price"`
}

// BidFields is a validated BidInput
type BidFields struct {
	Amount float64
}

// Validator checks submitted field sets before they reach the store
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports fields by their JSON names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("flexdate", flexDate)

	return &Validator{validate: v}
}

// Product validates a product field set. Every failing field is reported.
func (v *Validator) Product(in ProductInput) (ProductFields, error) {
	if err := v.validate.Struct(in); err != nil {
		return ProductFields{}, fieldErrors(err)
	}

	endDate, _ := parseDate(string(in.EndDate))
	return ProductFields{
		Name:          trimmed(in.Name),
		Description:   trimmed(in.Description),
		Category:      trimmed(in.Category),
		OriginalPrice: float64(in.OriginalPrice),
		PictureURL:    trimmed(in.PictureURL),
		EndDate:       endDate,
	}, nil
}

// Bid validates a bid field set. The amount must be present and strictly positive.
func (v *Validator) Bid(in BidInput) (BidFields, error) {
	field, amount := "amount", in.Amount
	if amount == 0 && in.Price != 0 {
		field, amount = "price", in.Price
	}

	if err := v.validate.Var(amount, "required,gt=0"); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return BidFields{}, &marketerrors.ValidationError{Fields: []string{field}}
		}
		return BidFields{}, err
	}
	return BidFields{Amount: float64(amount)}, nil
}

func fieldErrors(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	seen := make(map[string]bool, len(vErrs))
	fields := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		fields = append(fields, fe.Field())
	}
	return &marketerrors.ValidationError{Fields: fields}
}

func trimmed(t Text) string {
	return strings.TrimSpace(string(t))
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func flexDate(fl validator.FieldLevel) bool {
	_, ok := parseDate(fl.Field().String())
	return ok
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
