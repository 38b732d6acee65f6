package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidPayload = errors.New("invalid payload")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError describes one field that failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrInvalidPayload.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (ve ValidationErrors) Unwrap() error {
	return ErrInvalidPayload
}

// metricPayload and targetPayload are the request bodies as sent. Required
// fields are pointers so that presence is checked, not content: "" is a
// valid category, a missing or null one is not.
type metricPayload struct {
	Category   *string         `json:"category" validate:"required"`
	MetricName *string         `json:"metricName" validate:"required"`
	Value      *float64        `json:"value" validate:"required"`
	Unit       *string         `json:"unit"`
	Metadata   json.RawMessage `json:"metadata"`
}

type targetPayload struct {
	MetricName         *string  `json:"metricName" validate:"required"`
	TargetValue        *float64 `json:"targetValue" validate:"required"`
	ThresholdGood      *float64 `json:"thresholdGood"`
	ThresholdExcellent *float64 `json:"thresholdExcellent"`
}

// ValidateMetric decodes and checks a metric insert payload.
func ValidateMetric(raw []byte) (NewMetric, error) {
	var p metricPayload
	if err := decodeExact(raw, &p); err != nil {
		return NewMetric{}, err
	}
	if err := validateStruct(p); err != nil {
		return NewMetric{}, err
	}
	return NewMetric{
		Category:   *p.Category,
		MetricName: *p.MetricName,
		Value:      p.Value,
		Unit:       p.Unit,
		Metadata:   normalizeRaw(p.Metadata),
	}, nil
}

// ValidateTarget decodes and checks a KPI target insert payload.
func ValidateTarget(raw []byte) (NewTarget, error) {
	var p targetPayload
	if err := decodeExact(raw, &p); err != nil {
		return NewTarget{}, err
	}
	if err := validateStruct(p); err != nil {
		return NewTarget{}, err
	}
	return NewTarget{
		MetricName:         *p.MetricName,
		TargetValue:        p.TargetValue,
		ThresholdGood:      p.ThresholdGood,
		ThresholdExcellent: p.ThresholdExcellent,
	}, nil
}

// decodeExact unmarshals a JSON object into dst using only the keys that
// match one of dst's json tags exactly. encoding/json folds case on its own,
// so {"CATEGORY": ...} would otherwise fill Category. Other keys are dropped.
func decodeExact(raw []byte, dst interface{}) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	known := jsonKeys(reflect.TypeOf(dst).Elem())
	exact := make(map[string]json.RawMessage, len(known))
	for k, v := range fields {
		if known[k] {
			exact[k] = v
		}
	}

	b, err := json.Marshal(exact)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()),
		})
	}
	return out
}

// normalizeRaw drops an explicit JSON null so it is stored as absent.
func normalizeRaw(m json.RawMessage) json.RawMessage {
	if len(m) == 0 || string(bytes.TrimSpace(m)) == "null" {
		return nil
	}
	return m
}
