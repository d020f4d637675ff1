// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// predictValidate checks PredictRequest payloads before they reach the
// feature pipeline. Field names in errors are the JSON keys.
var predictValidate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// PredictRequest is the JSON body accepted by POST /predict. Required
// fields are pointers so that a missing key is distinguishable from an
// empty string or a zero count.
type PredictRequest struct {
	ID                string  `json:"ID,omitempty"`
	Label             string  `json:"Label,omitempty"`
	Statement         *string `json:"Statement" validate:"required"`
	Subject           *string `json:"Subject" validate:"required"`
	Speaker           *string `json:"Speaker" validate:"required"`
	SpeakerJobTitle   string  `json:"Speaker_Job_Title,omitempty"`
	StateInfo         string  `json:"State_Info,omitempty"`
	PartyAffiliation  *string `json:"Party_Affiliation" validate:"required"`
	BarelyTrueCounts  *Count  `json:"Barely_True_Counts" validate:"required,min=0"`
	FalseCounts       *Count  `json:"False_Counts" validate:"required,min=0"`
	HalfTrueCounts    *Count  `json:"Half_True_Counts" validate:"required,min=0"`
	MostlyTrueCounts  *Count  `json:"Mostly_True_Counts" validate:"required,min=0"`
	PantsOnFireCounts *Count  `json:"Pants_on_Fire_Counts" validate:"required,min=0"`
	Context           string  `json:"Context,omitempty"`
}

// NewPredictRequest builds a request carrying every field of rec.
func NewPredictRequest(rec Record) PredictRequest {
	count := func(n int) *Count {
		c := Count(n)
		return &c
	}
	str := func(s string) *string { return &s }
	return PredictRequest{
		ID:                rec.ID,
		Label:             string(rec.Label),
		Statement:         str(rec.Statement),
		Subject:           str(rec.Subject),
		Speaker:           str(rec.Speaker),
		SpeakerJobTitle:   rec.SpeakerJobTitle,
		StateInfo:         rec.StateInfo,
		PartyAffiliation:  str(rec.PartyAffiliation),
		BarelyTrueCounts:  count(rec.BarelyTrue),
		FalseCounts:       count(rec.False),
		HalfTrueCounts:    count(rec.HalfTrue),
		MostlyTrueCounts:  count(rec.MostlyTrue),
		PantsOnFireCounts: count(rec.PantsOnFire),
		Context:           rec.Context,
	}
}

// Count is a credit-history count as sent by clients. Besides plain JSON
// integers it accepts integral floats such as 63.0 and numeric strings
// such as "63". Anything else is an *json.UnmarshalTypeError.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	num := data
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		num = []byte(strings.TrimSpace(s))
	}
	n, ok := parseCount(num)
	if !ok {
		return &json.UnmarshalTypeError{Value: describeJSON(data), Type: reflect.TypeOf(0)}
	}
	*c = Count(n)
	return nil
}

func parseCount(num []byte) (int, bool) {
	if len(num) == 0 || !(num[0] == '-' || (num[0] >= '0' && num[0] <= '9')) || !json.Valid(num) {
		return 0, false
	}
	if n, err := strconv.ParseInt(string(num), 10, 64); err == nil {
		return int(n), true
	}
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// describeJSON names the kind of a raw JSON value the way encoding/json
// does in type errors.
func describeJSON(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return "number " + string(data)
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Validate runs the struct tag rules. On failure the returned error is a
// validator.ValidationErrors; use FieldErrors to flatten it for a response.
func (r *PredictRequest) Validate() error {
	return predictValidate.Struct(r)
}

// FieldErrors flattens a validation error, or a JSON type error on a named
// field, into response details. Errors of any other kind yield nil.
func FieldErrors(err error) []FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return nil
		}
		return []FieldError{{Field: typeErr.Field, Rule: "type", Param: typeErr.Type.String()}}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// Record converts a validated request into a pipeline record. Call only
// after Validate succeeds.
func (r *PredictRequest) Record() Record {
	return Record{
		ID:               r.ID,
		Label:            Label(r.Label),
		Statement:        deref(r.Statement),
		Subject:          deref(r.Subject),
		Speaker:          deref(r.Speaker),
		SpeakerJobTitle:  r.SpeakerJobTitle,
		StateInfo:        r.StateInfo,
		PartyAffiliation: deref(r.PartyAffiliation),
		Counts: Counts{
			BarelyTrue:  int(deref(r.BarelyTrueCounts)),
			False:       int(deref(r.FalseCounts)),
			HalfTrue:    int(deref(r.HalfTrueCounts)),
			MostlyTrue:  int(deref(r.MostlyTrueCounts)),
			PantsOnFire: int(deref(r.PantsOnFireCounts)),
		},
		Context: r.Context,
	}
}

// PredictResponse is the JSON body returned by POST /predict.
type PredictResponse struct {
	PredictedLabel string `json:"predicted_label"`
	TrueLabel      string `json:"true_label,omitempty"`
	Correct        *bool  `json:"correct,omitempty"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
