package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"housevalue/server/internal/models"
)

const maxPredictBody = 1 << 16

// FieldError names one invalid request field
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationErrorResponse is the 400 body of a rejected prediction request.
// Field and Error repeat the first entry of Details.
type ValidationErrorResponse struct {
	Error   string       `json:"error"`
	Field   string       `json:"field"`
	Details []FieldError `json:"details"`
}

type requestField struct {
	name   string
	kind   string
	decode func(raw json.RawMessage) error
}

// featureFields lists the request fields in the order errors are reported
func featureFields(f *models.PropertyFeatures) []requestField {
	into := func(dst any) func(json.RawMessage) error {
		return func(raw json.RawMessage) error { return json.Unmarshal(raw, dst) }
	}
	integer := func(dst *int) func(json.RawMessage) error {
		return func(raw json.RawMessage) error {
			n, err := decodeInt(raw)
			*dst = n
			return err
		}
	}
	return []requestField{
		{name: "location", kind: "a string", decode: into(&f.Location)},
		{name: "bedrooms", kind: "an integer", decode: integer(&f.Bedrooms)},
		{name: "bathrooms", kind: "a number", decode: into(&f.Bathrooms)},
		{name: "sqft", kind: "an integer", decode: integer(&f.Sqft)},
		{name: "year_built", kind: "an integer", decode: integer(&f.YearBuilt)},
		{name: "lot_size", kind: "a number", decode: into(&f.LotSize)},
		{name: "floors", kind: "an integer", decode: integer(&f.Floors)},
		{name: "waterfront", kind: "0, 1, true or false", decode: func(raw json.RawMessage) error {
			v, err := decodeFlag(raw)
			f.Waterfront = v
			return err
		}},
		{name: "condition_grade", kind: "an integer", decode: integer(&f.ConditionGrade)},
	}
}

// Predict validates a property description and returns its price estimate
func (h *Handler) Predict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPredictBody)
	body, err := c.GetRawData()
	if err != nil {
		h.rejectPrediction(c, []FieldError{{Field: "body", Error: "body could not be read"}})
		return
	}

	features, fieldErrs := h.parseFeatures(body)
	if len(fieldErrs) > 0 {
		h.rejectPrediction(c, fieldErrs)
		return
	}

	prediction := h.estimator.Estimate(features)
	h.logger.WithFields(logrus.Fields{
		"model":           prediction.ModelUsed,
		"predicted_price": prediction.PredictedPrice,
	}).Debug("Computed price estimate")

	c.JSON(http.StatusOK, prediction)
}

func (h *Handler) rejectPrediction(c *gin.Context, errs []FieldError) {
	h.logger.WithField("field", errs[0].Field).Debug("Rejected prediction request")
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   errs[0].Error,
		Field:   errs[0].Field,
		Details: errs,
	})
}

// parseFeatures decodes each field on its own so type errors name the
// field, then checks ranges. Errors come back in field order.
func (h *Handler) parseFeatures(body []byte) (models.PropertyFeatures, []FieldError) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return models.PropertyFeatures{}, []FieldError{{Field: "body", Error: "body must be a JSON object"}}
	}

	var features models.PropertyFeatures
	fields := featureFields(&features)
	problems := make(map[string]string, len(fields))

	for _, f := range fields {
		value, ok := raw[f.name]
		switch {
		case !ok:
			problems[f.name] = f.name + " is required"
		case string(value) == "null":
			problems[f.name] = f.name + " must not be null"
		default:
			if err := f.decode(value); err != nil {
				problems[f.name] = f.name + " must be " + f.kind
			}
		}
	}

	checked, rangeErrs := h.features.Check(features)
	for _, fe := range rangeErrs {
		if _, seen := problems[fe.Field]; !seen {
			problems[fe.Field] = fe.Error
		}
	}

	if len(problems) > 0 {
		errs := make([]FieldError, 0, len(problems))
		for _, f := range fields {
			if msg, ok := problems[f.name]; ok {
				errs = append(errs, FieldError{Field: f.name, Error: msg})
			}
		}
		return models.PropertyFeatures{}, errs
	}

	return checked, nil
}

// decodeInt accepts any JSON number with an integral value, so 2000,
// 2000.0 and 2e3 all decode to 2000
func decodeInt(raw json.RawMessage) (int, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer: %v", n)
	}
	return int(n), nil
}

// decodeFlag accepts a JSON boolean or the numbers 0 and 1
func decodeFlag(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false, err
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("flag must be 0 or 1, got %v", n)
}
