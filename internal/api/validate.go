package api

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"housevalue/server/config"
	"housevalue/server/internal/models"
)

var ErrInvalidFeatures = errors.New("invalid property features")

// FeatureValidator checks property features against the accepted ranges
// and the zone table. Both the HTTP adapter and the CLI go through it.
type FeatureValidator struct {
	validate *validator.Validate
	zones    *config.ZoneTable
}

func NewFeatureValidator(zones *config.ZoneTable, referenceYear int) *FeatureValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
		_, ok := zones.Lookup(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		doubled := fl.Field().Float() * 2
		return doubled == math.Trunc(doubled)
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(referenceYear)
	})

	return &FeatureValidator{validate: v, zones: zones}
}

// Check returns the range violations of features in field order. On
// success the location is replaced by the zone's canonical name.
func (v *FeatureValidator) Check(features models.PropertyFeatures) (models.PropertyFeatures, []FieldError) {
	if err := v.validate.Struct(features); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.PropertyFeatures{}, []FieldError{{Field: "body", Error: err.Error()}}
		}
		errs := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			errs = append(errs, FieldError{Field: fe.Field(), Error: v.describe(fe)})
		}
		return models.PropertyFeatures{}, errs
	}

	zone, _ := v.zones.Lookup(features.Location)
	features.Location = zone.Name
	return features, nil
}

// Validate is Check for callers that only need the first problem
func (v *FeatureValidator) Validate(features models.PropertyFeatures) (models.PropertyFeatures, error) {
	checked, errs := v.Check(features)
	if len(errs) > 0 {
		return models.PropertyFeatures{}, fmt.Errorf("%w: %s", ErrInvalidFeatures, errs[0].Error)
	}
	return checked, nil
}

func (v *FeatureValidator) describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "zone":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(v.zones.Names(), ", "))
	case "halfstep":
		return fmt.Sprintf("%s must be a multiple of 0.5", fe.Field())
	case "notfuture":
		return fmt.Sprintf("%s must not be in the future", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
