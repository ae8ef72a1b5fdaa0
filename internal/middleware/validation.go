package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
)

// Validator checks request contracts against their struct tags and turns
// failures into invalid argument errors
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

// ValidateStruct validates v. The first failing field becomes an
// InvalidArgument error naming the allowed values when the tag lists them.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewAppValidationError(err.Error())
	}

	fe := verrs[0]
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "oneof":
		return apperrors.NewInvalidArgumentError(fe.Field(), value, strings.Fields(fe.Param())...)
	case "required":
		return apperrors.NewAppValidationError(fe.Field() + " is required")
	default:
		return apperrors.NewAppValidationError(formatValidationError(fe))
	}
}

// ChartRequestFromQuery builds a chart request from the query string of r
// and the chart name taken from the route
func (v *Validator) ChartRequestFromQuery(r *http.Request, chart string) (api.ChartRequest, error) {
	q := r.URL.Query()
	req := api.ChartRequest{
		Chart:    chart,
		Analytic: q.Get("analytic"),
		Order:    q.Get("order"),
	}

	if raw := q.Get("granularity"); raw != "" {
		g, err := strconv.Atoi(raw)
		if err != nil || g == 0 {
			v.logger.DebugContext(r.Context(), "granularity rejected", slog.String("value", raw))
			return req, apperrors.NewInvalidArgumentError("granularity", raw, "1", "2", "3")
		}
		req.Granularity = g
	}

	if err := v.ValidateStruct(req); err != nil {
		return req, err
	}
	return req.WithDefaults(), nil
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
