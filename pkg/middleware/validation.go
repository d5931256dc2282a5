package middleware

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wms-platform/warehouse-ops/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var (
	skuPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,49}$`)
	unsafeChars = "\x00<>"
)

// rule is a custom binding tag and the message reported when it fails
type rule struct {
	check   validator.Func
	message string
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(values, fl.Field().String())
	}
}

var rules = map[string]rule{
	"sku": {
		check:   func(fl validator.FieldLevel) bool { return skuPattern.MatchString(fl.Field().String()) },
		message: "must be a valid SKU (alphanumeric with dashes)",
	},
	"task_priority": {
		check:   oneOf("urgent", "high", "medium", "low"),
		message: "must be one of: urgent, high, medium, low",
	},
	"order_priority": {
		check:   oneOf("standard", "express", "urgent"),
		message: "must be one of: standard, express, urgent",
	},
	"safe_string": {
		check:   func(fl validator.FieldLevel) bool { return !strings.ContainsAny(fl.Field().String(), unsafeChars) },
		message: "contains invalid characters",
	},
}

// InitValidator registers the warehouse tags on gin's binding engine and
// returns a standalone validator carrying the same tags
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		register(validate)
		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(engine)
		}
	})
	return validate
}

func register(v *validator.Validate) {
	for tag, r := range rules {
		_ = v.RegisterValidation(tag, r.check)
	}
	v.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// ValidationErrorFormatter maps each failing field to a readable message
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return fields
	}
	for _, e := range validationErrors {
		fields[e.Field()] = describe(e)
	}
	return fields
}

func describe(e validator.FieldError) string {
	if r, ok := rules[e.Tag()]; ok {
		return r.message
	}
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return "is invalid"
}

// BindAndValidate binds the JSON body and runs struct validation
func BindAndValidate(c *gin.Context, obj any) *errors.AppError {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		return errors.ErrValidationWithFields("validation failed", ValidationErrorFormatter(err))
	}
	return errors.ErrBadRequest("invalid request body: " + err.Error())
}

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// InputSanitizer middleware sanitizes query parameters
func InputSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.RawQuery != "" {
			query := c.Request.URL.Query()
			for _, values := range query {
				for i, v := range values {
					values[i] = SanitizeString(v)
				}
			}
			c.Request.URL.RawQuery = query.Encode()
		}
		c.Next()
	}
}

// ContentType middleware rejects non-JSON bodies on POST/PUT/PATCH
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			contentType := c.GetHeader("Content-Type")
			if c.Request.ContentLength > 0 && !strings.HasPrefix(contentType, "application/json") {
				AbortWithAppError(c, errors.New(errors.CodeUnsupportedMediaType, "Content-Type must be application/json"))
				return
			}
		}
		c.Next()
	}
}
