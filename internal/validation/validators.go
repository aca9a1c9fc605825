package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request bodies.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Report field names by their json tag so validation details match the
	// wire format.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Per-entity order_by whitelists. An unrecognized value is rejected at the
// HTTP boundary before any repository call.
var (
	UsersOrderBy         = []string{"created_at_desc", "created_at_asc", "email_asc", "email_desc"}
	ModelVersionsOrderBy = []string{"created_at_desc", "created_at_asc", "model_name_asc", "model_name_desc"}
	ConversationsOrderBy = []string{"created_at_desc", "created_at_asc", "latency_ms_asc", "latency_ms_desc"}
)

// IsAllowedOrderBy reports whether value is in the entity's whitelist.
func IsAllowedOrderBy(value string, allowed []string) bool {
	for _, v := range allowed {
		if value == v {
			return true
		}
	}
	return false
}
