package scoring

// Trigger field names, matching the JSON attribute names of the update
// payload. Status and value changes deliberately do not trigger: they
// feed the temperature axis, not the quality score.
const (
	FieldCompany         = "company"
	FieldJobTitle        = "jobTitle"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldSource          = "source"
	FieldInteractions    = "interactions"
	FieldPurchaseHistory = "purchaseHistory"
)

var triggerFields = map[string]struct{}{
	FieldCompany:         {},
	FieldJobTitle:        {},
	FieldEmail:           {},
	FieldPhone:           {},
	FieldSource:          {},
	FieldInteractions:    {},
	FieldPurchaseHistory: {},
}

// RequiresRecalculation reports whether a partial update touching the
// given fields must re-run the score before persisting. Touching any
// non-trigger field (notes, names, status, value) short-circuits the
// recomputation as a cost saving.
func RequiresRecalculation(touched []string) bool {
	for _, field := range touched {
		if _, ok := triggerFields[field]; ok {
			return true
		}
	}
	return false
}
