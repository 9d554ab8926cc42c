package logging

// Standardized field names for structured logging. Keeping these in one place
// makes log output consistent and easy to filter.
const (
	FieldFile     = "file_path"
	FieldDir      = "directory"
	FieldMerchant = "merchant"
	FieldCategory = "category"
	FieldAccount  = "account_type"
	FieldSource   = "source"
	FieldCount    = "count"
	FieldYear     = "year"
	FieldMonth    = "month"
	FieldLayout   = "layout"
)
