package constvars

const (
	URLParamID = "id"
)

const (
	QueryParamPage        = "page"
	QueryParamLimit       = "limit"
	QueryParamSortBy      = "sortBy"
	QueryParamSortOrder   = "sortOrder"
	QueryParamSortLegacy  = "sort"
	QueryParamFilterBy    = "filterBy"
	QueryParamFilterValue = "filterValue"
	QueryParamDebug       = "debug"
)

const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

const (
	DefaultPage         = 1
	DefaultLimit        = 10
	MaxLimit            = 100
	MaskedDebugValue    = "***"
	MaxDocumentUploadMB = 5
)

const (
	FormFieldDocument      = "document"
	FormFieldLicenseNumber = "licenseNumber"
	FormFieldIssuingBody   = "issuingBody"
)
