package domain

// Column names exactly as they appear in the source CSV. Case-sensitive.
const (
	ColYear         = "anio"
	ColDangerID     = "idpeligro"
	ColProvinceID   = "idprovincia"
	ColProvinceName = "provincia"
	ColPersonnel    = "numeromediospersonal"
	ColHeavy        = "numeromediospesados"
	ColAir          = "numeromediosaereos"
	ColBurnedArea   = "perdidassuperficiales"
	ColCause        = "idcausa"
)

// Columns derived during cleaning and aggregation.
const (
	ColIntentional     = "intencionado"
	ColBurnedAreaAlias = "hectareas_quemadas"
	ColTotalResources  = "total_medios"
)

// DefaultColumns is the column set Prepare keeps when the caller does not
// narrow it.
var DefaultColumns = []string{
	ColYear,
	ColDangerID,
	ColProvinceID,
	ColProvinceName,
	ColPersonnel,
	ColHeavy,
	ColAir,
	ColBurnedArea,
	ColCause,
}

// ResourceColumns are the per-category firefighting resource counts, in
// the order aggregations report them.
var ResourceColumns = []string{ColPersonnel, ColHeavy, ColAir}

// PreparedColumns is the canonical column order of a prepared table:
// the default set followed by the columns Prepare derives. Exporters and
// the records API list columns in this order.
var PreparedColumns = append(append([]string{}, DefaultColumns...), ColIntentional, ColBurnedAreaAlias)

// Cause codes in this inclusive range mark deliberately set fires.
const (
	IntentionalCauseLower = 400
	IntentionalCauseUpper = 499
)
