// Package domain models Spain's forest-fire statistics and the cleaning,
// resolution, and aggregation steps behind the dashboard views.
//
// # Data Source
//
// Fire records come from the national forest-fire statistics (EGIF)
// published by the Spanish environment ministry and redistributed through
// datos.gob.es as semicolon-separated CSV. One row is one fire event.
// Column names are Spanish, lowercase, and case-sensitive:
//
//	anio                   year the fire was recorded
//	idpeligro              danger classification id
//	idprovincia            province code (INE numbering)
//	provincia              province name as written in the source
//	numeromediospersonal   personnel units deployed
//	numeromediospesados    heavy machinery units deployed
//	numeromediosaereos     aerial units deployed
//	perdidassuperficiales  surface lost, hectares
//	idcausa                cause code
//
// Unrecognized columns are dropped during Prepare; recognized columns may
// be absent entirely, and every operation that requires one says so with a
// [MissingColumnsError] instead of guessing.
//
// # Sentinels
//
// Source cells are frequently blank or junk ("", "S/D", stray text in
// numeric columns). Cell parsing never fails; each column degrades to its
// own sentinel:
//
//	anio, idpeligro, idprovincia:  -1
//	resource counts:               0
//	perdidassuperficiales:         missing (distinct from zero hectares)
//	intencionado:                  false
//
// # Cause Codes
//
// Codes 400-499 inclusive mark deliberately set fires. The derived
// intencionado column is true exactly for that range; rows without a
// readable cause count as not intentional rather than unknown.
//
// # Derived Columns
//
// Prepare adds intencionado and hectareas_quemadas (perdidassuperficiales
// with missing read as zero; the column burned-area views prefer, falling
// back to the raw column when a caller narrowed it away). TotalResources
// adds total_medios, the per-row sum of the three resource counts.
//
// # Province Boundaries
//
// Province names are resolved against a boundary GeoJSON whose feature
// properties carry the province code (default key "cod_prov") and name
// (default key "name"). The code→name lookup is built once per load;
// geometry is never interpreted here.
package domain
