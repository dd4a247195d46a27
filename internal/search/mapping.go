package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for country documents.
//
// "folded" is the searchable name (ASCII, lowercase, punctuation as spaces) and is
// analyzed with the simple analyzer so every word is a term for prefix and fuzzy matching.
// "name" is stored for display only.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	foldedFieldMapping := bleve.NewTextFieldMapping()
	foldedFieldMapping.Analyzer = simple.Name
	foldedFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("folded", foldedFieldMapping)

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Index = false
	nameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Codes match exactly, upper case.
	iso3FieldMapping := bleve.NewTextFieldMapping()
	iso3FieldMapping.Analyzer = keyword.Name
	iso3FieldMapping.Store = true
	docMapping.AddFieldMappingsAt("iso3", iso3FieldMapping)

	alpha2FieldMapping := bleve.NewTextFieldMapping()
	alpha2FieldMapping.Analyzer = keyword.Name
	alpha2FieldMapping.Store = true
	docMapping.AddFieldMappingsAt("alpha2", alpha2FieldMapping)

	// Whole folded name as one term, for alphabetical listing.
	sortFieldMapping := bleve.NewTextFieldMapping()
	sortFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("sort_name", sortFieldMapping)

	hasDataFieldMapping := bleve.NewBooleanFieldMapping()
	hasDataFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("has_data", hasDataFieldMapping)

	totalFieldMapping := bleve.NewNumericFieldMapping()
	totalFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("total_sq_km", totalFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
