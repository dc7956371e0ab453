package domain

// Search field data types
const (
	FieldTypeString = "Edm.String"
)

// StandardAnalyzer is the Lucene analyzer used for full-text fields
const StandardAnalyzer = "standard.lucene"

// Field describes one field of a search index
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Key         bool   `json:"key"`
	Searchable  bool   `json:"searchable"`
	Filterable  bool   `json:"filterable"`
	Retrievable bool   `json:"retrievable"`
	Analyzer    string `json:"analyzer,omitempty"`
}

// Index is a search index definition
type Index struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// DocumentIndex returns the fixed schema used for document chunks
func DocumentIndex(name string) Index {
	return Index{
		Name: name,
		Fields: []Field{
			{Name: "id", Type: FieldTypeString, Key: true, Filterable: true, Retrievable: true},
			{Name: "content", Type: FieldTypeString, Searchable: true, Retrievable: true, Analyzer: StandardAnalyzer},
			{Name: "source", Type: FieldTypeString, Filterable: true, Retrievable: true},
		},
	}
}

// FieldNames returns the index field names in schema order
func (i Index) FieldNames() []string {
	names := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		names[n] = f.Name
	}
	return names
}

// IndexReport is the result of verifying an index
type IndexReport struct {
	Name          string  `json:"name"`
	Fields        []Field `json:"fields"`
	DocumentCount int64   `json:"document_count"`
}
