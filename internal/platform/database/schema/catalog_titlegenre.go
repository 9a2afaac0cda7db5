package schema

// CatalogTitleGenreTable represents the 'catalog.titlegenre' join table
type CatalogTitleGenreTable struct {
	Table   string
	ID      string
	TitleID string
	GenreID string
}

// CatalogTitleGenre is the schema definition for catalog.titlegenre
var CatalogTitleGenre = CatalogTitleGenreTable{
	Table:   "catalog.titlegenre",
	ID:      "id",
	TitleID: "titleid",
	GenreID: "genreid",
}

// Columns returns all standard column names
func (t CatalogTitleGenreTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.GenreID}
}
