package schema

// CommentTable represents the 'reviews.comment' table
type CommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// Comment is the schema definition for reviews.comment
var Comment = CommentTable{
	Table:    "reviews.comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Text:     "text",
	PubDate:  "pubdate",
}

// Columns returns all standard column names
func (t CommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.PubDate}
}
