package genres

// Genre is one entry in the fixed genre taxonomy books are classified under.
type Genre struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// All lists the full taxonomy, grouped by category.
var All = []Genre{
	{Code: "FIC_LIT", Name: "Literary Fiction", Category: "Fiction"},
	{Code: "FIC_MYS", Name: "Mystery", Category: "Fiction"},
	{Code: "FIC_THR", Name: "Thriller", Category: "Fiction"},
	{Code: "FIC_SFF", Name: "Science Fiction/Fantasy", Category: "Fiction"},
	{Code: "FIC_ROM", Name: "Romance", Category: "Fiction"},
	{Code: "FIC_HIS", Name: "Historical Fiction", Category: "Fiction"},
	{Code: "NON_BIO", Name: "Biography/Memoir", Category: "Non-Fiction"},
	{Code: "NON_HIS", Name: "History", Category: "Non-Fiction"},
	{Code: "NON_SCI", Name: "Science", Category: "Non-Fiction"},
	{Code: "NON_TECH", Name: "Technology", Category: "Non-Fiction"},
	{Code: "NON_SELF", Name: "Self-Help", Category: "Non-Fiction"},
	{Code: "NON_BUS", Name: "Business", Category: "Non-Fiction"},
	{Code: "NON_PHIL", Name: "Philosophy", Category: "Non-Fiction"},
	{Code: "OTH_POET", Name: "Poetry", Category: "Other"},
	{Code: "OTH_DRAMA", Name: "Drama", Category: "Other"},
	{Code: "OTH_COMIC", Name: "Comics/Graphic Novels", Category: "Other"},
	{Code: "OTH_CHILD", Name: "Children's", Category: "Other"},
	{Code: "OTH_YA", Name: "Young Adult", Category: "Other"},
	{Code: "OTH_OTHER", Name: "Other", Category: "Other"},
}

var byCode = func() map[string]Genre {
	m := make(map[string]Genre, len(All))
	for _, g := range All {
		m[g.Code] = g
	}
	return m
}()

// IsValid reports whether code is part of the taxonomy.
func IsValid(code string) bool {
	_, ok := byCode[code]
	return ok
}

// DisplayName returns the human-readable name for a genre code, or the code
// itself if it is unknown.
func DisplayName(code string) string {
	if g, ok := byCode[code]; ok {
		return g.Name
	}
	return code
}
