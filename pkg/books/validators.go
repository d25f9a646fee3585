package books

type ListBooksQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=to_be_read currently_reading completed abandoned"`
	Genre  *string `query:"genre" json:"genre,omitempty" validate:"omitempty,max=20"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Title      string  `json:"title" mod:"trim" validate:"required,max=300"`
	Author     string  `json:"author" mod:"trim" validate:"required,max=200"`
	ISBN       *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,isbn"`
	TotalPages int     `json:"total_pages" validate:"required,gt=0"`
	Genre      string  `json:"genre" validate:"required"`
}

type UpdateBookPayload struct {
	Title      *string `json:"title,omitempty" mod:"trim" validate:"omitempty,max=300"`
	Author     *string `json:"author,omitempty" mod:"trim" validate:"omitempty,max=200"`
	ISBN       *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,isbn"`
	TotalPages *int    `json:"total_pages,omitempty" validate:"omitempty,gt=0"`
	Genre      *string `json:"genre,omitempty"`
}
