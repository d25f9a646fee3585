package goals

type ListGoalsQuery struct {
	Limit  int  `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int  `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Active bool `query:"active" json:"active,omitempty"`
}

type CreateGoalPayload struct {
	GoalType    string `json:"goal_type" validate:"required,oneof=daily weekly monthly yearly"`
	TargetPages int    `json:"target_pages" validate:"required,gt=0"`
	TargetBooks int    `json:"target_books" validate:"min=0"`
	StartDate   string `json:"start_date" validate:"required,date"`
	EndDate     string `json:"end_date" validate:"required,date"`
}

type UpdateGoalPayload struct {
	TargetPages *int    `json:"target_pages,omitempty" validate:"omitempty,gt=0"`
	TargetBooks *int    `json:"target_books,omitempty" validate:"omitempty,min=0"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,date"`
}
