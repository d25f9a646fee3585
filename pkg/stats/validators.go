package stats

// WindowQuery selects the reporting window for series and streak endpoints.
// The default mirrors the configured stats window.
type WindowQuery struct {
	Days int `query:"days" json:"days,omitempty" validate:"omitempty,min=1,max=366"`
}
