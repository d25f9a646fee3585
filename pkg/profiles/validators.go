package profiles

// UpdateProfilePayload represents the profile update request body.
type UpdateProfilePayload struct {
	IsPublic    *bool   `json:"is_public,omitempty"`
	Bio         *string `json:"bio,omitempty" mod:"trim" validate:"omitempty,max=500"`
	PicturePath *string `json:"picture_path,omitempty" validate:"omitempty,max=500"`
}
