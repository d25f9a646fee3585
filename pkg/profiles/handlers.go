package profiles

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

type handler struct {
	profileService *Service
}

// PublicProfileResponse is the profile shape shown to other readers.
type PublicProfileResponse struct {
	Username    string  `json:"username"`
	Bio         string  `json:"bio"`
	PicturePath *string `json:"picture_path"`
}

// retrievePublic serves a profile by username. Private profiles are only
// visible to their owner; everyone else gets a 404 rather than a 403 so the
// route doesn't confirm which usernames exist.
func (h *handler) retrievePublic(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	user, err := h.profileService.RetrieveUserWithProfile(ctx, username)
	if err != nil {
		return errors.WithStack(err)
	}

	if !user.Profile.IsPublic {
		viewer := auth.GetUserFromContext(c)
		if viewer == nil || viewer.ID != user.ID {
			return errcodes.NotFound("Profile")
		}
	}

	resp := PublicProfileResponse{
		Username:    user.Username,
		Bio:         user.Profile.Bio,
		PicturePath: user.Profile.PicturePath,
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	profile, err := h.profileService.RetrieveProfile(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, profile))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := UpdateProfilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	profile, err := h.profileService.RetrieveProfile(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateProfileOptions{Columns: []string{}}

	if params.IsPublic != nil && *params.IsPublic != profile.IsPublic {
		profile.IsPublic = *params.IsPublic
		opts.Columns = append(opts.Columns, "is_public")
	}
	if params.Bio != nil && *params.Bio != profile.Bio {
		profile.Bio = *params.Bio
		opts.Columns = append(opts.Columns, "bio")
	}
	if params.PicturePath != nil {
		profile.PicturePath = params.PicturePath
		opts.Columns = append(opts.Columns, "picture_path")
	}

	err = h.profileService.UpdateProfile(ctx, profile, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, profile))
}
