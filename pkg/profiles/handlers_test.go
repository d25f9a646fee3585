package profiles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newPublicProfileContext(t *testing.T, db *bun.DB, username string, viewer *models.User) (*handler, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	h := &handler{profileService: NewService(db)}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues(username)
	if viewer != nil {
		c.Set("user_id", viewer.ID)
		c.Set("username", viewer.Username)
		c.Set("user", viewer)
	}

	return h, c, rec
}

func setProfileVisibility(ctx context.Context, t *testing.T, db *bun.DB, userID int, isPublic bool, bio string) {
	t.Helper()

	_, err := db.NewUpdate().
		Model((*models.UserProfile)(nil)).
		Set("is_public = ?", isPublic).
		Set("bio = ?", bio).
		Where("user_id = ?", userID).
		Exec(ctx)
	require.NoError(t, err)
}

func TestHandlerRetrievePublic_PublicProfile(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUserWithProfile(ctx, t, db, "reader")
	setProfileVisibility(ctx, t, db, userID, true, "I read a lot.")

	h, c, rec := newPublicProfileContext(t, db, "reader", nil)
	require.NoError(t, h.retrievePublic(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"reader"`)
	assert.Contains(t, rec.Body.String(), "I read a lot.")
}

func TestHandlerRetrievePublic_PrivateProfileHidden(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUserWithProfile(ctx, t, db, "reader")
	otherID := createTestUserWithProfile(ctx, t, db, "other")

	t.Run("anonymous viewer", func(tt *testing.T) {
		h, c, _ := newPublicProfileContext(t, db, "reader", nil)
		err := h.retrievePublic(c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "Profile not found")
	})

	t.Run("other user", func(tt *testing.T) {
		viewer := &models.User{ID: otherID, Username: "other"}
		h, c, _ := newPublicProfileContext(t, db, "reader", viewer)
		err := h.retrievePublic(c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "Profile not found")
	})

	t.Run("owner", func(tt *testing.T) {
		viewer := &models.User{ID: userID, Username: "reader"}
		h, c, rec := newPublicProfileContext(t, db, "reader", viewer)
		require.NoError(tt, h.retrievePublic(c))
		assert.Equal(tt, http.StatusOK, rec.Code)
	})
}

func TestHandlerRetrievePublic_UnknownUsername(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h, c, _ := newPublicProfileContext(t, db, "nobody", nil)
	err := h.retrievePublic(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Profile not found")
}
