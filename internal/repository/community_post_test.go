package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/testutil"
)

func Test_communityPostRepository_HighFives(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewCommunityPostRepository()

	post := &entity.CommunityPost{
		Base:      entity.Base{ID: uuid.NewString()},
		PatientID: "patient1",
		Type:      "level_up",
		Content:   "content",
		IsAnon:    true,
		AnonName:  "RecoveryHero_ent1",
	}
	require.NoError(t, repo.Create(ctx, post))

	require.NoError(t, repo.AddHighFive(ctx, post.ID))
	require.NoError(t, repo.AddHighFive(ctx, post.ID))

	posts, err := repo.GetRecent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, 2, posts[0].HighFives)

	require.Error(t, repo.AddHighFive(ctx, "no-such-id"))

	count, err := repo.Count(ctx, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
