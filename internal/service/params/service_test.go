package params

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/mocks"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

type fixture struct {
	users   *mocks.UserStore
	decks   *mocks.DeckStore
	service *Service
	user    *domain.User
	deck    *domain.Deck
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := mocks.NewUserStore()
	decks := mocks.NewDeckStore()

	user, err := domain.NewUser("learner@example.com", "Learner")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))

	deck, err := domain.NewDeck(user.ID, "JLPT N2 Vocabulary", "")
	require.NoError(t, err)
	require.NoError(t, decks.Create(context.Background(), deck))

	return &fixture{
		users:   users,
		decks:   decks,
		service: NewService(users, decks, nil),
		user:    user,
		deck:    deck,
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("user defaults when deck has no override", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		resolved, err := f.service.Resolve(context.Background(), f.user.ID, f.deck.ID)
		require.NoError(t, err)
		assert.Equal(t, f.user.Parameters, resolved)
	})

	t.Run("deck override wins wholesale", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		override := domain.DefaultParameters()
		override.RequestRetention = 0.85
		override.CardLimit = 5
		require.NoError(t, f.decks.UpdateParameters(context.Background(), f.deck.ID, &override))

		resolved, err := f.service.Resolve(context.Background(), f.user.ID, f.deck.ID)
		require.NoError(t, err)
		assert.Equal(t, override, resolved)
	})

	t.Run("missing deck", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.service.Resolve(context.Background(), f.user.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.service.Resolve(context.Background(), uuid.New(), f.deck.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUpdateUserParameters(t *testing.T) {
	t.Parallel()

	t.Run("merges only provided fields", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		patch := domain.FSRSParametersPatch{
			RequestRetention: floatPtr(0.85),
			CardLimit:        intPtr(30),
		}

		merged, err := f.service.UpdateUserParameters(context.Background(), f.user.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, 0.85, merged.RequestRetention)
		assert.Equal(t, 30, merged.CardLimit)
		// Untouched fields keep their stored values.
		assert.Equal(t, f.user.Parameters.MaximumInterval, merged.MaximumInterval)
		assert.Equal(t, f.user.Parameters.Weights, merged.Weights)

		stored, err := f.users.GetByID(context.Background(), f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, merged, stored.Parameters)
	})

	t.Run("invalid merge writes nothing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		patch := domain.FSRSParametersPatch{RequestRetention: floatPtr(1.5)}

		_, err := f.service.UpdateUserParameters(context.Background(), f.user.ID, patch)
		assert.ErrorIs(t, err, domain.ErrInvalidParameters)

		stored, getErr := f.users.GetByID(context.Background(), f.user.ID)
		require.NoError(t, getErr)
		assert.Equal(t, f.user.Parameters, stored.Parameters)
	})

	t.Run("wrong weight vector length rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		short := []float64{0.4, 1.2}
		patch := domain.FSRSParametersPatch{Weights: &short}

		_, err := f.service.UpdateUserParameters(context.Background(), f.user.ID, patch)
		assert.ErrorIs(t, err, domain.ErrInvalidParameters)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.service.UpdateUserParameters(
			context.Background(), uuid.New(), domain.FSRSParametersPatch{})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUpdateDeckParameters(t *testing.T) {
	t.Parallel()

	t.Run("creates override from user base", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		patch := domain.FSRSParametersPatch{RequestRetention: floatPtr(0.8)}

		merged, err := f.service.UpdateDeckParameters(
			context.Background(), f.user.ID, f.deck.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, 0.8, merged.RequestRetention)
		assert.Equal(t, f.user.Parameters.MaximumInterval, merged.MaximumInterval)

		stored, err := f.decks.GetByID(context.Background(), f.deck.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.Parameters)
		assert.Equal(t, merged, *stored.Parameters)
	})

	t.Run("patches existing override", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		override := domain.DefaultParameters()
		override.CardLimit = 5
		require.NoError(t, f.decks.UpdateParameters(context.Background(), f.deck.ID, &override))

		patch := domain.FSRSParametersPatch{RequestRetention: floatPtr(0.8)}
		merged, err := f.service.UpdateDeckParameters(
			context.Background(), f.user.ID, f.deck.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, 0.8, merged.RequestRetention)
		assert.Equal(t, 5, merged.CardLimit, "existing override fields survive the patch")
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stranger, err := domain.NewUser("other@example.com", "Other")
		require.NoError(t, err)
		require.NoError(t, f.users.Create(context.Background(), stranger))

		_, err = f.service.UpdateDeckParameters(
			context.Background(), stranger.ID, f.deck.ID, domain.FSRSParametersPatch{})
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestClearDeckParameters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	override := domain.DefaultParameters()
	override.CardLimit = 5
	require.NoError(t, f.decks.UpdateParameters(context.Background(), f.deck.ID, &override))

	require.NoError(t, f.service.ClearDeckParameters(context.Background(), f.user.ID, f.deck.ID))

	resolved, err := f.service.Resolve(context.Background(), f.user.ID, f.deck.ID)
	require.NoError(t, err)
	assert.Equal(t, f.user.Parameters, resolved, "deck falls back to user defaults")
}
