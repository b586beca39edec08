package study

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/mocks"
	"github.com/fukushu-app/fukushu-api/internal/service/params"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

type fixture struct {
	users      *mocks.UserStore
	decks      *mocks.DeckStore
	cards      *mocks.CardStore
	logs       *mocks.ReviewLogStore
	deckStates *mocks.UserDeckStateStore
	service    *Service
	user       *domain.User
	deck       *domain.Deck
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	users := mocks.NewUserStore()
	decks := mocks.NewDeckStore()
	cards := mocks.NewCardStore()
	logs := mocks.NewReviewLogStore(cards)
	deckStates := mocks.NewUserDeckStateStore()

	user, err := domain.NewUser("learner@example.com", "Learner")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	deck, err := domain.NewDeck(user.ID, "Kanji", "")
	require.NoError(t, err)
	require.NoError(t, decks.Create(ctx, deck))

	paramsService := params.NewService(users, decks, nil)
	return &fixture{
		users:      users,
		decks:      decks,
		cards:      cards,
		logs:       logs,
		deckStates: deckStates,
		service:    NewService(users, decks, cards, logs, deckStates, paramsService, nil),
		user:       user,
		deck:       deck,
	}
}

// addCards creates n cards with strictly increasing creation times so the
// deck's natural order matches insertion order.
func (f *fixture) addCards(t *testing.T, n int, base time.Time) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		card := &domain.Card{
			ID:        uuid.New(),
			DeckID:    f.deck.ID,
			Front:     "front",
			Back:      "back",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}
		require.NoError(t, f.cards.Create(context.Background(), card))
		ids = append(ids, card.ID)
	}
	return ids
}

// recordReview appends a log entry for the card with the given due date.
func (f *fixture) recordReview(
	t *testing.T,
	cardID uuid.UUID,
	state domain.CardState,
	reviewedAt, due time.Time,
) {
	t.Helper()

	entry := &domain.ReviewLog{
		ID:         uuid.New(),
		UserID:     f.user.ID,
		CardID:     cardID,
		Grade:      domain.GradeGood,
		State:      state,
		Due:        due,
		Stability:  1,
		Difficulty: 5,
		ReviewedAt: reviewedAt,
		CreatedAt:  reviewedAt,
	}
	require.NoError(t, f.logs.Insert(context.Background(), entry))
}

func TestGetDueCardsNewDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ids := f.addCards(t, 3, now.AddDate(0, 0, -1))

	selected, err := f.service.GetDueCards(context.Background(), f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	assert.Equal(t, ids, selected, "all cards are new and under quota, natural order")
}

func TestGetDueCardsEmptyDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	selected, err := f.service.GetDueCards(
		context.Background(), f.user.ID, f.deck.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, selected)
	assert.NotNil(t, selected)
}

func TestGetDueCardsNewQuotaExhausted(t *testing.T) {
	t.Parallel()

	// Deck limit 5, five new cards already introduced today, three untouched
	// new candidates, two due cards pending: exactly the two due cards come
	// back.
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	override := domain.DefaultParameters()
	override.CardLimit = 5
	require.NoError(t, f.decks.UpdateParameters(ctx, f.deck.ID, &override))

	ids := f.addCards(t, 10, now.AddDate(0, 0, -7))
	seenToday, untouched, due := ids[:5], ids[5:8], ids[8:]

	for _, id := range seenToday {
		f.recordReview(t, id, domain.StateLearning, now.Add(-2*time.Hour), now.AddDate(0, 0, 1))
	}
	for _, id := range due {
		f.recordReview(t, id, domain.StateReview, now.AddDate(0, 0, -3), now.Add(-time.Hour))
	}

	selected, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	assert.Equal(t, due, selected, "no new cards once the daily limit is spent")
	assert.NotContains(t, selected, untouched[0])
}

func TestGetDueCardsPartialNewQuota(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	override := domain.DefaultParameters()
	override.CardLimit = 3
	require.NoError(t, f.decks.UpdateParameters(ctx, f.deck.ID, &override))

	ids := f.addCards(t, 6, now.AddDate(0, 0, -7))

	// Two introduced today leaves room for one more new card.
	f.recordReview(t, ids[0], domain.StateLearning, now.Add(-time.Hour), now.AddDate(0, 0, 1))
	f.recordReview(t, ids[1], domain.StateReview, now.Add(-time.Hour), now.AddDate(0, 0, 3))

	selected, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[2]}, selected,
		"one new slot left, nothing due, natural order picks the earliest card")
}

func TestGetDueCardsYesterdayDoesNotCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	override := domain.DefaultParameters()
	override.CardLimit = 1
	require.NoError(t, f.decks.UpdateParameters(ctx, f.deck.ID, &override))

	ids := f.addCards(t, 2, now.AddDate(0, 0, -7))

	// Introduced yesterday evening; the daily quota resets at local midnight.
	f.recordReview(t, ids[0], domain.StateLearning,
		now.Add(-10*time.Hour), now.AddDate(0, 0, 2))

	selected, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[1]}, selected)
}

func TestGetDueCardsReviewQuota(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	override := domain.DefaultParameters()
	override.CardLimit = 2
	require.NoError(t, f.decks.UpdateParameters(ctx, f.deck.ID, &override))

	state, err := domain.NewUserDeckState(f.user.ID, f.deck.ID)
	require.NoError(t, err)
	state.ReviewsPerDay = 4
	f.deckStates.Put(state)

	ids := f.addCards(t, 8, now.AddDate(0, 0, -7))
	for _, id := range ids[2:] {
		f.recordReview(t, id, domain.StateReview, now.AddDate(0, 0, -5), now.Add(-time.Hour))
	}

	selected, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	// Two new plus 4-2=2 due.
	assert.Equal(t, []uuid.UUID{ids[0], ids[1], ids[2], ids[3]}, selected)
}

func TestGetDueCardsExcludesNotYetDue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	ids := f.addCards(t, 2, now.AddDate(0, 0, -7))
	f.recordReview(t, ids[0], domain.StateReview, now.AddDate(0, 0, -1), now.AddDate(0, 0, 2))
	f.recordReview(t, ids[1], domain.StateReview, now.AddDate(0, 0, -5), now)

	selected, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[1]}, selected, "due-at-now is due, future is not")
}

func TestGetDueCardsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	ids := f.addCards(t, 5, now.AddDate(0, 0, -7))
	f.recordReview(t, ids[3], domain.StateReview, now.AddDate(0, 0, -5), now.Add(-time.Hour))

	first, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	second, err := f.service.GetDueCards(ctx, f.user.ID, f.deck.ID, now)
	require.NoError(t, err)
	assert.Equal(t, first, second, "selection is a pure read")
}

func TestGetDueCardsMissingUserOrDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	now := time.Now().UTC()

	_, err := f.service.GetDueCards(context.Background(), uuid.New(), f.deck.ID, now)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = f.service.GetDueCards(context.Background(), f.user.ID, uuid.New(), now)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}
