package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/service/lookup"
	"github.com/heartmarshall/myvocab-backend/internal/service/review"
	"github.com/heartmarshall/myvocab-backend/internal/transport/middleware"
	"github.com/heartmarshall/myvocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockLookupService struct {
	LookupFunc        func(ctx context.Context, word string) (*lookup.Outcome, error)
	SearchUnitsFunc   func(ctx context.Context, query string, limit int) ([]domain.UnitSummary, error)
	GetUnitDetailFunc func(ctx context.Context, unitID uuid.UUID) (*domain.UnitDetail, error)
}

func (m *mockLookupService) Lookup(ctx context.Context, word string) (*lookup.Outcome, error) {
	return m.LookupFunc(ctx, word)
}

func (m *mockLookupService) SearchUnits(ctx context.Context, query string, limit int) ([]domain.UnitSummary, error) {
	return m.SearchUnitsFunc(ctx, query, limit)
}

func (m *mockLookupService) GetUnitDetail(ctx context.Context, unitID uuid.UUID) (*domain.UnitDetail, error) {
	return m.GetUnitDetailFunc(ctx, unitID)
}

type mockReviewService struct {
	AddToVocabFunc          func(ctx context.Context, unitID uuid.UUID) (bool, error)
	SubmitReviewFunc        func(ctx context.Context, input review.SubmitReviewInput) (*domain.UserVocab, error)
	DueCountFunc            func(ctx context.Context) (int, error)
	DueItemsFunc            func(ctx context.Context, input review.DueItemsInput) ([]domain.DueItem, error)
	SummaryFunc             func(ctx context.Context) (domain.VocabSummary, error)
	RecordDailyProgressFunc func(ctx context.Context) (domain.ProgressRecord, error)
	RecentProgressFunc      func(ctx context.Context, input review.RecentProgressInput) ([]domain.ProgressRecord, error)
}

func (m *mockReviewService) AddToVocab(ctx context.Context, unitID uuid.UUID) (bool, error) {
	return m.AddToVocabFunc(ctx, unitID)
}

func (m *mockReviewService) SubmitReview(ctx context.Context, input review.SubmitReviewInput) (*domain.UserVocab, error) {
	return m.SubmitReviewFunc(ctx, input)
}

func (m *mockReviewService) DueCount(ctx context.Context) (int, error) {
	return m.DueCountFunc(ctx)
}

func (m *mockReviewService) DueItems(ctx context.Context, input review.DueItemsInput) ([]domain.DueItem, error) {
	return m.DueItemsFunc(ctx, input)
}

func (m *mockReviewService) Summary(ctx context.Context) (domain.VocabSummary, error) {
	return m.SummaryFunc(ctx)
}

func (m *mockReviewService) RecordDailyProgress(ctx context.Context) (domain.ProgressRecord, error) {
	return m.RecordDailyProgressFunc(ctx)
}

func (m *mockReviewService) RecentProgress(ctx context.Context, input review.RecentProgressInput) ([]domain.ProgressRecord, error) {
	return m.RecentProgressFunc(ctx, input)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func passThrough(next http.Handler) http.Handler { return next }

func newTestServer(t *testing.T, ls lookupService, rs reviewService) *httptest.Server {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	mux := NewRouter(Handlers{
		Health: NewHealthHandler(&dbPingerMock{}, "test"),
		Lookup: NewLookupHandler(ls, log),
		Vocab:  NewVocabHandler(rs, log),
	}, passThrough)

	srv := httptest.NewServer(middleware.UserIdentity()(mux))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, userID *uuid.UUID) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != nil {
		req.Header.Set(middleware.UserIDHeader, userID.String())
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func testSummary(label string) domain.UnitSummary {
	return domain.UnitSummary{
		Unit: domain.LearningUnit{
			ID:                    uuid.New(),
			Label:                 label,
			StemID:                uuid.New(),
			GroupID:               uuid.New(),
			RepresentativeEntryID: uuid.New(),
			MatchMethod:           domain.MatchStem,
			CreatedAt:             time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		Stem:        label,
		StemNorm:    strings.ToLower(label),
		Fingerprint: "fp",
	}
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

func TestLookup_NewUnitReturns201(t *testing.T) {
	t.Parallel()

	u := testSummary("run")
	groupID := uuid.New()
	entryID := uuid.New()

	ls := &mockLookupService{
		LookupFunc: func(_ context.Context, word string) (*lookup.Outcome, error) {
			assert.Equal(t, "Run", word)
			return &lookup.Outcome{
				Kind:    lookup.KindNewWithNewGroup,
				Key:     "run",
				Unit:    &u,
				Group:   domain.LexicalGroup{ID: groupID},
				Graphs:  []*domain.EntryGraph{{Entry: domain.Entry{ID: entryID}}},
				Created: true,
			}, nil
		},
	}
	srv := newTestServer(t, ls, &mockReviewService{})

	resp := do(t, srv, http.MethodPost, "/api/lookup", `{"word":"Run"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	got := decode[lookupResponse](t, resp)
	assert.Equal(t, "new_with_new_group", got.Kind)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "run", got.Unit.Label)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, groupID.String(), *got.GroupID)
	assert.Equal(t, []string{entryID.String()}, got.EntryIDs)
	assert.True(t, got.Created)
}

func TestLookup_NoneReturnsSuggestions(t *testing.T) {
	t.Parallel()

	ls := &mockLookupService{
		LookupFunc: func(context.Context, string) (*lookup.Outcome, error) {
			return &lookup.Outcome{
				Kind:        lookup.KindNone,
				Key:         "runn",
				Reason:      "suggestions",
				Suggestions: []string{"run", "rune"},
			}, nil
		},
	}
	srv := newTestServer(t, ls, &mockReviewService{})

	resp := do(t, srv, http.MethodPost, "/api/lookup", `{"word":"runn"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[lookupResponse](t, resp)
	assert.Equal(t, "none", got.Kind)
	assert.Equal(t, []string{"run", "rune"}, got.Suggestions)
	assert.Nil(t, got.Unit)
	assert.Nil(t, got.GroupID)
}

func TestLookup_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("word", "required"), http.StatusBadRequest},
		{"upstream", fmt.Errorf("fetch word: %w", domain.ErrUpstream), http.StatusBadGateway},
		{"missing entry id", fmt.Errorf("parse entries: %w", domain.ErrMissingEntryID), http.StatusBadGateway},
		{"conflict", domain.ErrAlreadyExists, http.StatusConflict},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ls := &mockLookupService{
				LookupFunc: func(context.Context, string) (*lookup.Outcome, error) {
					return nil, tt.err
				},
			}
			srv := newTestServer(t, ls, &mockReviewService{})

			resp := do(t, srv, http.MethodPost, "/api/lookup", `{"word":"x"}`, nil)
			assert.Equal(t, tt.want, resp.StatusCode)

			body := decode[map[string]string](t, resp)
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body["error"], "boom")
		})
	}
}

func TestLookup_InvalidBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mockLookupService{}, &mockReviewService{})

	resp := do(t, srv, http.MethodPost, "/api/lookup", `{"word":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchUnits_PassesQueryAndLimit(t *testing.T) {
	t.Parallel()

	ls := &mockLookupService{
		SearchUnitsFunc: func(_ context.Context, query string, limit int) ([]domain.UnitSummary, error) {
			assert.Equal(t, "mer", query)
			assert.Equal(t, 5, limit)
			return []domain.UnitSummary{testSummary("Mercury"), testSummary("mercury")}, nil
		},
	}
	srv := newTestServer(t, ls, &mockReviewService{})

	resp := do(t, srv, http.MethodGet, "/api/units?q=mer&limit=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[[]unitResponse](t, resp)
	require.Len(t, got, 2)
	assert.Equal(t, "Mercury", got[0].Label)
	assert.Equal(t, "stem", got[0].MatchMethod)
	assert.False(t, got[0].Fallback)
}

func TestSearchUnits_BadLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mockLookupService{}, &mockReviewService{})

	resp := do(t, srv, http.MethodGet, "/api/units?limit=ten", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUnit_Detail(t *testing.T) {
	t.Parallel()

	entryID := uuid.New()
	senseID := uuid.New()
	audio := "run00001"
	written := "ˈrən"
	s := testSummary("run")

	ls := &mockLookupService{
		GetUnitDetailFunc: func(_ context.Context, id uuid.UUID) (*domain.UnitDetail, error) {
			assert.Equal(t, s.Unit.ID, id)
			return &domain.UnitDetail{
				Unit: s.Unit,
				Stem: domain.Stem{
					ID:     s.Unit.StemID,
					Text:   "run",
					Norm:   "run",
					Anchor: domain.HeadwordRef{EntryID: entryID},
				},
				Graph: &domain.EntryGraph{
					Entry:    domain.Entry{ID: entryID},
					Headword: &domain.Headword{EntryID: entryID, Text: "run"},
					Pronunciations: []domain.Pronunciation{{
						ID:      uuid.New(),
						EntryID: entryID,
						Owner:   domain.HeadwordRef{EntryID: entryID},
						Written: &written,
						Audio:   &audio,
					}},
					Senses: []domain.Sense{{
						ID:      senseID,
						EntryID: entryID,
						Scope:   domain.SenseScope{Kind: domain.ScopeEntry, ID: entryID},
						Kind:    domain.SenseKindSense,
					}},
					SenseDetails: []domain.SenseDetail{{
						ID:      uuid.New(),
						SenseID: senseID,
						Type:    domain.DetailText,
						Payload: domain.TextDetail{Text: "to go faster than a walk"},
					}},
				},
			}, nil
		},
	}
	srv := newTestServer(t, ls, &mockReviewService{})

	resp := do(t, srv, http.MethodGet, "/api/units/"+s.Unit.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Stem  stemResponse `json:"stem"`
		Entry struct {
			Headword       *string                 `json:"headword"`
			Pronunciations []pronunciationResponse `json:"pronunciations"`
			Senses         []struct {
				Details []struct {
					Type    string          `json:"type"`
					Payload json.RawMessage `json:"payload"`
				} `json:"details"`
			} `json:"senses"`
		} `json:"entry"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "HWI", got.Stem.AnchorKind)
	require.NotNil(t, got.Stem.AnchorID)
	assert.Equal(t, entryID.String(), *got.Stem.AnchorID)

	require.NotNil(t, got.Entry.Headword)
	assert.Equal(t, "run", *got.Entry.Headword)

	require.Len(t, got.Entry.Pronunciations, 1)
	require.NotNil(t, got.Entry.Pronunciations[0].AudioURL)
	assert.Equal(t, domain.AudioURL(audio), *got.Entry.Pronunciations[0].AudioURL)

	require.Len(t, got.Entry.Senses, 1)
	require.Len(t, got.Entry.Senses[0].Details, 1)
	assert.Equal(t, "text", got.Entry.Senses[0].Details[0].Type)
	assert.JSONEq(t, `{"text":"to go faster than a walk"}`, string(got.Entry.Senses[0].Details[0].Payload))
}

func TestGetUnit_NotFoundAndBadID(t *testing.T) {
	t.Parallel()

	ls := &mockLookupService{
		GetUnitDetailFunc: func(context.Context, uuid.UUID) (*domain.UnitDetail, error) {
			return nil, fmt.Errorf("get unit: %w", domain.ErrNotFound)
		},
	}
	srv := newTestServer(t, ls, &mockReviewService{})

	resp := do(t, srv, http.MethodGet, "/api/units/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/units/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ---------------------------------------------------------------------------
// Vocab
// ---------------------------------------------------------------------------

func TestVocab_RequiresUser(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mockLookupService{}, &mockReviewService{})

	for _, path := range []string{"/api/vocab/due", "/api/vocab/due/count", "/api/vocab/summary", "/api/vocab/progress"} {
		resp := do(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestVocab_Add(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	unitID := uuid.New()
	var calls atomic.Int32

	rs := &mockReviewService{
		AddToVocabFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			got, _ := ctxutil.UserIDFromCtx(ctx)
			assert.Equal(t, userID, got)
			assert.Equal(t, unitID, id)
			return calls.Add(1) == 1, nil
		},
	}
	srv := newTestServer(t, &mockLookupService{}, rs)

	body := fmt.Sprintf(`{"unitId":%q}`, unitID)

	resp := do(t, srv, http.MethodPost, "/api/vocab", body, &userID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, decode[addVocabResponse](t, resp).Added)

	resp = do(t, srv, http.MethodPost, "/api/vocab", body, &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[addVocabResponse](t, resp).Added)
}

func TestVocab_Review(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	unitID := uuid.New()
	next := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	mastery := 1

	rs := &mockReviewService{
		SubmitReviewFunc: func(_ context.Context, in review.SubmitReviewInput) (*domain.UserVocab, error) {
			assert.Equal(t, unitID, in.UnitID)
			assert.True(t, in.Remembered)
			return &domain.UserVocab{
				UserID:        userID,
				UnitID:        unitID,
				Progress:      1,
				RecentMastery: &mastery,
				NextReviewAt:  &next,
			}, nil
		},
	}
	srv := newTestServer(t, &mockLookupService{}, rs)

	resp := do(t, srv, http.MethodPost, "/api/vocab/"+unitID.String()+"/reviews", `{"remembered":true}`, &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[vocabResponse](t, resp)
	assert.Equal(t, 1, got.Progress)
	require.NotNil(t, got.NextReviewAt)
	assert.True(t, next.Equal(*got.NextReviewAt))

	resp = do(t, srv, http.MethodPost, "/api/vocab/"+unitID.String()+"/reviews", `{}`, &userID)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVocab_DueAndSummary(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rs := &mockReviewService{
		DueItemsFunc: func(_ context.Context, in review.DueItemsInput) ([]domain.DueItem, error) {
			assert.Equal(t, 0, in.Limit)
			return []domain.DueItem{{Vocab: domain.UserVocab{UnitID: uuid.New()}, Label: "run"}}, nil
		},
		DueCountFunc: func(context.Context) (int, error) { return 3, nil },
		SummaryFunc: func(context.Context) (domain.VocabSummary, error) {
			return domain.VocabSummary{Total: 4, AveragePercentage: 12.5, DueCount: 3}, nil
		},
	}
	srv := newTestServer(t, &mockLookupService{}, rs)

	resp := do(t, srv, http.MethodGet, "/api/vocab/due", "", &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]dueItemResponse](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "run", items[0].Label)

	resp = do(t, srv, http.MethodGet, "/api/vocab/due/count", "", &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decode[map[string]int](t, resp)["count"])

	resp = do(t, srv, http.MethodGet, "/api/vocab/summary", "", &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, summaryResponse{Total: 4, AveragePercentage: 12.5, DueCount: 3}, decode[summaryResponse](t, resp))
}

func TestVocab_Progress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rs := &mockReviewService{
		RecordDailyProgressFunc: func(context.Context) (domain.ProgressRecord, error) {
			return domain.ProgressRecord{UserID: userID, Date: day, VocabCount: 2, AverageProgress: 3}, nil
		},
		RecentProgressFunc: func(_ context.Context, in review.RecentProgressInput) ([]domain.ProgressRecord, error) {
			if in.Days == 0 || in.Days > 365 {
				return nil, domain.NewValidationError("days", "must be between 1 and 365")
			}
			assert.Equal(t, defaultProgressDays, in.Days)
			return []domain.ProgressRecord{{Date: day, VocabCount: 2, AverageProgress: 3}}, nil
		},
	}
	srv := newTestServer(t, &mockLookupService{}, rs)

	resp := do(t, srv, http.MethodPost, "/api/vocab/progress", "", &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, progressResponse{Date: "2026-03-01", VocabCount: 2, AverageProgress: 3}, decode[progressResponse](t, resp))

	resp = do(t, srv, http.MethodGet, "/api/vocab/progress", "", &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]progressResponse](t, resp), 1)

	resp = do(t, srv, http.MethodGet, "/api/vocab/progress?days=400", "", &userID)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mockLookupService{}, &mockReviewService{})

	resp := do(t, srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
