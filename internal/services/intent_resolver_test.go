package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/mocks"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

func newTestResolver(t *testing.T) (*IntentResolver, *mocks.MockIntentModel, *mocks.MockSetCatalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	model := mocks.NewMockIntentModel(ctrl)
	catalog := mocks.NewMockSetCatalog(ctrl)
	matcher, err := NewSetMatcher()
	require.NoError(t, err)
	return NewIntentResolver(model, catalog, matcher, zaptest.NewLogger(t)), model, catalog
}

func TestIntentResolver_TotalCostOfBaseSet(t *testing.T) {
	resolver, model, catalog := newTestResolver(t)
	text := "What is the total cost of Base Set?"

	model.EXPECT().Classify(gomock.Any(), text).
		Return(`{"intent": "total_cost", "set": "Base Set"}`, nil)
	catalog.EXPECT().FetchAllSets(gomock.Any()).Return(testCatalog(), nil)

	intent, err := resolver.Resolve(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, models.TotalCost{Set: models.SetRef{Query: "Base Set", ID: "base1", Name: "Base Set"}}, intent)
}

func TestIntentResolver_TopNWithAlias(t *testing.T) {
	resolver, model, catalog := newTestResolver(t)

	model.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return("```json\n{\"intent\": \"top_n_valuable\", \"set\": \"EVS\", \"n\": \"5\"}\n```", nil)
	catalog.EXPECT().FetchAllSets(gomock.Any()).Return(testCatalog(), nil)

	intent, err := resolver.Resolve(context.Background(), "top 5 in evs")
	require.NoError(t, err)
	assert.Equal(t, models.TopNValuable{Set: models.SetRef{Query: "EVS", ID: "swsh7", Name: "Evolving Skies"}, N: 5}, intent)
}

func TestIntentResolver_SearchSkipsCatalog(t *testing.T) {
	resolver, model, _ := newTestResolver(t)

	model.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(`{"intent": "search_by_name", "fragment": "Charizard"}`, nil)

	intent, err := resolver.Resolve(context.Background(), "find charizard")
	require.NoError(t, err)
	assert.Equal(t, models.SearchByName{Fragment: "Charizard"}, intent)
}

func TestIntentResolver_ModelFailureIsResolverUnavailable(t *testing.T) {
	resolver, model, _ := newTestResolver(t)

	model.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return("", errors.New("deadline exceeded"))

	intent, err := resolver.Resolve(context.Background(), "show base set")
	require.Error(t, err)
	assert.Nil(t, intent)
	assert.True(t, errs.Is(err, errs.ErrResolverUnavailable))
}

func TestIntentResolver_UnmatchedSetIsAmbiguous(t *testing.T) {
	resolver, model, catalog := newTestResolver(t)

	model.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(`{"intent": "show_set", "set": "Shining Legends"}`, nil)
	catalog.EXPECT().FetchAllSets(gomock.Any()).Return(testCatalog(), nil)

	intent, err := resolver.Resolve(context.Background(), "show shining legends")
	require.Error(t, err)

	var amb *errs.AmbiguousReferenceError
	require.True(t, errs.As(err, &amb))
	assert.Equal(t, "Shining Legends", amb.Reference)
	assert.NotEmpty(t, amb.Suggestions)
	assert.Equal(t, models.IntentShowSet, intent.Kind())
}

func TestIntentResolver_CatalogFailurePropagates(t *testing.T) {
	resolver, model, catalog := newTestResolver(t)

	model.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(`{"intent": "show_set", "set": "Base Set"}`, nil)
	catalog.EXPECT().FetchAllSets(gomock.Any()).
		Return(nil, errs.Newf(errs.ErrUpstreamUnavailable, "status 503"))

	_, err := resolver.Resolve(context.Background(), "show base set")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrUpstreamUnavailable))
}

func TestIntentResolver_CoercesBadOutputToUnknown(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "I think they want the total cost."},
		{name: "truncated json", raw: `{"intent": "total_cost", "set": "Base`},
		{name: "unknown tag", raw: `{"intent": "price_history", "set": "Base Set"}`},
		{name: "missing tag", raw: `{"set": "Base Set"}`},
		{name: "missing set", raw: `{"intent": "total_cost"}`},
		{name: "missing fragment", raw: `{"intent": "search_by_name"}`},
		{name: "missing n", raw: `{"intent": "top_n_valuable", "set": "Base Set"}`},
		{name: "zero n", raw: `{"intent": "top_n_valuable", "set": "Base Set", "n": 0}`},
		{name: "negative n", raw: `{"intent": "top_n_valuable", "set": "Base Set", "n": -3}`},
		{name: "fractional n", raw: `{"intent": "top_n_valuable", "set": "Base Set", "n": 2.5}`},
		{name: "word n", raw: `{"intent": "top_n_valuable", "set": "Base Set", "n": "five"}`},
		{name: "bool n", raw: `{"intent": "top_n_valuable", "set": "Base Set", "n": true}`},
		{name: "wrong field type", raw: `{"intent": "show_set", "set": 151}`},
		{name: "help", raw: `{"intent": "help"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, model, _ := newTestResolver(t)
			text := "user question"
			model.EXPECT().Classify(gomock.Any(), text).Return(tt.raw, nil)

			intent, err := resolver.Resolve(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, models.Unknown{Raw: text}, intent)
		})
	}
}

func TestParseModelIntent_Reasons(t *testing.T) {
	tests := []struct {
		raw    string
		reason string
	}{
		{raw: "nope", reason: coerceUnparseable},
		{raw: `{"intent": "dance"}`, reason: coerceUnknownTag},
		{raw: `{"intent": "show_set"}`, reason: coerceMissingParam},
		{raw: `{"intent": "top_n_valuable", "set": "x", "n": "x"}`, reason: coerceBadParam},
		{raw: `{"intent": "unknown"}`, reason: ""},
		{raw: `{"intent": "TotalCost", "set": "x"}`, reason: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, reason := ParseModelIntent(tt.raw, "text")
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestParseModelIntent_AcceptsLooseShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Intent
	}{
		{
			name: "prose around object",
			raw:  `Sure! {"intent": "show_set", "set": "151"} Hope that helps.`,
			want: models.ShowSet{Set: models.SetRef{Query: "151"}},
		},
		{
			name: "camel case tag",
			raw:  `{"intent": "TopNValuable", "set": "Base Set", "n": 3}`,
			want: models.TopNValuable{Set: models.SetRef{Query: "Base Set"}, N: 3},
		},
		{
			name: "integral float n",
			raw:  `{"intent": "top_n_valuable", "set": "Base Set", "n": 4.0}`,
			want: models.TopNValuable{Set: models.SetRef{Query: "Base Set"}, N: 4},
		},
		{
			name: "padded digit string n",
			raw:  `{"intent": "top_n_valuable", "set": "Base Set", "n": " 7 "}`,
			want: models.TopNValuable{Set: models.SetRef{Query: "Base Set"}, N: 7},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ParseModelIntent(tt.raw, "text")
			assert.Empty(t, reason)
			assert.Equal(t, tt.want, got)
		})
	}
}
