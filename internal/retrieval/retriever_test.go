package retrieval

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/ulpiano/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetriever_Retrieve(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{})

	res, err := r.Retrieve(context.Background(), "hurto")
	require.NoError(t, err)

	require.NotNil(t, res.Glossary)
	assert.Equal(t, "Hurto", res.Glossary.Entry.Term)
	assert.Equal(t, 55, res.Page.Page)
	assert.Equal(t, "Delitos privados", res.Page.Title)
	assert.Equal(t, []string{"Dig.47.2.1.3", "Dig.47.2.3"}, res.Citations())
	assert.Contains(t, res.Definition(), "Furtum")
}

func TestRetriever_CompraventaFindsContratos(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{})

	res, err := r.Retrieve(context.Background(), "compraventa")
	require.NoError(t, err)
	assert.Equal(t, 40, res.Page.Page)
	assert.Equal(t, "Contratos", res.Page.Title)
	assert.Equal(t, TierExact, res.Glossary.Tier)
}

func TestRetriever_DefaultOverrides(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{})

	m, ok := r.MatchGlossary("posesión")
	require.True(t, ok)
	assert.Equal(t, TierOverride, m.Tier)
}

func TestRetriever_NothingFound(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{})

	res, err := r.Retrieve(context.Background(), "emphyteusis")
	require.NoError(t, err)
	assert.Nil(t, res.Glossary)
	assert.False(t, res.Page.Found())
	assert.Empty(t, res.Excerpts)
	assert.Empty(t, res.Definition())
}

func TestRetriever_ExcerptLimit(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{ExcerptLimit: 1})
	assert.Len(t, r.Excerpts("hurto"), 1)
}

func TestRetriever_CanceledContext(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, "hurto")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetriever_ConcurrentReaders(t *testing.T) {
	r := New(testutil.NewTestCorpus(t), Config{TopicStrategy: TopicToken, ExcerptScoring: ScoringFirstMatch})
	want, err := r.Retrieve(context.Background(), "contratos de compraventa")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Retrieve(context.Background(), "contratos de compraventa")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
