package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/repository"
	"github.com/alexanderramin/ulpiano/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCorpusRepo(t *testing.T) *repository.SQLiteCorpusRepo {
	t.Helper()
	return testutil.NewSnapshotRepo(t, testutil.NewTestDB(t), nil)
}

func TestSQLiteCorpusRepo_ReplaceThenLoad(t *testing.T) {
	ctx := context.Background()
	repo := newCorpusRepo(t)
	want := testutil.NewTestCorpus(t)

	rec, err := repo.Replace(ctx, want, "files")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, want.Stats(), rec.Stats)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Glossary(), got.Glossary())
	assert.Equal(t, want.Topics(), got.Topics())
	assert.Equal(t, want.Excerpts(), got.Excerpts())
}

func TestSQLiteCorpusRepo_ReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newCorpusRepo(t)

	_, err := repo.Replace(ctx, testutil.NewTestCorpus(t), "files")
	require.NoError(t, err)

	small, err := corpus.New(
		[]domain.GlossaryEntry{{Term: "Dolo", Definition: "Engaño."}},
		nil,
		[]domain.ExcerptEntry{{Citation: "Dig.4.3.1", SourceText: "Dolum malum"}},
	)
	require.NoError(t, err)
	_, err = repo.Replace(ctx, small, "digest")
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, corpus.Stats{Glossary: 1, Topics: 0, Excerpts: 1}, got.Stats())
	assert.Nil(t, got.Glossary()[0].Synonyms)

	latest, err := repo.LatestImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "digest", latest.Source)
}

func TestSQLiteCorpusRepo_LoadEmpty(t *testing.T) {
	repo := newCorpusRepo(t)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrEmptySnapshot)

	_, err = repo.LatestImport(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteCorpusRepo_ReplaceRollsBack(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	good := testutil.NewSnapshotRepo(t, database, testutil.NewTestCorpus(t))

	boom := errors.New("disk full")
	// Execs 1-3 clear the tables; exec 5 is the first synonym insert.
	failing := repository.NewSQLiteCorpusRepo(database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 5, Err: boom})
	_, err := failing.Replace(ctx, testutil.NewTestCorpus(t), "retry")
	require.ErrorIs(t, err, boom)

	got, err := good.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.NewTestCorpus(t).Stats(), got.Stats(), "failed import leaves the previous snapshot")

	latest, err := good.LatestImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "seed", latest.Source)
}
