package metrics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/dataset"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/pkg/logger"
)

type memArtifact struct {
	saved *contracts.MetricsSnapshot
	err   error
}

func (m *memArtifact) Save(snap *contracts.MetricsSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saved = snap
	return nil
}

type memHistory struct{ count int }

func (m *memHistory) SaveSnapshot(ctx context.Context, snap *contracts.MetricsSnapshot) error {
	m.count++
	return nil
}

type memCache struct{ deleted []string }

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

type memPublisher struct{ events []contracts.Event }

func (m *memPublisher) Publish(e contracts.Event) { m.events = append(m.events, e) }

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees_cleaned.csv")
	set := &contracts.CleanedRecordSet{
		Columns: []string{"eeid", "job title", "hire date"},
		Rows: [][]string{
			{"E1", "Analyst", ""},
			{"E2", "Analyst", ""},
		},
		Dates: map[string][]contracts.Date{
			"hire date": {day(2024, 5, 21), contracts.UnknownDate()},
		},
	}
	require.NoError(t, dataset.WriteCanonical(path, set))
	return path
}

func TestGenerate_PersistsEverywhere(t *testing.T) {
	artifact := &memArtifact{}
	history := &memHistory{}
	cache := &memCache{}
	pub := &memPublisher{}

	g := NewGenerator(writeDataset(t), policy.Default(), artifact, logger.Nop()).
		WithHistory(history).
		WithCache(cache).
		WithPublisher(pub)

	res, err := g.Generate(context.Background(), ref)
	require.NoError(t, err)
	require.NoError(t, res.PersistErr)

	assert.Equal(t, 2, res.Snapshot.TotalEmployees)
	assert.Equal(t, 1, *res.Snapshot.NewHiresLast30d)
	assert.Same(t, res.Snapshot, artifact.saved)
	assert.Equal(t, 1, history.count)
	assert.Equal(t, []string{"metrics:latest"}, cache.deleted)
	require.Len(t, pub.events, 1)
	assert.Equal(t, contracts.EventMetricsGenerated, pub.events[0].Type)
}

func TestGenerate_PersistFailureStillReturnsSnapshot(t *testing.T) {
	artifact := &memArtifact{err: errors.New("disk full")}

	res, err := NewGenerator(writeDataset(t), policy.Default(), artifact, logger.Nop()).
		Generate(context.Background(), ref)

	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, 2, res.Snapshot.TotalEmployees)
	require.Error(t, res.PersistErr)
	assert.Contains(t, res.PersistErr.Error(), "disk full")
}

func TestGenerate_MissingDataset(t *testing.T) {
	g := NewGenerator(filepath.Join(t.TempDir(), "missing.csv"), policy.Default(), &memArtifact{}, logger.Nop())

	_, err := g.Generate(context.Background(), ref)
	assert.True(t, errors.Is(err, dataset.ErrDatasetNotFound))
}
