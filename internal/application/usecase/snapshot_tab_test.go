package usecase_test

import (
	"testing"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/port/porttest"
	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotTab_PersistsEngineAndHistory(t *testing.T) {
	ctx := testContext()
	repo := porttest.NewSnapshotRepo()
	uc := usecase.NewSnapshotTabUseCase(repo)

	eng := porttest.NewEngine(fullDescriptor())
	require.NoError(t, eng.LoadURL(ctx, "https://a.com"))
	require.NoError(t, eng.LoadURL(ctx, "https://b.com"))

	require.NoError(t, uc.Execute(ctx, "tab-1", eng))

	payload, err := repo.Load(ctx, "tab-1")
	require.NoError(t, err)
	require.NotNil(t, payload)

	snap, err := entity.DecodeTabSnapshot(payload)
	require.NoError(t, err)
	assert.Equal(t, entity.EngineID("webkit-full"), snap.EngineID)
	assert.Equal(t, entity.TabID("tab-1"), snap.TabID)
	require.Len(t, snap.History, 2)
	assert.Equal(t, "https://b.com", snap.History[1].URL)
	assert.Equal(t, 1, snap.CurrentIndex)
}

func TestSnapshotTab_RoundTripThroughRestore(t *testing.T) {
	ctx := testContext()
	repo := porttest.NewSnapshotRepo()
	snapshotUC := usecase.NewSnapshotTabUseCase(repo)
	restoreUC := usecase.NewRestoreTabUseCase(repo)

	eng := porttest.NewEngine(fullDescriptor())
	require.NoError(t, eng.LoadURL(ctx, "https://a.com"))
	require.NoError(t, eng.LoadURL(ctx, "https://b.com"))
	require.NoError(t, eng.GoBack(ctx))

	require.NoError(t, snapshotUC.Execute(ctx, "tab-1", eng))

	plan, err := restoreUC.Execute(ctx, "tab-1", []entity.Descriptor{fullDescriptor()})
	require.NoError(t, err)
	require.Equal(t, usecase.RestoreFull, plan.Mode)

	fresh := porttest.NewEngine(fullDescriptor())
	require.NoError(t, fresh.RestoreState(ctx, plan.History))

	restored := fresh.SaveState()
	original := eng.SaveState()
	assert.Equal(t, original.Entries(), restored.Entries())
	assert.Equal(t, original.CurrentIndex(), restored.CurrentIndex())
}

func TestSnapshotTab_RequiresEngine(t *testing.T) {
	uc := usecase.NewSnapshotTabUseCase(porttest.NewSnapshotRepo())
	err := uc.Execute(testContext(), "tab-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine required")
}

func TestTrimMemory_BroadcastsToAllEngines(t *testing.T) {
	ctx := testContext()
	engines := []*porttest.Engine{
		porttest.NewEngine(fullDescriptor()),
		porttest.NewEngine(platformDescriptor()),
		porttest.NewEngine(externalDescriptor()),
	}

	uc := usecase.NewTrimMemoryUseCase()
	all := make([]port.Engine, 0, len(engines))
	for _, e := range engines {
		all = append(all, e)
	}
	uc.Execute(ctx, all)

	for _, e := range engines {
		assert.Equal(t, 1, e.TrimCalls)
	}
}
