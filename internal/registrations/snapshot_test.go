package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumen-meetup/backend/internal/models"
)

type stubStore struct {
	regs     []models.Registration
	speakers []models.Registration
	listErr  error
}

func (s *stubStore) Insert(context.Context, *models.Registration) error { return nil }

func (s *stubStore) ListAll(context.Context) ([]models.Registration, error) {
	return s.regs, s.listErr
}

func (s *stubStore) ListSpeakers(context.Context) ([]models.Registration, error) {
	return s.speakers, s.listErr
}

func TestSnapshotReturnsCurrentList(t *testing.T) {
	store := &stubStore{regs: []models.Registration{
		{ID: 2, Name: "Bo", Email: "b@x.com"},
		{ID: 1, Name: "Ana", Email: "a@x.com"},
	}}
	reader := NewSnapshotReader(store, zap.NewNop())

	snap, err := reader.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Registrations, 2)
	assert.Equal(t, "Bo", snap.Registrations[0].Name)
}

func TestSnapshotOnStoreFailure(t *testing.T) {
	store := &stubStore{listErr: errors.New("store down")}
	reader := NewSnapshotReader(store, zap.NewNop())

	snap, err := reader.Snapshot(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, snap.Registrations)
	assert.Empty(t, snap.Registrations)
}

func TestSnapshotEmptyStoreEncodesEmptyArray(t *testing.T) {
	reader := NewSnapshotReader(&stubStore{}, zap.NewNop())

	snap, err := reader.Snapshot(context.Background())
	require.NoError(t, err)

	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"registrations":[]}`, string(payload))
}

func TestSnapshotSpeakersSubset(t *testing.T) {
	topic := "Generics in anger"
	snap := Snapshot{Registrations: []models.Registration{
		{ID: 3, Name: "Cy", IsSpeaker: true, Topic: &topic},
		{ID: 2, Name: "Bo"},
		{ID: 1, Name: "Ana", IsSpeaker: true, Topic: &topic},
	}}

	speakers := snap.Speakers()
	require.Len(t, speakers, 2)
	assert.Equal(t, "Cy", speakers[0].Name)
	assert.Equal(t, "Ana", speakers[1].Name)
}
