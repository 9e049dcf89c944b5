package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_ComputeHash_Deterministic(t *testing.T) {
	e := &LedgerEntry{
		ID:         uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Sequence:   1,
		Event:      LedgerEventRecordCreated,
		ActorID:    uuid.MustParse("650e8400-e29b-41d4-a716-446655440000"),
		EntityType: "record",
		EntityID:   "abc",
		Details:    `{"kind":"INCOME"}`,
		CreatedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		PrevHash:   GenesisHash,
	}

	h1 := e.ComputeHash()
	h2 := e.ComputeHash()
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex SHA3-256
}

func TestLedgerEntry_ComputeHash_SensitiveToEveryField(t *testing.T) {
	base := func() *LedgerEntry {
		return &LedgerEntry{
			ID:        uuid.New(),
			Sequence:  7,
			Event:     LedgerEventCalcFinalized,
			ActorID:   uuid.New(),
			EntityID:  "rec-1",
			CreatedAt: time.Now().UTC(),
			PrevHash:  GenesisHash,
		}
	}

	orig := base()
	origHash := orig.ComputeHash()

	mutations := map[string]func(*LedgerEntry){
		"sequence":  func(e *LedgerEntry) { e.Sequence++ },
		"event":     func(e *LedgerEntry) { e.Event = LedgerEventRecordCreated },
		"entity id": func(e *LedgerEntry) { e.EntityID = "rec-2" },
		"details":   func(e *LedgerEntry) { e.Details = "x" },
		"timestamp": func(e *LedgerEntry) { e.CreatedAt = e.CreatedAt.Add(time.Nanosecond) },
		"prev hash": func(e *LedgerEntry) { e.PrevHash = "deadbeef" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			mutated := *orig
			mutate(&mutated)
			assert.NotEqual(t, origHash, mutated.ComputeHash())
		})
	}
}

func TestGenesisHash_Shape(t *testing.T) {
	assert.Len(t, GenesisHash, 64)
	for _, c := range GenesisHash {
		assert.Equal(t, '0', c)
	}
}
