package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborlabs/arbor/internal/persist"
)

func sampleRows() []persist.ActorRow {
	return []persist.ActorRow{
		{NodePath: "world/meadow/wolf-1", TemplateID: 1, Zone: "meadow", X: 10.5, Y: 3.25, Vitality: 40},
		{NodePath: "world/meadow/wolf-2", TemplateID: 1, Zone: "meadow", X: 12.0, Y: 8.0, Vitality: 35},
		{NodePath: "world/thicket/boar-1", TemplateID: 2, Zone: "thicket", X: 1.0, Y: 1.0, Vitality: 80},
	}
}

func TestChecksumDeterministic(t *testing.T) {
	first := persist.Checksum(sampleRows())
	second := persist.Checksum(sampleRows())
	require.Equal(t, first, second)
	assert.Len(t, first, 64, "blake2b-256 hex digest")
}

func TestChecksumOrderSensitive(t *testing.T) {
	rows := sampleRows()
	ordered := persist.Checksum(rows)

	rows[0], rows[2] = rows[2], rows[0]
	swapped := persist.Checksum(rows)

	assert.NotEqual(t, ordered, swapped)
}

func TestChecksumReflectsState(t *testing.T) {
	base := persist.Checksum(sampleRows())

	moved := sampleRows()
	moved[1].X += 0.5
	assert.NotEqual(t, base, persist.Checksum(moved))

	hurt := sampleRows()
	hurt[2].Vitality--
	assert.NotEqual(t, base, persist.Checksum(hurt))
}

func TestChecksumEmpty(t *testing.T) {
	require.Len(t, persist.Checksum(nil), 64)
	assert.Equal(t, persist.Checksum(nil), persist.Checksum([]persist.ActorRow{}))
}
