package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextStructureValidate(t *testing.T) {
	tests := []struct {
		name      string
		structure TextStructure
		wantErr   bool
	}{
		{
			name: "narrative with matching sections",
			structure: TextStructure{
				Kind:      StructureNarrative,
				Narrative: &NarrativeStructure{Orientation: "a", Complication: "b", Resolution: "c"},
			},
		},
		{
			name: "procedural with matching sections",
			structure: TextStructure{
				Kind:       StructureProcedural,
				Procedural: &ProceduralStructure{Goal: "bake bread", Steps: []string{"mix", "bake"}},
			},
		},
		{
			name:      "unknown kind",
			structure: TextStructure{Kind: StructureKind("haiku")},
			wantErr:   true,
		},
		{
			name:      "tag without sections",
			structure: TextStructure{Kind: StructureExpository},
			wantErr:   true,
		},
		{
			name: "extra variant populated",
			structure: TextStructure{
				Kind:        StructureNarrative,
				Narrative:   &NarrativeStructure{Orientation: "a"},
				Descriptive: &DescriptiveStructure{Identification: "x"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.structure.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTextStructureRoundTrip(t *testing.T) {
	text := &Text{Title: "Volcanoes", Genre: GenreExpository, Content: "..."}

	structure := &TextStructure{
		Kind: StructureExpository,
		Expository: &ExpositoryStructure{
			Thesis:      "Volcanoes shape the land",
			Arguments:   []string{"lava flows", "ash deposits"},
			Reiteration: "They are powerful",
		},
	}
	require.NoError(t, text.SetStructure(structure))

	decoded, err := text.DecodeStructure()
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, structure.Kind, decoded.Kind)
	require.NotNil(t, decoded.Expository)
	assert.Equal(t, structure.Expository.Arguments, decoded.Expository.Arguments)

	// Clearing the structure empties the column
	require.NoError(t, text.SetStructure(nil))
	decoded, err = text.DecodeStructure()
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestGenreIsValid(t *testing.T) {
	for _, genre := range AllGenres() {
		assert.True(t, genre.IsValid(), string(genre))
	}
	assert.False(t, Genre("poetry").IsValid())
	assert.False(t, Genre("").IsValid())
}

