package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Genre string

const (
	GenreNarrative   Genre = "narrative"
	GenreExpository  Genre = "expository"
	GenreDescriptive Genre = "descriptive"
	GenreProcedural  Genre = "procedural"
	GenrePersuasive  Genre = "persuasive"
)

// AllGenres returns every supported genre in catalog order.
func AllGenres() []Genre {
	return []Genre{GenreNarrative, GenreExpository, GenreDescriptive, GenreProcedural, GenrePersuasive}
}

func (g Genre) IsValid() bool {
	switch g {
	case GenreNarrative, GenreExpository, GenreDescriptive, GenreProcedural, GenrePersuasive:
		return true
	}
	return false
}

// Text is a reading passage in the catalog. Archived texts stay in the
// fact store but are excluded from student-facing listings and from
// overall-progress denominators.
type Text struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"not null;size:200" validate:"required,min=3,max=200"`
	Genre   Genre  `json:"genre" gorm:"not null;size:20;index" validate:"required,genre"`
	Content string `json:"content" gorm:"type:text;not null" validate:"required,min=1"`

	// Structure holds the genre-specific section breakdown (see TextStructure).
	Structure datatypes.JSON `json:"structure,omitempty" gorm:"type:jsonb"`

	// LanguageFeatures lists the lexicogrammatical features highlighted for
	// this passage (e.g. temporal conjunctions, action verbs).
	LanguageFeatures datatypes.JSON `json:"language_features,omitempty" gorm:"type:jsonb"`

	IllustrationURL *string `json:"illustration_url,omitempty" gorm:"size:500" validate:"omitempty,url,max=500"`

	IsArchived bool   `json:"is_archived" gorm:"default:false;index"`
	CreatedBy  string `json:"created_by" gorm:"not null;size:255;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Text) TableName() string {
	return "texts"
}

// StructureKind tags the variant carried by a TextStructure. It always
// matches the genre of the owning text.
type StructureKind string

const (
	StructureNarrative   StructureKind = "narrative"
	StructureExpository  StructureKind = "expository"
	StructureDescriptive StructureKind = "descriptive"
	StructureProcedural  StructureKind = "procedural"
	StructurePersuasive  StructureKind = "persuasive"
)

// TextStructure is a tagged union: exactly one of the variant pointers is
// set, selected by Kind.
type TextStructure struct {
	Kind        StructureKind         `json:"kind"`
	Narrative   *NarrativeStructure   `json:"narrative,omitempty"`
	Expository  *ExpositoryStructure  `json:"expository,omitempty"`
	Descriptive *DescriptiveStructure `json:"descriptive,omitempty"`
	Procedural  *ProceduralStructure  `json:"procedural,omitempty"`
	Persuasive  *PersuasiveStructure  `json:"persuasive,omitempty"`
}

type NarrativeStructure struct {
	Orientation  string `json:"orientation"`
	Complication string `json:"complication"`
	Resolution   string `json:"resolution"`
}

type ExpositoryStructure struct {
	Thesis      string   `json:"thesis"`
	Arguments   []string `json:"arguments"`
	Reiteration string   `json:"reiteration"`
}

type DescriptiveStructure struct {
	Identification string `json:"identification"`
	Description    string `json:"description"`
}

type ProceduralStructure struct {
	Goal      string   `json:"goal"`
	Materials []string `json:"materials"`
	Steps     []string `json:"steps"`
}

type PersuasiveStructure struct {
	Issue          string   `json:"issue"`
	Arguments      []string `json:"arguments"`
	Recommendation string   `json:"recommendation"`
}

// Validate checks that the tag matches the populated variant.
func (s *TextStructure) Validate() error {
	variants := map[StructureKind]bool{
		StructureNarrative:   s.Narrative != nil,
		StructureExpository:  s.Expository != nil,
		StructureDescriptive: s.Descriptive != nil,
		StructureProcedural:  s.Procedural != nil,
		StructurePersuasive:  s.Persuasive != nil,
	}
	set, ok := variants[s.Kind]
	if !ok {
		return fmt.Errorf("unknown structure kind %q", s.Kind)
	}
	if !set {
		return fmt.Errorf("structure kind %q has no matching section data", s.Kind)
	}
	for kind, populated := range variants {
		if populated && kind != s.Kind {
			return fmt.Errorf("structure kind %q carries extra %q sections", s.Kind, kind)
		}
	}
	return nil
}

// DecodeStructure unmarshals the JSONB structure column. Returns nil when
// the text has no structure annotation.
func (t *Text) DecodeStructure() (*TextStructure, error) {
	if len(t.Structure) == 0 {
		return nil, nil
	}
	var s TextStructure
	if err := json.Unmarshal(t.Structure, &s); err != nil {
		return nil, fmt.Errorf("decode text structure: %w", err)
	}
	return &s, nil
}

// SetStructure validates and marshals the structure into the JSONB column.
func (t *Text) SetStructure(s *TextStructure) error {
	if s == nil {
		t.Structure = nil
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode text structure: %w", err)
	}
	t.Structure = raw
	return nil
}
