package types

// EntityID is an opaque entity identifier, normally the entity IRI.
type EntityID string

// SearchString is one raw fragment of a user query.
type SearchString string

// SearchStrings converts plain strings to search strings.
func SearchStrings(values ...string) []SearchString {
	out := make([]SearchString, len(values))
	for i, v := range values {
		out[i] = SearchString(v)
	}
	return out
}

// ShortFormEntry is one (language, text) pair of an entity.
type ShortFormEntry struct {
	Language  DictionaryLanguage `json:"language"`
	ShortForm string             `json:"short_form"`
}

// EntityShortForms is the snapshot of one entity's short forms, at most one
// per dictionary language. Entries keep the order in which they were added.
//
// Values are immutable: With returns a new snapshot and never modifies the
// receiver, so a snapshot may be shared between concurrent matches.
type EntityShortForms struct {
	entity  EntityID
	entries []ShortFormEntry
}

// NewEntityShortForms returns an empty snapshot for entity.
func NewEntityShortForms(entity EntityID) EntityShortForms {
	return EntityShortForms{entity: entity}
}

// With returns a snapshot that also maps lang to shortForm. If lang is
// already present its text is replaced and its position kept.
func (e EntityShortForms) With(lang DictionaryLanguage, shortForm string) EntityShortForms {
	entries := make([]ShortFormEntry, len(e.entries), len(e.entries)+1)
	copy(entries, e.entries)
	for i := range entries {
		if entries[i].Language == lang {
			entries[i].ShortForm = shortForm
			return EntityShortForms{entity: e.entity, entries: entries}
		}
	}
	entries = append(entries, ShortFormEntry{Language: lang, ShortForm: shortForm})
	return EntityShortForms{entity: e.entity, entries: entries}
}

// Entity returns the entity the short forms belong to.
func (e EntityShortForms) Entity() EntityID {
	return e.entity
}

// ShortForm returns the text for lang.
func (e EntityShortForms) ShortForm(lang DictionaryLanguage) (string, bool) {
	for _, entry := range e.entries {
		if entry.Language == lang {
			return entry.ShortForm, true
		}
	}
	return "", false
}

// Entries returns a copy of the entries in insertion order.
func (e EntityShortForms) Entries() []ShortFormEntry {
	out := make([]ShortFormEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Languages returns the languages the entity has short forms for.
func (e EntityShortForms) Languages() []DictionaryLanguage {
	out := make([]DictionaryLanguage, len(e.entries))
	for i, entry := range e.entries {
		out[i] = entry.Language
	}
	return out
}

// Len returns the number of short forms.
func (e EntityShortForms) Len() int {
	return len(e.entries)
}
