package preferences

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gamehub/portal/internal/domain/entities"
)

type mapStorage struct {
	data     map[string][]byte
	failSave bool
}

func (m *mapStorage) Load(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, entities.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapStorage) Save(key string, data []byte) error {
	if m.failSave {
		return errors.New("quota exceeded")
	}
	m.data[key] = data
	return nil
}

func seeded(doc string) *mapStorage {
	m := &mapStorage{data: map[string][]byte{}}
	if doc != "" {
		m.data[StorageKey] = []byte(doc)
	}
	return m
}

func TestSeededPartialKeepsDefaults(t *testing.T) {
	s := New(seeded(`{"gridColumns":4}`), nil)
	p := s.Get()

	if p.GridColumns != 4 {
		t.Errorf("GridColumns = %d, want 4", p.GridColumns)
	}
	if p.Theme != entities.ThemeLight {
		t.Errorf("Theme = %q, want light", p.Theme)
	}
	if !p.ShowDescriptions || !p.ShowCategories {
		t.Error("boolean defaults should be preserved")
	}
	if p.DefaultSort != entities.SortByPopularity {
		t.Errorf("DefaultSort = %q, want popularity", p.DefaultSort)
	}
}

func TestAbsentStorageUsesDefaults(t *testing.T) {
	if got := New(seeded(""), nil).Get(); got != Defaults() {
		t.Errorf("Get() = %+v, want defaults", got)
	}
}

func TestCorruptJSONUsesDefaults(t *testing.T) {
	for _, doc := range []string{`{"gridColumns":`, `[1,2]`, `"dark"`, `null`} {
		if got := New(seeded(doc), nil).Get(); got != Defaults() {
			t.Errorf("doc %s: Get() = %+v, want defaults", doc, got)
		}
	}
}

func TestInvalidKeysFallBackIndividually(t *testing.T) {
	s := New(seeded(`{"gridColumns":"wide","theme":"neon","showCategories":false,"defaultSort":"name","extra":1}`), nil)
	p := s.Get()

	if p.GridColumns != Defaults().GridColumns {
		t.Errorf("GridColumns = %d, want default", p.GridColumns)
	}
	if p.Theme != entities.ThemeLight {
		t.Errorf("Theme = %q, want light", p.Theme)
	}
	if p.ShowCategories {
		t.Error("ShowCategories should come from storage")
	}
	if p.DefaultSort != entities.SortByName {
		t.Errorf("DefaultSort = %q, want name", p.DefaultSort)
	}
}

func TestUpdatePersistsMergedObject(t *testing.T) {
	st := seeded("")
	s := New(st, nil)

	dark := entities.ThemeDark
	cols := 5
	p := s.Update(entities.PreferencesPatch{Theme: &dark, GridColumns: &cols})

	if p.Theme != entities.ThemeDark || p.GridColumns != 5 {
		t.Fatalf("Update() = %+v", p)
	}

	var stored entities.Preferences
	if err := json.Unmarshal(st.data[StorageKey], &stored); err != nil {
		t.Fatalf("stored preferences: %v", err)
	}
	if stored != p {
		t.Errorf("stored %+v, want %+v", stored, p)
	}
}

func TestUpdateIgnoresOutOfRangeValues(t *testing.T) {
	s := New(seeded(""), nil)
	cols := 42
	if got := s.Update(entities.PreferencesPatch{GridColumns: &cols}); got.GridColumns != Defaults().GridColumns {
		t.Errorf("GridColumns = %d, want default", got.GridColumns)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	st := seeded(`{"theme":"dark","gridColumns":2}`)
	s := New(st, nil)

	if got := s.Reset(); got != Defaults() {
		t.Errorf("Reset() = %+v, want defaults", got)
	}
	merged, err := Merge(entities.Preferences{}, st.data[StorageKey])
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged != Defaults() {
		t.Errorf("persisted %+v, want defaults", merged)
	}
}

func TestUpdateSurvivesSaveFailure(t *testing.T) {
	st := seeded("")
	st.failSave = true
	s := New(st, nil)

	dark := entities.ThemeDark
	s.Update(entities.PreferencesPatch{Theme: &dark})

	if s.Get().Theme != entities.ThemeDark {
		t.Error("update should apply in memory even when the save fails")
	}
}
