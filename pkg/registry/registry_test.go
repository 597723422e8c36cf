package registry

import (
	"errors"
	"testing"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/store"
)

func TestClassifyKeywordMatch(t *testing.T) {
	reg := New(nil)

	category, subCategory := reg.Classify("社内会議")
	if category != "社内" {
		t.Errorf("Classify(社内会議) category = %s, want 社内", category)
	}
	if subCategory != "社内" {
		t.Errorf("Classify(社内会議) sub = %s, want first sub 社内", subCategory)
	}
}

func TestClassifyNoMatchFallsBackToCatchAll(t *testing.T) {
	reg := New(nil)

	category, subCategory := reg.Classify("Random Topic")
	if category != "デフォルト" {
		t.Errorf("Classify(Random Topic) category = %s, want デフォルト", category)
	}
	if subCategory != "基盤メール返信" {
		t.Errorf("Classify(Random Topic) sub = %s, want 基盤メール返信", subCategory)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	reg := New([]model.Category{
		{Name: "Meetings", Subs: []string{"standup"}, Keywords: []string{"SYNC"}},
		{Name: "Other", Subs: []string{"misc"}},
	})

	category, _ := reg.Classify("weekly sync with team")
	if category != "Meetings" {
		t.Errorf("case-insensitive match failed, got %s", category)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Substring first-match in registry order, no longest-match logic.
	reg := New([]model.Category{
		{Name: "A", Subs: []string{"a1"}, Keywords: []string{"会議"}},
		{Name: "B", Subs: []string{"b1"}, Keywords: []string{"全社会議"}},
		{Name: "Other", Subs: []string{"misc"}},
	})

	category, _ := reg.Classify("全社会議の準備")
	if category != "A" {
		t.Errorf("tie-break should pick first category in order, got %s", category)
	}
}

func TestClassifyMatchedCategoryWithoutSubs(t *testing.T) {
	reg := New([]model.Category{
		{Name: "Bare", Keywords: []string{"bare"}},
		{Name: "Other", Subs: []string{"misc"}},
	})

	_, subCategory := reg.Classify("a bare title")
	if subCategory != model.Unclassified {
		t.Errorf("sub = %s, want %s", subCategory, model.Unclassified)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	reg := New(nil)
	if err := reg.Replace("社内", "#000000", []string{"x"}, []string{"y"}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	reg.Reset()

	cats := reg.Categories()
	defaults := Defaults()
	if len(cats) != len(defaults) {
		t.Fatalf("Reset returned %d categories, want %d", len(cats), len(defaults))
	}
	for i := range defaults {
		if cats[i].Name != defaults[i].Name {
			t.Errorf("category %d = %s, want %s (fixed order)", i, cats[i].Name, defaults[i].Name)
		}
	}
	if cats[0].Color != "#E25D33" {
		t.Errorf("mutation survived reset: color = %s", cats[0].Color)
	}
}

func TestReplaceUnknownCategory(t *testing.T) {
	reg := New(nil)
	err := reg.Replace("存在しない", "#123456", nil, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Replace unknown = %v, want ErrNotFound", err)
	}
}

func TestReplaceKeepsOrderAndName(t *testing.T) {
	reg := New(nil)
	if err := reg.Replace("研修", "#111111", []string{"新人"}, []string{"オンボーディング"}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := reg.Get("研修")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Color != "#111111" || len(got.Subs) != 1 || got.Subs[0] != "新人" {
		t.Errorf("Replace did not apply: %+v", got)
	}

	cats := reg.Categories()
	if cats[3].Name != "研修" {
		t.Errorf("Replace moved the category: position 3 = %s", cats[3].Name)
	}
}

func TestGetUnknown(t *testing.T) {
	reg := New(nil)
	if _, err := reg.Get("nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get unknown = %v, want ErrNotFound", err)
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	reg := New(nil)
	cats := reg.Categories()
	cats[0].Subs[0] = "tampered"

	fresh, _ := reg.Get(cats[0].Name)
	if fresh.Subs[0] == "tampered" {
		t.Error("Categories must not expose internal state")
	}
}
