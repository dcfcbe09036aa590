package form

import "testing"

func TestDetailsKeepsChildren(t *testing.T) {
	container := Element{
		Name:       "background_image",
		Type:       TypeContainer,
		Attributes: map[string]any{"cardinality": 1},
		Children:   []Element{{Name: "target_id", Type: TypeHidden, Default: "media:1"}},
	}

	details := Details(container, "Background image", true)
	if details.Type != TypeDetails || details.Title != "Background image" || !details.Open {
		t.Fatalf("unexpected details element %+v", details)
	}
	child, ok := details.Child("target_id")
	if !ok || child.Default != "media:1" {
		t.Fatalf("expected target_id child to survive, got %+v", child)
	}
	if container.Type != TypeContainer {
		t.Fatal("expected source element untouched")
	}
	if _, ok := details.Child("missing"); ok {
		t.Fatal("expected missing child lookup to fail")
	}
}

func TestCheckbox(t *testing.T) {
	el := Checkbox("legacy_mode", "Legacy mode", "Enable legacy mode", true)
	if el.Type != TypeCheckbox || el.Default != true {
		t.Fatalf("unexpected checkbox %+v", el)
	}
}
