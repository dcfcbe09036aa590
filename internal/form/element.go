// Package form describes renderer-agnostic settings form elements.
package form

const (
	TypeCheckbox  = "checkbox"
	TypeHidden    = "hidden"
	TypeContainer = "container"
	TypeDetails   = "details"
	TypeMarkup    = "markup"
)

// Element is a single form control. Containers carry their controls in
// Children, keyed by Name.
type Element struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Default     any            `json:"default,omitempty"`
	Open        bool           `json:"open,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	Children    []Element      `json:"children,omitempty"`
}

// Checkbox builds a boolean control.
func Checkbox(name, title, description string, value bool) Element {
	return Element{
		Name:        name,
		Type:        TypeCheckbox,
		Title:       title,
		Description: description,
		Default:     value,
	}
}

// Details turns el into a collapsible group with the given title, keeping its
// children and attributes.
func Details(el Element, title string, open bool) Element {
	el.Type = TypeDetails
	el.Title = title
	el.Open = open
	return el
}

// Child returns the direct child named name.
func (e Element) Child(name string) (Element, bool) {
	for _, child := range e.Children {
		if child.Name == name {
			return child, true
		}
	}
	return Element{}, false
}
