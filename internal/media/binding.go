package media

import (
	"maps"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Binding associates a block slot with a media reference and the renditions
// it needs.
type Binding struct {
	Slot       string                    `json:"slot"`
	Reference  interfaces.MediaReference `json:"reference"`
	Renditions []string                  `json:"renditions,omitempty"`
	Required   []string                  `json:"required,omitempty"`
	Metadata   map[string]any            `json:"metadata,omitempty"`
}

// BindingSet groups bindings under slot keys (e.g. background_image).
type BindingSet map[string][]Binding

// CloneBindingSet performs a deep copy of the binding set.
func CloneBindingSet(src BindingSet) BindingSet {
	if len(src) == 0 {
		return nil
	}
	cloned := make(BindingSet, len(src))
	for key, bindings := range src {
		if len(bindings) == 0 {
			cloned[key] = nil
			continue
		}
		target := make([]Binding, len(bindings))
		for i, binding := range bindings {
			target[i] = Binding{
				Slot:       binding.Slot,
				Reference:  binding.Reference,
				Renditions: append([]string(nil), binding.Renditions...),
				Required:   append([]string(nil), binding.Required...),
			}
			if len(binding.Reference.Attributes) > 0 {
				target[i].Reference.Attributes = maps.Clone(binding.Reference.Attributes)
			}
			if len(binding.Metadata) > 0 {
				target[i].Metadata = maps.Clone(binding.Metadata)
			}
		}
		cloned[key] = target
	}
	return cloned
}
