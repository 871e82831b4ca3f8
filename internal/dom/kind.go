package dom

import "strings"

// WidgetKind is the write strategy an element needs. It is computed once per element.
type WidgetKind int

const (
	KindText WidgetKind = iota
	KindSelect
	KindCheckbox
	KindRadio
	KindCustomDropdown
)

func (k WidgetKind) String() string {
	switch k {
	case KindSelect:
		return "native-select"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindCustomDropdown:
		return "custom-dropdown"
	default:
		return "native-text"
	}
}

// KindOf classifies the widget behind an element.
func KindOf(e *Element) WidgetKind {
	if e.Tag() == "select" {
		return KindSelect
	}
	switch e.Type() {
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadio
	}
	if isCustomDropdown(e) {
		return KindCustomDropdown
	}
	return KindText
}

func isCustomDropdown(e *Element) bool {
	switch e.Role() {
	case "combobox", "listbox":
		return true
	}
	if e.Attr("aria-haspopup") != "" || e.HasAttr("aria-expanded") || e.Attr("aria-autocomplete") != "" {
		return true
	}
	automation := strings.ToLower(e.Attr("data-automation-id"))
	return strings.Contains(automation, "select") || strings.Contains(automation, "dropdown")
}

// NeedsAsync reports whether the element is framework-managed and must be written in the
// staggered async phase rather than synchronously. Custom dropdowns always are, since
// picking an option waits for the opened popup to render.
func NeedsAsync(e *Element) bool {
	if KindOf(e) == KindCustomDropdown {
		return true
	}
	tag := e.Tag()
	if tag == "select" && !e.HasAttr("role") {
		return false
	}
	if (tag == "input" || tag == "textarea") &&
		e.Type() != "checkbox" && e.Type() != "radio" &&
		!e.HasAttr("role") && !e.HasAttr("data-testid") && !e.HasAttr("data-automation-id") {
		return false
	}
	class := e.Class()
	return e.HasAttr("role") ||
		e.Attr("aria-haspopup") != "" ||
		e.HasAttr("data-automation-id") ||
		e.HasAttr("data-testid") ||
		strings.Contains(class, "react") ||
		strings.Contains(class, "custom")
}
