package interfaces

// TemplateRenderer renders a named template with the supplied data and
// returns the produced text. Implementations own template lookup, helper
// registration, and escaping policy; callers treat rendering as opaque.
type TemplateRenderer interface {
	Render(name string, data any) (string, error)
}
