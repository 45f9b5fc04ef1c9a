package query

// Diagnostics implements spec §4.7's unresolved-reference diagnostic:
// one warning per reference in path whose referenceables_of is empty.
// No-op (returns nil) when the config option is off.
func (e *Engine) Diagnostics(path string) []Diagnostic {
	if !e.cfg.UnresolvedDiagnostics {
		return nil
	}
	f, ok := e.v.File(path)
	if !ok {
		return nil
	}

	var out []Diagnostic
	for _, ref := range f.References {
		if len(e.v.ReferenceablesOf(ref, path)) > 0 {
			continue
		}
		out = append(out, Diagnostic{
			Range:    ref.Data.Range,
			Severity: SeverityWarning,
			Message:  "unresolved reference: " + ref.Data.ReferenceText,
		})
	}
	return out
}
