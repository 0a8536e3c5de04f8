package store

// applyPatch merges a draft patch into a record. Content and card style are
// merged key-wise; layout replaces wholesale. Caller holds the store lock.
func applyPatch(rec *Widget, patch WidgetPatch) {
	if patch.Content != nil {
		rec.Content = mergeMaps(rec.Content, patch.Content)
	}
	if patch.CardStyle != nil {
		rec.CardStyle = mergeMaps(rec.CardStyle, patch.CardStyle)
	}
	if patch.Layout != nil {
		layout := *patch.Layout
		layout.I = rec.UID
		rec.Layout = layout
	}
}

// mergeMaps merges src into dst key-wise: nested maps recurse, everything
// else (slices included) replaces. dst is mutated and returned; a nil dst
// gets allocated.
func mergeMaps(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if prev, ok := dst[k].(map[string]any); ok {
				dst[k] = mergeMaps(prev, sub)
				continue
			}
			dst[k] = cloneMap(sub)
			continue
		}
		dst[k] = cloneValue(v)
	}
	return dst
}

// cloneWidget deep-copies a record so callers can never mutate store state
// through a returned widget.
func cloneWidget(rec *Widget) Widget {
	w := *rec
	w.Content = cloneMap(rec.Content)
	w.CardStyle = cloneMap(rec.CardStyle)
	return w
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
