package immutable

// Resolve turns a constructor argument list into a value map for props.
//
// It starts from a fresh evaluation of defaults (generators are invoked for
// this call only, the Default Map itself is never written). Then exactly one
// binding form applies:
//
//   - object form: a single Values, map[string]any or *Record argument is
//     merged over the defaults key by key;
//   - positional form: args[i] overrides props[i] for every i below
//     min(len(args), len(props)).
//
// Keys that were neither defaulted nor supplied are absent from the result;
// callers read a missing name as nil. Unknown keys from the object form are
// carried through and ignored by construction, which only reads props.
func Resolve(props []string, args []any, defaults *Defaults) Values {
	resolved := defaults.evaluate()

	if len(args) == 1 {
		if obj, ok := objectForm(args[0]); ok {
			for k, v := range obj {
				resolved[k] = v
			}
			return resolved
		}
	}

	n := min(len(args), len(props))
	for i := 0; i < n; i++ {
		resolved[props[i]] = args[i]
	}
	return resolved
}

// objectForm reports whether arg is a structured field map and returns it.
func objectForm(arg any) (map[string]any, bool) {
	switch v := arg.(type) {
	case Values:
		return v, true
	case map[string]any:
		return v, true
	case *Record:
		return v.Values(), true
	}
	return nil, false
}
