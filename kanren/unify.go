package kanren

// Occurs reports whether x occurs anywhere inside u once u is fully
// resolved against s. Checked by ExtendSubstitutions before every new
// binding to reject the circular substitutions that would otherwise make
// Find loop forever.
func Occurs(x, u Term, s *Substitution) bool {
	resolved := Find(u, s)
	switch t := resolved.(type) {
	case Variable:
		return Equal(x, t)
	case ListTerm:
		for _, elem := range t {
			if Occurs(x, elem, s) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ExtendSubstitutions binds x to v in s, failing (ok=false) if that would
// create an occurs-check cycle.
func ExtendSubstitutions(x, v Term, s *Substitution) (*Substitution, bool) {
	if Occurs(x, v, s) {
		return nil, false
	}
	return Extend(x, v, s), true
}

// Unify attempts to make u and v equal under s, returning the extended
// substitution on success. Lists unify elementwise and only when of equal
// length; two resolved non-variable, non-list terms unify only if Equal.
func Unify(u, v Term, s *Substitution) (*Substitution, bool) {
	ur := Find(u, s)
	vr := Find(v, s)
	if Equal(ur, vr) {
		return s, true
	}
	if uv, ok := ur.(Variable); ok {
		return ExtendSubstitutions(uv, vr, s)
	}
	if vv, ok := vr.(Variable); ok {
		return ExtendSubstitutions(vv, ur, s)
	}
	ul, uIsList := ur.(ListTerm)
	vl, vIsList := vr.(ListTerm)
	if uIsList && vIsList {
		if len(ul) != len(vl) {
			return nil, false
		}
		cur := s
		for i := range ul {
			next, ok := Unify(ul[i], vl[i], cur)
			if !ok {
				return nil, false
			}
			cur = next
		}
		return cur, true
	}
	return nil, false
}
