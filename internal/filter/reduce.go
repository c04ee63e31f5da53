package filter

// Reduce returns the normalized form of e. A nil expression reduces to
// True.
func Reduce(e Expr) Expr {
	if e == nil {
		return True{}
	}
	return e.Reduce()
}

// Reduce rewrites the node bottom-up: every child is reduced first, then
// children of the same kind are spliced in and True children dropped.
// No children left yields True, one child yields that child.
//
// True is dropped for every kind, including Or and NOr where it is not an
// identity element. Callers that build or(...) around True themselves must
// not rely on Reduce keeping it.
func (l *Logic) Reduce() Expr {
	children := make([]Expr, 0, len(l.children))
	for _, c := range l.children {
		switch r := c.Reduce().(type) {
		case True:
		case *Logic:
			if r.kind == l.kind {
				children = append(children, r.children...)
			} else {
				children = append(children, r)
			}
		default:
			children = append(children, r)
		}
	}

	switch len(children) {
	case 0:
		return True{}
	case 1:
		return children[0]
	default:
		return newLogic(l.kind, children)
	}
}

// Combine joins the expressions with And and reduces the result. Nil
// expressions count as True; no expressions at all yield True.
func Combine(exprs ...Expr) Expr {
	if len(exprs) == 0 {
		return True{}
	}
	children := make([]Expr, len(exprs))
	for i, e := range exprs {
		if e == nil {
			e = True{}
		}
		children[i] = e
	}
	return newLogic(And, children).Reduce()
}
