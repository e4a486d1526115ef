package xpath

// Program is a compiled XPath expression (spec.md §3 "CompiledProgram"):
// opaque to callers, closing over the static context it was compiled
// against. Internally it holds the parsed expression tree, which this
// engine's evaluator walks directly with lazy cursors rather than
// dispatching a separately-materialized linear opcode array — the
// closure-driven recursive evaluator gives the same pull-based streaming
// semantics an explicit stack machine would, with less state-machine
// bookkeeping risk (see DESIGN.md). The opcode vocabulary named in
// spec.md §4.3 is still realized as the dispatch cases in eval.go, and
// the static scans it calls for (predicate fast-path classification,
// last() avoidance) run directly over this tree.
type Program struct {
	Expr   Expr
	Static *StaticContext

	usesLast      bool
	usesLastKnown bool
}

// Compile parses source and performs the static checks spec.md §4.2
// names: namespace prefix resolution is deferred to evaluation time
// (where the exact QName is needed), but malformed syntax is rejected
// here as XPST0003.
func Compile(source string, sc *StaticContext) (*Program, error) {
	if sc == nil {
		sc = NewStaticContext()
	}
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &Program{Expr: expr, Static: sc}, nil
}

// UsesLast reports whether last() appears anywhere in the compiled
// program's expression tree, predicates included (spec.md §4.3 "last()
// avoidance"). The evaluator itself runs usesLast on each predicate.
func (p *Program) UsesLast() bool {
	if !p.usesLastKnown {
		p.usesLast = usesLast(p.Expr)
		p.usesLastKnown = true
	}
	return p.usesLast
}
