package decl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"svcore/internal/diag"
	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/types"
)

// Options controls loading.
type Options struct {
	// Target overrides the [target] table when non-nil.
	Target *layout.Target
	// MaxDiagnostics bounds the bag; 0 selects a default.
	MaxDiagnostics int
	Logger         *zap.Logger
}

// Result is everything learnt from one declaration file.
type Result struct {
	Path    string
	Target  layout.Target
	Catalog *types.Catalog
	Bag     *diag.Bag
	// Files holds the loaded content for rendering source context.
	Files *source.FileSet
	// Declared lists the user declared names in declaration order.
	Declared []string
}

// Load reads and checks the declaration file at path. The error is only set
// when the file cannot be read; every problem with its content is reported
// in Result.Bag.
func Load(path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return parse(fs, id, opts), nil
}

// Parse checks declarations held in memory; name is used in origins.
func Parse(name string, content []byte, opts Options) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return parse(fs, id, opts)
}

type loader struct {
	fs   *source.FileSet
	file *source.File
	opts Options
	log  *zap.Logger
	res  *Result
	rep  diag.Reporter
}

func parse(fs *source.FileSet, id source.FileID, opts Options) *Result {
	f, _ := fs.Get(id)
	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = 256
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	res := &Result{Path: f.Path, Bag: diag.NewBag(limit), Files: fs}
	l := &loader{
		fs:   fs,
		file: f,
		opts: opts,
		log:  log.With(zap.String("file", f.Path)),
		res:  res,
		rep:  diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag}),
	}
	l.run()
	res.Bag.Sort()
	return res
}

func (l *loader) run() {
	var spec File
	meta, err := toml.Decode(string(l.file.Content), &spec)
	if err != nil {
		l.syntaxError(err)
		return
	}
	for _, key := range meta.Undecoded() {
		diag.ReportWarning(l.rep, diag.DclUnknownField, l.fileOrigin(), fmt.Sprintf("unknown field %q", key.String())).Emit()
	}

	target, ok := l.target(spec.Target, meta.IsDefined("target"))
	if !ok {
		return
	}
	l.res.Target = target
	l.res.Catalog = types.NewCatalog(target)
	l.log.Debug("declarations decoded",
		zap.String("target", target.Name),
		zap.Int("integral", len(spec.Integral)),
		zap.Int("enum", len(spec.Enum)),
		zap.Int("typedef", len(spec.Typedef)))

	for _, td := range spec.Typedef {
		l.forward(td)
	}
	for _, it := range spec.Integral {
		l.integral(it)
	}
	for _, r := range spec.Real {
		l.real(r)
	}
	for _, s := range spec.String {
		l.str(s)
	}
	for _, n := range spec.Event {
		l.declare(n, types.NewEvent(n.Name, l.origin(n)))
	}
	for _, n := range spec.Chandle {
		l.declare(n, types.NewChandle(n.Name, l.origin(n)))
	}
	for _, n := range spec.Class {
		l.declare(n, types.NewClass(n.Name, l.origin(n)))
	}
	l.settle(spec.Enum, spec.Typedef)

	for _, td := range l.res.Catalog.Unresolved() {
		diag.ReportWarning(l.rep, diag.DclUnresolvedAtEOF, td.Origin(), fmt.Sprintf("typedef %s is never resolved", td.Name())).Emit()
	}
}

// settle declares enums and resolves typedefs in passes until nothing more
// can be done, so declarations may refer to each other in any order.
func (l *loader) settle(enums []EnumSpec, typedefs []TypedefSpec) {
	pendingEnums := make([]EnumSpec, 0, len(enums))
	for _, e := range enums {
		if l.claim(e.NamedSpec) {
			pendingEnums = append(pendingEnums, e)
		}
	}
	pendingDefs := make([]TypedefSpec, 0, len(typedefs))
	for _, td := range typedefs {
		if td.Target != "" {
			pendingDefs = append(pendingDefs, td)
		}
	}

	for progress := true; progress; {
		progress = false
		var waitingEnums []EnumSpec
		for _, e := range pendingEnums {
			if l.enum(e) {
				progress = true
			} else {
				waitingEnums = append(waitingEnums, e)
			}
		}
		pendingEnums = waitingEnums

		var waitingDefs []TypedefSpec
		for _, td := range pendingDefs {
			if _, _, ok := l.res.Catalog.ByName(td.Target); !ok {
				waitingDefs = append(waitingDefs, td)
				continue
			}
			l.resolve(td)
			progress = true
		}
		pendingDefs = waitingDefs
	}

	for _, e := range pendingEnums {
		l.unknown(l.origin(e.NamedSpec), e.Base, "enum "+e.Name)
	}
	for _, td := range pendingDefs {
		l.unknown(l.origin(td.NamedSpec), td.Target, "typedef "+td.Name)
	}
}

func (l *loader) target(spec TargetSpec, defined bool) (layout.Target, bool) {
	if l.opts.Target != nil {
		return *l.opts.Target, true
	}
	if !defined {
		return layout.Host(), true
	}
	t, ok := layout.TargetByName(spec.Name)
	if !ok {
		diag.ReportError(l.rep, diag.DclBadTarget, l.locate("name", spec.Name), fmt.Sprintf("unknown target %q", spec.Name)).Emit()
		return layout.Target{}, false
	}
	if spec.WordBits != 0 {
		t.WordBits = spec.WordBits
		t.Name = fmt.Sprintf("%s/w%d", t.Name, spec.WordBits)
	}
	if spec.PtrBytes != 0 {
		t.PtrBytes = spec.PtrBytes
	}
	if err := t.Validate(); err != nil {
		diag.ReportError(l.rep, diag.DclBadTarget, l.fileOrigin(), err.Error()).Emit()
		return layout.Target{}, false
	}
	return t, true
}

// claim checks the name of a declaration and records it.
func (l *loader) claim(n NamedSpec) bool {
	if strings.TrimSpace(n.Name) == "" {
		diag.ReportError(l.rep, diag.DclMissingName, l.fileOrigin(), "declaration without a name").Emit()
		return false
	}
	l.res.Declared = append(l.res.Declared, n.Name)
	return true
}

func (l *loader) declare(n NamedSpec, t types.Type) {
	if !l.claim(n) {
		return
	}
	if _, err := l.res.Catalog.Declare(t); err != nil {
		diag.ReportErr(l.rep, err)
	}
}

func (l *loader) forward(td TypedefSpec) {
	if !l.claim(td.NamedSpec) {
		return
	}
	expect := types.KindInvalid
	if td.Kind != "" {
		k, ok := types.KindByName(td.Kind)
		if !ok {
			diag.ReportError(l.rep, diag.DclBadKind, l.origin(td.NamedSpec), fmt.Sprintf("unknown kind %q", td.Kind)).Emit()
		}
		expect = k
	}
	if _, err := l.res.Catalog.Forward(td.Name, l.origin(td.NamedSpec), expect); err != nil {
		diag.ReportErr(l.rep, err)
	}
}

func (l *loader) resolve(td TypedefSpec) {
	_, target, _ := l.res.Catalog.ByName(td.Target)
	if err := l.res.Catalog.Resolve(td.Name, target); err != nil {
		diag.ReportErr(l.rep, err)
	}
}

func (l *loader) integral(spec IntegralSpec) {
	origin := l.origin(spec.NamedSpec)
	vec := layout.Vector{FourState: spec.FourState, Signed: spec.Signed, Sized: spec.Sized == nil || *spec.Sized}
	var ok bool
	if vec.Packed, ok = l.dims(spec.NamedSpec, "packed", spec.Packed); !ok {
		return
	}
	if vec.Unpacked, ok = l.dims(spec.NamedSpec, "unpacked", spec.Unpacked); !ok {
		return
	}
	it := types.NewIntegral(spec.Name, origin, vec)
	switch {
	case spec.Value != "" && spec.Int != nil:
		diag.ReportError(l.rep, diag.DclBadValue, origin, "value and int are mutually exclusive").Emit()
		return
	case spec.Value != "":
		states, err := layout.ParseBits(spec.Value)
		if err != nil {
			diag.ReportError(l.rep, diag.DclBadValue, origin, err.Error()).Emit()
			return
		}
		if err := it.AssignBits(l.res.Target, states); err != nil {
			diag.ReportErr(l.rep, err)
			return
		}
	case spec.Int != nil:
		if err := it.AssignInt(l.res.Target, *spec.Int); err != nil {
			diag.ReportErr(l.rep, err)
			return
		}
	default:
		// validate the layout even when no value is given
		if _, err := it.Shape(l.res.Target); err != nil && vec.Sized {
			diag.ReportErr(l.rep, err)
			return
		}
	}
	l.declare(spec.NamedSpec, it)
}

func (l *loader) dims(n NamedSpec, field string, raw [][]int64) (layout.Dimensions, bool) {
	if raw == nil {
		return layout.Dimensions{}, true
	}
	ds := make([]layout.Dimension, 0, len(raw))
	for _, r := range raw {
		if len(r) != 2 {
			diag.ReportError(l.rep, diag.DclBadValue, l.origin(n),
				fmt.Sprintf("%s: %s range needs [left, right], got %v", n.Name, field, r)).Emit()
			return layout.Dimensions{}, false
		}
		ds = append(ds, layout.Dim(r[0], r[1]))
	}
	return layout.Ranges(ds...), true
}

func (l *loader) real(spec RealSpec) {
	p := types.PrecisionReal
	switch spec.Precision {
	case "", "real":
	case "realtime":
		p = types.PrecisionRealtime
	case "shortreal":
		p = types.PrecisionShortreal
	default:
		diag.ReportError(l.rep, diag.DclBadValue, l.origin(spec.NamedSpec), fmt.Sprintf("unknown precision %q", spec.Precision)).Emit()
		return
	}
	r := types.NewReal(spec.Name, l.origin(spec.NamedSpec), p)
	if spec.Value != nil {
		r.Set(*spec.Value)
	}
	l.declare(spec.NamedSpec, r)
}

func (l *loader) str(spec ValueSpec) {
	s := types.NewString(spec.Name, l.origin(spec.NamedSpec))
	if spec.Value != nil {
		s.Set(*spec.Value)
	}
	l.declare(spec.NamedSpec, s)
}

// enum declares e once its base is known. It reports whether e is settled,
// successfully or not.
func (l *loader) enum(e EnumSpec) bool {
	origin := l.origin(e.NamedSpec)
	var base *types.Integral
	if e.Base != "" {
		_, t, ok := l.res.Catalog.ByName(e.Base)
		if !ok {
			return false
		}
		u, err := types.Underlying(t)
		if err != nil {
			if td, isTypedef := t.(*types.Typedef); isTypedef && !td.Resolved() {
				return false
			}
			diag.ReportErr(l.rep, err)
			return true
		}
		if base, ok = u.(*types.Integral); !ok {
			diag.ReportError(l.rep, diag.TypInvalidEnumBase, origin,
				fmt.Sprintf("enum %s: base %s is a %s", e.Name, e.Base, u.Kind())).Emit()
			return true
		}
	}
	members := make([]types.EnumMemberSpec, len(e.Members))
	for i, m := range e.Members {
		members[i] = types.EnumMemberSpec{Name: m.Name, Value: m.Value, Origin: l.parseOrigin(m.Origin)}
		if members[i].Origin == nil {
			members[i].Origin = l.locate("name", m.Name)
		}
	}
	en, err := types.NewEnum(e.Name, origin, base, l.res.Target, members)
	if err != nil {
		diag.ReportErr(l.rep, err)
		return true
	}
	if _, err := l.res.Catalog.Declare(en); err != nil {
		diag.ReportErr(l.rep, err)
	}
	return true
}

func (l *loader) unknown(origin *source.Origin, name, what string) {
	diag.ReportError(l.rep, diag.TypUnknownType, origin, fmt.Sprintf("%s refers to unknown type %q", what, name)).Emit()
}

func (l *loader) syntaxError(err error) {
	var pe toml.ParseError
	origin := l.fileOrigin()
	if errors.As(err, &pe) {
		if o := l.span(pe.Position.Start, pe.Position.Len); o != nil {
			origin = o
		}
		diag.ReportError(l.rep, diag.DclSyntax, origin, pe.Message).Emit()
		return
	}
	diag.ReportError(l.rep, diag.DclSyntax, origin, err.Error()).Emit()
}

// origin prefers the explicit origin of a declaration and falls back to its
// position inside the declaration file.
func (l *loader) origin(n NamedSpec) *source.Origin {
	if o := l.parseOrigin(n.Origin); o != nil {
		return o
	}
	return l.locate("name", n.Name)
}

func (l *loader) parseOrigin(s string) *source.Origin {
	if s == "" {
		return nil
	}
	o, err := source.ParseOrigin(s)
	if err != nil {
		diag.ReportWarning(l.rep, diag.DclBadOrigin, l.locate("origin", s), err.Error()).Emit()
		return nil
	}
	return &o
}

// locate finds the first `key = "value"` line of the declaration file.
func (l *loader) locate(key, value string) *source.Origin {
	if value == "" {
		return nil
	}
	re, err := regexp.Compile(`(?m)^[ \t]*` + regexp.QuoteMeta(key) + `[ \t]*=[ \t]*"` + regexp.QuoteMeta(value) + `"`)
	if err != nil {
		return nil
	}
	loc := re.FindIndex(l.file.Content)
	if loc == nil {
		return nil
	}
	match := string(l.file.Content[loc[0]:loc[1]])
	start := loc[0] + len(match) - len(strings.TrimLeft(match, " \t"))
	return l.span(start, loc[1]-start)
}

func (l *loader) span(start, length int) *source.Origin {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return nil
	}
	n, err := safecast.Conv[uint32](max(length, 1))
	if err != nil {
		return nil
	}
	o, err := l.fs.Origin(source.Span{File: l.file.ID, Start: s, End: s + n})
	if err != nil {
		return nil
	}
	return &o
}

func (l *loader) fileOrigin() *source.Origin {
	return l.span(0, 1)
}
