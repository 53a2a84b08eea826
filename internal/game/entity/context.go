package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

// FileLoader reads decoded SVAL files by root-relative path.
type FileLoader interface {
	LoadFile(rel string) ([]sval.Value, error)
	Abs(rel string) string
}

// Registries holds one registry per dispatched entity family.
type Registries struct {
	Effects   *Registry[Effect]
	Actions   *Registry[Action]
	Modifiers *Registry[Modifier]
	Skills    *Registry[SkillLevel]
	Units     *Registry[Unit]
}

// DefaultRegistries returns a fresh set of registries holding every known
// class tag. Callers may extend the result without affecting other contexts.
func DefaultRegistries() Registries {
	return Registries{
		Effects:   effectRegistry(),
		Actions:   actionRegistry(),
		Modifiers: modifierRegistry(),
		Skills:    skillRegistry(),
		Units:     unitRegistry(),
	}
}

// Context carries everything a builder needs to resolve references: the file
// loader, the buff cache, the registries and the chain of references
// currently being resolved. A Context is immutable; descending into a
// reference produces a derived copy.
type Context struct {
	loader FileLoader
	buffs  *BuffCache
	reg    Registries
	logger *zap.Logger
	chain  []string
}

// Option configures a Context.
type Option func(*Context)

// WithLogger logs reference resolution at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithBuffCache shares cache between contexts, e.g. across extraction workers.
func WithBuffCache(cache *BuffCache) Option {
	return func(c *Context) { c.buffs = cache }
}

// WithRegistries replaces the default registries.
func WithRegistries(reg Registries) Option {
	return func(c *Context) { c.reg = reg }
}

// NewContext returns a Context resolving references through loader.
//
// Precondition: loader must not be nil.
// Postcondition: the context owns a new BuffCache unless WithBuffCache is given.
func NewContext(loader FileLoader, opts ...Option) *Context {
	c := &Context{
		loader: loader,
		reg:    DefaultRegistries(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.buffs == nil {
		c.buffs = NewBuffCache()
	}
	return c
}

// Registries returns the registries this context dispatches through.
func (c *Context) Registries() Registries { return c.reg }

// Loader returns the loader every reference is read through.
func (c *Context) Loader() FileLoader { return c.loader }

// BuffCache returns the cache buff references resolve through.
func (c *Context) BuffCache() *BuffCache { return c.buffs }

// enter returns a derived context with ref appended to the reference chain, or
// a cycle error when ref is already being resolved.
func (c *Context) enter(kind, ref string) (*Context, error) {
	if slices.Contains(c.chain, ref) {
		return nil, &ReferenceError{
			Kind: kind,
			Ref:  ref,
			Path: c.loader.Abs(refFile(ref)),
			Err:  fmt.Errorf("%w: %s -> %s", ErrReferenceCycle, strings.Join(c.chain, " -> "), ref),
		}
	}
	next := *c
	next.chain = append(slices.Clip(c.chain), ref)
	return &next, nil
}

func refFile(ref string) string {
	file, _, _ := strings.Cut(ref, ":")
	return file
}

// ClassToEffect builds the effect m describes.
func (c *Context) ClassToEffect(m *sval.Mapping) (Effect, error) { return c.reg.Effects.Build(c, m) }

// ClassToAction builds the action m describes.
func (c *Context) ClassToAction(m *sval.Mapping) (Action, error) { return c.reg.Actions.Build(c, m) }

// ClassToModifier builds the modifier m describes.
func (c *Context) ClassToModifier(m *sval.Mapping) (Modifier, error) {
	return c.reg.Modifiers.Build(c, m)
}

// ClassToSkillLevel builds the skill level m describes.
func (c *Context) ClassToSkillLevel(m *sval.Mapping) (SkillLevel, error) {
	return c.reg.Skills.Build(c, m)
}

// ClassToUnit builds the unit behavior m describes.
func (c *Context) ClassToUnit(m *sval.Mapping) (Unit, error) { return c.reg.Units.Build(c, m) }

// LoadEffects reads prefix+"effect" (one mapping) or prefix+"effects" (a list
// of mappings) from m. The singular key wins when both are present.
//
// Postcondition: the result is non-nil; absent keys yield an empty slice.
func (c *Context) LoadEffects(m *sval.Mapping, prefix string) ([]Effect, error) {
	return loadFamily(c, m, c.reg.Effects, prefix+"effect", prefix+"effects")
}

// LoadActions reads prefix+"action" or prefix+"actions" from m.
func (c *Context) LoadActions(m *sval.Mapping, prefix string) ([]Action, error) {
	return loadFamily(c, m, c.reg.Actions, prefix+"action", prefix+"actions")
}

// LoadModifiers reads prefix+"modifier" or prefix+"modifiers" from m.
func (c *Context) LoadModifiers(m *sval.Mapping, prefix string) ([]Modifier, error) {
	return loadFamily(c, m, c.reg.Modifiers, prefix+"modifier", prefix+"modifiers")
}

func loadFamily[T any](c *Context, m *sval.Mapping, reg *Registry[T], single, plural string) ([]T, error) {
	if v, ok := m.Get(single); ok {
		sub, ok := v.(*sval.Mapping)
		if !ok {
			return nil, &FieldError{Key: single, Want: "dict", Got: v.Kind()}
		}
		built, err := reg.Build(c, sub)
		if err != nil {
			return nil, err
		}
		return []T{built}, nil
	}
	v, ok := m.Get(plural)
	if !ok {
		return []T{}, nil
	}
	list, ok := v.(sval.List)
	if !ok {
		return nil, &FieldError{Key: plural, Want: "array", Got: v.Kind()}
	}
	out := make([]T, 0, len(list))
	for i, elem := range list {
		sub, ok := elem.(*sval.Mapping)
		if !ok {
			return nil, &FieldError{Key: fmt.Sprintf("%s[%d]", plural, i), Want: "dict", Got: elem.Kind()}
		}
		built, err := reg.Build(c, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

// LoadUnit reads the unit file at the root-relative path and builds the unit
// behavior held by its first top-level mapping.
//
// Postcondition: failures are *ReferenceError values naming the absolute path.
func (c *Context) LoadUnit(path string) (Unit, error) {
	m, next, err := c.loadReferenced("unit", path)
	if err != nil {
		return nil, err
	}
	u, err := next.ClassToUnit(m)
	if err != nil {
		return nil, &ReferenceError{Kind: "unit", Ref: path, Path: c.loader.Abs(path), Err: err}
	}
	return u, nil
}

// LoadSkill reads the skill file at the root-relative path and builds it.
func (c *Context) LoadSkill(path string) (*Skill, error) {
	m, next, err := c.loadReferenced("skill", path)
	if err != nil {
		return nil, err
	}
	s, err := BuildSkill(next, m)
	if err != nil {
		return nil, &ReferenceError{Kind: "skill", Ref: path, Path: c.loader.Abs(path), Err: err}
	}
	return s, nil
}

var errNoMapping = errors.New("file holds no top-level mapping")

func (c *Context) loadReferenced(kind, path string) (*sval.Mapping, *Context, error) {
	next, err := c.enter(kind, path)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("resolving reference",
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Int("depth", len(next.chain)),
	)
	vals, err := c.loader.LoadFile(path)
	if err != nil {
		return nil, nil, &ReferenceError{Kind: kind, Ref: path, Path: c.loader.Abs(path), Err: err}
	}
	if len(vals) == 0 {
		return nil, nil, &ReferenceError{Kind: kind, Ref: path, Path: c.loader.Abs(path), Err: errNoMapping}
	}
	m, ok := vals[0].(*sval.Mapping)
	if !ok {
		return nil, nil, &ReferenceError{Kind: kind, Ref: path, Path: c.loader.Abs(path), Err: errNoMapping}
	}
	return m, next, nil
}

// LoadBuff resolves a "<file>:<key>" reference through the buff cache.
func (c *Context) LoadBuff(ref string) (*Buff, error) {
	file, key, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, &ReferenceError{
			Kind: "buff",
			Ref:  ref,
			Path: c.loader.Abs(ref),
			Err:  errors.New("want <file>:<key>"),
		}
	}
	return c.buffs.resolve(c, ref, file, key)
}
