package model

// VariableKind distinguishes the four planning variable kinds of spec.md
// §3 "Solution".
type VariableKind int

const (
	VariableBasic VariableKind = iota
	VariableList
	VariableChained
	VariableShadow
)

// VariableDescriptor names one field of an entity class and, for basic
// variables, the value range it's drawn from.
type VariableDescriptor struct {
	Name         string
	Kind         VariableKind
	ValueRange   string // name of a ValueRange registered on the SolutionDescriptor; empty for list/chained/shadow
	ShadowSource string // for VariableShadow: the name of the shadow propagator that computes it
}

// ClassDescriptor describes one entity class: its name and its ordered set
// of variable descriptors (spec.md §3 "Solution").
type ClassDescriptor struct {
	Name      string
	Variables []VariableDescriptor
}

// VariableIndex returns the index of the named variable, or -1.
func (c *ClassDescriptor) VariableIndex(name string) int {
	for i, v := range c.Variables {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// SolutionDescriptor is the full metadata produced by the out-of-scope
// domain-model extraction step (spec.md §1, §6 "Domain-model declaration"):
// the class descriptors and named value ranges that take_working_solution
// validates entity/variable access against.
type SolutionDescriptor struct {
	Classes     []ClassDescriptor
	classIndex  map[string]int
	ValueRanges map[string]ValueRange
}

func NewSolutionDescriptor() *SolutionDescriptor {
	return &SolutionDescriptor{
		classIndex:  map[string]int{},
		ValueRanges: map[string]ValueRange{},
	}
}

// ClassIndex returns the index of the named class, or (-1, false).
func (d *SolutionDescriptor) ClassIndex(name string) (int, bool) {
	idx, ok := d.classIndex[name]
	return idx, ok
}

// Describe is a fluent builder for SolutionDescriptor, in the style of
// deppy's input.SimpleVariable fluent AddConstraint: programmatic
// construction, not reflection-based annotation scanning (that belongs to
// the out-of-scope "domain-model metadata extraction" step).
type Describe struct {
	d *SolutionDescriptor
}

func NewDescribe() *Describe {
	return &Describe{d: NewSolutionDescriptor()}
}

func (b *Describe) ValueRange(r ValueRange) *Describe {
	b.d.ValueRanges[r.Name()] = r
	return b
}

func (b *Describe) Class(name string, variables ...VariableDescriptor) *Describe {
	b.d.classIndex[name] = len(b.d.Classes)
	b.d.Classes = append(b.d.Classes, ClassDescriptor{Name: name, Variables: variables})
	return b
}

func (b *Describe) Build() *SolutionDescriptor { return b.d }

func BasicVar(name, valueRange string) VariableDescriptor {
	return VariableDescriptor{Name: name, Kind: VariableBasic, ValueRange: valueRange}
}

func ListVar(name string) VariableDescriptor {
	return VariableDescriptor{Name: name, Kind: VariableList}
}

func ChainedVar(name string) VariableDescriptor {
	return VariableDescriptor{Name: name, Kind: VariableChained}
}

func ShadowVar(name, source string) VariableDescriptor {
	return VariableDescriptor{Name: name, Kind: VariableShadow, ShadowSource: source}
}
