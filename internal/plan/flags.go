package plan

// Flag names an optional feature the user can enable.
type Flag string

// Feature flags in declared order.
const (
	FlagRouter        Flag = "router"
	FlagTabs          Flag = "tabs"
	FlagStyling       Flag = "styling"
	FlagBuildProfiles Flag = "buildProfiles"
)

type flagDecl struct {
	flag   Flag
	parent Flag
}

// declaredFlags fixes both the feature order and the parent/child relations.
var declaredFlags = []flagDecl{
	{flag: FlagRouter},
	{flag: FlagTabs, parent: FlagRouter},
	{flag: FlagStyling},
	{flag: FlagBuildProfiles},
}

// Flags returns every declared flag in execution order.
func Flags() []Flag {
	out := make([]Flag, len(declaredFlags))
	for i, decl := range declaredFlags {
		out[i] = decl.flag
	}
	return out
}

// Parent returns the flag f depends on, if any.
func Parent(f Flag) (Flag, bool) {
	for _, decl := range declaredFlags {
		if decl.flag == f && decl.parent != "" {
			return decl.parent, true
		}
	}
	return "", false
}

// resolveFlags copies the declared flags out of raw and forces every child
// off when its parent is off. Parents are declared before their children,
// so one ordered pass is enough.
func resolveFlags(raw map[Flag]bool) map[Flag]bool {
	out := make(map[Flag]bool, len(declaredFlags))
	for _, decl := range declaredFlags {
		value := raw[decl.flag]
		if decl.parent != "" && !out[decl.parent] {
			value = false
		}
		out[decl.flag] = value
	}
	return out
}
