package dialogue

// Operator compares a condition's resolved value with its expected value.
type Operator string

const (
	OpEqual    Operator = "=="
	OpNotEqual Operator = "!="
)

// Line is one displayed line of dialogue.
type Line struct {
	Speaker string `json:"speaker" yaml:"speaker"` // Speaker label shown above the text
	Text    string `json:"text" yaml:"text"`
}

// Condition gates a choice. Key is either a reserved key (branch_key, isGhost,
// accepted) or a passenger run-state variable.
type Condition struct {
	Key   string   `json:"key" yaml:"key"`
	Op    Operator `json:"op,omitempty" yaml:"op,omitempty"` // "==" or "!=", empty means "=="
	Value string   `json:"value" yaml:"value"`
}

// EffectType tags an Effect.
type EffectType string

const (
	EffectSetVar       EffectType = "set_var"
	EffectGameplayHook EffectType = "gameplay_hook"
)

// Effect is applied, in list order, when the choice holding it is picked.
type Effect struct {
	Type  EffectType `json:"type" yaml:"type"`
	Key   string     `json:"key" yaml:"key"`                         // Variable name or hook key
	Value string     `json:"value,omitempty" yaml:"value,omitempty"` // Only used by set_var
}

// SetVar builds a set_var effect.
func SetVar(key, value string) Effect {
	return Effect{Type: EffectSetVar, Key: key, Value: value}
}

// Hook builds a gameplay_hook effect.
func Hook(kind HookKind) Effect {
	return Effect{Type: EffectGameplayHook, Key: string(kind)}
}

// Choice is a conditional, effect-bearing option offered at a node.
type Choice struct {
	Text       string      `json:"text" yaml:"text"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"` // All must pass; empty means always available
	Effects    []Effect    `json:"effects,omitempty" yaml:"effects,omitempty"`
	NextNodeID string      `json:"next_node_id,omitempty" yaml:"next_node_id,omitempty"`
}

// Node is one beat of dialogue.
type Node struct {
	ID             string   `json:"id" yaml:"id"`
	Lines          []Line   `json:"lines,omitempty" yaml:"lines,omitempty"`
	Choices        []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
	AutoNextNodeID string   `json:"auto_next_node_id,omitempty" yaml:"auto_next_node_id,omitempty"`
}

// HasNext reports whether the node names an automatic successor.
func (n *Node) HasNext() bool {
	return n.AutoNextNodeID != ""
}
