package entity

type KeywordName string

func (k KeywordName) String() string {
	return string(k)
}

type KeywordDefinition struct {
	Name        KeywordName            `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Invocation is one line of a keyword script.
type Invocation struct {
	Keyword KeywordName    `json:"keyword"`
	Args    map[string]any `json:"args"`
}
