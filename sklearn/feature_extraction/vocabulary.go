package feature_extraction

// Vocabulary is an ordered, deduplicated set of n-gram tokens. Column
// indices are assigned in first-seen order and never change.
type Vocabulary struct {
	tokens []string
	index  map[string]int
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// Add inserts token if unseen and returns its column index.
func (v *Vocabulary) Add(token string) int {
	if idx, ok := v.index[token]; ok {
		return idx
	}
	idx := len(v.tokens)
	v.tokens = append(v.tokens, token)
	v.index[token] = idx
	return idx
}

// Index returns the column of token.
func (v *Vocabulary) Index(token string) (int, bool) {
	idx, ok := v.index[token]
	return idx, ok
}

// Tokens returns a copy of the tokens in column order.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// Len returns the number of columns.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// subset builds a vocabulary of the given columns, keeping their order.
func (v *Vocabulary) subset(keep []int) *Vocabulary {
	out := &Vocabulary{
		tokens: make([]string, 0, len(keep)),
		index:  make(map[string]int, len(keep)),
	}
	for _, j := range keep {
		out.Add(v.tokens[j])
	}
	return out
}
