package fsm

// Normalizer maps roles and labels of one or more FSMs onto dense ints,
// assigning the same int to a role or label seen again in a later call to
// Normalize. This is used for efficient Petrify output and for comparing
// two FSMs parsed from independent sources by a shared, stable numbering.
type Normalizer[R, N comparable] struct {
	roles  map[R]int
	labels map[N]int
}

// NewNormalizer returns an empty Normalizer.
func NewNormalizer[R, N comparable]() *Normalizer[R, N] {
	return &Normalizer[R, N]{
		roles:  make(map[R]int),
		labels: make(map[N]int),
	}
}

func intern[T comparable](table map[T]int, key T) int {
	if idx, ok := table[key]; ok {
		return idx
	}
	idx := len(table)
	table[key] = idx
	return idx
}

// Normalize produces a copy of input with every role and label replaced by
// its dense int index, reusing indexes assigned by earlier calls on the
// same Normalizer.
func (z *Normalizer[R, N]) Normalize(input *Fsm[R, N]) *Fsm[int, int] {
	out := &Fsm[int, int]{
		role:  intern(z.roles, input.role),
		edges: make([][]edgeRecord[int, int], len(input.edges)),
	}

	for _, node := range input.states {
		newNode := stateNode[int]{hasChoice: node.hasChoice}
		if node.hasChoice {
			newNode.choice = choices[int]{
				role:   intern(z.roles, node.choice.role),
				action: node.choice.action,
			}
		}
		out.states = append(out.states, newNode)
	}

	for from, edges := range input.edges {
		for _, e := range edges {
			out.edges[from] = append(out.edges[from], edgeRecord[int, int]{
				target:  e.target,
				message: FromLabel(intern(z.labels, e.message.Label)),
			})
		}
	}

	return out
}
