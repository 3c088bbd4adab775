package weave

import "fmt"

// Query modifiers. With no modifier the query data is the key of a single
// entity. The prefix modifier returns all entities with a key starting with
// the query data.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries sent to a single path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister registers handlers of an extension.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches queries by path, for example "/escrows".
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds the handler to the path. Registering a path twice is a
// programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
