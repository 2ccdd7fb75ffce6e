package models

// IntentKind tags the five supported request types.
type IntentKind string

const (
	IntentSearchByName IntentKind = "search_by_name"
	IntentShowSet      IntentKind = "show_set"
	IntentTopNValuable IntentKind = "top_n_valuable"
	IntentTotalCost    IntentKind = "total_cost"
	IntentUnknown      IntentKind = "unknown"
)

// AllIntentKinds lists the kinds in the order they are described to the model.
func AllIntentKinds() []IntentKind {
	return []IntentKind{
		IntentSearchByName,
		IntentShowSet,
		IntentTopNValuable,
		IntentTotalCost,
		IntentUnknown,
	}
}

// Intent is the classified purpose of one user turn. The concrete types below
// are the only implementations.
type Intent interface {
	Kind() IntentKind
	isIntent()
}

// SetRef is a set reference as the user wrote it (Query) and the catalog set
// it resolved to (ID, Name). ID is empty until resolution.
type SetRef struct {
	Query string `json:"query"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Resolved reports whether the reference has been matched to a catalog set.
func (r SetRef) Resolved() bool {
	return r.ID != ""
}

type SearchByName struct {
	Fragment string
}

type ShowSet struct {
	Set SetRef
}

type TopNValuable struct {
	Set SetRef
	N   int
}

type TotalCost struct {
	Set SetRef
}

// Unknown covers help requests and anything that could not be classified.
type Unknown struct {
	Raw string
}

func (SearchByName) Kind() IntentKind { return IntentSearchByName }
func (ShowSet) Kind() IntentKind      { return IntentShowSet }
func (TopNValuable) Kind() IntentKind { return IntentTopNValuable }
func (TotalCost) Kind() IntentKind    { return IntentTotalCost }
func (Unknown) Kind() IntentKind      { return IntentUnknown }

func (SearchByName) isIntent() {}
func (ShowSet) isIntent()      {}
func (TopNValuable) isIntent() {}
func (TotalCost) isIntent()    {}
func (Unknown) isIntent()      {}

// SetOf returns the set reference carried by intent, if any.
func SetOf(intent Intent) (SetRef, bool) {
	switch it := intent.(type) {
	case ShowSet:
		return it.Set, true
	case TopNValuable:
		return it.Set, true
	case TotalCost:
		return it.Set, true
	default:
		return SetRef{}, false
	}
}

// WithSet returns a copy of intent carrying ref. Intents without a set are
// returned unchanged.
func WithSet(intent Intent, ref SetRef) Intent {
	switch it := intent.(type) {
	case ShowSet:
		it.Set = ref
		return it
	case TopNValuable:
		it.Set = ref
		return it
	case TotalCost:
		it.Set = ref
		return it
	default:
		return intent
	}
}
